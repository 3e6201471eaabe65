package models

import "time"

type Review struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CustomerID uint      `gorm:"not null;index:idx_review_triple,unique" json:"customer_id"`
	Customer   User      `gorm:"foreignKey:CustomerID;references:ID" json:"customer"`
	OrderID    uint      `gorm:"not null;index:idx_review_triple,unique" json:"order_id"`
	Order      Order     `gorm:"foreignKey:OrderID;references:ID" json:"-"`
	MenuItemID uint      `gorm:"not null;index:idx_review_triple,unique" json:"menu_item_id"`
	MenuItem   MenuItem  `gorm:"foreignKey:MenuItemID;references:ID" json:"menu_item"`
	Rating     int       `gorm:"not null" json:"rating"` // clamped to 1..5
	Comment    string    `gorm:"type:text" json:"comment"`
	IsVerified bool      `gorm:"not null;default:false" json:"is_verified"`
	IsFeatured bool      `gorm:"not null;default:false" json:"is_featured"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}

// ClampRating forces a rating into the 1..5 range.
func ClampRating(rating int) int {
	if rating < 1 {
		return 1
	}
	if rating > 5 {
		return 5
	}
	return rating
}
