package models

import "time"

// Price bounds enforced by the menu service.
const (
	MenuItemMinPrice = 0.0
	MenuItemMaxPrice = 9999.99
)

type MenuItem struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CategoryID   uint      `gorm:"not null;index" json:"category_id"`
	Category     Category  `gorm:"foreignKey:CategoryID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"category"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	Description  string    `gorm:"type:text" json:"description"`
	Price        float64   `gorm:"type:decimal(10,2);not null" json:"price"`
	IsAvailable  bool      `gorm:"not null;default:true" json:"is_available"`
	IsFeatured   bool      `gorm:"not null;default:false" json:"is_featured"`
	IsVegetarian bool      `gorm:"not null;default:false" json:"is_vegetarian"`
	IsVegan      bool      `gorm:"not null;default:false" json:"is_vegan"`
	IsGlutenFree bool      `gorm:"not null;default:false" json:"is_gluten_free"`
	SpiceLevel   int       `gorm:"not null;default:0" json:"spice_level"` // 0..4
	CreatedAt    time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}

// ValidPrice reports whether p is inside the allowed menu price range.
func ValidPrice(p float64) bool {
	return p >= MenuItemMinPrice && p <= MenuItemMaxPrice
}
