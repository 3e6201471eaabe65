package models

import "time"

type Category struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	Name             string     `gorm:"type:varchar(100);not null" json:"name"`
	Description      string     `gorm:"type:text" json:"description"`
	ParentCategoryID *uint      `gorm:"index" json:"parent_category_id,omitempty"`
	ParentCategory   *Category  `gorm:"foreignKey:ParentCategoryID;references:ID" json:"-"`
	SortOrder        int        `gorm:"not null;default:0" json:"sort_order"`
	IsActive         bool       `gorm:"not null;default:true" json:"is_active"`
	CreatedAt        time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"not null" json:"updated_at"`
	MenuItems        []MenuItem `gorm:"foreignKey:CategoryID" json:"menu_items,omitempty"`
}
