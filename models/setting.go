package models

import "time"

// Well-known setting keys.
const (
	SettingTaxRate        = "tax_rate"
	SettingRestaurantName = "restaurant_name"
)

type Setting struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SettingKey   string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"setting_key"`
	SettingValue string    `gorm:"type:varchar(255);not null" json:"setting_value"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}
