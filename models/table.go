package models

import "time"

type Table struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	TableNumber string    `gorm:"type:varchar(50);unique;not null" json:"table_number"`
	Capacity    int       `gorm:"not null;default:2" json:"capacity"`
	Location    string    `gorm:"type:varchar(100)" json:"location"`
	IsAvailable bool      `gorm:"not null;default:true" json:"is_available"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null" json:"updated_at"`
}
