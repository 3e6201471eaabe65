package models

import "time"

// User roles
const (
	RoleCustomer = "customer"
	RoleStaff    = "staff"
	RoleManager  = "manager"
	RoleAdmin    = "admin"
)

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"type:varchar(50);unique;not null" json:"username"`
	Email     string    `gorm:"type:varchar(255);unique;not null" json:"email"`
	Password  string    `gorm:"type:varchar(255);not null" json:"-"`
	FirstName string    `gorm:"type:varchar(100)" json:"first_name"`
	LastName  string    `gorm:"type:varchar(100)" json:"last_name"`
	Phone     string    `gorm:"type:varchar(30)" json:"phone"`
	UserType  string    `gorm:"type:varchar(20);not null;default:'customer'" json:"user_type"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// IsStaffRole reports whether the user may access the back office.
func (u *User) IsStaffRole() bool {
	return u.UserType == RoleStaff || u.UserType == RoleManager || u.UserType == RoleAdmin
}

func (u *User) FullName() string {
	if u.FirstName == "" && u.LastName == "" {
		return u.Username
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
