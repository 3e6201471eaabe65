package models

import "time"

// Payment methods accepted at checkout.
const (
	PaymentMethodCash = "cash"
	PaymentMethodQris = "qris"
	PaymentMethodCard = "card"
)

// Payment represents a single gateway transaction attempt for an order.
// Cash orders have no Payment row; staff flips the order's payment_status
// directly.
type Payment struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	OrderID     uint       `gorm:"not null;index" json:"order_id"`
	Order       Order      `gorm:"foreignKey:OrderID;references:ID" json:"-"`
	ReferenceID string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"reference_id"`
	Method      string     `gorm:"type:varchar(20);not null" json:"method"`
	Amount      float64    `gorm:"type:decimal(10,2);not null" json:"amount"`
	Status      string     `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	QRImageURL  string     `gorm:"type:varchar(255)" json:"qr_image_url"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`
	ExpiredAt   *time.Time `json:"expired_at,omitempty"`
	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null" json:"updated_at"`
}

func ValidPaymentMethod(m string) bool {
	return m == PaymentMethodCash || m == PaymentMethodQris || m == PaymentMethodCard
}
