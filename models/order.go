package models

import "time"

// Order types
const (
	OrderTypeDineIn   = "dine_in"
	OrderTypeTakeout  = "takeout"
	OrderTypeDelivery = "delivery"
)

// Order statuses
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusPreparing = "preparing"
	OrderStatusReady     = "ready"
	OrderStatusCompleted = "completed"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// Payment statuses
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusRefunded = "refunded"
	PaymentStatusFailed   = "failed"
)

type Order struct {
	ID                  uint        `gorm:"primaryKey" json:"id"`
	OrderNumber         string      `gorm:"type:varchar(40);uniqueIndex;not null" json:"order_number"`
	CustomerID          uint        `gorm:"not null;index" json:"customer_id"`
	Customer            User        `gorm:"foreignKey:CustomerID;references:ID" json:"customer"`
	OrderType           string      `gorm:"type:varchar(20);not null" json:"order_type"`
	Status              string      `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	PaymentStatus       string      `gorm:"type:varchar(20);not null;default:'pending'" json:"payment_status"`
	PaymentMethod       string      `gorm:"type:varchar(20);not null;default:'cash'" json:"payment_method"`
	TableID             *uint       `gorm:"index" json:"table_id,omitempty"`
	Table               *Table      `gorm:"foreignKey:TableID;references:ID" json:"table,omitempty"`
	TotalAmount         float64     `gorm:"type:decimal(10,2);not null;default:0.00" json:"total_amount"`
	TaxAmount           float64     `gorm:"type:decimal(10,2);not null;default:0.00" json:"tax_amount"`
	FinalAmount         float64     `gorm:"type:decimal(10,2);not null;default:0.00" json:"final_amount"`
	SpecialInstructions string      `gorm:"type:text" json:"special_instructions"`
	OrderItems          []OrderItem `gorm:"foreignKey:OrderID" json:"order_items"`
	CreatedAt           time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt           time.Time   `gorm:"not null" json:"updated_at"`
}

// orderTransitions lists the allowed forward moves per status.
var orderTransitions = map[string][]string{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusPreparing, OrderStatusCancelled},
	OrderStatusPreparing: {OrderStatusReady},
	OrderStatusReady:     {OrderStatusCompleted, OrderStatusDelivered},
}

// CanTransitionTo reports whether the order may move to the target status.
// Delivery orders terminate in "delivered", everything else in "completed".
func (o *Order) CanTransitionTo(target string) bool {
	for _, next := range orderTransitions[o.Status] {
		if next != target {
			continue
		}
		if target == OrderStatusDelivered && o.OrderType != OrderTypeDelivery {
			return false
		}
		if target == OrderStatusCompleted && o.OrderType == OrderTypeDelivery {
			return false
		}
		return true
	}
	return false
}

// IsTerminal reports whether no further status change is allowed.
func (o *Order) IsTerminal() bool {
	return len(orderTransitions[o.Status]) == 0
}

func ValidOrderType(t string) bool {
	return t == OrderTypeDineIn || t == OrderTypeTakeout || t == OrderTypeDelivery
}
