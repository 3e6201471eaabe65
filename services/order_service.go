package services

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dapurkita/restaurant-manager/live"
	"github.com/dapurkita/restaurant-manager/models"
	"github.com/dapurkita/restaurant-manager/utils"
)

// ErrCheckoutFailed is the only error surfaced to customers when the
// checkout transaction itself fails; details stay in the server log.
var ErrCheckoutFailed = errors.New("failed to place order")

type OrderService struct {
	db       *gorm.DB
	settings *SettingsService
	loyalty  *LoyaltyService
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{
		db:       db,
		settings: NewSettingsService(db),
		loyalty:  NewLoyaltyService(db),
	}
}

type CheckoutInput struct {
	CustomerID          uint
	Cart                []CartLine
	OrderType           string
	TableID             *uint
	PaymentMethod       string
	SpecialInstructions string
}

// Checkout turns a session cart into a persisted order. Prices are re-read
// from menu_items; the transaction covers the order row, all order_items and
// the loyalty award, so a failure anywhere leaves nothing behind.
func (s *OrderService) Checkout(in CheckoutInput) (*models.Order, error) {
	if len(in.Cart) == 0 {
		return nil, utils.Validationf("cart is empty")
	}
	if !models.ValidOrderType(in.OrderType) {
		return nil, utils.Validationf("invalid order type")
	}
	if !models.ValidPaymentMethod(in.PaymentMethod) {
		return nil, utils.Validationf("invalid payment method")
	}

	if in.OrderType == models.OrderTypeDineIn {
		if in.TableID == nil {
			return nil, utils.Validationf("table is required for dine-in orders")
		}
		var table models.Table
		if err := s.db.First(&table, *in.TableID).Error; err != nil {
			return nil, utils.NewNotFoundError("table not found")
		}
		if !table.IsAvailable {
			return nil, utils.Validationf("table is not available")
		}
	} else {
		in.TableID = nil
	}

	// Re-read authoritative prices before opening the transaction.
	type pricedLine struct {
		item models.MenuItem
		qty  int
	}
	lines := make([]pricedLine, 0, len(in.Cart))
	var subtotal float64
	for _, line := range in.Cart {
		if line.Quantity < 1 {
			return nil, utils.Validationf("item quantity must be at least 1")
		}
		var item models.MenuItem
		if err := s.db.First(&item, line.MenuItemID).Error; err != nil {
			return nil, utils.Validationf(fmt.Sprintf("menu item %d is no longer offered", line.MenuItemID))
		}
		if !item.IsAvailable {
			return nil, utils.Validationf(fmt.Sprintf("%s is currently unavailable", item.Name))
		}
		lines = append(lines, pricedLine{item: item, qty: line.Quantity})
		subtotal += item.Price * float64(line.Quantity)
	}

	subtotal = utils.RoundMoney(subtotal)
	taxRate := s.settings.TaxRate()
	tax := utils.RoundMoney(subtotal * taxRate / 100)
	final := utils.RoundMoney(subtotal + tax)
	points := int(math.Floor(final))

	order := models.Order{
		OrderNumber:         newOrderNumber(),
		CustomerID:          in.CustomerID,
		OrderType:           in.OrderType,
		Status:              models.OrderStatusPending,
		PaymentStatus:       models.PaymentStatusPending,
		PaymentMethod:       in.PaymentMethod,
		TableID:             in.TableID,
		TotalAmount:         subtotal,
		TaxAmount:           tax,
		FinalAmount:         final,
		SpecialInstructions: in.SpecialInstructions,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		for _, line := range lines {
			orderItem := models.OrderItem{
				OrderID:    order.ID,
				MenuItemID: line.item.ID,
				Quantity:   line.qty,
				UnitPrice:  line.item.Price,
				TotalPrice: utils.RoundMoney(line.item.Price * float64(line.qty)),
			}
			if err := tx.Create(&orderItem).Error; err != nil {
				return err
			}
		}
		return s.loyalty.AwardWithinTx(tx, in.CustomerID, points, final)
	})
	if err != nil {
		utils.ErrorLogger.Printf("checkout failed for customer %d: %v", in.CustomerID, err)
		utils.CheckoutFailedTotal.Inc()
		return nil, ErrCheckoutFailed
	}

	utils.OrdersCreatedTotal.Inc()
	if err := s.db.Preload("OrderItems").Preload("OrderItems.MenuItem").First(&order, order.ID).Error; err == nil {
		live.BroadcastOrderUpdate(order)
	}
	return &order, nil
}

// UpdateStatus moves an order along its state machine. Completing an order
// also records a customer visit.
func (s *OrderService) UpdateStatus(orderID uint, target string) (*models.Order, error) {
	var order models.Order
	if err := s.db.First(&order, orderID).Error; err != nil {
		return nil, utils.NewNotFoundError("order not found")
	}

	if !order.CanTransitionTo(target) {
		return nil, utils.Validationf(fmt.Sprintf("cannot move order from %s to %s", order.Status, target))
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		order.Status = target

		if target == models.OrderStatusCancelled && order.PaymentStatus == models.PaymentStatusPaid {
			order.PaymentStatus = models.PaymentStatusRefunded
		}
		if err := tx.Save(&order).Error; err != nil {
			return err
		}

		if target == models.OrderStatusCompleted || target == models.OrderStatusDelivered {
			return s.loyalty.RecordVisitWithinTx(tx, order.CustomerID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	live.BroadcastOrderUpdate(order)
	return &order, nil
}

// MarkPaid flips a cash order to paid. Online payments go through the
// gateway callback instead.
func (s *OrderService) MarkPaid(orderID uint) (*models.Order, error) {
	var order models.Order
	if err := s.db.First(&order, orderID).Error; err != nil {
		return nil, utils.NewNotFoundError("order not found")
	}

	if order.PaymentStatus != models.PaymentStatusPending {
		return nil, utils.Validationf(fmt.Sprintf("order payment is already %s", order.PaymentStatus))
	}

	order.PaymentStatus = models.PaymentStatusPaid
	if err := s.db.Save(&order).Error; err != nil {
		return nil, err
	}

	live.BroadcastOrderUpdate(order)
	return &order, nil
}

func newOrderNumber() string {
	short := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:10]
	return fmt.Sprintf("ORD-%s-%s", time.Now().Format("20060102"), short)
}
