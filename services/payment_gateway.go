package services

import (
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
	"gorm.io/gorm"

	"github.com/dapurkita/restaurant-manager/live"
	"github.com/dapurkita/restaurant-manager/models"
	"github.com/dapurkita/restaurant-manager/utils"
)

// PaymentGateway wraps the Midtrans client for non-cash checkout. QRIS goes
// through the core API (returns a QR image), card through Snap (returns a
// redirect URL).
type PaymentGateway struct {
	db        *gorm.DB
	core      coreapi.Client
	snap      snap.Client
	serverKey string
	expiry    time.Duration
}

func NewPaymentGateway(db *gorm.DB) *PaymentGateway {
	serverKey := os.Getenv("MIDTRANS_SERVER_KEY")
	env := midtrans.Sandbox
	if os.Getenv("MIDTRANS_ENV") == "production" {
		env = midtrans.Production
	}

	gateway := &PaymentGateway{
		db:        db,
		serverKey: serverKey,
		expiry:    30 * time.Minute,
	}
	gateway.core.New(serverKey, env)
	gateway.snap.New(serverKey, env)
	return gateway
}

// CreateTransaction opens a gateway transaction for an unpaid order and
// records the Payment row.
func (g *PaymentGateway) CreateTransaction(order *models.Order) (*models.Payment, error) {
	if order.PaymentStatus != models.PaymentStatusPending {
		return nil, utils.Validationf(fmt.Sprintf("order payment is already %s", order.PaymentStatus))
	}
	if order.PaymentMethod == models.PaymentMethodCash {
		return nil, utils.Validationf("cash orders are settled at the counter")
	}

	reference := fmt.Sprintf("%s-%s", order.OrderNumber, uuid.NewString()[:8])
	expiredAt := time.Now().Add(g.expiry)

	payment := models.Payment{
		OrderID:     order.ID,
		ReferenceID: reference,
		Method:      order.PaymentMethod,
		Amount:      order.FinalAmount,
		Status:      models.PaymentStatusPending,
		ExpiredAt:   &expiredAt,
	}

	switch order.PaymentMethod {
	case models.PaymentMethodQris:
		resp, mErr := g.core.ChargeTransaction(&coreapi.ChargeReq{
			PaymentType: coreapi.PaymentTypeQris,
			TransactionDetails: midtrans.TransactionDetails{
				OrderID:  reference,
				GrossAmt: int64(order.FinalAmount),
			},
		})
		if mErr != nil {
			utils.ErrorLogger.Printf("midtrans qris charge failed for order %d: %v", order.ID, mErr)
			return nil, fmt.Errorf("payment gateway error: %w", mErr)
		}
		for _, action := range resp.Actions {
			if action.Name == "generate-qr-code" {
				payment.QRImageURL = action.URL
			}
		}
	case models.PaymentMethodCard:
		resp, mErr := g.snap.CreateTransaction(&snap.Request{
			TransactionDetails: midtrans.TransactionDetails{
				OrderID:  reference,
				GrossAmt: int64(order.FinalAmount),
			},
		})
		if mErr != nil {
			utils.ErrorLogger.Printf("midtrans snap transaction failed for order %d: %v", order.ID, mErr)
			return nil, fmt.Errorf("payment gateway error: %w", mErr)
		}
		payment.QRImageURL = resp.RedirectURL
	default:
		return nil, utils.Validationf("unsupported payment method")
	}

	if err := g.db.Create(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

// CallbackPayload is the subset of the Midtrans notification we act on.
type CallbackPayload struct {
	OrderID           string `json:"order_id"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
}

// VerifySignature checks sha512(order_id + status_code + gross_amount +
// server_key) against the signature the gateway sent.
func (g *PaymentGateway) VerifySignature(p CallbackPayload) bool {
	sum := sha512.Sum512([]byte(p.OrderID + p.StatusCode + p.GrossAmount + g.serverKey))
	return hex.EncodeToString(sum[:]) == p.SignatureKey
}

// HandleCallback applies a verified gateway notification to the payment and
// its order inside one transaction.
func (g *PaymentGateway) HandleCallback(p CallbackPayload) error {
	if !g.VerifySignature(p) {
		return utils.NewAuthError("invalid callback signature")
	}

	var payment models.Payment
	if err := g.db.Where("reference_id = ?", p.OrderID).First(&payment).Error; err != nil {
		return utils.NewNotFoundError("unknown payment reference")
	}

	newStatus := mapTransactionStatus(p.TransactionStatus, p.FraudStatus)
	if newStatus == "" || payment.Status == newStatus {
		return nil
	}

	err := g.db.Transaction(func(tx *gorm.DB) error {
		payment.Status = newStatus
		if newStatus == models.PaymentStatusPaid {
			now := time.Now()
			payment.PaidAt = &now
		}
		if err := tx.Save(&payment).Error; err != nil {
			return err
		}

		return tx.Model(&models.Order{}).
			Where("id = ?", payment.OrderID).
			Update("payment_status", newStatus).Error
	})
	if err != nil {
		return err
	}

	live.BroadcastPaymentUpdate(payment)
	return nil
}

// CheckStatus polls Midtrans for the latest transaction state and applies it.
func (g *PaymentGateway) CheckStatus(paymentID uint) (*models.Payment, error) {
	var payment models.Payment
	if err := g.db.First(&payment, paymentID).Error; err != nil {
		return nil, utils.NewNotFoundError("payment not found")
	}

	resp, mErr := g.core.CheckTransaction(payment.ReferenceID)
	if mErr != nil {
		return nil, fmt.Errorf("payment gateway error: %w", mErr)
	}

	newStatus := mapTransactionStatus(resp.TransactionStatus, resp.FraudStatus)
	if newStatus != "" && newStatus != payment.Status {
		payment.Status = newStatus
		if newStatus == models.PaymentStatusPaid {
			now := time.Now()
			payment.PaidAt = &now
		}
		if err := g.db.Save(&payment).Error; err != nil {
			return nil, err
		}
		if err := g.db.Model(&models.Order{}).
			Where("id = ?", payment.OrderID).
			Update("payment_status", newStatus).Error; err != nil {
			return nil, err
		}
	}
	return &payment, nil
}

// SweepExpired fails pending payments whose expiry has passed.
func (g *PaymentGateway) SweepExpired() {
	var payments []models.Payment
	err := g.db.Where("status = ? AND expired_at IS NOT NULL AND expired_at < ?",
		models.PaymentStatusPending, time.Now()).Find(&payments).Error
	if err != nil {
		utils.ErrorLogger.Printf("expired payment sweep failed: %v", err)
		return
	}

	for i := range payments {
		payments[i].Status = models.PaymentStatusFailed
		if err := g.db.Save(&payments[i]).Error; err != nil {
			utils.ErrorLogger.Printf("failed to expire payment %d: %v", payments[i].ID, err)
			continue
		}
		utils.InfoLogger.Printf("Payment %d expired", payments[i].ID)
	}
}

// StartExpirySweeper runs SweepExpired on a fixed interval.
func (g *PaymentGateway) StartExpirySweeper() {
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			g.SweepExpired()
		}
	}()
	utils.InfoLogger.Println("Payment expiry sweeper started")
}

func mapTransactionStatus(transactionStatus, fraudStatus string) string {
	switch transactionStatus {
	case "capture":
		if fraudStatus == "challenge" {
			return models.PaymentStatusPending
		}
		return models.PaymentStatusPaid
	case "settlement":
		return models.PaymentStatusPaid
	case "pending":
		return models.PaymentStatusPending
	case "deny", "cancel", "expire", "failure":
		return models.PaymentStatusFailed
	case "refund", "partial_refund":
		return models.PaymentStatusRefunded
	default:
		return ""
	}
}
