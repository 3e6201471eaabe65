package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dapurkita/restaurant-manager/models"
	"github.com/dapurkita/restaurant-manager/services"
	"github.com/dapurkita/restaurant-manager/utils"
)

type PaymentController struct {
	DB      *gorm.DB
	gateway *services.PaymentGateway
}

func NewPaymentController(db *gorm.DB, gateway *services.PaymentGateway) *PaymentController {
	return &PaymentController{DB: db, gateway: gateway}
}

// PayOrder opens a gateway transaction for the customer's own unpaid order.
// QRIS responses carry a QR image URL, card responses a redirect URL.
func (pc *PaymentController) PayOrder(c *gin.Context) {
	orderID, err := strconv.Atoi(c.Param("order_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid order id"))
		return
	}

	var order models.Order
	if err := pc.DB.First(&order, orderID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("order not found"))
		return
	}
	if order.CustomerID != c.GetUint("user_id") {
		utils.RespondError(c, http.StatusForbidden, utils.ErrNoPermission)
		return
	}

	payment, err := pc.gateway.CreateTransaction(&order)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Payment created", payment)
}

// Callback receives the gateway notification. It is unauthenticated; the
// payload signature is the authentication.
func (pc *PaymentController) Callback(c *gin.Context) {
	var payload services.CallbackPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := pc.gateway.HandleCallback(payload); err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Callback processed", nil)
}

// CheckStatus polls the gateway for the latest state of a payment.
func (pc *PaymentController) CheckStatus(c *gin.Context) {
	paymentID, err := strconv.Atoi(c.Param("payment_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid payment id"))
		return
	}

	var payment models.Payment
	if err := pc.DB.First(&payment, paymentID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("payment not found"))
		return
	}

	var order models.Order
	if err := pc.DB.First(&order, payment.OrderID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("order not found"))
		return
	}
	role := c.GetString("role")
	if role == models.RoleCustomer && order.CustomerID != c.GetUint("user_id") {
		utils.RespondError(c, http.StatusForbidden, utils.ErrNoPermission)
		return
	}

	updated, err := pc.gateway.CheckStatus(payment.ID)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Payment status", updated)
}
