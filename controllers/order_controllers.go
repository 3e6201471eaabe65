package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dapurkita/restaurant-manager/middlewares"
	"github.com/dapurkita/restaurant-manager/models"
	"github.com/dapurkita/restaurant-manager/services"
	"github.com/dapurkita/restaurant-manager/utils"
)

type OrderController struct {
	DB      *gorm.DB
	service *services.OrderService
}

func NewOrderController(db *gorm.DB) *OrderController {
	return &OrderController{
		DB:      db,
		service: services.NewOrderService(db),
	}
}

// Checkout turns the session cart into an order. The cart is only cleared
// after the transaction committed, so a failed checkout leaves it intact.
func (oc *OrderController) Checkout(c *gin.Context) {
	userID := c.GetUint("user_id")

	type request struct {
		OrderType           string `json:"order_type" binding:"required"`
		TableID             *uint  `json:"table_id"`
		PaymentMethod       string `json:"payment_method" binding:"required"`
		SpecialInstructions string `json:"special_instructions"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	session := middlewares.GetSession(c)

	order, err := oc.service.Checkout(services.CheckoutInput{
		CustomerID:          userID,
		Cart:                session.Cart,
		OrderType:           req.OrderType,
		TableID:             req.TableID,
		PaymentMethod:       req.PaymentMethod,
		SpecialInstructions: req.SpecialInstructions,
	})
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	session.Cart = []services.CartLine{}
	if err := middlewares.SaveSession(c, session); err != nil {
		// The order exists; an uncleared cart is recoverable.
		utils.ErrorLogger.Printf("failed to clear cart after checkout: %v", err)
	}

	utils.RespondJSON(c, http.StatusCreated, "Order placed", order)
}

// GetMyOrders lists the authenticated customer's orders, newest first.
func (oc *OrderController) GetMyOrders(c *gin.Context) {
	userID := c.GetUint("user_id")

	var orders []models.Order
	err := oc.DB.Preload("OrderItems").Preload("OrderItems.MenuItem").
		Where("customer_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Your orders", orders)
}

// GetAllOrders lists orders for the back office, optionally by status.
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	query := oc.DB.Preload("OrderItems").Preload("Customer")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if paymentStatus := c.Query("payment_status"); paymentStatus != "" {
		query = query.Where("payment_status = ?", paymentStatus)
	}

	var orders []models.Order
	if err := query.Order("created_at DESC").Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

// GetOrderByID returns one order; customers only see their own.
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("order_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid order id"))
		return
	}

	var order models.Order
	if err := oc.DB.Preload("OrderItems").Preload("OrderItems.MenuItem").First(&order, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	role := c.GetString("role")
	if role == models.RoleCustomer && order.CustomerID != c.GetUint("user_id") {
		utils.RespondError(c, http.StatusForbidden, utils.ErrNoPermission)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// UpdateStatus moves an order along its state machine (staff only).
func (oc *OrderController) UpdateStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("order_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid order id"))
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.service.UpdateStatus(uint(id), req.Status)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order updated", order)
}

// CancelMyOrder lets a customer cancel their own order while it is still
// pending or confirmed.
func (oc *OrderController) CancelMyOrder(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("order_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid order id"))
		return
	}

	var order models.Order
	if err := oc.DB.First(&order, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	if order.CustomerID != c.GetUint("user_id") {
		utils.RespondError(c, http.StatusForbidden, utils.ErrNoPermission)
		return
	}

	updated, err := oc.service.UpdateStatus(order.ID, models.OrderStatusCancelled)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order cancelled", updated)
}

// MarkPaid settles a cash order at the counter (staff only).
func (oc *OrderController) MarkPaid(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("order_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid order id"))
		return
	}

	order, err := oc.service.MarkPaid(uint(id))
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order marked paid", order)
}
