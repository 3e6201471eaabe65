package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dapurkita/restaurant-manager/models"
	"github.com/dapurkita/restaurant-manager/repositories"
	"github.com/dapurkita/restaurant-manager/services"
	"github.com/dapurkita/restaurant-manager/utils"
)

// CustomerController is the back-office view over customers and their
// loyalty accounts.
type CustomerController struct {
	DB      *gorm.DB
	repo    *repositories.CustomerRepository
	loyalty *services.LoyaltyService
}

func NewCustomerController(db *gorm.DB) *CustomerController {
	return &CustomerController{
		DB:      db,
		repo:    repositories.NewCustomerRepository(db),
		loyalty: services.NewLoyaltyService(db),
	}
}

// GetCustomers lists customers with joined loyalty and activity counts.
func (cc *CustomerController) GetCustomers(c *gin.Context) {
	filter := repositories.CustomerFilter{
		Search: c.Query("search"),
		Tier:   c.Query("tier"),
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil {
		filter.Limit = limit
	}
	if offset, err := strconv.Atoi(c.Query("offset")); err == nil {
		filter.Offset = offset
	}

	rows, err := cc.repo.List(filter)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "List of customers", rows)
}

// GetCustomerDetail returns one customer with profile, orders and reviews.
func (cc *CustomerController) GetCustomerDetail(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("customer_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid customer id"))
		return
	}

	var user models.User
	if err := cc.DB.Where("user_type = ?", models.RoleCustomer).First(&user, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("customer not found"))
		return
	}

	var profile models.CustomerProfile
	cc.DB.Where("user_id = ?", user.ID).First(&profile)

	var orders []models.Order
	cc.DB.Where("customer_id = ?", user.ID).Order("created_at DESC").Limit(20).Find(&orders)

	var reviews []models.Review
	cc.DB.Preload("MenuItem").Where("customer_id = ?", user.ID).
		Order("created_at DESC").Limit(20).Find(&reviews)

	utils.RespondJSON(c, http.StatusOK, "Customer detail", gin.H{
		"user":    user,
		"profile": profile,
		"orders":  orders,
		"reviews": reviews,
	})
}

// GetMyLoyalty shows the customer their own points, tier and visit stats.
func (cc *CustomerController) GetMyLoyalty(c *gin.Context) {
	var profile models.CustomerProfile
	if err := cc.DB.Where("user_id = ?", c.GetUint("user_id")).First(&profile).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("loyalty profile not found"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Loyalty account", profile)
}

// RedeemPoints spends loyalty points; insufficient balances are rejected
// without mutation.
func (cc *CustomerController) RedeemPoints(c *gin.Context) {
	var req struct {
		Points int `json:"points" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Points <= 0 {
		utils.RespondError(c, http.StatusUnprocessableEntity, utils.Validationf("points must be positive"))
		return
	}

	userID := c.GetUint("user_id")
	ok, err := cc.loyalty.Redeem(userID, req.Points)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}
	if !ok {
		utils.RespondError(c, http.StatusUnprocessableEntity, utils.Validationf("insufficient points"))
		return
	}

	var profile models.CustomerProfile
	cc.DB.Where("user_id = ?", userID).First(&profile)
	utils.RespondJSON(c, http.StatusOK, "Points redeemed", profile)
}

// AdjustPoints sets a customer's point balance outright (admin only), for
// support corrections. The tier is recomputed.
func (cc *CustomerController) AdjustPoints(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("customer_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid customer id"))
		return
	}

	var req struct {
		Points *int `json:"points" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if *req.Points < 0 {
		utils.RespondError(c, http.StatusUnprocessableEntity, utils.Validationf("points cannot be negative"))
		return
	}

	if err := cc.loyalty.SetPoints(uint(id), *req.Points); err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	var profile models.CustomerProfile
	cc.DB.Where("user_id = ?", id).First(&profile)
	utils.RespondJSON(c, http.StatusOK, "Points adjusted", profile)
}

// SetActive enables or disables a customer account (admin only).
func (cc *CustomerController) SetActive(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("customer_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid customer id"))
		return
	}

	var req struct {
		IsActive *bool `json:"is_active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	result := cc.DB.Model(&models.User{}).Where("id = ?", id).Update("is_active", *req.IsActive)
	if result.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondError(c, http.StatusNotFound, errors.New("customer not found"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Account updated", gin.H{"is_active": *req.IsActive})
}
