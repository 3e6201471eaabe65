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

type ReviewController struct {
	DB      *gorm.DB
	service *services.ReviewService
}

func NewReviewController(db *gorm.DB) *ReviewController {
	return &ReviewController{
		DB:      db,
		service: services.NewReviewService(db),
	}
}

// CreateReview posts a review for an item the customer actually ordered.
func (rc *ReviewController) CreateReview(c *gin.Context) {
	type request struct {
		OrderID    uint   `json:"order_id" binding:"required"`
		MenuItemID uint   `json:"menu_item_id" binding:"required"`
		Rating     int    `json:"rating" binding:"required"`
		Comment    string `json:"comment"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	review, err := rc.service.Create(services.ReviewInput{
		CustomerID: c.GetUint("user_id"),
		OrderID:    req.OrderID,
		MenuItemID: req.MenuItemID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	})
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Review posted", review)
}

// GetItemReviews lists reviews for a menu item with the aggregate rating.
func (rc *ReviewController) GetItemReviews(c *gin.Context) {
	menuItemID, err := strconv.Atoi(c.Param("menu_item_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid menu item id"))
		return
	}

	var reviews []models.Review
	err = rc.DB.Preload("Customer").
		Where("menu_item_id = ?", menuItemID).
		Order("is_featured DESC, created_at DESC").
		Find(&reviews).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	avg, count, err := rc.service.AverageRating(uint(menuItemID))
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Item reviews", gin.H{
		"reviews":        reviews,
		"average_rating": avg,
		"review_count":   count,
	})
}

// GetMyReviews lists the authenticated customer's reviews.
func (rc *ReviewController) GetMyReviews(c *gin.Context) {
	var reviews []models.Review
	err := rc.DB.Preload("MenuItem").
		Where("customer_id = ?", c.GetUint("user_id")).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Your reviews", reviews)
}

// SetFeatured pins or unpins a review on the item page (staff only).
func (rc *ReviewController) SetFeatured(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("review_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid review id"))
		return
	}

	var req struct {
		Featured *bool `json:"featured" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	review, err := rc.service.SetFeatured(uint(id), *req.Featured)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Review updated", review)
}

// DeleteReview removes a review (staff moderation).
func (rc *ReviewController) DeleteReview(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("review_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid review id"))
		return
	}

	result := rc.DB.Delete(&models.Review{}, id)
	if result.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondError(c, http.StatusNotFound, errors.New("review not found"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Review deleted", nil)
}
