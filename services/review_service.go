package services

import (
	"gorm.io/gorm"

	"github.com/dapurkita/restaurant-manager/models"
	"github.com/dapurkita/restaurant-manager/utils"
)

type ReviewService struct {
	db *gorm.DB
}

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db}
}

type ReviewInput struct {
	CustomerID uint
	OrderID    uint
	MenuItemID uint
	Rating     int
	Comment    string
}

// Create inserts a review after the eligibility checks: the customer must
// have ordered exactly this item in this order, and only once per triple.
func (s *ReviewService) Create(in ReviewInput) (*models.Review, error) {
	eligible, err := s.isEligible(in.CustomerID, in.OrderID, in.MenuItemID)
	if err != nil {
		return nil, err
	}
	if !eligible {
		utils.ReviewsRejectedTotal.Inc()
		return nil, utils.Validationf("you can only review items from your own orders")
	}

	var count int64
	err = s.db.Model(&models.Review{}).
		Where("customer_id = ? AND order_id = ? AND menu_item_id = ?",
			in.CustomerID, in.OrderID, in.MenuItemID).
		Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count > 0 {
		utils.ReviewsRejectedTotal.Inc()
		return nil, utils.NewConflictError("you already reviewed this item for this order")
	}

	review := models.Review{
		CustomerID: in.CustomerID,
		OrderID:    in.OrderID,
		MenuItemID: in.MenuItemID,
		Rating:     models.ClampRating(in.Rating),
		Comment:    in.Comment,
		IsVerified: true, // always order-backed by the eligibility check
	}
	if err := s.db.Create(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

// isEligible checks the (customer, order, menu_item) triple against
// order_items joined through the order's owner.
func (s *ReviewService) isEligible(customerID, orderID, menuItemID uint) (bool, error) {
	var count int64
	err := s.db.Model(&models.OrderItem{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.customer_id = ? AND order_items.order_id = ? AND order_items.menu_item_id = ?",
			customerID, orderID, menuItemID).
		Count(&count).Error
	return count > 0, err
}

// AverageRating returns the mean rating and review count for a menu item.
func (s *ReviewService) AverageRating(menuItemID uint) (float64, int64, error) {
	var result struct {
		Avg   float64
		Count int64
	}
	err := s.db.Model(&models.Review{}).
		Where("menu_item_id = ?", menuItemID).
		Select("COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count").
		Scan(&result).Error
	return result.Avg, result.Count, err
}

// SetFeatured toggles the admin featured flag.
func (s *ReviewService) SetFeatured(reviewID uint, featured bool) (*models.Review, error) {
	var review models.Review
	if err := s.db.First(&review, reviewID).Error; err != nil {
		return nil, utils.NewNotFoundError("review not found")
	}
	review.IsFeatured = featured
	if err := s.db.Save(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}
