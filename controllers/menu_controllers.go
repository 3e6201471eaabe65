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

type MenuController struct {
	DB      *gorm.DB
	service *services.MenuService
	repo    *repositories.MenuRepository
}

func NewMenuController(db *gorm.DB) *MenuController {
	return &MenuController{
		DB:      db,
		service: services.NewMenuService(db),
		repo:    repositories.NewMenuRepository(db),
	}
}

// menuItemRequest is shared by create and update; pointer fields are only
// applied when present.
type menuItemRequest struct {
	CategoryID   uint    `json:"category_id"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Price        float64 `json:"price"`
	IsAvailable  *bool   `json:"is_available"`
	IsFeatured   *bool   `json:"is_featured"`
	IsVegetarian *bool   `json:"is_vegetarian"`
	IsVegan      *bool   `json:"is_vegan"`
	IsGlutenFree *bool   `json:"is_gluten_free"`
	SpiceLevel   *int    `json:"spice_level"`
}

func (r menuItemRequest) toInput() services.MenuItemInput {
	return services.MenuItemInput{
		CategoryID:   r.CategoryID,
		Name:         r.Name,
		Description:  r.Description,
		Price:        r.Price,
		IsAvailable:  r.IsAvailable,
		IsFeatured:   r.IsFeatured,
		IsVegetarian: r.IsVegetarian,
		IsVegan:      r.IsVegan,
		IsGlutenFree: r.IsGlutenFree,
		SpiceLevel:   r.SpiceLevel,
	}
}

// GetMenu is the public listing with filters: category, price range,
// dietary flags, text search.
func (mc *MenuController) GetMenu(c *gin.Context) {
	filter := repositories.MenuFilter{
		OnlyAvailable: c.Query("include_unavailable") == "",
		OnlyFeatured:  c.Query("featured") == "true",
		Search:        c.Query("search"),
	}
	if categoryID, err := strconv.Atoi(c.Query("category_id")); err == nil {
		filter.CategoryID = uint(categoryID)
	}
	if minPrice, err := strconv.ParseFloat(c.Query("min_price"), 64); err == nil {
		filter.MinPrice = minPrice
	}
	if maxPrice, err := strconv.ParseFloat(c.Query("max_price"), 64); err == nil {
		filter.MaxPrice = maxPrice
	}

	items, err := mc.repo.List(filter)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Menu items", items)
}

// GetMenuItem returns one item with its aggregate rating.
func (mc *MenuController) GetMenuItem(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("menu_item_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid menu item id"))
		return
	}

	var item models.MenuItem
	if err := mc.DB.Preload("Category").First(&item, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("menu item not found"))
		return
	}

	avg, count, err := services.NewReviewService(mc.DB).AverageRating(item.ID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Menu item", gin.H{
		"item":           item,
		"average_rating": avg,
		"review_count":   count,
	})
}

// CreateMenuItem adds an item (staff only).
func (mc *MenuController) CreateMenuItem(c *gin.Context) {
	var req menuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	item, err := mc.service.Create(req.toInput())
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Menu item created", item)
}

// UpdateMenuItem edits an item (staff only).
func (mc *MenuController) UpdateMenuItem(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("menu_item_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid menu item id"))
		return
	}

	var req menuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	item, err := mc.service.Update(uint(id), req.toInput())
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Menu item updated", item)
}

// DeleteMenuItem removes an item; items referenced by past orders are
// soft-deleted instead so order history stays intact.
func (mc *MenuController) DeleteMenuItem(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("menu_item_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid menu item id"))
		return
	}

	softDeleted, err := mc.service.Delete(uint(id))
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	message := "Menu item deleted"
	if softDeleted {
		message = "Menu item archived (referenced by past orders)"
	}
	utils.RespondJSON(c, http.StatusOK, message, gin.H{"soft_deleted": softDeleted})
}

// ToggleAvailability flips the 86 switch on an item (staff only).
func (mc *MenuController) ToggleAvailability(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("menu_item_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid menu item id"))
		return
	}

	item, err := mc.service.ToggleAvailability(uint(id))
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Availability toggled", item)
}

// ToggleFeatured flips the featured flag (staff only).
func (mc *MenuController) ToggleFeatured(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("menu_item_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid menu item id"))
		return
	}

	item, err := mc.service.ToggleFeatured(uint(id))
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Featured toggled", item)
}
