package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dapurkita/restaurant-manager/services"
	"github.com/dapurkita/restaurant-manager/utils"
)

type CategoryController struct {
	DB      *gorm.DB
	service *services.CategoryService
}

func NewCategoryController(db *gorm.DB) *CategoryController {
	return &CategoryController{
		DB:      db,
		service: services.NewCategoryService(db),
	}
}

type categoryRequest struct {
	Name             string `json:"name"`
	Description      string `json:"description"`
	ParentCategoryID *uint  `json:"parent_category_id"`
	SortOrder        int    `json:"sort_order"`
	IsActive         *bool  `json:"is_active"`
}

func (r categoryRequest) toInput() services.CategoryInput {
	return services.CategoryInput{
		Name:             r.Name,
		Description:      r.Description,
		ParentCategoryID: r.ParentCategoryID,
		SortOrder:        r.SortOrder,
		IsActive:         r.IsActive,
	}
}

// GetCategories returns the active category tree with available items
// preloaded, for the public menu page.
func (cc *CategoryController) GetCategories(c *gin.Context) {
	tree, err := cc.service.Tree()
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu categories", tree)
}

// CreateCategory adds a category (staff only).
func (cc *CategoryController) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	category, err := cc.service.Create(req.toInput())
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Category created", category)
}

// UpdateCategory edits a category (staff only). Re-parenting is validated
// against cycles.
func (cc *CategoryController) UpdateCategory(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("category_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid category id"))
		return
	}

	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	category, err := cc.service.Update(uint(id), req.toInput())
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Category updated", category)
}

// DeleteCategory removes an empty category (staff only).
func (cc *CategoryController) DeleteCategory(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("category_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid category id"))
		return
	}

	if err := cc.service.Delete(uint(id)); err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Category deleted", nil)
}
