package services

import (
	"gorm.io/gorm"

	"github.com/dapurkita/restaurant-manager/models"
	"github.com/dapurkita/restaurant-manager/utils"
)

type CategoryService struct {
	db *gorm.DB
}

func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

type CategoryInput struct {
	Name             string
	Description      string
	ParentCategoryID *uint
	SortOrder        int
	IsActive         *bool
}

func (s *CategoryService) Create(in CategoryInput) (*models.Category, error) {
	if in.Name == "" {
		return nil, utils.Validationf("category name is required")
	}
	if err := s.checkSiblingName(in.Name, in.ParentCategoryID, 0); err != nil {
		return nil, err
	}
	if in.ParentCategoryID != nil {
		var parent models.Category
		if err := s.db.First(&parent, *in.ParentCategoryID).Error; err != nil {
			return nil, utils.Validationf("parent category does not exist")
		}
	}

	category := models.Category{
		Name:             in.Name,
		Description:      in.Description,
		ParentCategoryID: in.ParentCategoryID,
		SortOrder:        in.SortOrder,
		IsActive:         true,
	}
	if in.IsActive != nil {
		category.IsActive = *in.IsActive
	}

	if err := s.db.Create(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (s *CategoryService) Update(id uint, in CategoryInput) (*models.Category, error) {
	var category models.Category
	if err := s.db.First(&category, id).Error; err != nil {
		return nil, utils.NewNotFoundError("category not found")
	}

	if in.Name == "" {
		return nil, utils.Validationf("category name is required")
	}
	if err := s.checkSiblingName(in.Name, in.ParentCategoryID, id); err != nil {
		return nil, err
	}
	if err := s.checkNoCycle(id, in.ParentCategoryID); err != nil {
		return nil, err
	}

	category.Name = in.Name
	category.Description = in.Description
	category.ParentCategoryID = in.ParentCategoryID
	category.SortOrder = in.SortOrder
	if in.IsActive != nil {
		category.IsActive = *in.IsActive
	}

	if err := s.db.Save(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// checkSiblingName enforces name uniqueness among categories sharing the
// same parent.
func (s *CategoryService) checkSiblingName(name string, parentID *uint, excludeID uint) error {
	query := s.db.Model(&models.Category{}).Where("name = ?", name)
	if parentID == nil {
		query = query.Where("parent_category_id IS NULL")
	} else {
		query = query.Where("parent_category_id = ?", *parentID)
	}
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return utils.NewConflictError("a sibling category with this name already exists")
	}
	return nil
}

// checkNoCycle walks up from the proposed parent; hitting the category
// itself means the assignment would create a loop.
func (s *CategoryService) checkNoCycle(id uint, parentID *uint) error {
	if parentID == nil {
		return nil
	}
	if *parentID == id {
		return utils.Validationf("a category cannot be its own parent")
	}

	current := *parentID
	for {
		var parent models.Category
		if err := s.db.First(&parent, current).Error; err != nil {
			return utils.Validationf("parent category does not exist")
		}
		if parent.ParentCategoryID == nil {
			return nil
		}
		if *parent.ParentCategoryID == id {
			return utils.Validationf("category parent assignment would create a cycle")
		}
		current = *parent.ParentCategoryID
	}
}

// Delete refuses when menu items or child categories still point here.
func (s *CategoryService) Delete(id uint) error {
	var category models.Category
	if err := s.db.First(&category, id).Error; err != nil {
		return utils.NewNotFoundError("category not found")
	}

	var items int64
	if err := s.db.Model(&models.MenuItem{}).Where("category_id = ?", id).Count(&items).Error; err != nil {
		return err
	}
	if items > 0 {
		return utils.NewConflictError("category still has menu items")
	}

	var children int64
	if err := s.db.Model(&models.Category{}).Where("parent_category_id = ?", id).Count(&children).Error; err != nil {
		return err
	}
	if children > 0 {
		return utils.NewConflictError("category still has subcategories")
	}

	return s.db.Delete(&models.Category{}, id).Error
}

// Tree returns active top-level categories sorted by sort_order with their
// items preloaded.
func (s *CategoryService) Tree() ([]models.Category, error) {
	var categories []models.Category
	err := s.db.Where("parent_category_id IS NULL AND is_active = ?", true).
		Order("sort_order ASC").
		Preload("MenuItems", "is_available = ?", true).
		Find(&categories).Error
	return categories, err
}
