package services

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/dapurkita/restaurant-manager/models"
	"github.com/dapurkita/restaurant-manager/utils"
)

type MenuService struct {
	db *gorm.DB
}

func NewMenuService(db *gorm.DB) *MenuService {
	return &MenuService{db: db}
}

type MenuItemInput struct {
	CategoryID   uint
	Name         string
	Description  string
	Price        float64
	IsAvailable  *bool
	IsFeatured   *bool
	IsVegetarian *bool
	IsVegan      *bool
	IsGlutenFree *bool
	SpiceLevel   *int
}

func (s *MenuService) validate(in MenuItemInput) error {
	fields := map[string]string{}
	if in.Name == "" {
		fields["name"] = "name is required"
	}
	if !models.ValidPrice(in.Price) {
		fields["price"] = fmt.Sprintf("price must be between %.2f and %.2f",
			models.MenuItemMinPrice, models.MenuItemMaxPrice)
	}
	if in.SpiceLevel != nil && (*in.SpiceLevel < 0 || *in.SpiceLevel > 4) {
		fields["spice_level"] = "spice level must be between 0 and 4"
	}
	if len(fields) > 0 {
		return utils.NewValidationError("invalid menu item", fields)
	}

	var category models.Category
	if err := s.db.First(&category, in.CategoryID).Error; err != nil {
		return utils.Validationf("category does not exist")
	}
	return nil
}

func (s *MenuService) Create(in MenuItemInput) (*models.MenuItem, error) {
	if err := s.validate(in); err != nil {
		return nil, err
	}

	item := models.MenuItem{
		CategoryID:  in.CategoryID,
		Name:        in.Name,
		Description: in.Description,
		Price:       utils.RoundMoney(in.Price),
		IsAvailable: true,
	}
	applyOptional(&item, in)

	if err := s.db.Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *MenuService) Update(id uint, in MenuItemInput) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := s.db.First(&item, id).Error; err != nil {
		return nil, utils.NewNotFoundError("menu item not found")
	}

	if err := s.validate(in); err != nil {
		return nil, err
	}

	item.CategoryID = in.CategoryID
	item.Name = in.Name
	item.Description = in.Description
	item.Price = utils.RoundMoney(in.Price)
	applyOptional(&item, in)

	if err := s.db.Save(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func applyOptional(item *models.MenuItem, in MenuItemInput) {
	if in.IsAvailable != nil {
		item.IsAvailable = *in.IsAvailable
	}
	if in.IsFeatured != nil {
		item.IsFeatured = *in.IsFeatured
	}
	if in.IsVegetarian != nil {
		item.IsVegetarian = *in.IsVegetarian
	}
	if in.IsVegan != nil {
		item.IsVegan = *in.IsVegan
	}
	if in.IsGlutenFree != nil {
		item.IsGlutenFree = *in.IsGlutenFree
	}
	if in.SpiceLevel != nil {
		item.SpiceLevel = *in.SpiceLevel
	}
}

// Delete removes a menu item. Items referenced by order history are soft
// deleted (is_available=0) to keep old orders intact; everything else is
// removed for real. Returns true when the delete was soft.
func (s *MenuService) Delete(id uint) (bool, error) {
	var item models.MenuItem
	if err := s.db.First(&item, id).Error; err != nil {
		return false, utils.NewNotFoundError("menu item not found")
	}

	var refs int64
	if err := s.db.Model(&models.OrderItem{}).Where("menu_item_id = ?", id).Count(&refs).Error; err != nil {
		return false, err
	}

	if refs > 0 {
		item.IsAvailable = false
		if err := s.db.Save(&item).Error; err != nil {
			return false, err
		}
		return true, nil
	}

	return false, s.db.Delete(&models.MenuItem{}, id).Error
}

// ToggleAvailability flips is_available.
func (s *MenuService) ToggleAvailability(id uint) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := s.db.First(&item, id).Error; err != nil {
		return nil, utils.NewNotFoundError("menu item not found")
	}
	item.IsAvailable = !item.IsAvailable
	if err := s.db.Save(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// ToggleFeatured flips is_featured.
func (s *MenuService) ToggleFeatured(id uint) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := s.db.First(&item, id).Error; err != nil {
		return nil, utils.NewNotFoundError("menu item not found")
	}
	item.IsFeatured = !item.IsFeatured
	if err := s.db.Save(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}
