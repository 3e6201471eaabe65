package services

import (
	"strconv"

	"gorm.io/gorm"

	"github.com/dapurkita/restaurant-manager/models"
	"github.com/dapurkita/restaurant-manager/utils"
)

// DefaultTaxRate is only used when the settings row is missing entirely
// (fresh database before seeding).
const DefaultTaxRate = 8.5

type SettingsService struct {
	db *gorm.DB
}

func NewSettingsService(db *gorm.DB) *SettingsService {
	return &SettingsService{db: db}
}

func (s *SettingsService) Get(key string) (string, error) {
	var setting models.Setting
	if err := s.db.Where("setting_key = ?", key).First(&setting).Error; err != nil {
		return "", err
	}
	return setting.SettingValue, nil
}

// TaxRate returns the persisted tax rate in percent. This is the only
// source of truth for tax; nothing else hardcodes a rate.
func (s *SettingsService) TaxRate() float64 {
	value, err := s.Get(models.SettingTaxRate)
	if err != nil {
		return DefaultTaxRate
	}
	rate, err := strconv.ParseFloat(value, 64)
	if err != nil || rate < 0 {
		utils.ErrorLogger.Printf("Invalid tax_rate setting %q, using default", value)
		return DefaultTaxRate
	}
	return rate
}

func (s *SettingsService) Set(key, value string) error {
	if key == "" {
		return utils.Validationf("setting key is required")
	}
	if key == models.SettingTaxRate {
		rate, err := strconv.ParseFloat(value, 64)
		if err != nil || rate < 0 || rate > 100 {
			return utils.Validationf("tax_rate must be a percentage between 0 and 100")
		}
	}

	var setting models.Setting
	err := s.db.Where("setting_key = ?", key).First(&setting).Error
	if err == gorm.ErrRecordNotFound {
		return s.db.Create(&models.Setting{SettingKey: key, SettingValue: value}).Error
	}
	if err != nil {
		return err
	}
	setting.SettingValue = value
	return s.db.Save(&setting).Error
}

func (s *SettingsService) All() ([]models.Setting, error) {
	var settings []models.Setting
	if err := s.db.Order("setting_key").Find(&settings).Error; err != nil {
		return nil, err
	}
	return settings, nil
}
