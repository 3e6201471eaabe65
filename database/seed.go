package database

import (
	"errors"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/dapurkita/restaurant-manager/models"
	"github.com/dapurkita/restaurant-manager/utils"
)

// Seed writes the rows the application cannot run without: the settings the
// order code reads and an initial admin account. Safe to call on every boot.
func Seed(db *gorm.DB) error {
	if err := seedSettings(db); err != nil {
		return err
	}
	return seedAdmin(db)
}

func seedSettings(db *gorm.DB) error {
	defaults := map[string]string{
		models.SettingTaxRate:        "8.5",
		models.SettingRestaurantName: "Dapur Kita",
	}

	for key, value := range defaults {
		var setting models.Setting
		err := db.Where("setting_key = ?", key).First(&setting).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := db.Create(&models.Setting{SettingKey: key, SettingValue: value}).Error; err != nil {
				return err
			}
			utils.InfoLogger.Printf("Seeded setting %s=%s", key, value)
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func seedAdmin(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Where("user_type = ?", models.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin12345"
		utils.InfoLogger.Println("ADMIN_PASSWORD not set, using default admin password")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.User{
		Username: "admin",
		Email:    getEnvDefault("ADMIN_EMAIL", "admin@dapurkita.local"),
		Password: string(hashed),
		UserType: models.RoleAdmin,
		IsActive: true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	utils.InfoLogger.Printf("Seeded admin user %s", admin.Email)
	return nil
}

func getEnvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
