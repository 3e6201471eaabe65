package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dapurkita/restaurant-manager/models"
	"github.com/dapurkita/restaurant-manager/utils"
)

func newLoyaltyTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.CustomerProfile{}); err != nil {
		t.Fatal(err)
	}
	db.Create(&models.User{Username: "cust", Email: "c@example.com", Password: "x", UserType: models.RoleCustomer, IsActive: true})
	db.Create(&models.CustomerProfile{UserID: 1, TierLevel: models.TierBronze})
	return db
}

func TestTierFor(t *testing.T) {
	tests := []struct {
		points int
		spent  float64
		want   string
	}{
		{0, 0, models.TierBronze},
		{499, 199.99, models.TierBronze},
		{500, 0, models.TierSilver},
		{0, 200, models.TierSilver},
		{2000, 0, models.TierGold},
		{0, 500, models.TierGold},
		{4999, 999.99, models.TierGold},
		{5000, 0, models.TierPlatinum},
		{0, 1000, models.TierPlatinum},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, models.TierFor(tt.points, tt.spent),
			"points=%d spent=%.2f", tt.points, tt.spent)
	}
}

func TestAwardPromotesTier(t *testing.T) {
	utils.InitLogger()
	db := newLoyaltyTestDB(t)
	svc := NewLoyaltyService(db)

	err := db.Transaction(func(tx *gorm.DB) error {
		return svc.AwardWithinTx(tx, 1, 600, 150.00)
	})
	assert.NoError(t, err)

	var profile models.CustomerProfile
	db.Where("user_id = ?", 1).First(&profile)
	assert.Equal(t, 600, profile.LoyaltyPoints)
	assert.Equal(t, 150.00, profile.TotalSpent)
	assert.Equal(t, models.TierSilver, profile.TierLevel)
}

func TestRedeemInsufficientLeavesBalance(t *testing.T) {
	utils.InitLogger()
	db := newLoyaltyTestDB(t)
	svc := NewLoyaltyService(db)

	db.Model(&models.CustomerProfile{}).Where("user_id = ?", 1).Update("loyalty_points", 100)

	ok, err := svc.Redeem(1, 250)
	assert.NoError(t, err)
	assert.False(t, ok)

	var profile models.CustomerProfile
	db.Where("user_id = ?", 1).First(&profile)
	assert.Equal(t, 100, profile.LoyaltyPoints)

	ok, err = svc.Redeem(1, 40)
	assert.NoError(t, err)
	assert.True(t, ok)

	db.Where("user_id = ?", 1).First(&profile)
	assert.Equal(t, 60, profile.LoyaltyPoints)
}

func TestRedeemRejectsNonPositive(t *testing.T) {
	utils.InitLogger()
	db := newLoyaltyTestDB(t)
	svc := NewLoyaltyService(db)

	_, err := svc.Redeem(1, 0)
	assert.Error(t, err)
	_, err = svc.Redeem(1, -5)
	assert.Error(t, err)
}
