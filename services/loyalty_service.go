package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/dapurkita/restaurant-manager/models"
	"github.com/dapurkita/restaurant-manager/utils"
)

// LoyaltyService owns every mutation of loyalty points and spend so the tier
// invariant (tier == TierFor(points, spent)) holds after each write.
type LoyaltyService struct {
	db *gorm.DB
}

func NewLoyaltyService(db *gorm.DB) *LoyaltyService {
	return &LoyaltyService{db: db}
}

// AwardWithinTx adds points and spend to a profile inside an existing
// transaction. Checkout uses this so a failed order never leaves points
// behind.
func (s *LoyaltyService) AwardWithinTx(tx *gorm.DB, userID uint, points int, spent float64) error {
	var profile models.CustomerProfile
	if err := tx.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return err
	}

	profile.LoyaltyPoints += points
	profile.TotalSpent = utils.RoundMoney(profile.TotalSpent + spent)
	profile.RecalculateTier()

	return tx.Save(&profile).Error
}

// Redeem subtracts points from the balance. Returns false without mutating
// anything when the balance does not cover the request.
func (s *LoyaltyService) Redeem(userID uint, points int) (bool, error) {
	if points <= 0 {
		return false, utils.Validationf("points to redeem must be positive")
	}

	var profile models.CustomerProfile
	if err := s.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return false, err
	}

	if points > profile.LoyaltyPoints {
		return false, nil
	}

	profile.LoyaltyPoints -= points
	profile.RecalculateTier()
	if err := s.db.Save(&profile).Error; err != nil {
		return false, err
	}

	utils.LoyaltyPointsRedeemedTotal.Add(float64(points))
	return true, nil
}

// SetPoints overwrites the balance (admin adjustment).
func (s *LoyaltyService) SetPoints(userID uint, points int) error {
	if points < 0 {
		return utils.Validationf("loyalty points cannot be negative")
	}

	var profile models.CustomerProfile
	if err := s.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		return err
	}

	profile.LoyaltyPoints = points
	profile.RecalculateTier()
	return s.db.Save(&profile).Error
}

// RecordVisitWithinTx bumps visit_count and last_visit when an order
// completes.
func (s *LoyaltyService) RecordVisitWithinTx(tx *gorm.DB, userID uint) error {
	now := time.Now()
	return tx.Model(&models.CustomerProfile{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"visit_count": gorm.Expr("visit_count + 1"),
			"last_visit":  now,
		}).Error
}
