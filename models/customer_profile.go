package models

import "time"

// Loyalty tiers, ordered lowest to highest.
const (
	TierBronze   = "bronze"
	TierSilver   = "silver"
	TierGold     = "gold"
	TierPlatinum = "platinum"
)

type CustomerProfile struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	UserID        uint       `gorm:"uniqueIndex;not null" json:"user_id"`
	User          User       `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"user"`
	Address       string     `gorm:"type:varchar(255)" json:"address"`
	City          string     `gorm:"type:varchar(100)" json:"city"`
	State         string     `gorm:"type:varchar(100)" json:"state"`
	PostalCode    string     `gorm:"type:varchar(20)" json:"postal_code"`
	LoyaltyPoints int        `gorm:"not null;default:0" json:"loyalty_points"`
	TierLevel     string     `gorm:"type:varchar(20);not null;default:'bronze'" json:"tier_level"`
	TotalSpent    float64    `gorm:"type:decimal(12,2);not null;default:0.00" json:"total_spent"`
	VisitCount    int        `gorm:"not null;default:0" json:"visit_count"`
	LastVisit     *time.Time `json:"last_visit,omitempty"`
	CreatedAt     time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"not null" json:"updated_at"`
}

// TierFor returns the loyalty tier for a points/spend pair. Either metric can
// promote a customer on its own.
func TierFor(points int, spent float64) string {
	switch {
	case points >= 5000 || spent >= 1000:
		return TierPlatinum
	case points >= 2000 || spent >= 500:
		return TierGold
	case points >= 500 || spent >= 200:
		return TierSilver
	default:
		return TierBronze
	}
}

// RecalculateTier syncs TierLevel with the current points and spend.
func (p *CustomerProfile) RecalculateTier() {
	p.TierLevel = TierFor(p.LoyaltyPoints, p.TotalSpent)
}
