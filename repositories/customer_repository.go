package repositories

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// CustomerRepository serves the admin listing and export screens with raw
// aggregate rows instead of loading full entity graphs.
type CustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// CustomerRow is one line of the back-office customer list and of the
// CSV/JSON export.
type CustomerRow struct {
	ID            uint      `json:"id"`
	Name          string    `json:"name"`
	FirstName     string    `json:"-"`
	LastName      string    `json:"-"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	City          string    `json:"city"`
	State         string    `json:"state"`
	TierLevel     string    `json:"tier_level"`
	LoyaltyPoints int       `json:"loyalty_points"`
	TotalSpent    float64   `json:"total_spent"`
	OrderCount    int64     `json:"order_count"`
	ReviewCount   int64     `json:"review_count"`
	JoinedAt      time.Time `json:"joined_at"`
}

type CustomerFilter struct {
	Search string // matches name or email
	Tier   string
	Limit  int
	Offset int
}

// List returns customer rows with order/review counts joined in.
func (r *CustomerRepository) List(filter CustomerFilter) ([]CustomerRow, error) {
	query := r.db.Table("users").
		Select(`users.id,
			users.first_name, users.last_name, users.username AS name,
			users.email, users.phone,
			customer_profiles.city, customer_profiles.state,
			customer_profiles.tier_level, customer_profiles.loyalty_points,
			customer_profiles.total_spent,
			(SELECT COUNT(*) FROM orders WHERE orders.customer_id = users.id) AS order_count,
			(SELECT COUNT(*) FROM reviews WHERE reviews.customer_id = users.id) AS review_count,
			users.created_at AS joined_at`).
		Joins("JOIN customer_profiles ON customer_profiles.user_id = users.id").
		Where("users.user_type = ?", "customer")

	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where(
			"users.first_name LIKE ? OR users.last_name LIKE ? OR users.email LIKE ? OR users.username LIKE ?",
			like, like, like, like)
	}
	if filter.Tier != "" {
		query = query.Where("customer_profiles.tier_level = ?", filter.Tier)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}

	var rows []CustomerRow
	if err := query.Order("users.id ASC").Scan(&rows).Error; err != nil {
		return nil, err
	}

	// Name concatenation differs between MySQL and sqlite, so compose here.
	for i := range rows {
		full := strings.TrimSpace(rows[i].FirstName + " " + rows[i].LastName)
		if full != "" {
			rows[i].Name = full
		}
	}
	return rows, nil
}

// TierCounts returns how many customers sit in each tier.
func (r *CustomerRepository) TierCounts() (map[string]int64, error) {
	type tierCount struct {
		TierLevel string
		Count     int64
	}
	var rows []tierCount
	err := r.db.Table("customer_profiles").
		Select("tier_level, COUNT(*) AS count").
		Group("tier_level").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.TierLevel] = row.Count
	}
	return counts, nil
}
