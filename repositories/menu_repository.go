package repositories

import (
	"gorm.io/gorm"

	"github.com/dapurkita/restaurant-manager/models"
)

type MenuRepository struct {
	db *gorm.DB
}

func NewMenuRepository(db *gorm.DB) *MenuRepository {
	return &MenuRepository{db: db}
}

type MenuFilter struct {
	CategoryID    uint
	OnlyAvailable bool
	OnlyFeatured  bool
	MinPrice      float64
	MaxPrice      float64
	Search        string
}

// List applies the public menu filters.
func (r *MenuRepository) List(filter MenuFilter) ([]models.MenuItem, error) {
	query := r.db.Preload("Category")

	if filter.CategoryID != 0 {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.OnlyAvailable {
		query = query.Where("is_available = ?", true)
	}
	if filter.OnlyFeatured {
		query = query.Where("is_featured = ?", true)
	}
	if filter.MinPrice > 0 {
		query = query.Where("price >= ?", filter.MinPrice)
	}
	if filter.MaxPrice > 0 {
		query = query.Where("price <= ?", filter.MaxPrice)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR description LIKE ?", like, like)
	}

	var items []models.MenuItem
	err := query.Order("name ASC").Find(&items).Error
	return items, err
}

// TopItem is a sales aggregate used by the dashboard and the PDF report.
type TopItem struct {
	MenuItemID uint    `json:"menu_item_id"`
	Name       string  `json:"name"`
	Quantity   int64   `json:"quantity"`
	Revenue    float64 `json:"revenue"`
}

// TopSellers returns the best selling items by quantity, excluding
// cancelled orders.
func (r *MenuRepository) TopSellers(limit int) ([]TopItem, error) {
	if limit <= 0 {
		limit = 10
	}

	var rows []TopItem
	err := r.db.Table("order_items").
		Select(`order_items.menu_item_id,
			menu_items.name,
			SUM(order_items.quantity) AS quantity,
			SUM(order_items.total_price) AS revenue`).
		Joins("JOIN menu_items ON menu_items.id = order_items.menu_item_id").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.status <> ?", models.OrderStatusCancelled).
		Group("order_items.menu_item_id, menu_items.name").
		Order("quantity DESC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// DailyRevenue is one point of the revenue series used by the report chart.
type DailyRevenue struct {
	Day     string  `json:"day"`
	Revenue float64 `json:"revenue"`
}

// RevenueByDay sums paid order totals per calendar day over the last n days.
func (r *MenuRepository) RevenueByDay(days int) ([]DailyRevenue, error) {
	if days <= 0 {
		days = 30
	}

	var rows []DailyRevenue
	err := r.db.Table("orders").
		Select("DATE(created_at) AS day, SUM(final_amount) AS revenue").
		Where("payment_status = ?", models.PaymentStatusPaid).
		Group("DATE(created_at)").
		Order("day DESC").
		Limit(days).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	// Reverse into chronological order for plotting.
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	return rows, nil
}
