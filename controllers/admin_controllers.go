package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dapurkita/restaurant-manager/models"
	"github.com/dapurkita/restaurant-manager/repositories"
	"github.com/dapurkita/restaurant-manager/services"
	"github.com/dapurkita/restaurant-manager/utils"
)

// AdminController serves the dashboard, settings and exports.
type AdminController struct {
	DB        *gorm.DB
	settings  *services.SettingsService
	exporter  *services.ExportService
	customers *repositories.CustomerRepository
	menu      *repositories.MenuRepository
}

func NewAdminController(db *gorm.DB) *AdminController {
	return &AdminController{
		DB:        db,
		settings:  services.NewSettingsService(db),
		exporter:  services.NewExportService(db),
		customers: repositories.NewCustomerRepository(db),
		menu:      repositories.NewMenuRepository(db),
	}
}

// GetDashboard aggregates the numbers the back-office landing page shows.
func (ac *AdminController) GetDashboard(c *gin.Context) {
	today := time.Now().Format("2006-01-02")

	var ordersToday int64
	ac.DB.Model(&models.Order{}).
		Where("DATE(created_at) = ?", today).
		Count(&ordersToday)

	var revenueToday float64
	ac.DB.Model(&models.Order{}).
		Where("DATE(created_at) = ? AND payment_status = ?", today, models.PaymentStatusPaid).
		Select("COALESCE(SUM(final_amount), 0)").
		Scan(&revenueToday)

	var pendingOrders int64
	ac.DB.Model(&models.Order{}).
		Where("status IN ?", []string{models.OrderStatusPending, models.OrderStatusConfirmed, models.OrderStatusPreparing}).
		Count(&pendingOrders)

	var reservationsToday int64
	ac.DB.Model(&models.Reservation{}).
		Where("reservation_date = ? AND status IN ?", today, models.NonTerminalReservationStatuses()).
		Count(&reservationsToday)

	var customerCount int64
	ac.DB.Model(&models.User{}).Where("user_type = ?", models.RoleCustomer).Count(&customerCount)

	tierCounts, err := ac.customers.TierCounts()
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	topSellers, err := ac.menu.TopSellers(5)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Dashboard", gin.H{
		"orders_today":       ordersToday,
		"revenue_today":      utils.RoundMoney(revenueToday),
		"pending_orders":     pendingOrders,
		"reservations_today": reservationsToday,
		"customer_count":     customerCount,
		"tier_counts":        tierCounts,
		"top_sellers":        topSellers,
	})
}

// GetRevenueReport returns per-day revenue for the chart widgets.
func (ac *AdminController) GetRevenueReport(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))

	revenue, err := ac.menu.RevenueByDay(days)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Revenue by day", revenue)
}

// GetSettings lists every setting row.
func (ac *AdminController) GetSettings(c *gin.Context) {
	settings, err := ac.settings.All()
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Settings", settings)
}

// UpdateSetting writes one setting key (admin only). tax_rate is validated
// as a percentage.
func (ac *AdminController) UpdateSetting(c *gin.Context) {
	var req struct {
		Key   string `json:"key" binding:"required"`
		Value string `json:"value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if err := ac.settings.Set(req.Key, req.Value); err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("Setting %q updated by user %d", req.Key, c.GetUint("user_id"))
	utils.RespondJSON(c, http.StatusOK, "Setting updated", gin.H{req.Key: req.Value})
}

// ExportCustomers streams the customer list as CSV or JSON.
func (ac *AdminController) ExportCustomers(c *gin.Context) {
	filter := repositories.CustomerFilter{
		Search: c.Query("search"),
		Tier:   c.Query("tier"),
	}

	switch c.DefaultQuery("format", "csv") {
	case "json":
		rows, err := ac.exporter.CustomersJSON(filter)
		if err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		utils.RespondJSON(c, http.StatusOK, "Customer export", rows)
	case "csv":
		data, err := ac.exporter.CustomersCSV(filter)
		if err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		filename := fmt.Sprintf("customers-%s.csv", time.Now().Format("20060102"))
		c.Header("Content-Disposition", "attachment; filename="+filename)
		c.Data(http.StatusOK, "text/csv", data)
	default:
		utils.RespondError(c, http.StatusBadRequest, utils.Validationf("format must be csv or json"))
	}
}

// ExportSalesReport renders the PDF sales report with the revenue chart.
func (ac *AdminController) ExportSalesReport(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))

	data, err := ac.exporter.SalesReportPDF(days)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("sales-report-%s.pdf", time.Now().Format("20060102"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/pdf", data)
}
