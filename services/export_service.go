package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/wcharczuk/go-chart/v2"
	"gorm.io/gorm"

	"github.com/dapurkita/restaurant-manager/repositories"
	"github.com/dapurkita/restaurant-manager/utils"
)

// ExportService produces the back-office downloads: customer CSV/JSON and
// the PDF sales report with an embedded revenue chart.
type ExportService struct {
	db        *gorm.DB
	customers *repositories.CustomerRepository
	menu      *repositories.MenuRepository
	settings  *SettingsService
}

func NewExportService(db *gorm.DB) *ExportService {
	return &ExportService{
		db:        db,
		customers: repositories.NewCustomerRepository(db),
		menu:      repositories.NewMenuRepository(db),
		settings:  NewSettingsService(db),
	}
}

var customerExportHeader = []string{
	"ID", "Name", "Email", "Phone", "City", "State",
	"Loyalty Tier", "Points", "Total Spent", "Orders", "Reviews", "Joined",
}

// CustomersCSV renders the customer list as CSV.
func (s *ExportService) CustomersCSV(filter repositories.CustomerFilter) ([]byte, error) {
	rows, err := s.customers.List(filter)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write(customerExportHeader); err != nil {
		return nil, err
	}

	for _, row := range rows {
		record := []string{
			strconv.FormatUint(uint64(row.ID), 10),
			row.Name,
			row.Email,
			row.Phone,
			row.City,
			row.State,
			row.TierLevel,
			strconv.Itoa(row.LoyaltyPoints),
			fmt.Sprintf("%.2f", row.TotalSpent),
			strconv.FormatInt(row.OrderCount, 10),
			strconv.FormatInt(row.ReviewCount, 10),
			row.JoinedAt.Format("2006-01-02"),
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	return buf.Bytes(), writer.Error()
}

// CustomersJSON returns the same rows as the CSV export, for JSON consumers.
func (s *ExportService) CustomersJSON(filter repositories.CustomerFilter) ([]repositories.CustomerRow, error) {
	return s.customers.List(filter)
}

// SalesReportPDF builds a PDF with headline numbers, the top selling items
// and a daily revenue line chart for the requested range.
func (s *ExportService) SalesReportPDF(days int) ([]byte, error) {
	if days <= 0 {
		days = 30
	}

	revenue, err := s.menu.RevenueByDay(days)
	if err != nil {
		return nil, err
	}
	topSellers, err := s.menu.TopSellers(10)
	if err != nil {
		return nil, err
	}

	restaurantName, err := s.settings.Get("restaurant_name")
	if err != nil {
		restaurantName = "Restaurant"
	}

	var total float64
	for _, day := range revenue {
		total += day.Revenue
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, fmt.Sprintf("%s - Sales Report", restaurantName))
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 8, fmt.Sprintf("Generated %s, last %d days", time.Now().Format("2006-01-02 15:04"), days))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Total paid revenue: %s", utils.FormatMoney(total)))
	pdf.Ln(12)

	if chartPNG, err := renderRevenueChart(revenue); err == nil {
		options := fpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("revenue-chart", options, bytes.NewReader(chartPNG))
		pdf.ImageOptions("revenue-chart", 10, pdf.GetY(), 190, 0, false, options, 0, "")
		pdf.Ln(105)
	} else {
		utils.ErrorLogger.Printf("revenue chart render failed: %v", err)
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Top selling items")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(90, 7, "Item", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 7, "Quantity", "1", 0, "R", false, 0, "")
	pdf.CellFormat(60, 7, "Revenue", "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range topSellers {
		pdf.CellFormat(90, 7, item.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 7, strconv.FormatInt(item.Quantity, 10), "1", 0, "R", false, 0, "")
		pdf.CellFormat(60, 7, utils.FormatMoney(item.Revenue), "1", 1, "R", false, 0, "")
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// renderRevenueChart plots the revenue series as a PNG line chart.
func renderRevenueChart(revenue []repositories.DailyRevenue) ([]byte, error) {
	if len(revenue) < 2 {
		return nil, fmt.Errorf("not enough data points for a chart")
	}

	xValues := make([]float64, len(revenue))
	yValues := make([]float64, len(revenue))
	for i, day := range revenue {
		xValues[i] = float64(i)
		yValues[i] = day.Revenue
	}

	graph := chart.Chart{
		Width:  760,
		Height: 360,
		XAxis: chart.XAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					idx := int(f)
					if idx >= 0 && idx < len(revenue) {
						return revenue[idx].Day
					}
				}
				return ""
			},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Daily revenue",
				XValues: xValues,
				YValues: yValues,
			},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
