package Controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dapurkita/restaurant-manager/controllers"
	"github.com/dapurkita/restaurant-manager/models"
	"github.com/dapurkita/restaurant-manager/utils"
)

func setupTestDBForMenus(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(
		&models.Category{}, &models.MenuItem{},
		&models.Order{}, &models.OrderItem{}, &models.Review{}, &models.User{},
	)
	if err != nil {
		t.Fatal(err)
	}
	db.Create(&models.Category{Name: "Mains"})
	return db
}

func setupMenuRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()
	menuCtrl := controllers.NewMenuController(db)

	router.GET("/menu", menuCtrl.GetMenu)
	router.GET("/menu/:menu_item_id", menuCtrl.GetMenuItem)
	router.POST("/menu", menuCtrl.CreateMenuItem)
	router.PATCH("/menu/:menu_item_id", menuCtrl.UpdateMenuItem)
	router.DELETE("/menu/:menu_item_id", menuCtrl.DeleteMenuItem)
	router.POST("/menu/:menu_item_id/toggle-availability", menuCtrl.ToggleAvailability)
	return router
}

func menuRequest(router *gin.Engine, method, url string, payload interface{}) *httptest.ResponseRecorder {
	var body *bytes.Buffer
	if payload != nil {
		raw, _ := json.Marshal(payload)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}
	req, _ := http.NewRequest(method, url, body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestMenuItemCRUD(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForMenus(t)
	router := setupMenuRouter(db)

	w := menuRequest(router, "POST", "/menu", map[string]interface{}{
		"category_id": 1,
		"name":        "Gado Gado",
		"price":       8.50,
		"description": "Vegetables with peanut sauce",
		"spice_level": 1,
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = menuRequest(router, "GET", "/menu/1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = menuRequest(router, "PATCH", "/menu/1", map[string]interface{}{
		"category_id": 1,
		"name":        "Gado Gado Special",
		"price":       9.25,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	var item models.MenuItem
	db.First(&item, 1)
	assert.Equal(t, "Gado Gado Special", item.Name)
	assert.Equal(t, 9.25, item.Price)

	// Never ordered: hard delete.
	w = menuRequest(router, "DELETE", "/menu/1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&models.MenuItem{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestMenuItemValidation(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForMenus(t)
	router := setupMenuRouter(db)

	// Negative price.
	w := menuRequest(router, "POST", "/menu", map[string]interface{}{
		"category_id": 1, "name": "Broken", "price": -1.0,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// Unknown category.
	w = menuRequest(router, "POST", "/menu", map[string]interface{}{
		"category_id": 42, "name": "Orphan", "price": 5.0,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// Spice level out of range.
	w = menuRequest(router, "POST", "/menu", map[string]interface{}{
		"category_id": 1, "name": "Inferno", "price": 5.0, "spice_level": 9,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestMenuItemSoftDeleteWhenOrdered(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForMenus(t)
	router := setupMenuRouter(db)

	db.Create(&models.MenuItem{CategoryID: 1, Name: "Soto", Price: 7.00, IsAvailable: true})
	db.Create(&models.User{Username: "cust", Email: "c@example.com", Password: "x", UserType: models.RoleCustomer, IsActive: true})
	db.Create(&models.Order{OrderNumber: "ORD-1", CustomerID: 1, OrderType: models.OrderTypeTakeout, Status: models.OrderStatusCompleted, PaymentStatus: models.PaymentStatusPaid, PaymentMethod: "cash"})
	db.Create(&models.OrderItem{OrderID: 1, MenuItemID: 1, Quantity: 1, UnitPrice: 7.00, TotalPrice: 7.00})

	w := menuRequest(router, "DELETE", "/menu/1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["data"].(map[string]interface{})["soft_deleted"])

	// Row survives so order history keeps its reference, but it is hidden
	// from the public menu.
	var item models.MenuItem
	assert.NoError(t, db.First(&item, 1).Error)
	assert.False(t, item.IsAvailable)

	w = menuRequest(router, "GET", "/menu", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	items := resp["data"].([]interface{})
	assert.Len(t, items, 0)
}

func TestMenuFilters(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForMenus(t)
	router := setupMenuRouter(db)

	db.Create(&models.MenuItem{CategoryID: 1, Name: "Cheap Snack", Price: 3.00, IsAvailable: true})
	db.Create(&models.MenuItem{CategoryID: 1, Name: "Fancy Plate", Price: 25.00, IsAvailable: true, IsFeatured: true})
	hidden := models.MenuItem{CategoryID: 1, Name: "Hidden Dish", Price: 10.00, IsAvailable: false}
	db.Create(&hidden)
	// The model's `default:true` tag makes GORM skip the zero-value false on
	// insert, so force the column to the value the seed declares.
	db.Model(&hidden).Update("is_available", false)

	w := menuRequest(router, "GET", "/menu", nil)
	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp["data"].([]interface{}), 2) // unavailable item hidden

	w = menuRequest(router, "GET", "/menu?min_price=5", nil)
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp["data"].([]interface{}), 1)

	w = menuRequest(router, "GET", "/menu?featured=true", nil)
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	items := resp["data"].([]interface{})
	assert.Len(t, items, 1)

	w = menuRequest(router, "GET", "/menu?search=snack", nil)
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp["data"].([]interface{}), 1)
}
