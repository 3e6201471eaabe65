package Controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dapurkita/restaurant-manager/controllers"
	"github.com/dapurkita/restaurant-manager/middlewares"
	"github.com/dapurkita/restaurant-manager/models"
	"github.com/dapurkita/restaurant-manager/services"
	"github.com/dapurkita/restaurant-manager/utils"
)

func setupTestDBForCheckout(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{}, &models.CustomerProfile{},
		&models.Category{}, &models.MenuItem{},
		&models.Order{}, &models.OrderItem{},
		&models.Table{}, &models.Setting{},
	)
	if err != nil {
		t.Fatal(err)
	}

	db.Create(&models.User{Username: "cust", Email: "cust@example.com", Password: "x", UserType: models.RoleCustomer, IsActive: true})
	db.Create(&models.CustomerProfile{UserID: 1, TierLevel: models.TierBronze})
	db.Create(&models.Category{Name: "Mains"})
	db.Create(&models.MenuItem{CategoryID: 1, Name: "Nasi Goreng", Price: 10.00, IsAvailable: true})
	db.Create(&models.Setting{SettingKey: models.SettingTaxRate, SettingValue: "8.5"})
	return db
}

// fakeAuth stands in for the JWT middleware in tests.
func fakeAuth(userID uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("role", models.RoleCustomer)
		c.Next()
	}
}

func setupCheckoutRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()

	store := services.NewMemorySessionStore(time.Hour)
	cartCtrl := controllers.NewCartController(db)
	orderCtrl := controllers.NewOrderController(db)

	group := router.Group("")
	group.Use(fakeAuth(1))
	group.Use(middlewares.SessionMiddleware(store))
	{
		group.GET("/cart", cartCtrl.GetCart)
		group.POST("/cart/items", cartCtrl.AddItem)
		group.PATCH("/cart/items/:menu_item_id", cartCtrl.UpdateItem)
		group.DELETE("/cart/items/:menu_item_id", cartCtrl.RemoveItem)
		group.POST("/checkout", orderCtrl.Checkout)
	}
	return router
}

// do issues a request carrying the session cookie between calls.
func do(router *gin.Engine, cookie *http.Cookie, method, url string, payload interface{}) (*httptest.ResponseRecorder, *http.Cookie) {
	var body *bytes.Buffer
	if payload != nil {
		raw, _ := json.Marshal(payload)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}
	req, _ := http.NewRequest(method, url, body)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	for _, c := range w.Result().Cookies() {
		if c.Name == middlewares.SessionCookie {
			cookie = c
		}
	}
	return w, cookie
}

func TestCartAndCheckoutFlow(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForCheckout(t)
	router := setupCheckoutRouter(db)

	var cookie *http.Cookie

	// Add 2x the 10.00 item.
	w, cookie := do(router, cookie, "POST", "/cart/items", map[string]interface{}{
		"menu_item_id": 1, "quantity": 2,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w, cookie = do(router, cookie, "GET", "/cart", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var cartResp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &cartResp))
	cartData := cartResp["data"].(map[string]interface{})
	assert.Equal(t, 20.0, cartData["subtotal"])
	assert.NotEmpty(t, cartData["csrf_token"])

	// Checkout: 20.00 subtotal, 8.5% tax -> 1.70, final 21.70.
	w, cookie = do(router, cookie, "POST", "/checkout", map[string]interface{}{
		"order_type":     models.OrderTypeTakeout,
		"payment_method": "cash",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var order models.Order
	assert.NoError(t, db.Preload("OrderItems").First(&order).Error)
	assert.Equal(t, 20.00, order.TotalAmount)
	assert.Equal(t, 1.70, order.TaxAmount)
	assert.Equal(t, 21.70, order.FinalAmount)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Len(t, order.OrderItems, 1)
	assert.Equal(t, 10.00, order.OrderItems[0].UnitPrice)

	// Loyalty: floor(21.70) = 21 points awarded atomically with the order.
	var profile models.CustomerProfile
	assert.NoError(t, db.Where("user_id = ?", 1).First(&profile).Error)
	assert.Equal(t, 21, profile.LoyaltyPoints)
	assert.Equal(t, 21.70, profile.TotalSpent)

	// Cart is cleared after a successful checkout.
	w, _ = do(router, cookie, "GET", "/cart", nil)
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &cartResp))
	cartData = cartResp["data"].(map[string]interface{})
	assert.Equal(t, 0.0, cartData["subtotal"])
}

func TestCheckoutFailureLeavesCartIntact(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForCheckout(t)
	router := setupCheckoutRouter(db)

	var cookie *http.Cookie
	w, cookie := do(router, cookie, "POST", "/cart/items", map[string]interface{}{
		"menu_item_id": 1, "quantity": 1,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	// Invalid order type: checkout is rejected.
	w, cookie = do(router, cookie, "POST", "/checkout", map[string]interface{}{
		"order_type":     "drive_thru",
		"payment_method": "cash",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// No order row, no points, and the cart still has the item.
	var orderCount int64
	db.Model(&models.Order{}).Count(&orderCount)
	assert.Equal(t, int64(0), orderCount)

	var profile models.CustomerProfile
	db.Where("user_id = ?", 1).First(&profile)
	assert.Equal(t, 0, profile.LoyaltyPoints)

	w, _ = do(router, cookie, "GET", "/cart", nil)
	var cartResp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &cartResp))
	cartData := cartResp["data"].(map[string]interface{})
	assert.Equal(t, 10.0, cartData["subtotal"])
}

func TestCheckoutEmptyCart(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForCheckout(t)
	router := setupCheckoutRouter(db)

	w, _ := do(router, nil, "POST", "/checkout", map[string]interface{}{
		"order_type":     models.OrderTypeTakeout,
		"payment_method": "cash",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestCartUpdateAndRemove(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForCheckout(t)
	router := setupCheckoutRouter(db)

	var cookie *http.Cookie
	_, cookie = do(router, cookie, "POST", "/cart/items", map[string]interface{}{
		"menu_item_id": 1, "quantity": 3,
	})

	// Quantity down to 1.
	w, cookie := do(router, cookie, "PATCH", "/cart/items/1", map[string]interface{}{"quantity": 1})
	assert.Equal(t, http.StatusOK, w.Code)

	w, cookie = do(router, cookie, "GET", "/cart", nil)
	var cartResp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &cartResp))
	assert.Equal(t, 10.0, cartResp["data"].(map[string]interface{})["subtotal"])

	// Zero removes the line.
	w, cookie = do(router, cookie, "PATCH", "/cart/items/1", map[string]interface{}{"quantity": 0})
	assert.Equal(t, http.StatusOK, w.Code)

	// Updating something not in the cart is a 404.
	w, _ = do(router, cookie, "PATCH", "/cart/items/99", map[string]interface{}{"quantity": 2})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
