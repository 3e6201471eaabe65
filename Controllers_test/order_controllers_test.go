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

func setupTestDBForOrders(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{}, &models.CustomerProfile{},
		&models.Order{}, &models.OrderItem{}, &models.Setting{},
	)
	if err != nil {
		t.Fatal(err)
	}

	db.Create(&models.User{Username: "cust", Email: "cust@example.com", Password: "x", UserType: models.RoleCustomer, IsActive: true})
	db.Create(&models.CustomerProfile{UserID: 1, TierLevel: models.TierBronze})
	return db
}

func setupOrderRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()
	orderCtrl := controllers.NewOrderController(db)

	// Staff surface.
	router.PATCH("/admin/orders/:order_id/status", orderCtrl.UpdateStatus)
	router.POST("/admin/orders/:order_id/mark-paid", orderCtrl.MarkPaid)

	// Customer surface.
	customer := router.Group("")
	customer.Use(fakeAuth(1))
	{
		customer.POST("/orders/:order_id/cancel", orderCtrl.CancelMyOrder)
	}
	return router
}

func patchStatus(router *gin.Engine, orderID, status string) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(map[string]string{"status": status})
	req, _ := http.NewRequest("PATCH", "/admin/orders/"+orderID+"/status", bytes.NewBuffer(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestOrderStatusMachine(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders(t)
	router := setupOrderRouter(db)

	db.Create(&models.Order{OrderNumber: "ORD-1", CustomerID: 1, OrderType: models.OrderTypeTakeout, Status: models.OrderStatusPending, PaymentStatus: models.PaymentStatusPending, PaymentMethod: "cash"})

	// Skipping straight to preparing is rejected.
	w := patchStatus(router, "1", models.OrderStatusPreparing)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	for _, status := range []string{
		models.OrderStatusConfirmed,
		models.OrderStatusPreparing,
		models.OrderStatusReady,
		models.OrderStatusCompleted,
	} {
		w = patchStatus(router, "1", status)
		assert.Equal(t, http.StatusOK, w.Code, "transition to %s", status)
	}

	// Completed is terminal.
	w = patchStatus(router, "1", models.OrderStatusCancelled)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// A takeout order cannot be "delivered".
	db.Create(&models.Order{OrderNumber: "ORD-2", CustomerID: 1, OrderType: models.OrderTypeTakeout, Status: models.OrderStatusReady, PaymentStatus: models.PaymentStatusPending, PaymentMethod: "cash"})
	w = patchStatus(router, "2", models.OrderStatusDelivered)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// A delivery order terminates in "delivered", not "completed".
	db.Create(&models.Order{OrderNumber: "ORD-3", CustomerID: 1, OrderType: models.OrderTypeDelivery, Status: models.OrderStatusReady, PaymentStatus: models.PaymentStatusPending, PaymentMethod: "cash"})
	w = patchStatus(router, "3", models.OrderStatusCompleted)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	w = patchStatus(router, "3", models.OrderStatusDelivered)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCancelPaidOrderRefunds(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders(t)
	router := setupOrderRouter(db)

	db.Create(&models.Order{OrderNumber: "ORD-1", CustomerID: 1, OrderType: models.OrderTypeTakeout, Status: models.OrderStatusConfirmed, PaymentStatus: models.PaymentStatusPaid, PaymentMethod: "cash"})

	w := patchStatus(router, "1", models.OrderStatusCancelled)
	assert.Equal(t, http.StatusOK, w.Code)

	var order models.Order
	db.First(&order, 1)
	assert.Equal(t, models.OrderStatusCancelled, order.Status)
	assert.Equal(t, models.PaymentStatusRefunded, order.PaymentStatus)
}

func TestCustomerCancelOwnOrder(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders(t)
	router := setupOrderRouter(db)

	db.Create(&models.User{Username: "other", Email: "other@example.com", Password: "x", UserType: models.RoleCustomer, IsActive: true})
	db.Create(&models.Order{OrderNumber: "ORD-1", CustomerID: 1, OrderType: models.OrderTypeTakeout, Status: models.OrderStatusPending, PaymentStatus: models.PaymentStatusPending, PaymentMethod: "cash"})
	db.Create(&models.Order{OrderNumber: "ORD-2", CustomerID: 2, OrderType: models.OrderTypeTakeout, Status: models.OrderStatusPending, PaymentStatus: models.PaymentStatusPending, PaymentMethod: "cash"})
	db.Create(&models.Order{OrderNumber: "ORD-3", CustomerID: 1, OrderType: models.OrderTypeTakeout, Status: models.OrderStatusPreparing, PaymentStatus: models.PaymentStatusPaid, PaymentMethod: "cash"})

	// Own pending order: cancel works.
	req, _ := http.NewRequest("POST", "/orders/1/cancel", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	// Someone else's order: forbidden.
	req, _ = http.NewRequest("POST", "/orders/2/cancel", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Already preparing: too late.
	req, _ = http.NewRequest("POST", "/orders/3/cancel", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestMarkPaidCashOrder(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForOrders(t)
	router := setupOrderRouter(db)

	db.Create(&models.Order{OrderNumber: "ORD-1", CustomerID: 1, OrderType: models.OrderTypeDineIn, Status: models.OrderStatusPending, PaymentStatus: models.PaymentStatusPending, PaymentMethod: "cash"})

	req, _ := http.NewRequest("POST", "/admin/orders/1/mark-paid", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var order models.Order
	db.First(&order, 1)
	assert.Equal(t, models.PaymentStatusPaid, order.PaymentStatus)

	// Marking twice is rejected.
	req, _ = http.NewRequest("POST", "/admin/orders/1/mark-paid", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
