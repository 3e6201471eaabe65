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
	"github.com/dapurkita/restaurant-manager/models"
	"github.com/dapurkita/restaurant-manager/utils"
)

func setupTestDBForReservations(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(&models.User{}, &models.Table{}, &models.Reservation{})
	if err != nil {
		t.Fatal(err)
	}

	db.Create(&models.User{Username: "cust", Email: "cust@example.com", Password: "x", UserType: models.RoleCustomer, IsActive: true})
	db.Create(&models.Table{TableNumber: "T1", Capacity: 4, IsAvailable: true})
	db.Create(&models.Table{TableNumber: "T2", Capacity: 2, IsAvailable: true})
	return db
}

func setupReservationRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()
	resCtrl := controllers.NewReservationController(db)

	group := router.Group("")
	group.Use(fakeAuth(1))
	{
		group.POST("/reservations", resCtrl.CreateReservation)
		group.GET("/reservations", resCtrl.GetMyReservations)
		group.POST("/reservations/:reservation_id/cancel", resCtrl.CancelReservation)
	}
	router.GET("/reservations/availability", resCtrl.CheckAvailability)
	return router
}

func postReservation(router *gin.Engine, payload map[string]interface{}) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(payload)
	req, _ := http.NewRequest("POST", "/reservations", bytes.NewBuffer(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestReservationConflictWindow(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForReservations(t)
	router := setupReservationRouter(db)

	slot := time.Now().Add(72 * time.Hour).Truncate(time.Hour)

	w := postReservation(router, map[string]interface{}{
		"table_id":         1,
		"reservation_date": slot.Format("2006-01-02"),
		"reservation_time": slot.Format("15:04"),
		"party_size":       2,
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	// 60 minutes later on the same table collides.
	inside := slot.Add(60 * time.Minute)
	w = postReservation(router, map[string]interface{}{
		"table_id":         1,
		"reservation_date": inside.Format("2006-01-02"),
		"reservation_time": inside.Format("15:04"),
		"party_size":       2,
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Exactly 120 minutes apart is allowed (boundary is exclusive).
	boundary := slot.Add(120 * time.Minute)
	w = postReservation(router, map[string]interface{}{
		"table_id":         1,
		"reservation_date": boundary.Format("2006-01-02"),
		"reservation_time": boundary.Format("15:04"),
		"party_size":       2,
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	// The other table is free at the original slot.
	w = postReservation(router, map[string]interface{}{
		"table_id":         2,
		"reservation_date": slot.Format("2006-01-02"),
		"reservation_time": slot.Format("15:04"),
		"party_size":       2,
	})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestReservationValidation(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForReservations(t)
	router := setupReservationRouter(db)

	slot := time.Now().Add(72 * time.Hour).Truncate(time.Hour)

	// Party larger than the table.
	w := postReservation(router, map[string]interface{}{
		"table_id":         2,
		"reservation_date": slot.Format("2006-01-02"),
		"reservation_time": slot.Format("15:04"),
		"party_size":       6,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// Past slot.
	past := time.Now().Add(-24 * time.Hour)
	w = postReservation(router, map[string]interface{}{
		"table_id":         1,
		"reservation_date": past.Format("2006-01-02"),
		"reservation_time": past.Format("15:04"),
		"party_size":       2,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// Unknown table.
	w = postReservation(router, map[string]interface{}{
		"table_id":         99,
		"reservation_date": slot.Format("2006-01-02"),
		"reservation_time": slot.Format("15:04"),
		"party_size":       2,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReservationCancelCutoff(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForReservations(t)
	router := setupReservationRouter(db)

	customerID := uint(1)

	// Far in the future: cancel works.
	farSlot := time.Now().Add(96 * time.Hour)
	far := models.Reservation{
		CustomerID:      &customerID,
		TableID:         1,
		ReservationDate: farSlot.Format("2006-01-02"),
		ReservationTime: farSlot.Format("15:04"),
		PartySize:       2,
		Status:          models.ReservationStatusConfirmed,
	}
	db.Create(&far)

	req, _ := http.NewRequest("POST", "/reservations/1/cancel", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var reloaded models.Reservation
	db.First(&reloaded, far.ID)
	assert.Equal(t, models.ReservationStatusCancelled, reloaded.Status)

	// One hour out: inside the 2h cutoff, cancel is rejected.
	nearSlot := time.Now().Add(1 * time.Hour)
	near := models.Reservation{
		CustomerID:      &customerID,
		TableID:         2,
		ReservationDate: nearSlot.Format("2006-01-02"),
		ReservationTime: nearSlot.Format("15:04"),
		PartySize:       2,
		Status:          models.ReservationStatusConfirmed,
	}
	db.Create(&near)

	req, _ = http.NewRequest("POST", "/reservations/2/cancel", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	reloaded = models.Reservation{}
	db.First(&reloaded, near.ID)
	assert.Equal(t, models.ReservationStatusConfirmed, reloaded.Status)
}

func TestAvailabilityEndpoint(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForReservations(t)
	router := setupReservationRouter(db)

	slot := time.Now().Add(72 * time.Hour).Truncate(time.Hour)
	customerID := uint(1)
	db.Create(&models.Reservation{
		CustomerID:      &customerID,
		TableID:         1,
		ReservationDate: slot.Format("2006-01-02"),
		ReservationTime: slot.Format("15:04"),
		PartySize:       2,
		Status:          models.ReservationStatusConfirmed,
	})

	url := "/reservations/availability?table_id=1&date=" + slot.Format("2006-01-02") + "&time=" + slot.Format("15:04")
	req, _ := http.NewRequest("GET", url, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["data"].(map[string]interface{})["available"])
}
