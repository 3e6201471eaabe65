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

func setupTestDBForUsers(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.CustomerProfile{}); err != nil {
		t.Fatal(err)
	}
	return db
}

func setupUserRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()
	userCtrl := controllers.NewUserController(db)
	router.POST("/register", userCtrl.Register)
	router.POST("/login", userCtrl.Login)
	return router
}

func TestRegisterAndLogin(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForUsers(t)
	router := setupUserRouter(db)

	payload := map[string]interface{}{
		"username":   "anna",
		"email":      "anna@example.com",
		"password":   "supersecret1",
		"first_name": "Anna",
		"last_name":  "Putri",
	}
	body, _ := json.Marshal(payload)

	req, _ := http.NewRequest("POST", "/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	// Registration must also create the loyalty profile at bronze.
	var profile models.CustomerProfile
	err := db.Joins("JOIN users ON users.id = customer_profiles.user_id").
		Where("users.email = ?", "anna@example.com").
		First(&profile).Error
	assert.NoError(t, err)
	assert.Equal(t, models.TierBronze, profile.TierLevel)
	assert.Equal(t, 0, profile.LoyaltyPoints)

	// Duplicate email is rejected.
	req, _ = http.NewRequest("POST", "/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Login with the right password yields a token.
	loginBody, _ := json.Marshal(map[string]string{
		"email":    "anna@example.com",
		"password": "supersecret1",
	})
	req, _ = http.NewRequest("POST", "/login", bytes.NewBuffer(loginBody))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.NotEmpty(t, data["token"])
	assert.Equal(t, "customer", data["user_role"])

	// Wrong password is a 401.
	badBody, _ := json.Marshal(map[string]string{
		"email":    "anna@example.com",
		"password": "wrongpassword",
	})
	req, _ = http.NewRequest("POST", "/login", bytes.NewBuffer(badBody))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginDisabledAccount(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForUsers(t)
	router := setupUserRouter(db)

	body, _ := json.Marshal(map[string]interface{}{
		"username": "budi",
		"email":    "budi@example.com",
		"password": "supersecret1",
	})
	req, _ := http.NewRequest("POST", "/register", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	db.Model(&models.User{}).Where("email = ?", "budi@example.com").Update("is_active", false)

	loginBody, _ := json.Marshal(map[string]string{
		"email":    "budi@example.com",
		"password": "supersecret1",
	})
	req, _ = http.NewRequest("POST", "/login", bytes.NewBuffer(loginBody))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
