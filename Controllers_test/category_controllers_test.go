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

func setupTestDBForCategories(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	if err := db.AutoMigrate(&models.Category{}, &models.MenuItem{}); err != nil {
		t.Fatal(err)
	}
	return db
}

func setupCategoryRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()
	catCtrl := controllers.NewCategoryController(db)

	router.GET("/categories", catCtrl.GetCategories)
	router.POST("/categories", catCtrl.CreateCategory)
	router.PATCH("/categories/:category_id", catCtrl.UpdateCategory)
	router.DELETE("/categories/:category_id", catCtrl.DeleteCategory)
	return router
}

func categoryRequest(router *gin.Engine, method, url string, payload interface{}) *httptest.ResponseRecorder {
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

func TestCategorySiblingNames(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForCategories(t)
	router := setupCategoryRouter(db)

	w := categoryRequest(router, "POST", "/categories", map[string]interface{}{"name": "Drinks"})
	assert.Equal(t, http.StatusCreated, w.Code)

	// Duplicate name at the top level is rejected.
	w = categoryRequest(router, "POST", "/categories", map[string]interface{}{"name": "Drinks"})
	assert.Equal(t, http.StatusConflict, w.Code)

	// The same name under a different parent is fine.
	w = categoryRequest(router, "POST", "/categories", map[string]interface{}{
		"name": "Drinks", "parent_category_id": 1,
	})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCategoryCycleRejected(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForCategories(t)
	router := setupCategoryRouter(db)

	// Build a chain: 1 <- 2 <- 3.
	categoryRequest(router, "POST", "/categories", map[string]interface{}{"name": "A"})
	categoryRequest(router, "POST", "/categories", map[string]interface{}{"name": "B", "parent_category_id": 1})
	categoryRequest(router, "POST", "/categories", map[string]interface{}{"name": "C", "parent_category_id": 2})

	// Reparenting the root under its grandchild would close the loop.
	w := categoryRequest(router, "PATCH", "/categories/1", map[string]interface{}{
		"name": "A", "parent_category_id": 3,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// A category cannot be its own parent.
	w = categoryRequest(router, "PATCH", "/categories/2", map[string]interface{}{
		"name": "B", "parent_category_id": 2,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestCategoryDeleteGuards(t *testing.T) {
	utils.InitLogger()
	db := setupTestDBForCategories(t)
	router := setupCategoryRouter(db)

	categoryRequest(router, "POST", "/categories", map[string]interface{}{"name": "Parent"})
	categoryRequest(router, "POST", "/categories", map[string]interface{}{"name": "Child", "parent_category_id": 1})
	db.Create(&models.MenuItem{CategoryID: 2, Name: "Dish", Price: 5.00, IsAvailable: true})

	// Has a child: refuse.
	w := categoryRequest(router, "DELETE", "/categories/1", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Has items: refuse.
	w = categoryRequest(router, "DELETE", "/categories/2", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	// Empty leaf deletes fine.
	categoryRequest(router, "POST", "/categories", map[string]interface{}{"name": "Empty"})
	w = categoryRequest(router, "DELETE", "/categories/3", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
