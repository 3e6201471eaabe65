package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dapurkita/restaurant-manager/live"
	"github.com/dapurkita/restaurant-manager/models"
	"github.com/dapurkita/restaurant-manager/utils"
)

type TableController struct {
	DB *gorm.DB
}

func NewTableController(db *gorm.DB) *TableController {
	return &TableController{DB: db}
}

// GetTables lists tables; customers use it to pick a table when reserving.
func (tc *TableController) GetTables(c *gin.Context) {
	query := tc.DB.Order("table_number")
	if c.Query("available") == "true" {
		query = query.Where("is_available = ?", true)
	}
	if capacity, err := strconv.Atoi(c.Query("min_capacity")); err == nil && capacity > 0 {
		query = query.Where("capacity >= ?", capacity)
	}

	var tables []models.Table
	if err := query.Find(&tables).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "List of tables", tables)
}

// CreateTable adds a table to the floor plan (staff only).
func (tc *TableController) CreateTable(c *gin.Context) {
	type request struct {
		TableNumber string `json:"table_number" binding:"required"`
		Capacity    int    `json:"capacity" binding:"required"`
		Location    string `json:"location"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if req.Capacity < 1 {
		utils.RespondError(c, http.StatusUnprocessableEntity, utils.Validationf("capacity must be at least 1"))
		return
	}

	table := models.Table{
		TableNumber: req.TableNumber,
		Capacity:    req.Capacity,
		Location:    req.Location,
		IsAvailable: true,
	}
	if err := tc.DB.Create(&table).Error; err != nil {
		utils.RespondError(c, http.StatusConflict, errors.New("table number already exists"))
		return
	}

	live.BroadcastTableUpdate(table)
	utils.RespondJSON(c, http.StatusCreated, "Table created", table)
}

// UpdateTable edits a table (staff only).
func (tc *TableController) UpdateTable(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("table_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid table id"))
		return
	}

	var table models.Table
	if err := tc.DB.First(&table, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("table not found"))
		return
	}

	type request struct {
		TableNumber *string `json:"table_number"`
		Capacity    *int    `json:"capacity"`
		Location    *string `json:"location"`
		IsAvailable *bool   `json:"is_available"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.TableNumber != nil {
		table.TableNumber = *req.TableNumber
	}
	if req.Capacity != nil {
		if *req.Capacity < 1 {
			utils.RespondError(c, http.StatusUnprocessableEntity, utils.Validationf("capacity must be at least 1"))
			return
		}
		table.Capacity = *req.Capacity
	}
	if req.Location != nil {
		table.Location = *req.Location
	}
	if req.IsAvailable != nil {
		table.IsAvailable = *req.IsAvailable
	}

	if err := tc.DB.Save(&table).Error; err != nil {
		utils.RespondError(c, http.StatusConflict, errors.New("table number already exists"))
		return
	}

	live.BroadcastTableUpdate(table)
	utils.RespondJSON(c, http.StatusOK, "Table updated", table)
}

// DeleteTable removes a table with no upcoming reservations (staff only).
func (tc *TableController) DeleteTable(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("table_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid table id"))
		return
	}

	var pending int64
	err = tc.DB.Model(&models.Reservation{}).
		Where("table_id = ? AND status IN ?", id, models.NonTerminalReservationStatuses()).
		Count(&pending).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if pending > 0 {
		utils.RespondError(c, http.StatusConflict,
			utils.NewConflictError("table has active reservations"))
		return
	}

	result := tc.DB.Delete(&models.Table{}, id)
	if result.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondError(c, http.StatusNotFound, errors.New("table not found"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Table deleted", nil)
}
