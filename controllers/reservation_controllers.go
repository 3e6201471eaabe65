package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dapurkita/restaurant-manager/models"
	"github.com/dapurkita/restaurant-manager/services"
	"github.com/dapurkita/restaurant-manager/utils"
)

type ReservationController struct {
	DB      *gorm.DB
	service *services.ReservationService
}

func NewReservationController(db *gorm.DB) *ReservationController {
	return &ReservationController{
		DB:      db,
		service: services.NewReservationService(db),
	}
}

// CreateReservation books a table for the authenticated customer.
func (rc *ReservationController) CreateReservation(c *gin.Context) {
	userID := c.GetUint("user_id")

	type request struct {
		TableID         uint   `json:"table_id" binding:"required"`
		ReservationDate string `json:"reservation_date" binding:"required"`
		ReservationTime string `json:"reservation_time" binding:"required"`
		PartySize       int    `json:"party_size" binding:"required"`
		SpecialRequests string `json:"special_requests"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	reservation, err := rc.service.Create(services.ReservationInput{
		CustomerID:      &userID,
		TableID:         req.TableID,
		ReservationDate: req.ReservationDate,
		ReservationTime: req.ReservationTime,
		PartySize:       req.PartySize,
		SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Reservation created", reservation)
}

// CreateWalkIn books on behalf of a guest at the host stand (staff only).
// No customer account is attached.
func (rc *ReservationController) CreateWalkIn(c *gin.Context) {
	type request struct {
		TableID         uint   `json:"table_id" binding:"required"`
		ReservationDate string `json:"reservation_date" binding:"required"`
		ReservationTime string `json:"reservation_time" binding:"required"`
		PartySize       int    `json:"party_size" binding:"required"`
		GuestName       string `json:"guest_name" binding:"required"`
		GuestPhone      string `json:"guest_phone"`
		SpecialRequests string `json:"special_requests"`
	}
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	reservation, err := rc.service.Create(services.ReservationInput{
		TableID:         req.TableID,
		ReservationDate: req.ReservationDate,
		ReservationTime: req.ReservationTime,
		PartySize:       req.PartySize,
		GuestName:       req.GuestName,
		GuestPhone:      req.GuestPhone,
		SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Reservation created", reservation)
}

// GetMyReservations lists the authenticated customer's reservations.
func (rc *ReservationController) GetMyReservations(c *gin.Context) {
	userID := c.GetUint("user_id")

	var reservations []models.Reservation
	err := rc.DB.Preload("Table").
		Where("customer_id = ?", userID).
		Order("reservation_date DESC, reservation_time DESC").
		Find(&reservations).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Your reservations", reservations)
}

// GetAllReservations lists reservations for the back office, optionally
// filtered by date and status.
func (rc *ReservationController) GetAllReservations(c *gin.Context) {
	query := rc.DB.Preload("Table").Preload("Customer")
	if date := c.Query("date"); date != "" {
		query = query.Where("reservation_date = ?", date)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var reservations []models.Reservation
	if err := query.Order("reservation_date, reservation_time").Find(&reservations).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "List of reservations", reservations)
}

// CancelReservation cancels the customer's own reservation, subject to the
// cutoff window.
func (rc *ReservationController) CancelReservation(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("reservation_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid reservation id"))
		return
	}

	reservation, err := rc.service.Cancel(uint(id), c.GetUint("user_id"))
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Reservation cancelled", reservation)
}

// UpdateReservationStatus moves a reservation through its lifecycle
// (staff only): confirm, seat, complete, no-show, cancel.
func (rc *ReservationController) UpdateReservationStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("reservation_id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid reservation id"))
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	reservation, err := rc.service.Transition(uint(id), req.Status)
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Reservation updated", reservation)
}

// CheckAvailability reports whether a table is free around a slot, so the
// frontend can show conflicts before submitting.
func (rc *ReservationController) CheckAvailability(c *gin.Context) {
	tableID, err := strconv.Atoi(c.Query("table_id"))
	if err != nil || tableID <= 0 {
		utils.RespondError(c, http.StatusBadRequest, errors.New("table_id is required"))
		return
	}
	date := c.Query("date")
	timeStr := c.Query("time")

	slot, err := models.SlotTime(date, timeStr)
	if err != nil {
		utils.RespondError(c, http.StatusUnprocessableEntity, utils.Validationf("invalid date or time"))
		return
	}

	conflict, err := rc.service.HasConflict(uint(tableID), slot, 0)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Availability", gin.H{
		"table_id":  tableID,
		"available": !conflict,
	})
}
