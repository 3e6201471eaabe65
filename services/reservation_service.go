package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/dapurkita/restaurant-manager/live"
	"github.com/dapurkita/restaurant-manager/models"
	"github.com/dapurkita/restaurant-manager/utils"
)

// Defaults for the conflict window and the customer cancellation cutoff.
// The window is symmetric around the requested slot and applied uniformly
// to every conflict check. main overrides these from the environment.
var (
	DefaultConflictWindow = 120 * time.Minute
	DefaultCancelCutoff   = 2 * time.Hour
)

type ReservationService struct {
	db             *gorm.DB
	ConflictWindow time.Duration
	CancelCutoff   time.Duration
}

func NewReservationService(db *gorm.DB) *ReservationService {
	return &ReservationService{
		db:             db,
		ConflictWindow: DefaultConflictWindow,
		CancelCutoff:   DefaultCancelCutoff,
	}
}

type ReservationInput struct {
	CustomerID      *uint
	TableID         uint
	ReservationDate string // YYYY-MM-DD
	ReservationTime string // HH:MM
	PartySize       int
	GuestName       string // walk-ins without an account
	GuestPhone      string
	SpecialRequests string
}

// Create validates the slot and books the table. The conflict check is a
// read-then-insert; see DESIGN.md for the documented race.
func (s *ReservationService) Create(in ReservationInput) (*models.Reservation, error) {
	if in.PartySize < models.ReservationMinParty || in.PartySize > models.ReservationMaxParty {
		return nil, utils.Validationf(fmt.Sprintf("party size must be between %d and %d",
			models.ReservationMinParty, models.ReservationMaxParty))
	}

	slot, err := time.ParseInLocation("2006-01-02 15:04", in.ReservationDate+" "+in.ReservationTime, time.Local)
	if err != nil {
		return nil, utils.Validationf("invalid reservation date or time")
	}
	if slot.Before(time.Now()) {
		return nil, utils.Validationf("reservation must be in the future")
	}

	var table models.Table
	if err := s.db.First(&table, in.TableID).Error; err != nil {
		return nil, utils.NewNotFoundError("table not found")
	}
	if !table.IsAvailable {
		return nil, utils.Validationf("table is not available for reservations")
	}
	if in.PartySize > table.Capacity {
		return nil, utils.Validationf(fmt.Sprintf("table %s seats at most %d", table.TableNumber, table.Capacity))
	}

	conflict, err := s.HasConflict(in.TableID, slot, 0)
	if err != nil {
		return nil, err
	}
	if conflict {
		utils.ReservationConflictsTotal.Inc()
		return nil, utils.NewConflictError("table is already reserved around that time")
	}

	reservation := models.Reservation{
		CustomerID:      in.CustomerID,
		TableID:         in.TableID,
		ReservationDate: in.ReservationDate,
		ReservationTime: in.ReservationTime,
		PartySize:       in.PartySize,
		GuestName:       in.GuestName,
		GuestPhone:      in.GuestPhone,
		Status:          models.ReservationStatusPending,
		SpecialRequests: in.SpecialRequests,
	}
	if err := s.db.Create(&reservation).Error; err != nil {
		return nil, err
	}

	utils.ReservationsCreatedTotal.Inc()
	live.BroadcastReservationUpdate(reservation)
	return &reservation, nil
}

// HasConflict reports whether any non-terminal reservation holds the table
// within the window around slot. excludeID skips a reservation when
// re-checking during an update.
func (s *ReservationService) HasConflict(tableID uint, slot time.Time, excludeID uint) (bool, error) {
	// Candidate set: same table, non-terminal, on the slot day or its
	// neighbours (the window can cross midnight). The exact window check
	// happens in Go because the slot is stored as separate date and time
	// columns.
	dates := []string{
		slot.Add(-s.ConflictWindow).Format("2006-01-02"),
		slot.Format("2006-01-02"),
		slot.Add(s.ConflictWindow).Format("2006-01-02"),
	}

	var candidates []models.Reservation
	query := s.db.Where("table_id = ? AND status IN ? AND reservation_date IN ?",
		tableID, models.NonTerminalReservationStatuses(), dates)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Find(&candidates).Error; err != nil {
		return false, err
	}

	for _, existing := range candidates {
		existingSlot, err := existing.SlotTime()
		if err != nil {
			continue
		}
		diff := slot.Sub(existingSlot)
		if diff < 0 {
			diff = -diff
		}
		if diff < s.ConflictWindow {
			return true, nil
		}
	}
	return false, nil
}

// Cancel cancels a reservation for the owning customer. Rejected inside the
// cutoff before the slot.
func (s *ReservationService) Cancel(reservationID uint, customerID uint) (*models.Reservation, error) {
	var reservation models.Reservation
	if err := s.db.First(&reservation, reservationID).Error; err != nil {
		return nil, utils.NewNotFoundError("reservation not found")
	}

	if reservation.CustomerID == nil || *reservation.CustomerID != customerID {
		return nil, utils.ErrNoPermission
	}
	if !reservation.CanTransitionTo(models.ReservationStatusCancelled) {
		return nil, utils.Validationf(fmt.Sprintf("a %s reservation cannot be cancelled", reservation.Status))
	}

	slot, err := reservation.SlotTime()
	if err != nil {
		return nil, err
	}
	if time.Now().After(slot.Add(-s.CancelCutoff)) {
		return nil, utils.Validationf(fmt.Sprintf(
			"reservations can only be cancelled up to %s before the slot", s.CancelCutoff))
	}

	reservation.Status = models.ReservationStatusCancelled
	if err := s.db.Save(&reservation).Error; err != nil {
		return nil, err
	}

	live.BroadcastReservationUpdate(reservation)
	return &reservation, nil
}

// Transition is the staff-side status move (confirm, seat, complete, no-show).
func (s *ReservationService) Transition(reservationID uint, target string) (*models.Reservation, error) {
	var reservation models.Reservation
	if err := s.db.First(&reservation, reservationID).Error; err != nil {
		return nil, utils.NewNotFoundError("reservation not found")
	}

	if !reservation.CanTransitionTo(target) {
		return nil, utils.Validationf(fmt.Sprintf("cannot move reservation from %s to %s",
			reservation.Status, target))
	}

	reservation.Status = target
	if err := s.db.Save(&reservation).Error; err != nil {
		return nil, err
	}

	live.BroadcastReservationUpdate(reservation)
	return &reservation, nil
}

// AutoConfirmPending confirms reservations still pending an hour after they
// were created. Called by the monitor.
func (s *ReservationService) AutoConfirmPending() (int64, error) {
	cutoff := time.Now().Add(-1 * time.Hour)
	result := s.db.Model(&models.Reservation{}).
		Where("status = ? AND created_at <= ?", models.ReservationStatusPending, cutoff).
		Update("status", models.ReservationStatusConfirmed)
	return result.RowsAffected, result.Error
}

// MarkNoShows flags pending/confirmed reservations 30+ minutes past their
// slot. Called by the monitor.
func (s *ReservationService) MarkNoShows() (int64, error) {
	grace := 30 * time.Minute

	var candidates []models.Reservation
	err := s.db.Where("status IN ?", []string{
		models.ReservationStatusPending, models.ReservationStatusConfirmed,
	}).Find(&candidates).Error
	if err != nil {
		return 0, err
	}

	now := time.Now()
	var marked int64
	for _, reservation := range candidates {
		slot, err := reservation.SlotTime()
		if err != nil {
			continue
		}
		if now.Before(slot.Add(grace)) {
			continue
		}
		reservation.Status = models.ReservationStatusNoShow
		if err := s.db.Save(&reservation).Error; err != nil {
			utils.ErrorLogger.Printf("failed to mark reservation %d as no-show: %v", reservation.ID, err)
			continue
		}
		marked++
		live.BroadcastReservationUpdate(reservation)
	}
	return marked, nil
}
