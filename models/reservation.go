package models

import "time"

// Reservation statuses
const (
	ReservationStatusPending   = "pending"
	ReservationStatusConfirmed = "confirmed"
	ReservationStatusSeated    = "seated"
	ReservationStatusCompleted = "completed"
	ReservationStatusCancelled = "cancelled"
	ReservationStatusNoShow    = "no_show"
)

// Party size bounds enforced at creation.
const (
	ReservationMinParty = 1
	ReservationMaxParty = 20
)

type Reservation struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	CustomerID      *uint     `gorm:"index" json:"customer_id,omitempty"` // nil for walk-ins
	Customer        *User     `gorm:"foreignKey:CustomerID;references:ID" json:"customer,omitempty"`
	TableID         uint      `gorm:"not null;index" json:"table_id"`
	Table           Table     `gorm:"foreignKey:TableID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"table"`
	ReservationDate string    `gorm:"type:varchar(10);not null;index" json:"reservation_date"` // YYYY-MM-DD
	ReservationTime string    `gorm:"type:varchar(5);not null" json:"reservation_time"`        // HH:MM
	PartySize       int       `gorm:"not null" json:"party_size"`
	GuestName       string    `gorm:"type:varchar(120)" json:"guest_name,omitempty"` // walk-ins only
	GuestPhone      string    `gorm:"type:varchar(30)" json:"guest_phone,omitempty"`
	Status          string    `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	SpecialRequests string    `gorm:"type:text" json:"special_requests"`
	CreatedAt       time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time `gorm:"not null" json:"updated_at"`
}

// reservationTransitions lists the allowed moves per status.
var reservationTransitions = map[string][]string{
	ReservationStatusPending:   {ReservationStatusConfirmed, ReservationStatusCancelled, ReservationStatusNoShow},
	ReservationStatusConfirmed: {ReservationStatusSeated, ReservationStatusCancelled, ReservationStatusNoShow},
	ReservationStatusSeated:    {ReservationStatusCompleted},
}

// CanTransitionTo reports whether the reservation may move to target.
func (r *Reservation) CanTransitionTo(target string) bool {
	for _, next := range reservationTransitions[r.Status] {
		if next == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the reservation reached a final status.
func (r *Reservation) IsTerminal() bool {
	return len(reservationTransitions[r.Status]) == 0
}

// SlotTime combines date and time into a time.Time in the local zone.
func (r *Reservation) SlotTime() (time.Time, error) {
	return SlotTime(r.ReservationDate, r.ReservationTime)
}

// SlotTime parses a "YYYY-MM-DD" date and "HH:MM" time pair.
func SlotTime(date, clock string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02 15:04", date+" "+clock, time.Local)
}

// NonTerminalReservationStatuses returns the statuses that still hold a
// table inside the conflict window.
func NonTerminalReservationStatuses() []string {
	return []string{ReservationStatusPending, ReservationStatusConfirmed, ReservationStatusSeated}
}
