package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/dapurkita/restaurant-manager/utils"
)

// ReservationMonitor runs the time-based reservation transitions in the
// background: auto-confirm stale pending reservations and mark no-shows.
type ReservationMonitor struct {
	service  *ReservationService
	Interval time.Duration
	stopChan chan struct{}
}

func NewReservationMonitor(db *gorm.DB) *ReservationMonitor {
	return &ReservationMonitor{
		service:  NewReservationService(db),
		Interval: 1 * time.Minute,
		stopChan: make(chan struct{}),
	}
}

func (m *ReservationMonitor) Start() {
	go func() {
		ticker := time.NewTicker(m.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				m.sweep()
			case <-m.stopChan:
				return
			}
		}
	}()
	utils.InfoLogger.Println("Reservation monitor started")
}

func (m *ReservationMonitor) Stop() {
	close(m.stopChan)
}

func (m *ReservationMonitor) sweep() {
	if confirmed, err := m.service.AutoConfirmPending(); err != nil {
		utils.ErrorLogger.Printf("auto-confirm sweep failed: %v", err)
	} else if confirmed > 0 {
		utils.InfoLogger.Printf("Auto-confirmed %d pending reservations", confirmed)
	}

	if marked, err := m.service.MarkNoShows(); err != nil {
		utils.ErrorLogger.Printf("no-show sweep failed: %v", err)
	} else if marked > 0 {
		utils.InfoLogger.Printf("Marked %d reservations as no-show", marked)
	}
}
