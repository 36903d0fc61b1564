package scheduler

import (
	"log"
	"time"

	"github.com/adhcode/estate-backend/internal/domain"
)

// VisitScheduler cancels no-show visits: pending visits whose visit date
// has passed by more than the configured number of days. Cancellation is
// the only legal transition out of pending besides check-in, so the bulk
// update cannot corrupt the lifecycle.
type VisitScheduler struct {
	visitRepo domain.VisitRepository
	ttlDays   int
	ticker    *time.Ticker
}

// NewVisitScheduler creates a new instance of the visit scheduler.
func NewVisitScheduler(visitRepo domain.VisitRepository, ttlDays int) *VisitScheduler {
	if ttlDays < 1 {
		ttlDays = 1
	}
	return &VisitScheduler{
		visitRepo: visitRepo,
		ttlDays:   ttlDays,
	}
}

// Start runs the no-show sweep immediately and then once a day shortly
// after midnight.
func (s *VisitScheduler) Start() {
	log.Println("Visit scheduler started - runs every 24 hours")

	s.CancelNoShows()

	now := time.Now()
	nextRun := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 1, 0, 0, now.Location())

	log.Printf("Next no-show sweep scheduled: %s", nextRun.Format("2006-01-02 15:04:05"))

	time.AfterFunc(time.Until(nextRun), func() {
		s.CancelNoShows()

		s.ticker = time.NewTicker(24 * time.Hour)
		go func() {
			for range s.ticker.C {
				s.CancelNoShows()
			}
		}()
	})
}

// Stop halts the scheduler.
func (s *VisitScheduler) Stop() {
	if s.ticker != nil {
		s.ticker.Stop()
		log.Println("Visit scheduler stopped")
	}
}

// CancelNoShows cancels pending visits whose visit date has expired.
func (s *VisitScheduler) CancelNoShows() {
	cutoff := time.Now().AddDate(0, 0, -s.ttlDays)

	cancelled, err := s.visitRepo.CancelExpiredPending(cutoff)
	if err != nil {
		log.Printf("Error cancelling no-show visits: %v", err)
		return
	}
	if cancelled > 0 {
		log.Printf("Cancelled %d no-show visits", cancelled)
	}
}
