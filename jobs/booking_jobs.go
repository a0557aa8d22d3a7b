package jobs

import (
	"time"

	"gorm.io/gorm"

	"bnb-backend/logger"
	"bnb-backend/models"
	"bnb-backend/services"
)

// JobRunner executes scheduled maintenance jobs.
type JobRunner struct {
	db *gorm.DB
}

func NewJobRunner(db *gorm.DB) *JobRunner {
	return &JobRunner{db: db}
}

func (jr *JobRunner) runWithRecovery(name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("job panicked", "job", name, "panic", r)
		}
	}()

	start := time.Now()
	logger.Info("job started", "job", name)
	fn()
	logger.Info("job finished", "job", name, "duration", time.Since(start).String())
}

// SweepBookingLifecycle advances bookings whose dates have passed: confirmed
// stays that have checked out become completed, and pending requests whose
// check-in date already went by are cancelled.
func (jr *JobRunner) SweepBookingLifecycle() {
	jr.runWithRecovery("SweepBookingLifecycle", func() {
		today := services.Today()

		res := jr.db.Model(&models.Booking{}).
			Where("status = ? AND check_out <= ?", models.BookingStatusConfirmed, today).
			Update("status", models.BookingStatusCompleted)
		if res.Error != nil {
			logger.Error("failed to complete finished bookings", "error", res.Error)
		} else if res.RowsAffected > 0 {
			logger.Info("completed finished bookings", "count", res.RowsAffected)
		}

		res = jr.db.Model(&models.Booking{}).
			Where("status = ? AND check_in < ?", models.BookingStatusPending, today).
			Update("status", models.BookingStatusCancelled)
		if res.Error != nil {
			logger.Error("failed to cancel stale pending bookings", "error", res.Error)
		} else if res.RowsAffected > 0 {
			logger.Info("cancelled stale pending bookings", "count", res.RowsAffected)
		}
	})
}
