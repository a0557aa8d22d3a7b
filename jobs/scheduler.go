package jobs

import (
	"os"
	"time"

	"github.com/robfig/cron/v3"

	"bnb-backend/logger"
)

// Default sweep schedule: daily at 03:00 UTC (seconds field included).
const defaultSweepSchedule = "0 0 3 * * *"

// Scheduler manages cron job scheduling.
type Scheduler struct {
	cron *cron.Cron
	jobs *JobRunner
}

func NewScheduler(jobRunner *JobRunner) *Scheduler {
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
	)

	s := &Scheduler{cron: c, jobs: jobRunner}
	s.registerJobs()
	return s
}

func (s *Scheduler) registerJobs() {
	schedule := os.Getenv("BOOKING_SWEEP_SCHEDULE")
	if schedule == "" {
		schedule = defaultSweepSchedule
	}

	if _, err := s.cron.AddFunc(schedule, s.jobs.SweepBookingLifecycle); err != nil {
		logger.Error("failed to register SweepBookingLifecycle job", "error", err)
		return
	}
	logger.Info("cron jobs registered", "sweep_schedule", schedule)
}

func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Info("cron scheduler started")
}

// Stop waits for any running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("cron scheduler stopped")
}
