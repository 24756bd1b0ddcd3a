// Package scheduler ticks the periodic overdue sweep. It only submits jobs;
// the worker pool runs them, so a slow sweep never blocks the next tick
// from being scheduled.
package scheduler

import (
	"time"

	"github.com/go-co-op/gocron"

	"github.com/danielvr/adaptengine/internal/logger"
	"github.com/danielvr/adaptengine/internal/services"
	"github.com/danielvr/adaptengine/internal/worker"
)

// Scheduler manages the periodic homework deadline sweep.
type Scheduler struct {
	scheduler *gocron.Scheduler
	pool      *worker.Pool
	homework  services.HomeworkService
	interval  time.Duration
	log       *logger.Logger
}

// New creates a scheduler that sweeps every interval.
func New(pool *worker.Pool, homework services.HomeworkService, interval time.Duration) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		pool:      pool,
		homework:  homework,
		interval:  interval,
		log:       logger.Default().WithPrefix("scheduler"),
	}
}

// Start begins ticking. Non-blocking.
func (s *Scheduler) Start() error {
	if _, err := s.scheduler.Every(s.interval).Do(s.submitSweep); err != nil {
		return err
	}
	s.scheduler.StartAsync()
	s.log.Info("sweep scheduled every %v", s.interval)
	return nil
}

// Stop terminates the tick loop. In-flight jobs finish in the pool.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
	s.log.Info("scheduler stopped")
}

func (s *Scheduler) submitSweep() {
	s.pool.Submit(&worker.SweepJob{
		Homework: s.homework,
		Now:      time.Now().UTC(),
	})
}
