package worker

import (
	"context"
	"time"

	"github.com/danielvr/adaptengine/internal/logger"
	"github.com/danielvr/adaptengine/internal/services"
)

// SweepJob marks expired pending homework overdue. The scheduler submits
// one of these on every tick; a tick that fails simply leaves its items
// for the next one.
type SweepJob struct {
	Homework services.HomeworkService
	Now      time.Time
}

func (j *SweepJob) Name() string { return "homework_sweep" }

func (j *SweepJob) Run(ctx context.Context) error {
	log := logger.FromContext(ctx)

	summary, err := j.Homework.Sweep(ctx, j.Now)
	if err != nil {
		return err
	}
	log.Debug("sweep at %s: candidates=%d, marked=%d, failed=%d",
		j.Now.Format(time.RFC3339), summary.Candidates, summary.MarkedOverdue, summary.Failed)
	return nil
}
