package jobs

import (
	"fmt"
	"log/slog"
)

type job interface {
	Start() error
	Stop()
}

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	jobs []job
}

// NewJobManager creates a manager running the schedule recomputation on the
// given cron schedule.
func NewJobManager(
	recomputeSchedule string,
	reader ActiveRoutesReader,
	optimizer CourierRouteOptimizer,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		jobs: []job{
			NewRecomputeSchedulesJob(recomputeSchedule, reader, optimizer, logger),
		},
	}
}

// StartAll starts all scheduled jobs. If one fails to start, the ones already
// running are stopped.
func (jm *JobManager) StartAll() error {
	for i, j := range jm.jobs {
		if err := j.Start(); err != nil {
			for _, started := range jm.jobs[:i] {
				started.Stop()
			}
			return fmt.Errorf("failed to start job %d: %w", i, err)
		}
	}
	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	for _, j := range jm.jobs {
		j.Stop()
	}
}
