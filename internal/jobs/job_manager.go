package jobs

import (
	"fmt"
	"log/slog"
	"time"

	"orderflow/internal/core/application/usecases/commands"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	staleOrderJob *StaleOrderJob
}

// NewJobManager creates a job manager with all required jobs.
// Takes the unit of work factory and command handler the jobs execute through.
func NewJobManager(
	uowFactory commands.OrderUoWFactory,
	updateStatusHandler commands.UpdateOrderStatusCommandHandler,
	pendingTTL time.Duration,
	logger *slog.Logger,
) (*JobManager, error) {
	staleOrderJob, err := NewStaleOrderJob(uowFactory, updateStatusHandler, pendingTTL, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create stale order job: %w", err)
	}

	return &JobManager{
		staleOrderJob: staleOrderJob,
	}, nil
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.staleOrderJob.Start(); err != nil {
		return fmt.Errorf("failed to start stale order job: %w", err)
	}
	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.staleOrderJob.Stop()
}
