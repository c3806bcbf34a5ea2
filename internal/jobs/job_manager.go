package jobs

import (
	"fmt"
	"log/slog"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/ports"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	dispatchJob *DispatchJob
}

// NewJobManager creates a new job manager with all required jobs.
// Takes the dispatch dependencies to wire up the job execution.
func NewJobManager(
	orders ports.OrderRepository,
	transitions commands.TransitionOrderCommandHandler,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		dispatchJob: NewDispatchJob(orders, transitions, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.dispatchJob.Start(); err != nil {
		return fmt.Errorf("failed to start dispatch job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.dispatchJob.Stop()
}
