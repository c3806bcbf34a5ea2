// Package jobs provides scheduled background tasks for the order lifecycle engine.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required for order dispatch.
//
// # Available Jobs
//
// 1. DispatchJob - Runs every second to assign ready orders to available couriers
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required dependencies
//	jobManager := jobs.NewJobManager(orderRepository, transitionHandler, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Scheduling
//
// The dispatch job uses the cron expression "* * * * * *" which means it runs
// every second. This frequency keeps time-to-assignment low for orders that
// become ready between API calls.
//
// # Error Handling
//
// - Fleet saturation (no courier available) is an expected outcome, not an error
// - Version conflicts are retried with bounded exponential backoff
// - Orders that moved on since the sweep started are skipped silently
package jobs
