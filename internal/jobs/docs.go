// Package jobs provides scheduled background tasks for the order system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required by the order lifecycle.
//
// # Available Jobs
//
// 1. StaleOrderJob - Runs every minute to cancel orders that stayed pending
// past the configured TTL
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required dependencies
//	jobManager, err := jobs.NewJobManager(uowFactory, updateStatusHandler, pendingTTL, logger)
//	if err != nil {
//		log.Fatal("Failed to create jobs:", err)
//	}
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Error Handling
//
// The stale order sweep ignores invalid-transition errors: an order that was
// confirmed or cancelled between lookup and sweep lost the race legitimately.
// Everything else is logged.
package jobs
