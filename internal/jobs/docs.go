// Package jobs provides scheduled background tasks for the dispatch system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// 1. ActiveOrdersReconciliationJob - Periodically rebuilds each courier's
// active-order projection from the order store, which is the single source
// of truth for assignment.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(rebuildHandler, "* * * * *", logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Error Handling
//
// Reconciliation failures are logged and retried on the next tick; the
// projection is advisory, so a failed run never blocks request handling.
package jobs
