// Package jobs provides the background tasks of the order engine.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// 1. ExpiryScheduler - Arms a one-shot entry per Pending order and declines the order
// when the caterer has not answered by created-at plus the configured expiry
// 2. VoucherSweepJob - Expires Until vouchers past their expiration, daily at noon by default
//
// # Usage
//
// Jobs are managed through JobManager:
//
//	jobManager := jobs.NewJobManager(scheduler, sweepJob, pendingOrders)
//
//	// Re-arm expiry timers of orders left Pending by a previous run, then start
//	if err := jobManager.StartAll(ctx); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Error Handling
//
// - Expiry ignores orders that were deleted or settled before the timer fired
// - Sweep failures are logged and retried on the next run
// - Failed job starts will stop any already running jobs
package jobs
