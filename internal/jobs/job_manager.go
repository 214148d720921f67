package jobs

import (
	"context"
	"fmt"
)

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	expiryScheduler *ExpiryScheduler
	voucherSweepJob *VoucherSweepJob
	pendingOrders   PendingOrdersReader
}

func NewJobManager(
	expiryScheduler *ExpiryScheduler,
	voucherSweepJob *VoucherSweepJob,
	pendingOrders PendingOrdersReader,
) *JobManager {
	return &JobManager{
		expiryScheduler: expiryScheduler,
		voucherSweepJob: voucherSweepJob,
		pendingOrders:   pendingOrders,
	}
}

// StartAll re-arms the expiry of orders still Pending and starts all jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll(ctx context.Context) error {
	if _, err := jm.expiryScheduler.Rearm(ctx, jm.pendingOrders); err != nil {
		return fmt.Errorf("failed to re-arm order expiry: %w", err)
	}
	jm.expiryScheduler.Start()

	if err := jm.voucherSweepJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.expiryScheduler.Stop()
		return fmt.Errorf("failed to start voucher sweep job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.voucherSweepJob.Stop()
	jm.expiryScheduler.Stop()
}
