package jobs

import (
	"context"
	"log/slog"

	"catering/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// DefaultSweepSchedule runs the sweep every day at noon.
const DefaultSweepSchedule = "0 0 12 * * *"

type VoucherSweeper interface {
	Handle(ctx context.Context, cmd commands.SweepVouchersCommand) (int, error)
}

// VoucherSweepJob expires Until vouchers past their expiration on a cron schedule
// with a seconds field.
type VoucherSweepJob struct {
	handler  VoucherSweeper
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewVoucherSweepJob(handler VoucherSweeper, schedule string, logger *slog.Logger) *VoucherSweepJob {
	if schedule == "" {
		schedule = DefaultSweepSchedule
	}
	return &VoucherSweepJob{
		handler:  handler,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "voucher_sweep_job"),
	}
}

// Start registers the sweep and starts the cron. It fails on an invalid schedule.
func (j *VoucherSweepJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, j.Run); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Voucher sweep job started", "schedule", j.schedule)
	return nil
}

// Run performs a single sweep.
func (j *VoucherSweepJob) Run() {
	ctx := context.Background()

	expired, err := j.handler.Handle(ctx, commands.NewSweepVouchersCommand())
	if err != nil {
		j.logger.ErrorContext(ctx, "Voucher sweep job failed", "error", err)
		return
	}

	j.logger.InfoContext(ctx, "Voucher sweep finished", "expired", expired)
}

func (j *VoucherSweepJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Voucher sweep job stopped")
}
