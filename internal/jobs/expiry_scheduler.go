package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"catering/internal/core/application/usecases/commands"
	"catering/internal/core/application/usecases/queries"
	"catering/internal/core/domain/model/kernel"
	"catering/internal/core/domain/model/order"
	"catering/internal/pkg/clock"
	"catering/internal/pkg/metrics"

	"github.com/robfig/cron/v3"
)

// overdueDelay is how long after arming an already overdue order is expired.
const overdueDelay = time.Second

type OrderExpirer interface {
	Handle(ctx context.Context, cmd commands.ExpireOrderCommand) (bool, error)
}

type PendingOrdersReader interface {
	Handle(ctx context.Context, query queries.GetPendingOrdersQuery) ([]queries.GetPendingOrdersQueryResponse, error)
}

// onceAt fires a single time at the given instant. A zero Next tells cron the
// entry has nothing left to run.
type onceAt time.Time

func (s onceAt) Next(t time.Time) time.Time {
	at := time.Time(s)
	if t.Before(at) {
		return at
	}
	return time.Time{}
}

// ExpiryScheduler keeps one cron entry per Pending order. It implements ports.Scheduler.
type ExpiryScheduler struct {
	cron    *cron.Cron
	expirer OrderExpirer
	expiry  time.Duration
	clock   clock.Clock
	metrics *metrics.Collector
	logger  *slog.Logger

	mu      sync.Mutex
	entries map[kernel.UUID]cron.EntryID
}

func NewExpiryScheduler(
	expirer OrderExpirer,
	expiry time.Duration,
	clk clock.Clock,
	collector *metrics.Collector,
	logger *slog.Logger,
) *ExpiryScheduler {
	return &ExpiryScheduler{
		cron:    cron.New(cron.WithLocation(time.UTC)),
		expirer: expirer,
		expiry:  expiry,
		clock:   clk,
		metrics: collector,
		logger:  logger.With("component", "expiry_scheduler"),
		entries: make(map[kernel.UUID]cron.EntryID),
	}
}

// ScheduleExpiry arms the timer for o. Scheduling an order twice keeps the first timer.
func (s *ExpiryScheduler) ScheduleExpiry(ctx context.Context, o *order.Order) error {
	return s.schedule(ctx, o.ID(), o.CreatedAt())
}

// CancelExpiry disarms the timer of orderID. Unknown orders are ignored.
func (s *ExpiryScheduler) CancelExpiry(ctx context.Context, orderID kernel.UUID) error {
	s.mu.Lock()
	entryID, ok := s.entries[orderID]
	delete(s.entries, orderID)
	s.metrics.RecordExpiryScheduled(len(s.entries))
	s.mu.Unlock()

	if ok {
		s.cron.Remove(entryID)
		s.logger.DebugContext(ctx, "expiry cancelled", "order_id", orderID.String())
	}
	return nil
}

// Rearm schedules every order the reader still reports as Pending and returns how
// many timers were armed.
func (s *ExpiryScheduler) Rearm(ctx context.Context, pending PendingOrdersReader) (int, error) {
	orders, err := pending.Handle(ctx, queries.NewGetPendingOrdersQuery())
	if err != nil {
		return 0, err
	}

	for _, o := range orders {
		if err = s.schedule(ctx, o.ID, o.CreatedAt); err != nil {
			return 0, err
		}
	}

	s.logger.InfoContext(ctx, "expiry timers re-armed", "count", len(orders))
	return len(orders), nil
}

// Armed returns the number of timers waiting to fire.
func (s *ExpiryScheduler) Armed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *ExpiryScheduler) Start() {
	s.cron.Start()
	s.logger.InfoContext(context.Background(), "Expiry scheduler started", "expiry", s.expiry.String())
}

// Stop waits for running expirations to finish.
func (s *ExpiryScheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.InfoContext(context.Background(), "Expiry scheduler stopped")
}

func (s *ExpiryScheduler) schedule(ctx context.Context, orderID kernel.UUID, createdAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[orderID]; ok {
		return nil
	}

	at := createdAt.Add(s.expiry)
	if now := s.clock.Now(); !at.After(now) {
		at = now.Add(overdueDelay)
	}

	entryID := s.cron.Schedule(onceAt(at), cron.FuncJob(func() { s.fire(orderID) }))
	s.entries[orderID] = entryID
	s.metrics.RecordExpiryScheduled(len(s.entries))

	s.logger.DebugContext(ctx, "expiry scheduled", "order_id", orderID.String(), "at", at)
	return nil
}

func (s *ExpiryScheduler) fire(orderID kernel.UUID) {
	ctx := context.Background()

	s.mu.Lock()
	entryID, ok := s.entries[orderID]
	delete(s.entries, orderID)
	s.metrics.RecordExpiryScheduled(len(s.entries))
	s.mu.Unlock()
	if ok {
		s.cron.Remove(entryID)
	}

	cmd, err := commands.NewExpireOrderCommand(orderID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Order expiry failed", "order_id", orderID.String(), "error", err)
		return
	}

	expired, err := s.expirer.Handle(ctx, cmd)
	if err != nil {
		s.logger.ErrorContext(ctx, "Order expiry failed", "order_id", orderID.String(), "error", err)
		return
	}
	if expired {
		s.logger.InfoContext(ctx, "Order expired", "order_id", orderID.String())
	}
}
