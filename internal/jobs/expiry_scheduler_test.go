package jobs_test

import (
	"errors"
	"testing"
	"time"

	"catering/internal/core/application/usecases/commands"
	"catering/internal/core/application/usecases/queries"
	"catering/internal/core/domain/model/kernel"
	"catering/internal/jobs"
	"catering/internal/pkg/clock"
	"catering/internal/pkg/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newScheduler(expirer jobs.OrderExpirer, expiry time.Duration) *jobs.ExpiryScheduler {
	return jobs.NewExpiryScheduler(expirer, expiry, clock.NewSystem(), metrics.NewCollector("test"), discardLogger())
}

func TestExpiryScheduler_ScheduleAndCancel(t *testing.T) {
	ctx := t.Context()
	expirer := new(MockExpirer)
	scheduler := newScheduler(expirer, time.Hour)
	scheduler.Start()
	defer scheduler.Stop()

	o := pendingOrder(t, time.Now())

	require.NoError(t, scheduler.ScheduleExpiry(ctx, o))
	require.NoError(t, scheduler.ScheduleExpiry(ctx, o))
	assert.Equal(t, 1, scheduler.Armed())

	require.NoError(t, scheduler.CancelExpiry(ctx, o.ID()))
	require.NoError(t, scheduler.CancelExpiry(ctx, o.ID()))
	require.NoError(t, scheduler.CancelExpiry(ctx, kernel.NewUUID()))
	assert.Equal(t, 0, scheduler.Armed())

	expirer.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestExpiryScheduler_FiresOverdueOrder(t *testing.T) {
	ctx := t.Context()
	expirer := new(MockExpirer)
	scheduler := newScheduler(expirer, time.Minute)

	o := pendingOrder(t, time.Now().Add(-time.Hour))
	fired := make(chan kernel.UUID, 1)
	expirer.On("Handle", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			fired <- args.Get(1).(commands.ExpireOrderCommand).OrderID()
		}).
		Return(true, nil).Once()

	require.NoError(t, scheduler.ScheduleExpiry(ctx, o))
	scheduler.Start()
	defer scheduler.Stop()

	select {
	case id := <-fired:
		assert.Equal(t, o.ID(), id)
	case <-time.After(5 * time.Second):
		t.Fatal("expiry did not fire")
	}

	require.Eventually(t, func() bool { return scheduler.Armed() == 0 }, time.Second, 10*time.Millisecond)
	expirer.AssertExpectations(t)
}

func TestExpiryScheduler_ExpirerErrorIsContained(t *testing.T) {
	ctx := t.Context()
	expirer := new(MockExpirer)
	scheduler := newScheduler(expirer, 0)

	done := make(chan struct{})
	expirer.On("Handle", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { close(done) }).
		Return(false, errors.New("database is down")).Once()

	require.NoError(t, scheduler.ScheduleExpiry(ctx, pendingOrder(t, time.Now())))
	scheduler.Start()
	defer scheduler.Stop()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("expiry did not fire")
	}
	require.Eventually(t, func() bool { return scheduler.Armed() == 0 }, time.Second, 10*time.Millisecond)
}

func TestExpiryScheduler_Rearm(t *testing.T) {
	ctx := t.Context()

	t.Run("arms every pending order", func(t *testing.T) {
		scheduler := newScheduler(new(MockExpirer), time.Hour)
		reader := new(MockPendingReader)
		reader.On("Handle", ctx, mock.Anything).Return([]queries.GetPendingOrdersQueryResponse{
			{ID: kernel.NewUUID(), ReadableID: "1", CreatedAt: time.Now().Add(-2 * time.Hour)},
			{ID: kernel.NewUUID(), ReadableID: "2", CreatedAt: time.Now()},
		}, nil).Once()

		armed, err := scheduler.Rearm(ctx, reader)

		require.NoError(t, err)
		assert.Equal(t, 2, armed)
		assert.Equal(t, 2, scheduler.Armed())
	})

	t.Run("reader error", func(t *testing.T) {
		scheduler := newScheduler(new(MockExpirer), time.Hour)
		reader := new(MockPendingReader)
		reader.On("Handle", ctx, mock.Anything).Return(nil, errors.New("boom")).Once()

		_, err := scheduler.Rearm(ctx, reader)

		require.Error(t, err)
		assert.Equal(t, 0, scheduler.Armed())
	})
}
