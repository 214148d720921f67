package jobs_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"catering/internal/core/application/usecases/commands"
	"catering/internal/core/application/usecases/queries"
	"catering/internal/core/domain/model/kernel"
	"catering/internal/core/domain/model/order"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockExpirer struct{ mock.Mock }

func (m *MockExpirer) Handle(ctx context.Context, cmd commands.ExpireOrderCommand) (bool, error) {
	args := m.Called(ctx, cmd)
	return args.Bool(0), args.Error(1)
}

type MockPendingReader struct{ mock.Mock }

func (m *MockPendingReader) Handle(
	ctx context.Context,
	query queries.GetPendingOrdersQuery,
) ([]queries.GetPendingOrdersQueryResponse, error) {
	args := m.Called(ctx, query)
	resp, _ := args.Get(0).([]queries.GetPendingOrdersQueryResponse)
	return resp, args.Error(1)
}

type MockSweeper struct{ mock.Mock }

func (m *MockSweeper) Handle(ctx context.Context, cmd commands.SweepVouchersCommand) (int, error) {
	args := m.Called(ctx, cmd)
	return args.Int(0), args.Error(1)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func pendingOrder(t *testing.T, createdAt time.Time) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), "a", kernel.NewUUID(), order.Details{
		Amount:       1000,
		Currency:     kernel.MustCurrency("USD"),
		PaymentToken: "tok_visa",
		Mode:         order.Pickup,
		Quantity:     1,
	}, nil, createdAt)
	require.NoError(t, err)
	return o
}
