package payment_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"catering/internal/adapters/out/payment"
	"catering/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockGateway struct{ mock.Mock }

func (m *MockGateway) Charge(ctx context.Context, req ports.ChargeRequest) (ports.Charge, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(ports.Charge), args.Error(1)
}

func TestRateLimitedGateway_Charge(t *testing.T) {
	t.Run("delegates within the limit", func(t *testing.T) {
		next := new(MockGateway)
		req := chargeRequest("order-1", "tok_visa")
		next.On("Charge", mock.Anything, req).Return(ports.Charge{ID: "ch_1", Paid: true}, nil).Once()

		charge, err := payment.NewRateLimitedGateway(next, 10, 1, time.Second).Charge(t.Context(), req)

		require.NoError(t, err)
		assert.Equal(t, "ch_1", charge.ID)
		next.AssertExpectations(t)
	})

	t.Run("passes a deadline to the wrapped gateway", func(t *testing.T) {
		next := new(MockGateway)
		req := chargeRequest("order-1", "tok_visa")
		next.On("Charge", mock.MatchedBy(func(ctx context.Context) bool {
			_, ok := ctx.Deadline()
			return ok
		}), req).Return(ports.Charge{ID: "ch_1", Paid: true}, nil).Once()

		_, err := payment.NewRateLimitedGateway(next, 10, 1, time.Second).Charge(t.Context(), req)

		require.NoError(t, err)
		next.AssertExpectations(t)
	})

	t.Run("gives up when the token does not arrive before the timeout", func(t *testing.T) {
		next := new(MockGateway)
		req := chargeRequest("order-1", "tok_visa")
		next.On("Charge", mock.Anything, req).Return(ports.Charge{ID: "ch_1", Paid: true}, nil).Once()
		gateway := payment.NewRateLimitedGateway(next, 0.01, 1, 50*time.Millisecond)

		_, err := gateway.Charge(t.Context(), req)
		require.NoError(t, err)

		_, err = gateway.Charge(t.Context(), req)
		require.Error(t, err)
		next.AssertNumberOfCalls(t, "Charge", 1)
	})

	t.Run("surfaces the wrapped gateway error", func(t *testing.T) {
		next := new(MockGateway)
		req := chargeRequest("order-1", "tok_visa")
		boom := errors.New("boom")
		next.On("Charge", mock.Anything, req).Return(ports.Charge{}, boom).Once()

		_, err := payment.NewRateLimitedGateway(next, 10, 1, 0).Charge(t.Context(), req)

		require.ErrorIs(t, err, boom)
	})
}
