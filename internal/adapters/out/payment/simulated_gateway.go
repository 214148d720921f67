// Package payment holds PaymentGateway adapters: an in-process simulated gateway
// for local runs and a rate-limiting decorator for any gateway.
package payment

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"catering/internal/core/ports"
	"catering/internal/pkg/errs"

	"github.com/google/uuid"
)

// Token prefixes that steer the simulated gateway.
const (
	DeclineTokenPrefix = "tok_decline"
	ErrorTokenPrefix   = "tok_error"
)

var ErrGatewayUnavailable = errors.New("payment gateway unavailable")

// SimulatedGateway captures charges in memory. A repeated idempotency key returns
// the first result without charging again; failed attempts are not recorded.
type SimulatedGateway struct {
	mu      sync.Mutex
	charges map[string]ports.Charge
	logger  *slog.Logger
}

func NewSimulatedGateway(logger *slog.Logger) *SimulatedGateway {
	return &SimulatedGateway{
		charges: make(map[string]ports.Charge),
		logger:  logger.With("component", "simulated_gateway"),
	}
}

func (g *SimulatedGateway) Charge(ctx context.Context, req ports.ChargeRequest) (ports.Charge, error) {
	if req.IdempotencyKey == "" {
		return ports.Charge{}, errs.NewValueIsRequiredError("idempotency key")
	}
	if req.Amount < 0 {
		return ports.Charge{}, errs.NewValueIsOutOfRangeError("amount", req.Amount, 0, "unbounded")
	}
	if err := ctx.Err(); err != nil {
		return ports.Charge{}, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if existing, ok := g.charges[req.IdempotencyKey]; ok {
		g.logger.InfoContext(ctx, "replaying charge", "idempotency_key", req.IdempotencyKey, "charge_id", existing.ID)
		return existing, nil
	}

	if strings.HasPrefix(req.Token, ErrorTokenPrefix) {
		return ports.Charge{}, ErrGatewayUnavailable
	}

	charge := ports.Charge{
		ID:   "ch_" + uuid.NewString(),
		Paid: !strings.HasPrefix(req.Token, DeclineTokenPrefix),
	}
	g.charges[req.IdempotencyKey] = charge

	g.logger.InfoContext(ctx, "charge captured",
		"idempotency_key", req.IdempotencyKey,
		"charge_id", charge.ID,
		"amount", req.Amount,
		"currency", req.Currency.String(),
		"paid", charge.Paid)
	return charge, nil
}
