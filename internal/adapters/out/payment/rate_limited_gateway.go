package payment

import (
	"context"
	"fmt"
	"time"

	"catering/internal/core/ports"

	"golang.org/x/time/rate"
)

// RateLimitedGateway bounds the outbound charge rate and the time a single charge
// may take, including the wait for a token.
type RateLimitedGateway struct {
	next    ports.PaymentGateway
	limiter *rate.Limiter
	timeout time.Duration
}

// NewRateLimitedGateway allows perSecond charges with bursts of burst. A zero
// timeout leaves the caller's deadline alone.
func NewRateLimitedGateway(next ports.PaymentGateway, perSecond float64, burst int, timeout time.Duration) *RateLimitedGateway {
	return &RateLimitedGateway{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
		timeout: timeout,
	}
}

func (g *RateLimitedGateway) Charge(ctx context.Context, req ports.ChargeRequest) (ports.Charge, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	if err := g.limiter.Wait(ctx); err != nil {
		return ports.Charge{}, fmt.Errorf("wait for payment rate limit: %w", err)
	}

	return g.next.Charge(ctx, req)
}
