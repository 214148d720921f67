package ports

import (
	"context"

	"catering/internal/core/domain/model/kernel"
)

// ChargeRequest asks the gateway to capture Amount minor units of Currency from
// the instrument behind Token.
type ChargeRequest struct {
	// IdempotencyKey lets the gateway collapse retries of the same capture.
	IdempotencyKey string
	Token          string
	Amount         int
	Currency       kernel.Currency
	Description    string
}

// Charge is the gateway's answer to a capture.
type Charge struct {
	ID   string
	Paid bool
}

// PaymentGateway captures payments. Timeouts and retries are the adapter's policy;
// callers treat any returned error as a failed capture.
type PaymentGateway interface {
	Charge(ctx context.Context, req ChargeRequest) (Charge, error)
}
