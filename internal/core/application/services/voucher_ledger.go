package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"catering/internal/core/domain/model/voucher"
	"catering/internal/core/ports"
	"catering/internal/pkg/clock"
	"catering/internal/pkg/errs"
	"catering/internal/pkg/metrics"
)

const (
	// maxVoucherWriteAttempts bounds the re-read and retry loop after a lost
	// compare-and-swap.
	maxVoucherWriteAttempts = 3

	// MaxGeneratedVouchers caps a single Generate call.
	MaxGeneratedVouchers = 1000
)

// ErrVoucherCodeSpaceExhausted is returned when Generate keeps drawing codes that
// already exist. With about 3*10^9 possible codes this means the store is nearly full.
var ErrVoucherCodeSpaceExhausted = errors.New("voucher code space exhausted")

// CodeSource draws candidate voucher codes.
type CodeSource interface {
	Next() (string, error)
}

// VoucherBatch describes a batch of vouchers to mint.
type VoucherBatch struct {
	Count          int
	DiscountType   voucher.DiscountType
	Discount       int
	ExpirationType voucher.ExpirationType
	Expiration     *time.Time
}

// maxDraws is the number of candidate codes Generate may draw for count vouchers.
func maxDraws(count int) int {
	return count*16 + 64
}

// VoucherLedger applies voucher transitions with optimistic concurrency.
type VoucherLedger struct {
	codes   CodeSource
	clock   clock.Clock
	metrics *metrics.Collector
	logger  *slog.Logger
}

func NewVoucherLedger(codes CodeSource, clk clock.Clock, collector *metrics.Collector, logger *slog.Logger) *VoucherLedger {
	return &VoucherLedger{
		codes:   codes,
		clock:   clk,
		metrics: collector,
		logger:  logger.With("component", "voucher_ledger"),
	}
}

// Redeem consumes the voucher with the given code and returns its new state.
//
// Returns:
//   - ObjectNotFoundError when no voucher has the code
//   - voucher.ErrVoucherExpired when it is expired, including when a concurrent
//     redemption consumed a OneTime voucher first
//   - VersionConflictError when every attempt lost the compare-and-swap
func (l *VoucherLedger) Redeem(ctx context.Context, repo ports.VoucherRepository, code string) (*voucher.Voucher, error) {
	v, err := l.apply(ctx, repo, code, (*voucher.Voucher).Redeem)
	l.metrics.RecordVoucherOperation("redeem", err)
	return v, err
}

// Revert undoes one redemption of the voucher with the given code.
func (l *VoucherLedger) Revert(ctx context.Context, repo ports.VoucherRepository, code string) (*voucher.Voucher, error) {
	v, err := l.apply(ctx, repo, code, (*voucher.Voucher).Revert)
	l.metrics.RecordVoucherOperation("revert", err)
	return v, err
}

// apply writes the transition conditionally on the version it read. Losing the
// compare-and-swap means another redemption or revert landed first, so the
// voucher is re-read and the transition re-checked against the new state.
func (l *VoucherLedger) apply(
	ctx context.Context,
	repo ports.VoucherRepository,
	code string,
	transition func(*voucher.Voucher) error,
) (*voucher.Voucher, error) {
	code = voucher.NormalizeCode(code)
	if code == "" {
		return nil, errs.NewValueIsRequiredError("voucher code")
	}

	var lastErr error
	for attempt := 1; attempt <= maxVoucherWriteAttempts; attempt++ {
		v, err := repo.Get(ctx, code)
		if err != nil {
			return nil, err
		}

		if err = transition(v); err != nil {
			return nil, err
		}

		err = repo.Update(ctx, v)
		if err == nil {
			return v, nil
		}
		if !errors.Is(err, errs.ErrVersionConflict) {
			return nil, fmt.Errorf("write voucher %s: %w", code, err)
		}

		l.logger.WarnContext(ctx, "voucher changed concurrently, retrying",
			"code", code, "attempt", attempt)
		lastErr = err
	}

	return nil, lastErr
}

// Generate mints exactly batch.Count vouchers with distinct codes not used before.
//
// Candidate codes that already exist, or that collide on insert, are discarded.
// At most batch.Count*16+64 codes are drawn; running out returns
// ErrVoucherCodeSpaceExhausted and the caller's unit of work discards the batch.
func (l *VoucherLedger) Generate(
	ctx context.Context,
	repo ports.VoucherRepository,
	batch VoucherBatch,
) ([]*voucher.Voucher, error) {
	if batch.Count < 1 || batch.Count > MaxGeneratedVouchers {
		return nil, errs.NewValueIsOutOfRangeError("count", batch.Count, 1, MaxGeneratedVouchers)
	}

	now := l.clock.Now()
	generated := make([]*voucher.Voucher, 0, batch.Count)

	for draws := 0; len(generated) < batch.Count; draws++ {
		if draws >= maxDraws(batch.Count) {
			l.metrics.RecordVoucherOperation("generate", ErrVoucherCodeSpaceExhausted)
			return nil, fmt.Errorf("%w: %d of %d generated after %d draws",
				ErrVoucherCodeSpaceExhausted, len(generated), batch.Count, draws)
		}

		code, err := l.codes.Next()
		if err != nil {
			return nil, err
		}

		if _, err = repo.Get(ctx, code); err == nil {
			continue
		} else if !errors.Is(err, errs.ErrObjectNotFound) {
			return nil, err
		}

		v, err := voucher.NewVoucher(code, batch.DiscountType, batch.Discount, batch.ExpirationType, batch.Expiration, now)
		if err != nil {
			return nil, err
		}

		if err = repo.Add(ctx, v); err != nil {
			if errors.Is(err, errs.ErrObjectAlreadyExists) {
				continue
			}
			return nil, err
		}

		generated = append(generated, v)
	}

	l.metrics.RecordVoucherOperation("generate", nil)
	l.logger.InfoContext(ctx, "vouchers generated",
		"count", len(generated),
		"discount_type", batch.DiscountType.String(),
		"expiration_type", batch.ExpirationType.String())
	return generated, nil
}

// Sweep marks every Until voucher whose expiration has passed as Expired and
// returns how many changed. Vouchers updated concurrently are skipped; the next
// sweep picks them up.
func (l *VoucherLedger) Sweep(ctx context.Context, repo ports.VoucherRepository, now time.Time) (int, error) {
	due, err := repo.ListExpiredUntil(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("list expired vouchers: %w", err)
	}

	expired := 0
	for _, v := range due {
		if !v.ExpireIfDue(now) {
			continue
		}

		if err = repo.Update(ctx, v); err != nil {
			if errors.Is(err, errs.ErrVersionConflict) {
				l.logger.WarnContext(ctx, "voucher changed during sweep", "code", v.Code())
				continue
			}
			return expired, fmt.Errorf("expire voucher %s: %w", v.Code(), err)
		}
		expired++
	}

	l.metrics.RecordVoucherOperation("sweep", nil)
	return expired, nil
}
