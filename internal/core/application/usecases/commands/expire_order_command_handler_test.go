package commands_test

import (
	"context"
	"errors"
	"testing"

	"catering/internal/core/application/usecases/commands"
	"catering/internal/core/domain/model/kernel"
	"catering/internal/core/domain/model/order"
	"catering/internal/core/domain/model/voucher"
	"catering/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func (f *fixture) expireHandler() commands.ExpireOrderCommandHandler {
	return commands.NewExpireOrderCommandHandler(
		f.factory, f.store.Users(), f.ledger, f.notifier, f.clock, f.metrics, f.logger,
	)
}

func TestExpireOrderCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()

	t.Run("pending order is declined and its voucher given back", func(t *testing.T) {
		f := newFixture(t)
		code := f.generateVoucher(t, voucher.Percent, 50)
		o := f.seedOrder(t, code)
		f.notifier.On("OrderDeclined", ctx, f.diner, mock.AnythingOfType("*order.Order")).Return(nil).Once()
		cmd, err := commands.NewExpireOrderCommand(o.ID())
		require.NoError(t, err)

		expired, err := f.expireHandler().Handle(ctx, cmd)

		require.NoError(t, err)
		assert.True(t, expired)
		stored := f.storedOrder(t, o.ID())
		assert.Equal(t, order.Declined, stored.Status())
		assert.Equal(t, voucher.Valid, stored.Voucher().Status)
		assert.Equal(t, voucher.Valid, f.storedVoucher(t, code).Status())
	})

	t.Run("settled order is left alone", func(t *testing.T) {
		f := newFixture(t)
		o := f.seedOrder(t, "")
		require.NoError(t, o.MarkFailed(testNow))
		require.NoError(t, f.store.OrderRepository().UpdatePending(ctx, o))
		cmd, err := commands.NewExpireOrderCommand(o.ID())
		require.NoError(t, err)

		expired, err := f.expireHandler().Handle(ctx, cmd)

		require.NoError(t, err)
		assert.False(t, expired)
		assert.Equal(t, order.Failed, f.storedOrder(t, o.ID()).Status())
	})

	t.Run("deleted order is a no-op", func(t *testing.T) {
		f := newFixture(t)
		cmd, err := commands.NewExpireOrderCommand(kernel.NewUUID())
		require.NoError(t, err)

		expired, err := f.expireHandler().Handle(ctx, cmd)

		require.NoError(t, err)
		assert.False(t, expired)
	})
}

// brokenVoucherRepository writes every Update and then reports it as failed,
// leaving a partial write behind like an interrupted statement.
type brokenVoucherRepository struct {
	ports.VoucherRepository
}

func (r brokenVoucherRepository) Update(ctx context.Context, v *voucher.Voucher) error {
	if err := r.VoucherRepository.Update(ctx, v); err != nil {
		return err
	}
	return errors.New("connection reset")
}

type brokenVoucherUoW struct {
	ports.UnitOfWork
}

func (u brokenVoucherUoW) VoucherRepository() ports.VoucherRepository {
	return brokenVoucherRepository{u.UnitOfWork.VoucherRepository()}
}

type brokenVoucherFactory struct {
	inner commands.UoWFactory
}

func (f brokenVoucherFactory) Create() ports.UnitOfWork {
	return brokenVoucherUoW{f.inner.Create()}
}

func TestExpireOrderCommandHandler_Handle_RevertFailureStillDeclines(t *testing.T) {
	ctx := t.Context()
	f := newFixture(t)
	code := f.generateVoucher(t, voucher.Amount, 10)
	o := f.seedOrder(t, code)
	consumed := f.storedVoucher(t, code)
	f.notifier.On("OrderDeclined", ctx, f.diner, mock.AnythingOfType("*order.Order")).Return(nil).Once()

	handler := commands.NewExpireOrderCommandHandler(
		brokenVoucherFactory{inner: f.factory}, f.store.Users(), f.ledger, f.notifier, f.clock, f.metrics, f.logger,
	)
	cmd, err := commands.NewExpireOrderCommand(o.ID())
	require.NoError(t, err)

	expired, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.True(t, expired)
	stored := f.storedOrder(t, o.ID())
	assert.Equal(t, order.Declined, stored.Status())
	assert.Equal(t, voucher.Expired, stored.Voucher().Status, "snapshot keeps the unreverted voucher")

	after := f.storedVoucher(t, code)
	assert.Equal(t, voucher.Expired, after.Status())
	assert.Equal(t, consumed.Version(), after.Version(), "partial revert rolled back to the savepoint")
}
