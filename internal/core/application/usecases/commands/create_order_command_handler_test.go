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
	"catering/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func (f *fixture) createHandler(uowFactory commands.UoWFactory) commands.CreateOrderCommandHandler {
	if uowFactory == nil {
		uowFactory = f.factory
	}
	return commands.NewCreateOrderCommandHandler(
		uowFactory, f.store.Users(), f.allocator, f.ledger, f.scheme,
		f.notifier, f.scheduler, f.clock, f.metrics, f.logger,
	)
}

func TestCreateOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	f := newFixture(t)
	code := f.generateVoucher(t, voucher.Amount, 10)
	cmd, err := commands.NewCreateOrderCommand(f.diner.ID(), f.details(order.Chef), code)
	require.NoError(t, err)

	var notifiedCode string
	f.notifier.On("OrderCreated", ctx, f.diner, mock.AnythingOfType("*order.Order"), mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) { notifiedCode = args.String(3) }).
		Return(nil).Once()
	f.scheduler.On("ScheduleExpiry", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once()

	created, err := f.createHandler(nil).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Pending, created.Status())
	assert.Equal(t, "0", created.ReadableID())
	assert.True(t, created.CreatedBy().IsEqual(f.diner.ID()))
	assert.Equal(t, testNow, created.CreatedAt())
	require.NotNil(t, created.Voucher())
	assert.Equal(t, voucher.Expired, created.Voucher().Status)
	assert.Equal(t, 90+order.ChefSurcharge, created.TotalAmount())

	assert.Equal(t, f.scheme.Derive(created.ID(), "tok_visa"), notifiedCode)
	assert.Equal(t, voucher.Expired, f.storedVoucher(t, code).Status())
	assert.Equal(t, created.State(), f.storedOrder(t, created.ID()).State())
}

func TestCreateOrderCommandHandler_Handle_SequentialReadableIDs(t *testing.T) {
	ctx := t.Context()
	f := newFixture(t)
	f.notifier.On("OrderCreated", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.scheduler.On("ScheduleExpiry", mock.Anything, mock.Anything).Return(nil)
	cmd, err := commands.NewCreateOrderCommand(f.diner.ID(), f.details(order.Pickup), "")
	require.NoError(t, err)

	var ids []string
	for range 17 {
		created, handleErr := f.createHandler(nil).Handle(ctx, cmd)
		require.NoError(t, handleErr)
		assert.Nil(t, created.Voucher())
		ids = append(ids, created.ReadableID())
	}

	assert.Equal(t, "0", ids[0])
	assert.Equal(t, "f", ids[15])
	assert.Equal(t, "10", ids[16])
}

func TestCreateOrderCommandHandler_Handle_UnknownUser(t *testing.T) {
	f := newFixture(t)
	cmd, err := commands.NewCreateOrderCommand(kernel.NewUUID(), f.details(order.Pickup), "")
	require.NoError(t, err)

	_, err = f.createHandler(nil).Handle(t.Context(), cmd)

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	next, err := f.allocator.Next(t.Context(), "orders")
	require.NoError(t, err)
	assert.Equal(t, "0", next, "no readable id may be consumed")
}

func TestCreateOrderCommandHandler_Handle_VoucherProblemsAbort(t *testing.T) {
	ctx := t.Context()
	f := newFixture(t)

	t.Run("unknown voucher", func(t *testing.T) {
		cmd, err := commands.NewCreateOrderCommand(f.diner.ID(), f.details(order.Pickup), "NOPE")
		require.NoError(t, err)

		_, err = f.createHandler(nil).Handle(ctx, cmd)

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("expired voucher", func(t *testing.T) {
		code := f.generateVoucher(t, voucher.Percent, 10)
		f.seedOrder(t, code)
		cmd, err := commands.NewCreateOrderCommand(f.diner.ID(), f.details(order.Pickup), code)
		require.NoError(t, err)

		_, err = f.createHandler(nil).Handle(ctx, cmd)

		require.ErrorIs(t, err, voucher.ErrVoucherExpired)
	})

	pending, err := f.store.OrderRepository().ListPending(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 1, "only the seeded order exists")
}

func TestCreateOrderCommandHandler_Handle_SideEffectFailuresKeepOrder(t *testing.T) {
	ctx := t.Context()
	f := newFixture(t)
	cmd, err := commands.NewCreateOrderCommand(f.diner.ID(), f.details(order.Pickup), "")
	require.NoError(t, err)

	f.notifier.On("OrderCreated", ctx, f.diner, mock.Anything, mock.Anything).Return(errors.New("smtp down")).Once()
	f.scheduler.On("ScheduleExpiry", ctx, mock.Anything).Return(errors.New("scheduler stopped")).Once()

	created, err := f.createHandler(nil).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.Pending, f.storedOrder(t, created.ID()).Status())
}

// failingOrderRepository fails every Add.
type failingOrderRepository struct {
	ports.OrderRepository
}

func (failingOrderRepository) Add(context.Context, *order.Order) error {
	return errors.New("disk full")
}

type failingAddUoW struct {
	ports.UnitOfWork
}

func (u failingAddUoW) OrderRepository() ports.OrderRepository {
	return failingOrderRepository{u.UnitOfWork.OrderRepository()}
}

type failingAddFactory struct {
	inner commands.UoWFactory
}

func (f failingAddFactory) Create() ports.UnitOfWork {
	return failingAddUoW{f.inner.Create()}
}

func TestCreateOrderCommandHandler_Handle_AddErrorGivesVoucherBack(t *testing.T) {
	f := newFixture(t)
	code := f.generateVoucher(t, voucher.Amount, 10)
	cmd, err := commands.NewCreateOrderCommand(f.diner.ID(), f.details(order.Pickup), code)
	require.NoError(t, err)

	_, err = f.createHandler(failingAddFactory{inner: f.factory}).Handle(t.Context(), cmd)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	stored := f.storedVoucher(t, code)
	assert.Equal(t, voucher.Valid, stored.Status())
	assert.Equal(t, int64(0), stored.Version())
}

func TestCreateOrderCommandHandler_Handle_ValidationError(t *testing.T) {
	f := newFixture(t)

	_, err := f.createHandler(new(MockUoWFactory)).Handle(t.Context(), commands.CreateOrderCommand{})

	require.ErrorIs(t, err, commands.ErrCreateOrderCommandIsNotConstructed)
}

func TestCreateOrderCommandHandler_Handle_BeginError(t *testing.T) {
	ctx := t.Context()
	f := newFixture(t)
	cmd, _ := commands.NewCreateOrderCommand(f.diner.ID(), f.details(order.Pickup), "")

	uow := new(MockUoW)
	factory := new(MockUoWFactory)
	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(errors.New("begin error")).Once(),
	)

	_, err := f.createHandler(factory).Handle(ctx, cmd)

	require.Error(t, err)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_CommitError(t *testing.T) {
	ctx := t.Context()
	f := newFixture(t)
	cmd, _ := commands.NewCreateOrderCommand(f.diner.ID(), f.details(order.Pickup), "")

	inner := f.factory.Create()
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(inner.OrderRepository()).Once(),
		uow.On("Commit", ctx).Return(errors.New("commit error")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	_, err := f.createHandler(factory).Handle(ctx, cmd)

	require.ErrorContains(t, err, "commit error")
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}
