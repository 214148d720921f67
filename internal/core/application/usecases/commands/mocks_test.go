package commands_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"catering/internal/adapters/out/memory"
	"catering/internal/core/application/services"
	"catering/internal/core/domain/model/kernel"
	"catering/internal/core/domain/model/order"
	"catering/internal/core/domain/model/user"
	"catering/internal/core/domain/model/voucher"
	domainservices "catering/internal/core/domain/services"
	"catering/internal/core/ports"
	"catering/internal/pkg/clock"
	"catering/internal/pkg/metrics"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) OrderCreated(ctx context.Context, u *user.User, o *order.Order, code string) error {
	return m.Called(ctx, u, o, code).Error(0)
}

func (m *MockNotifier) OrderDeclined(ctx context.Context, u *user.User, o *order.Order) error {
	return m.Called(ctx, u, o).Error(0)
}

func (m *MockNotifier) OrderFailed(ctx context.Context, u *user.User, o *order.Order) error {
	return m.Called(ctx, u, o).Error(0)
}

func (m *MockNotifier) OrderSucceeded(ctx context.Context, u *user.User, o *order.Order) error {
	return m.Called(ctx, u, o).Error(0)
}

type MockScheduler struct{ mock.Mock }

func (m *MockScheduler) ScheduleExpiry(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockScheduler) CancelExpiry(ctx context.Context, orderID kernel.UUID) error {
	return m.Called(ctx, orderID).Error(0)
}

type MockPaymentGateway struct{ mock.Mock }

func (m *MockPaymentGateway) Charge(ctx context.Context, req ports.ChargeRequest) (ports.Charge, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(ports.Charge), args.Error(1)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error    { return m.Called(ctx).Error(0) }
func (m *MockUoW) Commit(ctx context.Context) error   { return m.Called(ctx).Error(0) }
func (m *MockUoW) Rollback(ctx context.Context) error { return m.Called(ctx).Error(0) }

func (m *MockUoW) SavePoint(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}

func (m *MockUoW) RollbackTo(ctx context.Context, name string) error {
	return m.Called(ctx, name).Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	return m.Called().Get(0).(ports.OrderRepository)
}

func (m *MockUoW) VoucherRepository() ports.VoucherRepository {
	return m.Called().Get(0).(ports.VoucherRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() ports.UnitOfWork {
	return m.Called().Get(0).(ports.UnitOfWork)
}

const testSecret = "test-secret-test-secret-test-secret"

var testNow = time.Date(2026, 10, 1, 18, 0, 0, 0, time.UTC)

// fixture wires handlers to an in-memory store and mocked side-effect ports.
type fixture struct {
	store     *memory.Store
	factory   *memory.UnitOfWorkFactory
	allocator *services.SequenceAllocator
	ledger    *services.VoucherLedger
	scheme    *domainservices.AuthorizationCodeScheme
	notifier  *MockNotifier
	scheduler *MockScheduler
	gateway   *MockPaymentGateway
	clock     clock.Clock
	metrics   *metrics.Collector
	logger    *slog.Logger

	diner   *user.User
	caterer *user.User
	admin   *user.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	scheme, err := domainservices.NewAuthorizationCodeScheme([]byte(testSecret))
	require.NoError(t, err)

	store := memory.NewStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	collector := metrics.NewCollector("test")
	clk := clock.NewFixed(testNow)

	f := &fixture{
		store:     store,
		factory:   memory.NewUnitOfWorkFactory(store),
		allocator: services.NewSequenceAllocator(store),
		ledger:    services.NewVoucherLedger(domainservices.NewVoucherCodeGenerator(nil), clk, collector, logger),
		scheme:    scheme,
		notifier:  new(MockNotifier),
		scheduler: new(MockScheduler),
		gateway:   new(MockPaymentGateway),
		clock:     clk,
		metrics:   collector,
		logger:    logger,
	}

	f.diner = f.addUser(t, "Dana Diner", user.RoleUser)
	f.caterer = f.addUser(t, "Cat Caterer", user.RoleUser)
	f.admin = f.addUser(t, "Ada Admin", user.RoleAdmin)

	t.Cleanup(func() {
		f.notifier.AssertExpectations(t)
		f.scheduler.AssertExpectations(t)
		f.gateway.AssertExpectations(t)
	})
	return f
}

func (f *fixture) addUser(t *testing.T, name string, role user.Role) *user.User {
	t.Helper()
	u, err := user.NewUser(kernel.NewUUID(), name, "", role)
	require.NoError(t, err)
	require.NoError(t, f.store.AddUser(u))
	return u
}

func (f *fixture) details(mode order.FulfillmentMode) order.Details {
	return order.Details{
		Amount:       100,
		Currency:     kernel.MustCurrency("USD"),
		PaymentToken: "tok_visa",
		Mode:         mode,
		Description:  "Canapés",
		Quantity:     30,
		PickupDate:   "2026-10-05",
	}
}

func (f *fixture) generateVoucher(t *testing.T, discountType voucher.DiscountType, discount int) string {
	t.Helper()
	generated, err := f.ledger.Generate(t.Context(), f.store.VoucherRepository(), services.VoucherBatch{
		Count:          1,
		DiscountType:   discountType,
		Discount:       discount,
		ExpirationType: voucher.OneTime,
	})
	require.NoError(t, err)
	return generated[0].Code()
}

// seedOrder stores a Pending order for the diner, redeeming voucherCode if set.
func (f *fixture) seedOrder(t *testing.T, voucherCode string) *order.Order {
	t.Helper()
	ctx := t.Context()

	var snapshot *voucher.Snapshot
	if voucherCode != "" {
		v, err := f.ledger.Redeem(ctx, f.store.VoucherRepository(), voucherCode)
		require.NoError(t, err)
		s := v.Snapshot()
		snapshot = &s
	}

	readableID, err := f.allocator.Next(ctx, services.OrderSequence)
	require.NoError(t, err)

	o, err := order.NewOrder(kernel.NewUUID(), readableID, f.diner.ID(), f.details(order.Pickup), snapshot, testNow)
	require.NoError(t, err)
	require.NoError(t, f.store.OrderRepository().Add(ctx, o))
	return o
}

func (f *fixture) storedOrder(t *testing.T, id kernel.UUID) *order.Order {
	t.Helper()
	o, err := f.store.OrderRepository().Get(t.Context(), id)
	require.NoError(t, err)
	return o
}

func (f *fixture) storedVoucher(t *testing.T, code string) *voucher.Voucher {
	t.Helper()
	v, err := f.store.VoucherRepository().Get(t.Context(), code)
	require.NoError(t, err)
	return v
}

func clockAfter(d time.Duration) clock.Clock {
	return clock.NewFixed(testNow.Add(d))
}
