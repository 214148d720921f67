package http_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	api "catering/internal/adapters/in/http"
	"catering/internal/adapters/out/logging"
	"catering/internal/adapters/out/memory"
	"catering/internal/adapters/out/payment"
	"catering/internal/core/application/services"
	"catering/internal/core/application/usecases/commands"
	"catering/internal/core/application/usecases/queries"
	"catering/internal/core/domain/model/kernel"
	"catering/internal/core/domain/model/user"
	domainservices "catering/internal/core/domain/services"
	"catering/internal/jobs"
	"catering/internal/pkg/clock"
	"catering/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "http-test-secret-http-test-secret"

type harness struct {
	echo   *echo.Echo
	store  *memory.Store
	scheme *domainservices.AuthorizationCodeScheme
	armed  func() int

	diner *user.User
	other *user.User
	admin *user.User
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	collector := metrics.NewCollector("catering")
	clk := clock.NewSystem()
	store := memory.NewStore()
	factory := memory.NewUnitOfWorkFactory(store)

	scheme, err := domainservices.NewAuthorizationCodeScheme([]byte(secret))
	require.NoError(t, err)

	ledger := services.NewVoucherLedger(domainservices.NewVoucherCodeGenerator(nil), clk, collector, logger)
	allocator := services.NewSequenceAllocator(store)
	notifier := logging.NewNotifier(logger)
	gateway := payment.NewSimulatedGateway(logger)

	expire := commands.NewExpireOrderCommandHandler(factory, store.Users(), ledger, notifier, clk, collector, logger)
	scheduler := jobs.NewExpiryScheduler(expire, time.Hour, clk, collector, logger)

	server := api.NewServer(
		commands.NewCreateOrderCommandHandler(factory, store.Users(), allocator, ledger, scheme, notifier, scheduler, clk, collector, logger),
		commands.NewUpdateOrderCommandHandler(factory, clk, logger),
		commands.NewExecuteOrderCommandHandler(factory, store.Users(), ledger, scheme, gateway, notifier, scheduler, clk, collector, logger),
		commands.NewDeleteOrderCommandHandler(factory, scheduler, logger),
		commands.NewGenerateVouchersCommandHandler(factory, ledger),
		commands.NewNextSequenceIDCommandHandler(allocator),
		queries.NewGetOrderQueryHandler(store.OrderRepository()),
		logger,
	)

	e := echo.New()
	api.RegisterHandlers(e, server, collector.Registry())

	h := &harness{echo: e, store: store, scheme: scheme, armed: scheduler.Armed}
	h.diner = h.addUser(t, "Dana", user.RoleUser)
	h.other = h.addUser(t, "Olly", user.RoleUser)
	h.admin = h.addUser(t, "Ada", user.RoleAdmin)
	return h
}

func (h *harness) addUser(t *testing.T, name string, role user.Role) *user.User {
	t.Helper()
	u, err := user.NewUser(kernel.NewUUID(), name, "", role)
	require.NoError(t, err)
	require.NoError(t, h.store.AddUser(u))
	return u
}

func (h *harness) do(method, target, body string, as *user.User, headers ...string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if as != nil {
		req.Header.Set(api.HeaderUserID, as.ID().String())
		req.Header.Set(api.HeaderUserRole, as.Role().String())
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	h.echo.ServeHTTP(rec, req)
	return rec
}

func (h *harness) createOrder(t *testing.T, body string) api.Order {
	t.Helper()
	rec := h.do(http.MethodPost, "/api/v1/users/"+h.diner.ID().String()+"/orders", body, h.diner)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[api.Order](t, rec)
}

func (h *harness) executeURL(t *testing.T, o api.Order, token string, confirm bool) string {
	t.Helper()
	id := kernel.MustUUIDFromString(o.ID)
	decision := "false"
	if confirm {
		decision = "true"
	}
	return "/execute/users/" + h.other.ID().String() + "/orders/" + o.ID +
		"?confirm=" + decision + "&ordercode=" + h.scheme.Derive(id, token)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

const visaOrder = `{"amount":1000,"currency":"USD","paymentToken":"tok_visa","mode":"chef","quantity":12,"description":"Tapas"}`

func TestServer_Health(t *testing.T) {
	h := newHarness(t)

	rec := h.do(http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Healthy", rec.Body.String())
}

func TestServer_Metrics(t *testing.T) {
	h := newHarness(t)
	h.createOrder(t, visaOrder)

	rec := h.do(http.MethodGet, "/metrics", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "catering_")
}

func TestServer_CreateAndGetOrder(t *testing.T) {
	h := newHarness(t)

	created := h.createOrder(t, visaOrder)

	assert.Equal(t, "0", created.ReadableID)
	assert.Equal(t, "PENDING", created.Status)
	assert.Equal(t, "CHEF", created.Mode)
	assert.Equal(t, 1100, created.TotalAmount)
	assert.Equal(t, h.diner.ID().String(), created.CreatedBy)
	assert.Equal(t, 1, h.armed())

	rec := h.do(http.MethodGet, "/api/v1/orders/"+created.ID, "", h.diner)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created.ID, decode[api.Order](t, rec).ID)
	assert.NotContains(t, rec.Body.String(), "tok_visa")

	rec = h.do(http.MethodGet, "/api/v1/orders/"+created.ID, "", h.other)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = h.do(http.MethodGet, "/api/v1/orders/"+created.ID, "", h.admin)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = h.do(http.MethodGet, "/api/v1/orders/"+kernel.NewUUID().String(), "", h.admin)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_CreateOrder_Rejections(t *testing.T) {
	h := newHarness(t)
	path := "/api/v1/users/" + h.diner.ID().String() + "/orders"

	t.Run("missing identity", func(t *testing.T) {
		rec := h.do(http.MethodPost, path, visaOrder, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("ordering for someone else", func(t *testing.T) {
		rec := h.do(http.MethodPost, path, visaOrder, h.other)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("malformed user id", func(t *testing.T) {
		rec := h.do(http.MethodPost, "/api/v1/users/nope/orders", visaOrder, h.diner)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid details", func(t *testing.T) {
		rec := h.do(http.MethodPost, path, `{"amount":-5,"currency":"USD","paymentToken":"tok_visa","quantity":1}`, h.diner)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, http.StatusBadRequest, decode[api.Error](t, rec).Code)
	})

	t.Run("unknown voucher", func(t *testing.T) {
		body := `{"amount":100,"currency":"USD","paymentToken":"tok_visa","quantity":1,"voucherCode":"BCD2FGH3"}`
		rec := h.do(http.MethodPost, path, body, h.diner)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestServer_VoucherRedemption(t *testing.T) {
	h := newHarness(t)

	rec := h.do(http.MethodPost, "/api/v1/vouchers",
		`{"count":2,"discountType":"percent","discount":10,"expirationType":"onetime"}`, h.admin)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	vouchers := decode[[]api.Voucher](t, rec)
	require.Len(t, vouchers, 2)
	assert.NotEqual(t, vouchers[0].Code, vouchers[1].Code)
	assert.Equal(t, "VALID", vouchers[0].Status)

	created := h.createOrder(t, `{"amount":1000,"currency":"USD","paymentToken":"tok_visa","quantity":1,"voucherCode":"`+
		vouchers[0].Code+`"}`)
	assert.Equal(t, 900, created.TotalAmount)
	require.NotNil(t, created.Voucher)
	assert.Equal(t, vouchers[0].Code, created.Voucher.Code)

	rec = h.do(http.MethodPost, "/api/v1/users/"+h.diner.ID().String()+"/orders",
		`{"amount":1000,"currency":"USD","paymentToken":"tok_visa","quantity":1,"voucherCode":"`+vouchers[0].Code+`"}`, h.diner)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = h.do(http.MethodPost, "/api/v1/vouchers", `{"count":1,"discountType":"amount","discount":5,"expirationType":"onetime"}`, h.diner)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestServer_UpdateOrder(t *testing.T) {
	h := newHarness(t)
	created := h.createOrder(t, visaOrder)

	rec := h.do(http.MethodPut, "/api/v1/orders/"+created.ID, `{"quantity":20,"mode":"pickup"}`, h.diner)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[api.Order](t, rec)
	assert.Equal(t, 20, updated.Quantity)
	assert.Equal(t, "PICKUP", updated.Mode)
	assert.Equal(t, "Tapas", updated.Description)
	assert.Equal(t, 1000, updated.TotalAmount)

	rec = h.do(http.MethodPut, "/api/v1/orders/"+created.ID, `{"quantity":2}`, h.other)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = h.do(http.MethodPut, "/api/v1/orders/"+created.ID, `{"mode":"drone"}`, h.diner)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_ExecuteOrder(t *testing.T) {
	t.Run("confirm charges the order", func(t *testing.T) {
		h := newHarness(t)
		created := h.createOrder(t, visaOrder)

		rec := h.do(http.MethodGet, h.executeURL(t, created, "tok_visa", true), "", nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		executed := decode[api.Order](t, rec)
		assert.Equal(t, "SUCCESSFUL", executed.Status)
		assert.True(t, executed.Paid)
		assert.True(t, strings.HasPrefix(executed.ChargeID, "ch_"))
		assert.Equal(t, 0, h.armed())

		rec = h.do(http.MethodGet, h.executeURL(t, created, "tok_visa", true), "", nil)
		assert.Equal(t, http.StatusConflict, rec.Code)

		rec = h.do(http.MethodPut, "/api/v1/orders/"+created.ID, `{"quantity":2}`, h.diner)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("declined card fails the order", func(t *testing.T) {
		h := newHarness(t)
		created := h.createOrder(t, `{"amount":500,"currency":"USD","paymentToken":"tok_decline","quantity":1}`)

		rec := h.do(http.MethodGet, h.executeURL(t, created, "tok_decline", true), "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		executed := decode[api.Order](t, rec)
		assert.Equal(t, "FAILED", executed.Status)
		assert.False(t, executed.Paid)
	})

	t.Run("decline", func(t *testing.T) {
		h := newHarness(t)
		created := h.createOrder(t, visaOrder)

		rec := h.do(http.MethodGet, h.executeURL(t, created, "tok_visa", false), "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "DECLINED", decode[api.Order](t, rec).Status)
	})

	t.Run("confirm without charge leaves the order pending", func(t *testing.T) {
		h := newHarness(t)
		created := h.createOrder(t, visaOrder)

		rec := h.do(http.MethodGet, h.executeURL(t, created, "tok_visa", true), "", nil, api.HeaderChargeAgent, "false")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "PENDING", decode[api.Order](t, rec).Status)
		assert.Equal(t, 0, h.armed())
	})

	t.Run("wrong code", func(t *testing.T) {
		h := newHarness(t)
		created := h.createOrder(t, visaOrder)

		rec := h.do(http.MethodGet, h.executeURL(t, created, "tok_other", true), "", nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("bad parameters", func(t *testing.T) {
		h := newHarness(t)
		created := h.createOrder(t, visaOrder)
		base := "/execute/users/" + h.other.ID().String() + "/orders/" + created.ID

		rec := h.do(http.MethodGet, base+"?confirm=maybe&ordercode=abc", "", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = h.do(http.MethodGet, h.executeURL(t, created, "tok_visa", true), "", nil, api.HeaderChargeAgent, "sometimes")
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = h.do(http.MethodGet, base+"?confirm=true", "", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestServer_DeleteOrder(t *testing.T) {
	h := newHarness(t)
	created := h.createOrder(t, visaOrder)

	rec := h.do(http.MethodDelete, "/api/v1/orders/"+created.ID, "", h.diner)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = h.do(http.MethodDelete, "/api/v1/orders/"+created.ID, "", h.admin)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 0, h.armed())

	rec = h.do(http.MethodDelete, "/api/v1/orders/"+created.ID, "", h.admin)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_NextSequenceID(t *testing.T) {
	h := newHarness(t)

	for _, want := range []string{"0", "1"} {
		rec := h.do(http.MethodPost, "/api/v1/sequences/invoices", "", h.admin)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, api.SequenceID{Name: "invoices", Value: want}, decode[api.SequenceID](t, rec))
	}

	rec := h.do(http.MethodPost, "/api/v1/sequences/invoices", "", h.diner)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
