// Package http exposes the order engine over REST with echo.
package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"catering/internal/core/application/usecases/commands"
	"catering/internal/core/application/usecases/queries"
	"catering/internal/core/domain/model/kernel"
	"catering/internal/core/domain/model/order"
	"catering/internal/core/domain/model/voucher"

	"github.com/labstack/echo/v4"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createOrderHandler      commands.CreateOrderCommandHandler
	updateOrderHandler      commands.UpdateOrderCommandHandler
	executeOrderHandler     commands.ExecuteOrderCommandHandler
	deleteOrderHandler      commands.DeleteOrderCommandHandler
	generateVouchersHandler commands.GenerateVouchersCommandHandler
	nextSequenceIDHandler   commands.NextSequenceIDCommandHandler

	// Query handlers
	getOrderHandler queries.GetOrderQueryHandler

	logger *slog.Logger
}

func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	updateOrderHandler commands.UpdateOrderCommandHandler,
	executeOrderHandler commands.ExecuteOrderCommandHandler,
	deleteOrderHandler commands.DeleteOrderCommandHandler,
	generateVouchersHandler commands.GenerateVouchersCommandHandler,
	nextSequenceIDHandler commands.NextSequenceIDCommandHandler,
	getOrderHandler queries.GetOrderQueryHandler,
	logger *slog.Logger,
) *Server {
	return &Server{
		createOrderHandler:      createOrderHandler,
		updateOrderHandler:      updateOrderHandler,
		executeOrderHandler:     executeOrderHandler,
		deleteOrderHandler:      deleteOrderHandler,
		generateVouchersHandler: generateVouchersHandler,
		nextSequenceIDHandler:   nextSequenceIDHandler,
		getOrderHandler:         getOrderHandler,
		logger:                  logger.With("component", "http"),
	}
}

// CreateOrder handles POST /api/v1/users/:userId/orders.
func (s *Server) CreateOrder(ctx echo.Context) error {
	userID, err := uuidParam(ctx, "userId")
	if err != nil {
		return s.fail(ctx, err)
	}

	caller, err := callerFrom(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}
	if !caller.CanAccess(userID) {
		return ctx.JSON(http.StatusForbidden, Error{
			Code:    http.StatusForbidden,
			Message: "orders can only be placed for yourself",
		})
	}

	var body NewOrder
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	currency, err := kernel.NewCurrency(body.Currency)
	if err != nil {
		return s.fail(ctx, err)
	}
	mode, err := order.ParseFulfillmentMode(body.Mode)
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewCreateOrderCommand(userID, order.Details{
		Amount:       body.Amount,
		Currency:     currency,
		PaymentToken: body.PaymentToken,
		Mode:         mode,
		Description:  body.Description,
		Quantity:     body.Quantity,
		PickupDate:   body.PickupDate,
	}, body.VoucherCode)
	if err != nil {
		return s.fail(ctx, err)
	}

	created, err := s.createOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, newOrder(queries.NewGetOrderQueryResponse(created)))
}

// GetOrder handles GET /api/v1/orders/:orderId.
func (s *Server) GetOrder(ctx echo.Context) error {
	orderID, err := uuidParam(ctx, "orderId")
	if err != nil {
		return s.fail(ctx, err)
	}

	caller, err := callerFrom(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	query, err := queries.NewGetOrderQuery(orderID, caller)
	if err != nil {
		return s.fail(ctx, err)
	}

	view, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, newOrder(view))
}

// UpdateOrder handles PUT /api/v1/orders/:orderId.
func (s *Server) UpdateOrder(ctx echo.Context) error {
	orderID, err := uuidParam(ctx, "orderId")
	if err != nil {
		return s.fail(ctx, err)
	}

	caller, err := callerFrom(ctx)
	if err != nil {
		return s.fail(ctx, err)
	}

	var body OrderPatch
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	amendment := order.Amendment{
		Description: body.Description,
		Quantity:    body.Quantity,
		PickupDate:  body.PickupDate,
	}
	if body.Mode != nil {
		mode, modeErr := order.ParseFulfillmentMode(*body.Mode)
		if modeErr != nil {
			return s.fail(ctx, modeErr)
		}
		amendment.Mode = &mode
	}

	cmd, err := commands.NewUpdateOrderCommand(orderID, caller, amendment)
	if err != nil {
		return s.fail(ctx, err)
	}

	updated, err := s.updateOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, newOrder(queries.NewGetOrderQueryResponse(updated)))
}

// DeleteOrder handles DELETE /api/v1/orders/:orderId. Admins only.
func (s *Server) DeleteOrder(ctx echo.Context) error {
	if err := requireAdmin(ctx); err != nil {
		return s.fail(ctx, err)
	}

	orderID, err := uuidParam(ctx, "orderId")
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewDeleteOrderCommand(orderID)
	if err != nil {
		return s.fail(ctx, err)
	}

	if _, err = s.deleteOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// ExecuteOrder handles GET /execute/users/:userId/orders/:orderId?confirm=&ordercode=.
// The link is sent to the caterer, so the authorization code is the credential.
func (s *Server) ExecuteOrder(ctx echo.Context) error {
	userID, err := uuidParam(ctx, "userId")
	if err != nil {
		return s.fail(ctx, err)
	}
	orderID, err := uuidParam(ctx, "orderId")
	if err != nil {
		return s.fail(ctx, err)
	}

	confirm, err := strconv.ParseBool(ctx.QueryParam("confirm"))
	if err != nil {
		return badRequest(ctx, "confirm must be true or false")
	}

	shouldCharge := true
	if raw := strings.TrimSpace(ctx.Request().Header.Get(HeaderChargeAgent)); raw != "" {
		if shouldCharge, err = strconv.ParseBool(raw); err != nil {
			return badRequest(ctx, HeaderChargeAgent+" must be true or false")
		}
	}

	cmd, err := commands.NewExecuteOrderCommand(userID, orderID, confirm, shouldCharge, ctx.QueryParam("ordercode"))
	if err != nil {
		return s.fail(ctx, err)
	}

	executed, err := s.executeOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, newOrder(queries.NewGetOrderQueryResponse(executed)))
}

// GenerateVouchers handles POST /api/v1/vouchers. Admins only.
func (s *Server) GenerateVouchers(ctx echo.Context) error {
	if err := requireAdmin(ctx); err != nil {
		return s.fail(ctx, err)
	}

	var body NewVouchers
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	discountType, err := voucher.ParseDiscountType(body.DiscountType)
	if err != nil {
		return s.fail(ctx, err)
	}
	expirationType, err := voucher.ParseExpirationType(body.ExpirationType)
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewGenerateVouchersCommand(body.Count, discountType, body.Discount, expirationType, body.Expiration)
	if err != nil {
		return s.fail(ctx, err)
	}

	generated, err := s.generateVouchersHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	response := make([]Voucher, len(generated))
	for i, v := range generated {
		response[i] = newVoucher(v)
	}

	return ctx.JSON(http.StatusCreated, response)
}

// NextSequenceID handles POST /api/v1/sequences/:name. Admins only.
func (s *Server) NextSequenceID(ctx echo.Context) error {
	if err := requireAdmin(ctx); err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewNextSequenceIDCommand(ctx.Param("name"))
	if err != nil {
		return s.fail(ctx, err)
	}

	value, err := s.nextSequenceIDHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, SequenceID{Name: cmd.CounterName(), Value: value})
}
