package http

import (
	"catering/internal/core/domain/model/kernel"
	"catering/internal/core/domain/model/user"
	"catering/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Identity headers are set by the gateway in front of this service.
const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"
)

// HeaderChargeAgent set to "false" confirms an order without charging it.
const HeaderChargeAgent = "charge-agent"

func callerFrom(ctx echo.Context) (user.Caller, error) {
	raw := ctx.Request().Header.Get(HeaderUserID)
	if raw == "" {
		return user.Caller{}, errs.NewForbiddenError("missing " + HeaderUserID + " header")
	}

	id, err := kernel.UUIDFromString(raw)
	if err != nil {
		return user.Caller{}, err
	}

	role, err := user.ParseRole(ctx.Request().Header.Get(HeaderUserRole))
	if err != nil {
		return user.Caller{}, err
	}

	return user.Caller{ID: id, Role: role}, nil
}

func requireAdmin(ctx echo.Context) error {
	caller, err := callerFrom(ctx)
	if err != nil {
		return err
	}
	if !caller.IsAdmin() {
		return errs.NewForbiddenError("admin role required")
	}
	return nil
}

func uuidParam(ctx echo.Context, name string) (kernel.UUID, error) {
	return kernel.UUIDFromString(ctx.Param(name))
}
