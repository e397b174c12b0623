package http

import (
	"errors"
	"net/http"

	"delivery/internal/core/application/usecases/commands"
	"delivery/internal/core/domain/model/route"
	"delivery/internal/core/domain/services"
	"delivery/internal/generated/servers"
	"delivery/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

const unavailableMessage = "delivery service temporarily unavailable"

// statusFor maps a handler error onto an HTTP status. Unknown errors are
// infrastructure failures.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, commands.ErrRouteIsNotOwned):
		return http.StatusForbidden
	case errors.Is(err, route.ErrInvalidTransition),
		errors.Is(err, route.ErrRouteIsCompleted),
		errors.Is(err, errs.ErrVersionIsInvalid):
		return http.StatusConflict
	case errors.Is(err, services.ErrCourierNotFound):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest
	default:
		return http.StatusServiceUnavailable
	}
}

func (s *Server) problem(ctx echo.Context, err error) error {
	code := statusFor(err)
	if code == http.StatusServiceUnavailable {
		s.logger.ErrorContext(ctx.Request().Context(), "Request failed",
			"method", ctx.Request().Method, "path", ctx.Path(), "error", err)
		return ctx.JSON(code, servers.Error{Code: code, Message: unavailableMessage})
	}
	return ctx.JSON(code, servers.Error{Code: code, Message: err.Error()})
}

func badRequest(ctx echo.Context, msg string) error {
	return ctx.JSON(http.StatusBadRequest, servers.Error{Code: http.StatusBadRequest, Message: msg})
}

func forbidden(ctx echo.Context) error {
	return ctx.JSON(http.StatusForbidden, servers.Error{Code: http.StatusForbidden, Message: "Access denied"})
}
