package httpserver

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/labstack/echo/v4"
)

var errInvalidBody = errors.New("invalid body")

func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return fmt.Errorf("%w: %v", errInvalidBody, err)
	}
	return c.Validate(req)
}

func httpStatus(err error) int {
	switch {
	case errors.Is(err, errInvalidBody),
		errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrInvalidDeliveryTime),
		errors.Is(err, service.ErrOrderNotEditable),
		errors.Is(err, service.ErrIllegalTransition):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// fail logs err under event and turns it into the JSON error response.
func fail(l *slog.Logger, event string, err error) error {
	status := httpStatus(err)

	body := transport.ErrorResponse{Detail: err.Error()}
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		body = transport.ErrorResponse{Detail: "invalid input", Fields: verr.Fields}
	case errors.Is(err, errInvalidBody):
		body.Detail = "invalid body"
	case status == http.StatusInternalServerError:
		body.Detail = "internal error"
	}

	if status >= http.StatusInternalServerError {
		l.Error(event, "status", status, "reason", body.Detail, "error", err)
	} else {
		l.Warn(event, "status", status, "reason", body.Detail, "error", err)
	}
	return echo.NewHTTPError(status, body)
}
