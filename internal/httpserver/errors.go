package httpserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wimpyapp/ordering/internal/app"
	"github.com/wimpyapp/ordering/internal/apperr"
	"github.com/wimpyapp/ordering/internal/auth"
	"github.com/wimpyapp/ordering/internal/navigation"
)

const msgRejected = "La solicitud fue rechazada"

type Response struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func errorResponse(c echo.Context, code int, message string) error {
	return c.JSON(code, Response{Status: "error", Message: message})
}

// statusFor maps an intent error to its HTTP status and user-facing message.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		return http.StatusBadRequest, apperr.UserMessage(err, "")
	case errors.Is(err, apperr.ErrRejected):
		return http.StatusUnprocessableEntity, apperr.UserMessage(err, msgRejected)
	case errors.Is(err, apperr.ErrConnectivity):
		return http.StatusBadGateway, apperr.MsgConnectivity
	case errors.Is(err, apperr.ErrInFlight):
		return http.StatusConflict, apperr.MsgInFlight
	case errors.Is(err, app.ErrConfirmationRequired):
		return http.StatusConflict, app.MsgConfirmLogout
	case errors.Is(err, navigation.ErrIllegalTransition),
		errors.Is(err, auth.ErrIllegalTransition),
		errors.Is(err, auth.ErrSuperseded),
		errors.Is(err, app.ErrCheckoutClosed):
		return http.StatusConflict, err.Error()
	case errors.Is(err, app.ErrNotAuthenticated):
		return http.StatusUnauthorized, err.Error()
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

func fail(c echo.Context, l *slog.Logger, event string, err error) error {
	code, msg := statusFor(err)
	if code >= 500 {
		l.Error(event, "status", code, "error", err)
	} else {
		l.Warn(event, "status", code, "error", err)
	}
	return errorResponse(c, code, msg)
}
