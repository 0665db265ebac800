package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/tiendamonedas/admin-dashboard/internal/api/view"
	"github.com/tiendamonedas/admin-dashboard/internal/core/domain"
)

// errorResponse is the envelope for callers that asked for JSON.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that renders the
// error page, or the JSON envelope when the caller accepts JSON. Unexpected
// errors are logged and answered with a generic message.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		if strings.Contains(c.Request().Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON) {
			_ = c.JSON(code, errorResponse{Error: msg})
			return
		}
		page := view.Page{Title: "Error", Data: view.ErrorData{Code: code, Message: msg}}
		if rerr := c.Render(code, view.PageError, page); rerr != nil {
			log.Error().Err(rerr).Msg("render error page")
			_ = c.String(code, msg)
		}
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	var f *domain.Failure
	if errors.As(err, &f) {
		switch {
		case f.Kind == domain.FailureValidation:
			return http.StatusUnprocessableEntity, domain.UserMessage(f, "Solicitud inválida.")
		case f.Kind == domain.FailureRejected && f.Status >= 400 && f.Status < 500:
			return f.Status, domain.UserMessage(f, "La solicitud fue rechazada.")
		default:
			log.Warn().Err(err).Str("path", c.Path()).Msg("upstream failure")
			return http.StatusBadGateway, domain.UserMessage(f, "No se pudo contactar al servidor.")
		}
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "Error interno del servidor."
}
