package api

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/j-veylop/vahan-dashboard-tui/internal/logger"
	"github.com/j-veylop/vahan-dashboard-tui/internal/metrics"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code, resp := errorResponse(err)
	if code >= http.StatusInternalServerError {
		logger.Error("request error", "path", c.Path(), "error", err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, resp)
	}
	if err != nil {
		logger.Error("failed to write error response", "error", err)
	}
}

func errorResponse(err error) (int, ErrorResponse) {
	var (
		he         *echo.HTTPError
		validation validator.ValidationErrors
	)

	switch {
	case metrics.IsInvalidInput(err):
		return http.StatusInternalServerError, ErrorResponse{Error: "Failed to process data", Details: err.Error()}
	case errors.As(err, &validation):
		return http.StatusBadRequest, ErrorResponse{Error: "Invalid request", Details: validation.Error()}
	case errors.As(err, &he):
		msg := http.StatusText(he.Code)
		if s, ok := he.Message.(string); ok && s != "" {
			msg = s
		}
		return he.Code, ErrorResponse{Error: msg}
	default:
		// The cause is logged by the handler; it may name paths or SQL.
		return http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"}
	}
}
