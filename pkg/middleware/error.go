package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/fennel/pkg/context"
	"github.com/Ramsey-B/fennel/pkg/tracing"
)

type ErrorResponse struct {
	Message   string         `json:"message"`
	RequestID string         `json:"request_id"`
	TraceID   string         `json:"trace_id,omitempty"`
	Meta      map[string]any `json:"meta,omitempty"`
}

// resolve maps an error to a status, a client-safe message and optional meta.
// Errors that are neither echo nor ectoerror HTTP errors become opaque 500s.
func resolve(err error) (int, string, map[string]any) {
	if httperror.IsHTTPError(err) {
		he := httperror.ToHTTPError(err)
		return httperror.GetStatusCode(err), he.Error(), he.Meta
	}

	var ee *echo.HTTPError
	if errors.As(err, &ee) {
		message := http.StatusText(ee.Code)
		if m, ok := ee.Message.(string); ok {
			message = m
		} else if ee.Message != nil {
			message = fmt.Sprint(ee.Message)
		}
		return ee.Code, message, nil
	}

	return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError), nil
}

func Error(logger ectologger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		ctx := c.Request().Context()
		code, message, meta := resolve(err)

		if code >= http.StatusInternalServerError {
			logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
				"request_id": context.GetRequestID(ctx),
				"status":     code,
			}).Error("Request returned a server error")
		}

		body := ErrorResponse{
			Message:   message,
			RequestID: context.GetRequestID(ctx),
			TraceID:   tracing.GetTraceID(ctx),
			Meta:      meta,
		}
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}
