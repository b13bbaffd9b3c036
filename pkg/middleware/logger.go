package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/fennel/pkg/context"
)

// quietPrefixes are polled by orchestrators and scrapers and only logged on failure.
var quietPrefixes = []string{"/metrics", "/api/v1/health"}

// Logger writes one access line per request. Server errors log at error,
// client errors at warn.
func Logger(logger ectologger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			if err := next(c); err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()
			if res.Status < http.StatusBadRequest && isQuiet(req.URL.Path) {
				return nil
			}

			ctx := req.Context()
			entry := logger.WithContext(ctx).WithFields(map[string]any{
				"request_id":    context.GetRequestID(ctx),
				"clerk_id":      context.GetClerkID(ctx),
				"method":        req.Method,
				"route":         c.Path(),
				"query":         req.URL.RawQuery,
				"status":        res.Status,
				"remote_ip":     c.RealIP(),
				"latency_ms":    time.Since(start).Milliseconds(),
				"response_size": res.Size,
			})

			switch {
			case res.Status >= http.StatusInternalServerError:
				entry.Error("Request failed")
			case res.Status >= http.StatusBadRequest:
				entry.Warn("Request rejected")
			default:
				entry.Info("Request")
			}
			return nil
		}
	}
}

func isQuiet(path string) bool {
	for _, prefix := range quietPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
