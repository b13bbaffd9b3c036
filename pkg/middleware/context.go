package middleware

import (
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/fennel/pkg/context"
)

// HeaderClerkID carries the reviewing clerk's identifier from the review UI.
const HeaderClerkID = "X-Clerk-ID"

const maxRequestIDLength = 128

// Context seeds the request context with the request ID and caller details.
// Inbound request IDs are reused unless blank or oversized.
func Context() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			requestID := strings.TrimSpace(req.Header.Get(echo.HeaderXRequestID))
			if requestID == "" || len(requestID) > maxRequestIDLength {
				requestID = uuid.NewString()
			}
			c.Response().Header().Set(echo.HeaderXRequestID, requestID)

			ctx := context.SetRequestID(req.Context(), requestID)
			ctx = context.SetMethod(ctx, req.Method)
			ctx = context.SetRoute(ctx, c.Path())
			ctx = context.SetRemoteIP(ctx, c.RealIP())
			if clerk := strings.TrimSpace(req.Header.Get(HeaderClerkID)); clerk != "" {
				ctx = context.SetClerkID(ctx, clerk)
			}

			c.SetRequest(req.WithContext(ctx))
			return next(c)
		}
	}
}
