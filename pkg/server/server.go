// Package server assembles the HTTP API.
package server

import (
	"net/http"

	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"github.com/Ramsey-B/fennel/pkg/middleware"
	"github.com/Ramsey-B/fennel/pkg/routes/cpt"
	"github.com/Ramsey-B/fennel/pkg/routes/health"
	"github.com/Ramsey-B/fennel/pkg/routes/rates"
	"github.com/Ramsey-B/fennel/pkg/routes/search"
)

// Routes holds the handlers mounted on the API.
type Routes struct {
	Health *health.Checker
	Search *search.Handler
	Rates  *rates.Handler
	CPT    *cpt.Handler
}

// Options configures the echo instance.
type Options struct {
	AppName      string
	AllowOrigins []string
	AllowMethods []string
}

// New builds the echo instance with middleware and every route registered.
func New(opts Options, logger ectologger.Logger, routes Routes) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = middleware.Error(logger)

	allowMethods := opts.AllowMethods
	if len(allowMethods) == 0 {
		allowMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut}
	}

	e.Use(echomw.Recover())
	e.Use(otelecho.Middleware(opts.AppName))
	e.Use(middleware.Context())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: opts.AllowOrigins,
		AllowMethods: allowMethods,
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderXRequestID, middleware.HeaderClerkID},
	}))

	if routes.Health != nil {
		routes.Health.RegisterRoutes(e)
	}
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api/v1")
	if routes.Search != nil {
		routes.Search.Register(api.Group("/search"))
	}
	if routes.Rates != nil {
		routes.Rates.Register(api.Group("/rates"))
	}
	if routes.CPT != nil {
		routes.CPT.Register(api.Group("/cpt"))
	}

	return e
}
