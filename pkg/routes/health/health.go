package health

import (
	"context"
	"net/http"
	"sort"
	"sync/atomic"
	"time"

	"github.com/labstack/echo/v4"
)

const (
	StatusUp   = "up"
	StatusDown = "down"

	defaultProbeTimeout = 2 * time.Second
)

// Probe reports whether a backing service can be reached.
type Probe func(ctx context.Context) error

// Pinger is satisfied by the order store.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// PingProbe probes a store by pinging it.
func PingProbe(p Pinger) Probe {
	return p.PingContext
}

// Checker serves liveness, readiness and a per-probe report.
type Checker struct {
	version string
	started time.Time
	timeout time.Duration
	probes  map[string]Probe
	ready   atomic.Bool
}

func NewChecker(version string) *Checker {
	return &Checker{
		version: version,
		started: time.Now(),
		timeout: defaultProbeTimeout,
		probes:  map[string]Probe{},
	}
}

// AddProbe registers a named probe. Probes must be added before the routes
// are served.
func (c *Checker) AddProbe(name string, probe Probe) {
	c.probes[name] = probe
}

func (c *Checker) SetReady(ready bool) {
	c.ready.Store(ready)
}

func (c *Checker) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api/v1/health")
	g.GET("", c.Report)
	g.GET("/live", c.Live)
	g.GET("/ready", c.Ready)
}

type ProbeResult struct {
	Status  string `json:"status"`
	Error   string `json:"error,omitempty"`
	Latency string `json:"latency"`
}

type Report struct {
	Status    string                 `json:"status"`
	Version   string                 `json:"version"`
	Uptime    string                 `json:"uptime"`
	Probes    map[string]ProbeResult `json:"probes"`
	CheckedAt time.Time              `json:"checked_at"`
}

// run executes every probe in name order and reports whether all passed.
func (c *Checker) run(ctx context.Context) (map[string]ProbeResult, bool) {
	names := make([]string, 0, len(c.probes))
	for name := range c.probes {
		names = append(names, name)
	}
	sort.Strings(names)

	results := make(map[string]ProbeResult, len(names))
	ok := true
	for _, name := range names {
		probeCtx, cancel := context.WithTimeout(ctx, c.timeout)
		start := time.Now()
		err := c.probes[name](probeCtx)
		cancel()

		result := ProbeResult{Status: StatusUp, Latency: time.Since(start).String()}
		if err != nil {
			result.Status = StatusDown
			result.Error = err.Error()
			ok = false
		}
		results[name] = result
	}
	return results, ok
}

// Report runs all probes. It answers 503 when any probe fails.
func (c *Checker) Report(ctx echo.Context) error {
	probes, ok := c.run(ctx.Request().Context())

	report := Report{
		Status:    StatusUp,
		Version:   c.version,
		Uptime:    time.Since(c.started).Round(time.Second).String(),
		Probes:    probes,
		CheckedAt: time.Now().UTC(),
	}

	code := http.StatusOK
	if !ok {
		report.Status = StatusDown
		code = http.StatusServiceUnavailable
	}
	return ctx.JSON(code, report)
}

func (c *Checker) Live(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": StatusUp})
}

// Ready requires both the startup flag and passing probes.
func (c *Checker) Ready(ctx echo.Context) error {
	if !c.ready.Load() {
		return ctx.JSON(http.StatusServiceUnavailable, map[string]string{"status": "starting"})
	}
	if _, ok := c.run(ctx.Request().Context()); !ok {
		return ctx.JSON(http.StatusServiceUnavailable, map[string]string{"status": StatusDown})
	}
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ready"})
}
