package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePinger struct{ err error }

func (f fakePinger) PingContext(_ context.Context) error { return f.err }

func newChecker(probes map[string]Probe) *Checker {
	c := NewChecker("test")
	for name, p := range probes {
		c.AddProbe(name, p)
	}
	return c
}

func serve(checker *Checker, path string) *httptest.ResponseRecorder {
	e := echo.New()
	checker.RegisterRoutes(e)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestChecker(t *testing.T) {
	up := map[string]Probe{"order_store": PingProbe(fakePinger{})}
	down := map[string]Probe{"order_store": PingProbe(fakePinger{err: errors.New("down")})}

	tests := []struct {
		name   string
		probes map[string]Probe
		path   string
		ready  bool
		code   int
	}{
		{name: "report with passing store", probes: up, path: "/api/v1/health", code: http.StatusOK},
		{name: "report with failing store", probes: down, path: "/api/v1/health", code: http.StatusServiceUnavailable},
		{name: "report without probes", path: "/api/v1/health", code: http.StatusOK},
		{name: "live ignores probes", probes: down, path: "/api/v1/health/live", code: http.StatusOK},
		{name: "not ready while starting", probes: up, path: "/api/v1/health/ready", code: http.StatusServiceUnavailable},
		{name: "ready", probes: up, path: "/api/v1/health/ready", ready: true, code: http.StatusOK},
		{name: "ready flag with failing store", probes: down, path: "/api/v1/health/ready", ready: true, code: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checker := newChecker(tt.probes)
			checker.SetReady(tt.ready)
			rec := serve(checker, tt.path)
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}

func TestChecker_ReportBody(t *testing.T) {
	checker := newChecker(map[string]Probe{
		"order_store": PingProbe(fakePinger{}),
		"cache":       func(context.Context) error { return errors.New("refused") },
	})

	rec := serve(checker, "/api/v1/health")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var report Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, StatusDown, report.Status)
	assert.Equal(t, "test", report.Version)
	assert.Equal(t, StatusUp, report.Probes["order_store"].Status)
	assert.Equal(t, StatusDown, report.Probes["cache"].Status)
	assert.Equal(t, "refused", report.Probes["cache"].Error)
}
