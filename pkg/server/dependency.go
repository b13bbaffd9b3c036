package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/fennel/pkg/database"
)

const DependencyName = "http"

// HTTPConfig holds listener settings.
type HTTPConfig struct {
	Port              int
	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	MaxHeaderBytes    int
}

// Dependency serves the API once the store is ready. The echo instance is
// built at start so handlers can be wired to the connected store.
type Dependency struct {
	config HTTPConfig
	build  func() (*echo.Echo, error)
	logger ectologger.Logger
	server *http.Server
	errCh  chan error
}

func NewDependency(config HTTPConfig, logger ectologger.Logger, build func() (*echo.Echo, error)) *Dependency {
	return &Dependency{config: config, build: build, logger: logger}
}

func (d *Dependency) GetName() string {
	return DependencyName
}

func (d *Dependency) DependsOn() []string {
	return []string{database.DependencyName}
}

func (d *Dependency) Start(_ context.Context) error {
	e, err := d.build()
	if err != nil {
		return err
	}

	addr := fmt.Sprintf(":%d", d.config.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	e.Listener = listener

	server := &http.Server{
		ReadTimeout:       d.config.ReadTimeout,
		ReadHeaderTimeout: d.config.ReadHeaderTimeout,
		WriteTimeout:      d.config.WriteTimeout,
		IdleTimeout:       d.config.IdleTimeout,
		MaxHeaderBytes:    d.config.MaxHeaderBytes,
	}

	d.server = server
	d.errCh = make(chan error, 1)
	go func() {
		if err := e.StartServer(server); err != nil && !errors.Is(err, http.ErrServerClosed) {
			d.logger.WithError(err).Error("HTTP server stopped unexpectedly")
			d.errCh <- err
		}
		close(d.errCh)
	}()

	d.logger.WithField("addr", listener.Addr().String()).Info("HTTP server listening")
	return nil
}

// Done reports a server failure, or closes when the server stops.
func (d *Dependency) Done() <-chan error {
	return d.errCh
}

func (d *Dependency) Stop(ctx context.Context) error {
	if d.server == nil {
		return nil
	}
	return d.server.Shutdown(ctx)
}
