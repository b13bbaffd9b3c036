package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	"github.com/Ramsey-B/fennel/pkg/database"
	"github.com/Ramsey-B/fennel/pkg/routes/health"
	"github.com/Ramsey-B/fennel/pkg/server"
	"github.com/Ramsey-B/fennel/pkg/startup"
	"github.com/Ramsey-B/fennel/pkg/tracing"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	cfg, logger := a.cfg, a.logger

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.TracingEnabled {
		shutdownTracing, err := tracing.Setup(ctx, cfg.AppName, cfg.OTLP())
		if err != nil {
			return err
		}
		defer func() {
			flushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := shutdownTracing(flushCtx); err != nil {
				logger.WithError(err).Warn("Failed to flush traces")
			}
		}()
	}

	st := startup.NewStartup(logger, cfg.StartupMaxAttempts)

	db := database.NewDependency(cfg.Database(), logger)
	st.AddDependency(db)
	if cfg.DatabaseMigrateOnStart {
		st.AddDependency(database.NewMigrationDependency(db, database.NewMigrationService(logger, cfg.Migration())))
	}

	var checker *health.Checker
	httpServer := server.NewDependency(server.HTTPConfig{
		Port:              cfg.Port,
		ReadTimeout:       time.Duration(cfg.HttpServerReadTimeoutSeconds) * time.Second,
		ReadHeaderTimeout: time.Duration(cfg.ReadHeaderTimeoutSeconds) * time.Second,
		WriteTimeout:      time.Duration(cfg.HttpServerWriteTimeoutSeconds) * time.Second,
		IdleTimeout:       time.Duration(cfg.HttpServerIdleTimeoutSeconds) * time.Second,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}, logger, func() (*echo.Echo, error) {
		checker = health.NewChecker(version)
		checker.AddProbe("order_store", health.PingProbe(db.DB()))
		routes, err := a.routes(db.DB(), checker)
		if err != nil {
			return nil, err
		}
		return server.New(server.Options{
			AppName:      cfg.AppName,
			AllowOrigins: cfg.AllowOrigins,
			AllowMethods: cfg.AllowMethods,
		}, logger, routes), nil
	})
	st.AddDependency(httpServer)

	if err := st.Start(ctx); err != nil {
		logger.WithError(err).Error("Failed to start fennel")
		return err
	}
	checker.SetReady(true)
	logger.Infof("%s %s started", cfg.AppName, version)

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case serveErr = <-httpServer.Done():
	}

	checker.SetReady(false)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := st.Stop(shutdownCtx); err != nil {
		logger.WithError(err).Error("Failed to stop cleanly")
		if serveErr == nil {
			serveErr = err
		}
	}

	return serveErr
}
