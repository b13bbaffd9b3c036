package database

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// ConnectionConfig describes how to reach the order store.
type ConnectionConfig struct {
	Driver          string
	Path            string // sqlite file, ":memory:" allowed
	Host            string
	Port            string
	UserName        string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DSN returns the driver name and data source name for the configuration.
func (c ConnectionConfig) DSN() (string, string, error) {
	switch DialectFor(c.Driver) {
	case DialectPostgres:
		u := url.URL{
			Scheme: "postgres",
			User:   url.UserPassword(c.UserName, c.Password),
			Host:   fmt.Sprintf("%s:%s", c.Host, c.Port),
			Path:   c.Name,
		}
		q := u.Query()
		q.Set("sslmode", c.SSLMode)
		u.RawQuery = q.Encode()
		return "postgres", u.String(), nil
	case DialectSQLite:
		if c.Path == "" {
			return "", "", fmt.Errorf("sqlite driver requires a database path")
		}
		return "sqlite", c.Path, nil
	}
	return "", "", fmt.Errorf("unsupported database driver %q", c.Driver)
}

// Connect opens and pings the order store.
func Connect(ctx context.Context, cfg ConnectionConfig, logger ectologger.Logger) (DB, error) {
	driver, dsn, err := cfg.DSN()
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}

	if driver == "sqlite" && cfg.Path == ":memory:" {
		// every pooled connection would otherwise see its own empty database
		db.SetMaxOpenConns(1)
		db.SetConnMaxLifetime(0)
	} else {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxIdleConns)
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", driver, err)
	}

	logger.WithContext(ctx).WithFields(map[string]any{
		"driver": driver,
	}).Info("Database connection established")

	return NewDatabaseInstance(db, logger), nil
}
