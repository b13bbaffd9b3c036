package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"github.com/Ramsey-B/fennel/pkg/database"
	"github.com/Ramsey-B/fennel/pkg/matching"
	"github.com/Ramsey-B/fennel/pkg/rates"
	"github.com/Ramsey-B/fennel/pkg/tracing/exporters"
)

type Config struct {
	AppName                       string   `env:"APP_NAME" env-default:"fennel-api"`
	Port                          int      `env:"PORT" env-default:"3004"`
	LogLevel                      string   `env:"LOG_LEVEL" env-default:"info"`
	PrettyLogs                    bool     `env:"PRETTY_LOGS" env-default:"false"`
	HttpServerWriteTimeoutSeconds int      `env:"HTTP_SERVER_WRITE_TIMEOUT_SECONDS" env-default:"10"`
	HttpServerReadTimeoutSeconds  int      `env:"HTTP_SERVER_READ_TIMEOUT_SECONDS" env-default:"10"`
	HttpServerIdleTimeoutSeconds  int      `env:"HTTP_SERVER_IDLE_TIMEOUT_SECONDS" env-default:"10"`
	MaxHeaderBytes                int      `env:"HTTP_SERVER_MAX_HEADER_BYTES" env-default:"64000"` // 64KB
	ReadHeaderTimeoutSeconds      int      `env:"HTTP_SERVER_READ_HEADER_TIMEOUT_SECONDS" env-default:"10"`
	AllowOrigins                  []string `env:"HTTP_SERVER_ALLOW_ORIGINS" env-default:"*"`
	AllowMethods                  []string `env:"HTTP_SERVER_ALLOW_METHODS" env-default:"GET,POST,PUT"`
	StartupMaxAttempts            int      `env:"STARTUP_MAX_ATTEMPTS" env-default:"5"`

	// Order store. SQLite by default, matching the FileMaker export.
	DatabaseDriver                string        `env:"DB_DRIVER" env-default:"sqlite"`
	DatabasePath                  string        `env:"DB_PATH" env-default:"orders.db"`
	DatabaseHost                  string        `env:"DB_HOST" env-default:""`
	DatabasePort                  string        `env:"DB_PORT" env-default:"5432"`
	DatabaseUserName              string        `env:"DB_USER_NAME" env-default:""`
	DatabasePassword              string        `env:"DB_PASSWORD" env-default:""`
	DatabaseName                  string        `env:"DB_NAME" env-default:"fennel"`
	DatabaseSSLMode               string        `env:"DB_SQL_MODE" env-default:"disable"`
	DatabaseMaxOpenConns          int           `env:"DB_MAX_OPEN_CONNS" env-default:"10"`
	DatabaseMaxIdleConns          int           `env:"DB_MAX_IDLE_CONNS" env-default:"5"`
	DatabaseConnMaxLifetime       time.Duration `env:"DB_CONN_MAX_LIFETIME" env-default:"5m"`
	DatabaseMigrationFolderPath   string        `env:"DB_MIGRATION_FOLDER_PATH" env-default:"db/migrations"`
	DatabaseMigrationVersion      uint          `env:"DB_MIGRATION_VERSION" env-default:"0"`
	DatabaseMigrationForce        int           `env:"DB_MIGRATION_FORCE" env-default:"0"`
	DatabaseMigrationAutoRollback bool          `env:"DB_MIGRATION_AUTO_ROLLBACK" env-default:"true"`
	DatabaseMigrateOnStart        bool          `env:"DB_MIGRATE_ON_START" env-default:"true"`

	// Search
	FuzzyMatchThreshold   float64 `env:"FUZZY_MATCH_THRESHOLD" env-default:"75"`
	FuzzyNoMatchPolicy    string  `env:"FUZZY_NO_MATCH_POLICY" env-default:"empty"`
	DefaultMonthsRange    int     `env:"DEFAULT_MONTHS_RANGE" env-default:"3"`
	MaxSearchResults      int     `env:"MAX_SEARCH_RESULTS" env-default:"50"`
	SearchRowCap          int     `env:"SEARCH_ROW_CAP" env-default:"200"`
	SearchOverfetchFactor int     `env:"SEARCH_OVERFETCH_FACTOR" env-default:"3"`

	// Rates. An empty path uses the built-in imaging taxonomy.
	RateTaxonomyFile string `env:"RATE_TAXONOMY_FILE" env-default:""`

	// Tracing
	TracingEnabled bool          `env:"TRACING_ENABLED" env-default:"false"`
	OTLPEndpoint   string        `env:"OTLP_ENDPOINT" env-default:"localhost:4317"`
	OTLPProtocol   string        `env:"OTLP_PROTOCOL" env-default:"grpc"`
	OTLPInsecure   bool          `env:"OTLP_INSECURE" env-default:"true"`
	OTLPTimeout    time.Duration `env:"OTLP_TIMEOUT" env-default:"10s"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Database() database.ConnectionConfig {
	return database.ConnectionConfig{
		Driver:          c.DatabaseDriver,
		Path:            c.DatabasePath,
		Host:            c.DatabaseHost,
		Port:            c.DatabasePort,
		UserName:        c.DatabaseUserName,
		Password:        c.DatabasePassword,
		Name:            c.DatabaseName,
		SSLMode:         c.DatabaseSSLMode,
		MaxOpenConns:    c.DatabaseMaxOpenConns,
		MaxIdleConns:    c.DatabaseMaxIdleConns,
		ConnMaxLifetime: c.DatabaseConnMaxLifetime,
	}
}

func (c *Config) Migration() *database.MigrationConfig {
	return &database.MigrationConfig{
		MigrationFolderPath: c.DatabaseMigrationFolderPath,
		Version:             c.DatabaseMigrationVersion,
		Force:               c.DatabaseMigrationForce,
		AutoRollback:        c.DatabaseMigrationAutoRollback,
	}
}

// Search builds the search service configuration.
func (c *Config) Search() (matching.Config, error) {
	policy, err := matching.ParseNoMatchPolicy(c.FuzzyNoMatchPolicy)
	if err != nil {
		return matching.Config{}, err
	}

	return matching.Config{
		Rank: matching.RankConfig{
			Threshold:     c.FuzzyMatchThreshold,
			MaxResults:    c.MaxSearchResults,
			NoMatchPolicy: policy,
		},
		DefaultMonthsRange: c.DefaultMonthsRange,
		DefaultLimit:       c.MaxSearchResults,
		OverfetchFactor:    c.SearchOverfetchFactor,
		RowCap:             c.SearchRowCap,
	}, nil
}

// Taxonomy loads the procedure taxonomy from RateTaxonomyFile, or returns the
// default one when no file is set.
func (c *Config) Taxonomy() (rates.Taxonomy, error) {
	if c.RateTaxonomyFile == "" {
		return rates.DefaultTaxonomy(), nil
	}
	return rates.LoadTaxonomy(c.RateTaxonomyFile)
}

func (c *Config) OTLP() exporters.OTLPConfig {
	return exporters.OTLPConfig{
		Endpoint: c.OTLPEndpoint,
		Protocol: c.OTLPProtocol,
		Insecure: c.OTLPInsecure,
		Timeout:  c.OTLPTimeout,
	}
}
