package database

import (
	"context"
	"fmt"

	"github.com/Gobusters/ectologger"
)

const (
	DependencyName          = "database"
	MigrationDependencyName = "migrations"
)

// Dependency connects to the order store during startup.
type Dependency struct {
	config ConnectionConfig
	logger ectologger.Logger
	db     DB
}

func NewDependency(config ConnectionConfig, logger ectologger.Logger) *Dependency {
	return &Dependency{config: config, logger: logger}
}

func (d *Dependency) GetName() string {
	return DependencyName
}

func (d *Dependency) DependsOn() []string {
	return nil
}

func (d *Dependency) Start(ctx context.Context) error {
	db, err := Connect(ctx, d.config, d.logger)
	if err != nil {
		return err
	}
	d.db = db
	return nil
}

func (d *Dependency) Stop(_ context.Context) error {
	if d.db == nil {
		return nil
	}
	err := d.db.Close()
	d.db = nil
	return err
}

// DB returns the connected store. It is nil until Start succeeds.
func (d *Dependency) DB() DB {
	return d.db
}

// MigrationDependency applies schema migrations once the store is connected.
type MigrationDependency struct {
	database *Dependency
	service  *MigrationService
}

func NewMigrationDependency(database *Dependency, service *MigrationService) *MigrationDependency {
	return &MigrationDependency{database: database, service: service}
}

func (m *MigrationDependency) GetName() string {
	return MigrationDependencyName
}

func (m *MigrationDependency) DependsOn() []string {
	return []string{DependencyName}
}

func (m *MigrationDependency) Start(_ context.Context) error {
	db := m.database.DB()
	if db == nil {
		return fmt.Errorf("database is not connected")
	}
	return m.service.MigrateDB(db)
}

func (m *MigrationDependency) Stop(_ context.Context) error {
	return nil
}
