// Package dbtest opens migrated in-memory SQLite stores for tests.
package dbtest

import (
	"context"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/fennel/pkg/database"
	"github.com/Ramsey-B/fennel/pkg/models"
)

// Logger returns a logger that discards everything.
func Logger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

// MigrationsDir returns the repository's db/migrations folder.
func MigrationsDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "..", "db", "migrations")
}

// New returns a fresh in-memory store with every migration applied. It is
// closed when the test ends.
func New(t testing.TB) database.DB {
	t.Helper()

	logger := Logger()
	db, err := database.Connect(context.Background(), database.ConnectionConfig{
		Driver: "sqlite",
		Path:   ":memory:",
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	migrations := database.NewMigrationService(logger, &database.MigrationConfig{
		MigrationFolderPath: MigrationsDir(),
	})
	require.NoError(t, migrations.MigrateDB(db))

	return db
}

// InsertOrder stores an order and its line items.
func InsertOrder(t testing.TB, db database.DB, order models.Order, items ...models.LineItem) {
	t.Helper()
	ctx := context.Background()

	ib := database.NewInsertBuilder(db.Flavor())
	ib.InsertInto("orders")
	ib.Cols("order_id", "filemaker_record_number", "patient_last_name", "patient_first_name", "patient_name")
	ib.Values(order.OrderID, order.RecordNumber, order.PatientLastName, order.PatientFirstName, order.PatientName)
	query, args := ib.Build()
	_, err := db.ExecContext(ctx, query, args...)
	require.NoError(t, err)

	for _, item := range items {
		ib := database.NewInsertBuilder(db.Flavor())
		ib.InsertInto("line_items")
		ib.Cols("order_id", "dos", "cpt", "description")
		ib.Values(order.OrderID, item.DOS, item.CPT, item.Description)
		query, args := ib.Build()
		_, err := db.ExecContext(ctx, query, args...)
		require.NoError(t, err)
	}
}

// InsertCPTCode stores a reference procedure code.
func InsertCPTCode(t testing.TB, db database.DB, cpt, description string, defaultFee any) {
	t.Helper()

	ib := database.NewInsertBuilder(db.Flavor())
	ib.InsertInto("cpt_codes")
	ib.Cols("cpt", "description", "default_fee")
	ib.Values(cpt, description, defaultFee)
	query, args := ib.Build()
	_, err := db.ExecContext(context.Background(), query, args...)
	require.NoError(t, err)
}
