package postgresql_test

import (
	"context"
	"fmt"
	"os"

	"github.com/cmlabs-hris/hris-attendance-metrics/internal/pkg/database"
)

// TestDatabaseSetup holds the connection shared by repository tests.
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to TEST_DATABASE_URL and creates missing tables.
// It returns a nil setup when the variable is unset.
func NewTestDatabase(ctx context.Context) (*TestDatabaseSetup, error) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		return nil, nil
	}

	db, err := database.NewPostgreSQLDB(ctx, dsn, database.PoolOptions{MaxConns: 4})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to test database: %w", err)
	}
	if err := database.EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare test schema: %w", err)
	}

	return &TestDatabaseSetup{DB: db}, nil
}

// TruncateAllTables empties every table the repositories write to.
func (t *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	tx, err := t.DB.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tables := []string{
		"uploaded_rows",
		"uploaded_files",
		"app_config",
	}

	for _, table := range tables {
		_, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit(ctx)
}

func (t *TestDatabaseSetup) Close() {
	t.DB.Close()
}
