package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/cmlabs-hris/hris-attendance-metrics/internal/pkg/database"
	"github.com/stretchr/testify/require"
)

var testSetup *TestDatabaseSetup

func TestMain(m *testing.M) {
	setup, err := NewTestDatabase(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	testSetup = setup

	code := m.Run()
	if testSetup != nil {
		testSetup.Close()
	}
	os.Exit(code)
}

// openTestDB returns a clean database and skips when TEST_DATABASE_URL is not set.
func openTestDB(t *testing.T) *database.DB {
	t.Helper()
	if testSetup == nil {
		t.Skip("TEST_DATABASE_URL not set")
	}
	require.NoError(t, testSetup.TruncateAllTables(context.Background()))
	return testSetup.DB
}
