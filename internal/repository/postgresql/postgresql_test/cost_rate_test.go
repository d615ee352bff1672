package postgresql_test

import (
	"context"
	"errors"
	"testing"

	"github.com/cmlabs-hris/hris-attendance-metrics/internal/domain/costrate"
	"github.com/cmlabs-hris/hris-attendance-metrics/internal/repository/postgresql"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===== SetDefault / Get =====

func TestCostRateRepository_SetDefault(t *testing.T) {
	db := openTestDB(t)
	repo := postgresql.NewCostRateRepository(db)
	ctx := context.Background()

	t.Run("stores and reads back the default rate", func(t *testing.T) {
		require.NoError(t, repo.SetDefault(ctx, decimal.NewNullDecimal(decimal.RequireFromString("12.5"))))

		settings, err := repo.Get(ctx)
		require.NoError(t, err)
		require.True(t, settings.DefaultRate.Valid)
		assert.Equal(t, "12.5", settings.DefaultRate.Decimal.String())
	})

	t.Run("overwrites an existing default", func(t *testing.T) {
		require.NoError(t, repo.SetDefault(ctx, decimal.NewNullDecimal(decimal.NewFromInt(20))))

		settings, err := repo.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, "20", settings.DefaultRate.Decimal.String())
	})

	t.Run("null clears the default", func(t *testing.T) {
		require.NoError(t, repo.SetDefault(ctx, decimal.NullDecimal{}))

		settings, err := repo.Get(ctx)
		require.NoError(t, err)
		assert.False(t, settings.DefaultRate.Valid)
	})
}

func TestCostRateRepository_Get_IgnoresUnparseableValues(t *testing.T) {
	db := openTestDB(t)
	repo := postgresql.NewCostRateRepository(db)
	ctx := context.Background()

	_, err := db.Exec(ctx, `INSERT INTO app_config (key, value) VALUES ($1, 'abc'), ($2, '7')`,
		costrate.DefaultRateKey, costrate.FunctionRateKey("Sales"))
	require.NoError(t, err)

	settings, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.False(t, settings.DefaultRate.Valid)
	assert.Equal(t, "7", settings.FunctionRates["Sales"].String())
}

// ===== ReplaceFunctionRates =====

func TestCostRateRepository_ReplaceFunctionRates(t *testing.T) {
	db := openTestDB(t)
	repo := postgresql.NewCostRateRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.ReplaceFunctionRates(ctx, map[string]decimal.Decimal{
		"Sales":      decimal.NewFromInt(10),
		"Operations": decimal.NewFromInt(15),
	}))
	require.NoError(t, repo.ReplaceFunctionRates(ctx, map[string]decimal.Decimal{
		"Finance": decimal.NewFromInt(30),
	}))

	settings, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Len(t, settings.FunctionRates, 1)
	assert.Equal(t, "30", settings.FunctionRates["Finance"].String())
}

func TestCostRateRepository_ReplaceFunctionRates_RollsBackInTransaction(t *testing.T) {
	db := openTestDB(t)
	repo := postgresql.NewCostRateRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.ReplaceFunctionRates(ctx, map[string]decimal.Decimal{"Sales": decimal.NewFromInt(10)}))

	boom := errors.New("boom")
	err := postgresql.WithTransaction(ctx, db, func(ctx context.Context) error {
		if err := repo.ReplaceFunctionRates(ctx, map[string]decimal.Decimal{"Finance": decimal.NewFromInt(30)}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	settings, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "10", settings.FunctionRates["Sales"].String())
	assert.NotContains(t, settings.FunctionRates, "Finance")
}
