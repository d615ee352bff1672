package postgresql

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/hris-attendance-metrics/internal/domain/costrate"
	"github.com/cmlabs-hris/hris-attendance-metrics/internal/pkg/database"
	"github.com/shopspring/decimal"
)

type costRateRepositoryImpl struct {
	db *database.DB
}

func NewCostRateRepository(db *database.DB) costrate.CostRateRepository {
	return &costRateRepositoryImpl{db: db}
}

// Get loads the default and per-function rates from app_config.
func (r *costRateRepositoryImpl) Get(ctx context.Context) (costrate.RateSettings, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT key, COALESCE(value, '')
		FROM app_config
		WHERE key = $1 OR key LIKE $2
		ORDER BY key
	`

	rows, err := q.Query(ctx, query, costrate.DefaultRateKey, costrate.FunctionRateKeyPrefix+"%")
	if err != nil {
		return costrate.RateSettings{}, fmt.Errorf("failed to query cost rates: %w", err)
	}
	defer rows.Close()

	settings := costrate.RateSettings{FunctionRates: make(map[string]decimal.Decimal)}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return costrate.RateSettings{}, fmt.Errorf("failed to scan cost rate: %w", err)
		}

		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		rate, err := decimal.NewFromString(value)
		if err != nil {
			slog.Warn("ignoring unparseable cost rate", "key", key, "value", value)
			continue
		}

		if key == costrate.DefaultRateKey {
			settings.DefaultRate = decimal.NewNullDecimal(rate)
			continue
		}
		if name, ok := costrate.FunctionFromKey(key); ok {
			settings.FunctionRates[name] = rate
		}
	}

	if err := rows.Err(); err != nil {
		return costrate.RateSettings{}, fmt.Errorf("error iterating cost rates: %w", err)
	}

	return settings, nil
}

// SetDefault upserts the default rate or deletes it when rate is null.
func (r *costRateRepositoryImpl) SetDefault(ctx context.Context, rate decimal.NullDecimal) error {
	q := GetQuerier(ctx, r.db)

	if !rate.Valid {
		if _, err := q.Exec(ctx, `DELETE FROM app_config WHERE key = $1`, costrate.DefaultRateKey); err != nil {
			return fmt.Errorf("failed to clear default cost rate: %w", err)
		}
		return nil
	}

	query := `
		INSERT INTO app_config (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`
	if _, err := q.Exec(ctx, query, costrate.DefaultRateKey, rate.Decimal.String()); err != nil {
		return fmt.Errorf("failed to set default cost rate: %w", err)
	}
	return nil
}

// ReplaceFunctionRates swaps the whole per-function set. Callers should run it
// inside WithTransaction so readers never see a partial set.
func (r *costRateRepositoryImpl) ReplaceFunctionRates(ctx context.Context, rates map[string]decimal.Decimal) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `DELETE FROM app_config WHERE key LIKE $1`, costrate.FunctionRateKeyPrefix+"%"); err != nil {
		return fmt.Errorf("failed to delete function cost rates: %w", err)
	}

	query := `
		INSERT INTO app_config (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`
	for name, rate := range rates {
		if _, err := q.Exec(ctx, query, costrate.FunctionRateKey(name), rate.String()); err != nil {
			return fmt.Errorf("failed to set cost rate for %q: %w", name, err)
		}
	}
	return nil
}
