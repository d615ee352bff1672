package costrate

import (
	"context"

	"github.com/shopspring/decimal"
)

type CostRateRepository interface {
	// Get loads the default and per-function rates. Unparseable stored values are ignored.
	Get(ctx context.Context) (RateSettings, error)

	// SetDefault upserts the default rate, or removes it when rate is null
	SetDefault(ctx context.Context, rate decimal.NullDecimal) error

	// ReplaceFunctionRates deletes every per-function rate and inserts rates
	ReplaceFunctionRates(ctx context.Context, rates map[string]decimal.Decimal) error
}
