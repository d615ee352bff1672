package costrate

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Keys of the app_config rows holding hourly cost rates.
const (
	DefaultRateKey        = "ctc_per_hour"
	FunctionRateKeyPrefix = "ctc_per_hour:"
	maxKeyLength          = 255
)

// RateSettings is the stored cost-to-company per hour configuration.
type RateSettings struct {
	DefaultRate   decimal.NullDecimal
	FunctionRates map[string]decimal.Decimal
}

// FunctionRateKey returns the config key for a function, truncating the name
// so the key fits the column.
func FunctionRateKey(function string) string {
	name := strings.TrimSpace(function)
	if limit := maxKeyLength - len(FunctionRateKeyPrefix); len(name) > limit {
		name = name[:limit]
	}
	return FunctionRateKeyPrefix + name
}

// FunctionFromKey extracts the function name from a per-function key.
func FunctionFromKey(key string) (string, bool) {
	if !strings.HasPrefix(key, FunctionRateKeyPrefix) {
		return "", false
	}
	name := strings.TrimSpace(strings.TrimPrefix(key, FunctionRateKeyPrefix))
	return name, name != ""
}
