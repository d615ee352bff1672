package costrate

import (
	"sort"
	"strings"

	"github.com/cmlabs-hris/hris-attendance-metrics/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type RatesResponse struct {
	DefaultRate   decimal.NullDecimal        `json:"default_rate"`
	FunctionRates map[string]decimal.Decimal `json:"function_rates"`
	// Functions lists the function names found in uploaded attendance data
	Functions []string `json:"functions"`
}

// SetDefaultRateRequest sets the fallback rate. A null value clears it.
type SetDefaultRateRequest struct {
	Value decimal.NullDecimal `json:"value"`
}

func (r *SetDefaultRateRequest) Validate() error {
	if r.Value.Valid && r.Value.Decimal.IsNegative() {
		return validator.ValidationErrors{{
			Field:   "value",
			Message: ErrNegativeRate.Error(),
		}}
	}
	return nil
}

// SetFunctionRatesRequest replaces every per-function rate.
type SetFunctionRatesRequest struct {
	Rates map[string]decimal.Decimal `json:"rates"`
}

func (r *SetFunctionRatesRequest) Validate() error {
	var errs validator.ValidationErrors

	names := make([]string, 0, len(r.Rates))
	for name := range r.Rates {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if r.Rates[name].IsNegative() {
			errs = append(errs, validator.ValidationError{
				Field:   "rates." + strings.TrimSpace(name),
				Message: ErrNegativeRate.Error(),
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Normalized trims function names and drops blank ones. When two names trim
// to the same value the later one in sorted order wins.
func (r *SetFunctionRatesRequest) Normalized() map[string]decimal.Decimal {
	names := make([]string, 0, len(r.Rates))
	for name := range r.Rates {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make(map[string]decimal.Decimal, len(names))
	for _, name := range names {
		trimmed := strings.TrimSpace(name)
		if validator.IsEmpty(trimmed) {
			continue
		}
		out[trimmed] = r.Rates[name]
	}
	return out
}
