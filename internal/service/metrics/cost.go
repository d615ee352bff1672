package metrics

import (
	"log/slog"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// CostEpsilon is the tolerated difference between a parent cost and the sum of
// its children.
var CostEpsilon = decimal.RequireFromString("0.02")

// RateTable maps function names to hourly rates with a global fallback.
type RateTable struct {
	Default    decimal.NullDecimal
	ByFunction map[string]decimal.Decimal
}

// Resolve returns the hourly rate for a function: the exact entry, then a
// case-insensitive match, then the default. Null means no rate is configured.
func (t RateTable) Resolve(function string) decimal.NullDecimal {
	name := strings.TrimSpace(function)
	if rate, ok := t.ByFunction[name]; ok {
		return decimal.NullDecimal{Decimal: rate, Valid: true}
	}
	if name != "" && len(t.ByFunction) > 0 {
		keys := make([]string, 0, len(t.ByFunction))
		for k := range t.ByFunction {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if strings.EqualFold(strings.TrimSpace(k), name) {
				return decimal.NullDecimal{Decimal: t.ByFunction[k], Valid: true}
			}
		}
	}
	return t.Default
}

// IsEmpty reports whether no rate at all is configured.
func (t RateTable) IsEmpty() bool {
	return !t.Default.Valid && len(t.ByFunction) == 0
}

// LeafCost prices lost hours at the given rate, rounded to cents.
func LeafCost(lostHours float64, rate decimal.NullDecimal) decimal.NullDecimal {
	if !rate.Valid {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{
		Decimal: decimal.NewFromFloat(lostHours).Mul(rate.Decimal).Round(2),
		Valid:   true,
	}
}

// CostMismatch reports a parent whose cost disagrees with its children.
type CostMismatch struct {
	Level    Level
	Key      GroupKey
	Period   PeriodKey
	Parent   decimal.Decimal
	Children decimal.Decimal
}

func (m CostMismatch) Diff() decimal.Decimal {
	return m.Parent.Sub(m.Children).Abs()
}

// VerifyCostRollup re-sums every parent's children and reports parents whose
// cost differs by more than CostEpsilon. Mismatches are logged, never fatal.
func VerifyCostRollup(res *Result) []CostMismatch {
	var out []CostMismatch
	for _, period := range []Period{PeriodWeek, PeriodMonth} {
		for _, level := range []Level{LevelDepartment, LevelFunction, LevelCompany} {
			out = append(out, verifyLevel(res.Rows(period, level-1), res.Rows(period, level), level)...)
		}
	}
	out = append(out, verifyMonths(res.Rows(PeriodWeek, LevelUser), res.Rows(PeriodMonth, LevelUser))...)

	for _, m := range out {
		slog.Warn("cost rollup mismatch",
			"level", m.Level.String(),
			"key", m.Key.Label(m.Level),
			"period", m.Period.String(),
			"parent", m.Parent.StringFixed(2),
			"children", m.Children.StringFixed(2),
		)
	}
	return out
}

func verifyLevel(children, parents []Aggregate, level Level) []CostMismatch {
	sums := make(map[rowKey]decimal.Decimal, len(parents))
	for _, c := range children {
		if !c.Cost.Valid {
			continue
		}
		k := rowKey{Group: c.Key.At(level), Period: c.Period}
		sums[k] = sums[k].Add(c.Cost.Decimal)
	}
	return compareSums(parents, sums)
}

func verifyMonths(weeks, months []Aggregate) []CostMismatch {
	sums := make(map[rowKey]decimal.Decimal, len(months))
	for _, w := range weeks {
		if !w.Cost.Valid {
			continue
		}
		k := rowKey{Group: w.Key, Period: w.Period.ToMonth()}
		sums[k] = sums[k].Add(w.Cost.Decimal)
	}
	return compareSums(months, sums)
}

func compareSums(parents []Aggregate, sums map[rowKey]decimal.Decimal) []CostMismatch {
	var out []CostMismatch
	for _, p := range parents {
		if !p.Cost.Valid {
			continue
		}
		sum := sums[p.rowKey()]
		if p.Cost.Decimal.Sub(sum).Abs().GreaterThan(CostEpsilon) {
			out = append(out, CostMismatch{
				Level:    p.Level,
				Key:      p.Key,
				Period:   p.Period,
				Parent:   p.Cost.Decimal,
				Children: sum,
			})
		}
	}
	return out
}
