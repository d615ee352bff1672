package metrics

import (
	"math"

	"github.com/shopspring/decimal"
)

// Counters are the raw tallies behind every metric tab.
type Counters struct {
	PresentCount      int
	LateCount         int
	OnTimeCount       int
	TotalWorkableDays int
	CompletedDays     int
	ShiftHoursSum     float64
	WorkHoursSum      float64
	LostHoursSum      float64
}

// AddOnTime folds one day into the on-time tallies. Only present and on-duty
// days count; a late day is present but not on time.
func (c *Counters) AddOnTime(d Daily) {
	if !d.Flag.CountsForOnTime() {
		return
	}
	c.PresentCount++
	if d.Record.IsLate {
		c.LateCount++
	}
	c.OnTimeCount = c.PresentCount - c.LateCount
}

// AddCompletion folds one day into the completion tallies.
func (c *Counters) AddCompletion(d Daily) {
	if !d.Flag.CountsForCompletion() || d.Flag.IsRestDay() || d.ShiftHours <= 0 {
		return
	}
	c.TotalWorkableDays++
	if d.WorkHours >= d.ShiftHours {
		c.CompletedDays++
	}
}

// AddLost folds one day into the hour sums. Every non rest day with a shift
// contributes hours; only countable days add lost hours.
func (c *Counters) AddLost(d Daily) {
	if d.Flag.IsRestDay() || d.ShiftHours <= 0 {
		return
	}
	c.ShiftHoursSum += d.ShiftHours
	c.WorkHoursSum += d.WorkHours
	if d.Flag.AccruesLoss() {
		c.LostHoursSum += d.LostHours
	}
}

// Add runs all three reducers.
func (c *Counters) Add(d Daily) {
	c.AddOnTime(d)
	c.AddCompletion(d)
	c.AddLost(d)
}

// Merge adds another set of tallies.
func (c *Counters) Merge(o Counters) {
	c.PresentCount += o.PresentCount
	c.LateCount += o.LateCount
	c.OnTimeCount += o.OnTimeCount
	c.TotalWorkableDays += o.TotalWorkableDays
	c.CompletedDays += o.CompletedDays
	c.ShiftHoursSum += o.ShiftHoursSum
	c.WorkHoursSum += o.WorkHoursSum
	c.LostHoursSum += o.LostHoursSum
}

func (c Counters) OnTimePct() float64 {
	return Percent(float64(c.OnTimeCount), float64(c.PresentCount))
}

func (c Counters) CompletionPct() float64 {
	return Percent(float64(c.CompletedDays), float64(c.TotalWorkableDays))
}

func (c Counters) LostPct() float64 {
	return Percent(c.LostHoursSum, c.ShiftHoursSum)
}

// ActualOvertime is work beyond the shift once lost hours are netted out.
func (c Counters) ActualOvertime() float64 {
	return Round2(math.Max(0, c.WorkHoursSum-c.ShiftHoursSum-c.LostHoursSum))
}

// Aggregate is one entity's metrics for one week or month.
type Aggregate struct {
	Level       Level
	Key         GroupKey
	Period      PeriodKey
	Name        string
	MemberCount int
	Counters

	// Rate is the hourly rate applied to a user row.
	Rate decimal.NullDecimal
	// Cost is null when no rate applies to any contributing row.
	Cost decimal.NullDecimal
	// CostComplete is false when some contributing row had no rate.
	CostComplete bool
}

func newAggregate(level Level, key GroupKey, period PeriodKey, name string) *Aggregate {
	return &Aggregate{
		Level:        level,
		Key:          key,
		Period:       period,
		Name:         name,
		CostComplete: true,
	}
}

func (a *Aggregate) rowKey() rowKey {
	return rowKey{Group: a.Key, Period: a.Period}
}

// addCost sums a child's cost into the row.
func (a *Aggregate) addCost(cost decimal.NullDecimal, complete bool) {
	if !cost.Valid {
		a.CostComplete = false
		return
	}
	if !complete {
		a.CostComplete = false
	}
	if a.Cost.Valid {
		a.Cost.Decimal = a.Cost.Decimal.Add(cost.Decimal).Round(2)
	} else {
		a.Cost = decimal.NullDecimal{Decimal: cost.Decimal.Round(2), Valid: true}
	}
}

// Percent returns part/whole as a percentage rounded to two places and
// clamped to [0, 100]. A zero whole yields 0.
func Percent(part, whole float64) float64 {
	if whole <= 0 || math.IsNaN(part) || math.IsNaN(whole) {
		return 0
	}
	return clampPct(Round2(part / whole * 100))
}

func clampPct(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	}
	return v
}

// Round2 rounds half away from zero to two decimal places.
func Round2(v float64) float64 {
	return roundTo(v, 2)
}
