// Package metrics turns attendance records into on-time, completion, lost
// hour, cost and leave-adjacency aggregates. Everything here is pure: the
// same records, criteria and rates always produce the same Result.
package metrics

import (
	"github.com/cmlabs-hris/hris-attendance-metrics/internal/domain/attendance"
)

// Result holds every aggregate for one computation pass.
type Result struct {
	Weekly    map[Level][]Aggregate
	Monthly   map[Level][]Aggregate
	Adjacency map[Level][]AdjacencyRow
	// Included is the number of records that passed the filter.
	Included   int
	Skipped    Skipped
	Mismatches []CostMismatch
}

// Rows returns the aggregates for one period granularity and level, ordered
// by period then key.
func (r *Result) Rows(period Period, level Level) []Aggregate {
	if period == PeriodMonth {
		return r.Monthly[level]
	}
	return r.Weekly[level]
}

// Compute runs the full pipeline: derive each record, filter, fold weekly
// user rows, roll up through the hierarchy and price lost hours.
func Compute(records []attendance.Record, filter FilterCriteria, rates RateTable) *Result {
	res := &Result{}
	match := filter.compile()

	users := newTable()
	adjacency := newAdjacencyBuilder()

	for _, rec := range records {
		d, reason := Derive(rec)
		switch reason {
		case SkipNoIdentity:
			res.Skipped.NoIdentity++
			continue
		case SkipBadDate:
			res.Skipped.BadDate++
			continue
		}
		if !match.match(d) {
			continue
		}
		res.Included++

		row := users.get(LevelUser, d.Key, d.Week(), rec.DisplayName())
		row.MemberCount = 1
		row.Counters.Add(d)
		adjacency.add(d)
	}

	weeklyUsers := users.sorted()
	for i := range weeklyUsers {
		u := &weeklyUsers[i]
		u.Rate = rates.Resolve(u.Key.Function)
		u.Cost = LeafCost(u.LostHoursSum, u.Rate)
		u.CostComplete = u.Cost.Valid
	}

	weekly := buildWeekly(weeklyUsers)
	res.Weekly = weekly
	res.Monthly = buildMonthly(weekly)
	res.Adjacency = buildAdjacency(adjacency)
	res.Mismatches = VerifyCostRollup(res)
	return res
}
