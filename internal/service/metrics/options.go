package metrics

import (
	"sort"

	"github.com/cmlabs-hris/hris-attendance-metrics/internal/domain/attendance"
)

// Options lists the distinct values a filter can select from.
type Options struct {
	Companies   []string
	Functions   []string
	Departments []string
	Users       []string
	Months      []string
	Weeks       []int
}

// CollectOptions scans records for selectable filter values. Records that
// would be skipped by Compute contribute nothing.
func CollectOptions(records []attendance.Record) Options {
	companies := map[string]bool{}
	functions := map[string]bool{}
	departments := map[string]bool{}
	users := map[string]bool{}
	months := map[string]bool{}
	weeks := map[int]bool{}

	for _, rec := range records {
		d, reason := Derive(rec)
		if reason != SkipNone {
			continue
		}
		if rec.Company != "" {
			companies[rec.Company] = true
		}
		if rec.Function != "" {
			functions[rec.Function] = true
		}
		if len(rec.Departments) == 0 {
			departments[attendance.UnassignedDepartment] = true
		}
		for _, dept := range rec.Departments {
			departments[dept] = true
		}
		users[rec.DisplayName()] = true
		months[d.Date.MonthKey()] = true
		weeks[d.Date.WeekOfMonth()] = true
	}

	opts := Options{
		Companies:   setKeys(companies),
		Functions:   setKeys(functions),
		Departments: setKeys(departments),
		Users:       setKeys(users),
		Months:      setKeys(months),
	}
	for w := range weeks {
		opts.Weeks = append(opts.Weeks, w)
	}
	sort.Ints(opts.Weeks)
	return opts
}

func setKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
