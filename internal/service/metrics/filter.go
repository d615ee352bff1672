package metrics

import (
	"sort"
	"strings"

	"github.com/cmlabs-hris/hris-attendance-metrics/internal/domain/attendance"
)

// FilterCriteria restricts the records fed to the engine. Every populated
// field must match; an empty field places no restriction.
type FilterCriteria struct {
	Companies   []string `json:"companies,omitempty"`
	Functions   []string `json:"functions,omitempty"`
	Departments []string `json:"departments,omitempty"`
	// Users holds display identifiers: "Name (Code)", the code or the name.
	Users  []string `json:"users,omitempty"`
	Months []string `json:"months,omitempty"`
	Weeks  []int    `json:"weeks,omitempty"`
}

// Normalize trims, de-duplicates and sorts every selection and rewrites
// months to YYYY-MM. Unparseable months and weeks outside 1-5 are dropped.
func (f FilterCriteria) Normalize() FilterCriteria {
	months := make([]string, 0, len(f.Months))
	for _, m := range f.Months {
		if key, ok := MonthKey(m); ok {
			months = append(months, key)
		}
	}

	weeks := make([]int, 0, len(f.Weeks))
	seen := make(map[int]bool)
	for _, w := range f.Weeks {
		if w < 1 || w > 5 || seen[w] {
			continue
		}
		seen[w] = true
		weeks = append(weeks, w)
	}
	sort.Ints(weeks)

	return FilterCriteria{
		Companies:   normalizeSet(f.Companies),
		Functions:   normalizeSet(f.Functions),
		Departments: normalizeSet(f.Departments),
		Users:       normalizeSet(f.Users),
		Months:      normalizeSet(months),
		Weeks:       nilIfEmpty(weeks),
	}
}

// IsEmpty reports whether the criteria restrict nothing.
func (f FilterCriteria) IsEmpty() bool {
	return len(f.Companies) == 0 && len(f.Functions) == 0 && len(f.Departments) == 0 &&
		len(f.Users) == 0 && len(f.Months) == 0 && len(f.Weeks) == 0
}

// matcher is FilterCriteria compiled into lookup sets.
type matcher struct {
	companies   map[string]bool
	functions   map[string]bool
	departments map[string]bool
	users       map[string]bool
	months      map[string]bool
	weeks       map[int]bool
}

func (f FilterCriteria) compile() matcher {
	f = f.Normalize()
	m := matcher{
		companies:   toSet(f.Companies),
		functions:   toSet(f.Functions),
		departments: toSet(f.Departments),
		users:       toSet(f.Users),
		months:      toSet(f.Months),
	}
	if len(f.Weeks) > 0 {
		m.weeks = make(map[int]bool, len(f.Weeks))
		for _, w := range f.Weeks {
			m.weeks[w] = true
		}
	}
	return m
}

// Match reports whether a derived record passes the criteria.
func (f FilterCriteria) Match(d Daily) bool {
	return f.compile().match(d)
}

func (m matcher) match(d Daily) bool {
	r := d.Record
	if m.companies != nil && !m.companies[r.Company] {
		return false
	}
	if m.functions != nil && !m.functions[r.Function] {
		return false
	}
	if m.departments != nil && !m.matchDepartment(r) {
		return false
	}
	if m.users != nil && !m.users[r.DisplayName()] && !m.users[r.EmployeeCode] && !m.users[r.Name] {
		return false
	}
	if m.months != nil && !m.months[d.Date.MonthKey()] {
		return false
	}
	if m.weeks != nil && !m.weeks[d.Date.WeekOfMonth()] {
		return false
	}
	return true
}

// matchDepartment accepts a record when any of its departments is selected.
// Records with no department match the "Unassigned" selection.
func (m matcher) matchDepartment(r attendance.Record) bool {
	if len(r.Departments) == 0 {
		return m.departments[attendance.UnassignedDepartment]
	}
	for _, dept := range r.Departments {
		if m.departments[dept] {
			return true
		}
	}
	return m.departments[r.DepartmentLabel()]
}

func normalizeSet(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return nilIfEmpty(out)
}

func toSet(values []string) map[string]bool {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

func nilIfEmpty[T any](s []T) []T {
	if len(s) == 0 {
		return nil
	}
	return s
}
