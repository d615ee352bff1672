package metrics

import (
	"fmt"
	"strings"
	"time"
)

// Level is a rung of the reporting hierarchy.
type Level int

const (
	LevelUser Level = iota
	LevelDepartment
	LevelFunction
	LevelCompany
)

// Levels lists every level from the leaf up.
var Levels = []Level{LevelUser, LevelDepartment, LevelFunction, LevelCompany}

func (l Level) String() string {
	switch l {
	case LevelUser:
		return "user"
	case LevelDepartment:
		return "department"
	case LevelFunction:
		return "function"
	case LevelCompany:
		return "company"
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// ParseLevel accepts the lowercase level names used in query strings.
func ParseLevel(s string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "user", "employee":
		return LevelUser, true
	case "department", "dept":
		return LevelDepartment, true
	case "function":
		return LevelFunction, true
	case "company":
		return LevelCompany, true
	}
	return 0, false
}

// Period selects weekly or monthly buckets.
type Period int

const (
	PeriodWeek Period = iota
	PeriodMonth
)

func (p Period) String() string {
	if p == PeriodMonth {
		return "month"
	}
	return "week"
}

func ParsePeriod(s string) (Period, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "week", "weekly":
		return PeriodWeek, true
	case "month", "monthly":
		return PeriodMonth, true
	}
	return 0, false
}

// GroupKey identifies an entity in the hierarchy. Fields below the entity's
// level are empty, so keys compare by value.
type GroupKey struct {
	Company    string
	Function   string
	Department string
	Employee   string
}

// At projects the key onto the given level.
func (k GroupKey) At(level Level) GroupKey {
	switch level {
	case LevelDepartment:
		k.Employee = ""
	case LevelFunction:
		k.Employee, k.Department = "", ""
	case LevelCompany:
		k.Employee, k.Department, k.Function = "", "", ""
	}
	return k
}

// Label returns the most specific populated field.
func (k GroupKey) Label(level Level) string {
	switch level {
	case LevelUser:
		return k.Employee
	case LevelDepartment:
		return k.Department
	case LevelFunction:
		return k.Function
	default:
		return k.Company
	}
}

func (k GroupKey) Less(o GroupKey) bool {
	if k.Company != o.Company {
		return k.Company < o.Company
	}
	if k.Function != o.Function {
		return k.Function < o.Function
	}
	if k.Department != o.Department {
		return k.Department < o.Department
	}
	return k.Employee < o.Employee
}

// PeriodKey identifies a week or month bucket. Week is 0 for a month bucket.
type PeriodKey struct {
	Year  int
	Month time.Month
	Week  int
}

// WeekOf returns the weekly bucket containing the date.
func WeekOf(d CalendarDate) PeriodKey {
	return PeriodKey{Year: d.Year, Month: d.Month, Week: d.WeekOfMonth()}
}

// MonthOf returns the monthly bucket containing the date.
func MonthOf(d CalendarDate) PeriodKey {
	return PeriodKey{Year: d.Year, Month: d.Month}
}

// ToMonth drops the week component.
func (p PeriodKey) ToMonth() PeriodKey {
	p.Week = 0
	return p
}

func (p PeriodKey) IsMonth() bool { return p.Week == 0 }

// MonthKey returns the YYYY-MM form of the bucket.
func (p PeriodKey) MonthKey() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

func (p PeriodKey) String() string {
	if p.IsMonth() {
		return p.MonthKey()
	}
	return fmt.Sprintf("%s-W%d", p.MonthKey(), p.Week)
}

func (p PeriodKey) Less(o PeriodKey) bool {
	if p.Year != o.Year {
		return p.Year < o.Year
	}
	if p.Month != o.Month {
		return p.Month < o.Month
	}
	return p.Week < o.Week
}

// rowKey addresses one aggregate row.
type rowKey struct {
	Group  GroupKey
	Period PeriodKey
}

func (k rowKey) less(o rowKey) bool {
	if k.Period != o.Period {
		return k.Period.Less(o.Period)
	}
	return k.Group.Less(o.Group)
}
