package metrics

import (
	"github.com/cmlabs-hris/hris-attendance-metrics/internal/domain/attendance"
)

// Daily holds the values derived from one attendance record.
type Daily struct {
	Record     attendance.Record
	Flag       attendance.Flag
	Date       CalendarDate
	Key        GroupKey
	ShiftHours float64
	WorkHours  float64
	LostHours  float64
	Completed  bool
}

// Week returns the weekly bucket of the record.
func (d Daily) Week() PeriodKey { return WeekOf(d.Date) }

// Month returns the monthly bucket of the record.
func (d Daily) Month() PeriodKey { return MonthOf(d.Date) }

// Skipped counts records that could not be aggregated.
type Skipped struct {
	NoIdentity int `json:"no_identity"`
	BadDate    int `json:"bad_date"`
}

func (s Skipped) Total() int { return s.NoIdentity + s.BadDate }

// SkipReason says why a record was left out of aggregation.
type SkipReason int

const (
	SkipNone SkipReason = iota
	SkipNoIdentity
	SkipBadDate
)

// Derive normalises one record. Records without an identity or a full
// calendar date cannot be keyed and are reported through the skip reason.
func Derive(r attendance.Record) (Daily, SkipReason) {
	if !r.HasIdentity() {
		return Daily{}, SkipNoIdentity
	}
	date, ok := ParseDate(r.Date)
	if !ok {
		return Daily{}, SkipBadDate
	}

	flag := r.ParsedFlag()
	shift := Duration(r.ShiftIn, r.ShiftOut)
	work := Duration(r.InTime, r.OutTime)

	return Daily{
		Record: r,
		Flag:   flag,
		Date:   date,
		Key: GroupKey{
			Company:    r.Company,
			Function:   r.Function,
			Department: r.DepartmentLabel(),
			Employee:   r.Identity(),
		},
		ShiftHours: shift,
		WorkHours:  work,
		LostHours:  LostHours(flag, shift, work),
		Completed:  shift > 0 && work >= shift,
	}, SkipNone
}

// LostHours returns the shortfall for one day. A day with no recorded work
// loses the whole shift. Only countable flags accrue loss.
func LostHours(flag attendance.Flag, shift, work float64) float64 {
	if !flag.AccruesLoss() || shift <= 0 {
		return 0
	}
	if work <= 0 {
		return shift
	}
	if work >= shift {
		return 0
	}
	return shift - work
}
