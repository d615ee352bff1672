package metrics

import "github.com/cmlabs-hris/hris-attendance-metrics/internal/domain/attendance"

// LeaveCount tallies one leave type and how many of its days border a rest day.
type LeaveCount struct {
	Total    int
	Adjacent int
}

// AdjacentPct is the share of the leave days that border a rest day.
func (l LeaveCount) AdjacentPct() float64 {
	return Percent(float64(l.Adjacent), float64(l.Total))
}

func (l *LeaveCount) merge(o LeaveCount) {
	l.Total += o.Total
	l.Adjacent += o.Adjacent
}

// AdjacencyRow is the leave-adjacency summary of one entity for one month.
type AdjacencyRow struct {
	Level       Level
	Key         GroupKey
	Period      PeriodKey
	Name        string
	MemberCount int
	SickLeave   LeaveCount
	CasualLeave LeaveCount
	Absent      LeaveCount
	// WorkableDays counts distinct dates carrying a workable flag.
	WorkableDays int
}

// AbsentPct is distinct absent days over distinct workable days, capped at 100.
func (r AdjacencyRow) AbsentPct() float64 {
	return Percent(float64(r.Absent.Total), float64(r.WorkableDays))
}

type dayMarks uint8

const (
	markRest dayMarks = 1 << iota
	markSick
	markCasual
	markAbsent
	markWorkable
)

func marksFor(f attendance.Flag) dayMarks {
	var m dayMarks
	if f.IsRestDay() {
		m |= markRest
	}
	if f.IsWorkable() {
		m |= markWorkable
	}
	switch f {
	case attendance.FlagSickLeave:
		m |= markSick
	case attendance.FlagCasualLeave:
		m |= markCasual
	case attendance.FlagAbsent:
		m |= markAbsent
	}
	return m
}

// userMonth is the calendar of one user within one month. Duplicate rows for
// the same date collapse into one entry.
type userMonth struct {
	name string
	days map[CalendarDate]dayMarks
}

type adjacencyBuilder struct {
	months map[rowKey]*userMonth
	order  []rowKey
}

func newAdjacencyBuilder() *adjacencyBuilder {
	return &adjacencyBuilder{months: make(map[rowKey]*userMonth)}
}

func (b *adjacencyBuilder) add(d Daily) {
	k := rowKey{Group: d.Key, Period: d.Month()}
	um, ok := b.months[k]
	if !ok {
		um = &userMonth{name: d.Record.DisplayName(), days: make(map[CalendarDate]dayMarks)}
		b.months[k] = um
		b.order = append(b.order, k)
	}
	um.days[d.Date] |= marksFor(d.Flag)
}

// rows returns user-level rows. A leave day is adjacent when the calendar day
// before or after it, within the same user-month, is a weekend or holiday.
func (b *adjacencyBuilder) rows() []AdjacencyRow {
	out := make([]AdjacencyRow, 0, len(b.order))
	for _, k := range sortedKeys(b.order) {
		um := b.months[k]
		row := AdjacencyRow{
			Level:       LevelUser,
			Key:         k.Group,
			Period:      k.Period,
			Name:        um.name,
			MemberCount: 1,
		}
		for date, marks := range um.days {
			adjacent := um.days[date.AddDays(-1)]&markRest != 0 || um.days[date.AddDays(1)]&markRest != 0
			tally := func(bit dayMarks, lc *LeaveCount) {
				if marks&bit == 0 {
					return
				}
				lc.Total++
				if adjacent {
					lc.Adjacent++
				}
			}
			tally(markSick, &row.SickLeave)
			tally(markCasual, &row.CasualLeave)
			tally(markAbsent, &row.Absent)
			if marks&markWorkable != 0 {
				row.WorkableDays++
			}
		}
		out = append(out, row)
	}
	return out
}

// rollUpAdjacency sums user rows into their parents at level.
func rollUpAdjacency(children []AdjacencyRow, level Level) []AdjacencyRow {
	index := make(map[rowKey]*AdjacencyRow)
	var order []rowKey
	for _, c := range children {
		k := rowKey{Group: c.Key.At(level), Period: c.Period}
		p, ok := index[k]
		if !ok {
			p = &AdjacencyRow{Level: level, Key: k.Group, Period: k.Period, Name: k.Group.Label(level)}
			index[k] = p
			order = append(order, k)
		}
		p.MemberCount += c.MemberCount
		p.SickLeave.merge(c.SickLeave)
		p.CasualLeave.merge(c.CasualLeave)
		p.Absent.merge(c.Absent)
		p.WorkableDays += c.WorkableDays
	}
	out := make([]AdjacencyRow, 0, len(order))
	for _, k := range sortedKeys(order) {
		out = append(out, *index[k])
	}
	return out
}

func buildAdjacency(b *adjacencyBuilder) map[Level][]AdjacencyRow {
	h := map[Level][]AdjacencyRow{LevelUser: b.rows()}
	h[LevelDepartment] = rollUpAdjacency(h[LevelUser], LevelDepartment)
	h[LevelFunction] = rollUpAdjacency(h[LevelDepartment], LevelFunction)
	h[LevelCompany] = rollUpAdjacency(h[LevelFunction], LevelCompany)
	return h
}
