package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-attendance-metrics/internal/domain/report"
	"github.com/cmlabs-hris/hris-attendance-metrics/internal/service/metrics"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// CostUnavailable is shown in place of a cost no rate could price.
const CostUnavailable = "unavailable"

func newPrinter() *message.Printer {
	return message.NewPrinter(language.English)
}

func toCriteria(r report.FilterRequest) metrics.FilterCriteria {
	return metrics.FilterCriteria{
		Companies:   r.Companies,
		Functions:   r.Functions,
		Departments: r.Departments,
		Users:       r.Users,
		Months:      r.Months,
		Weeks:       r.Weeks,
	}.Normalize()
}

func toMetricRow(a metrics.Aggregate, p *message.Printer) report.MetricRow {
	return report.MetricRow{
		Level:       a.Level.String(),
		Period:      periodName(a.Period),
		Month:       a.Period.MonthKey(),
		Week:        a.Period.Week,
		Company:     a.Key.Company,
		Function:    a.Key.Function,
		Department:  a.Key.Department,
		Employee:    a.Key.Employee,
		Name:        a.Name,
		MemberCount: a.MemberCount,

		PresentCount:  a.PresentCount,
		LateCount:     a.LateCount,
		OnTimeCount:   a.OnTimeCount,
		OnTimePct:     a.OnTimePct(),
		OnTimeDisplay: FormatPercent(p, a.OnTimePct()),

		TotalWorkableDays: a.TotalWorkableDays,
		CompletedDays:     a.CompletedDays,
		CompletionPct:     a.CompletionPct(),
		CompletionDisplay: FormatPercent(p, a.CompletionPct()),

		ShiftHours:     metrics.Round2(a.ShiftHoursSum),
		WorkHours:      metrics.Round2(a.WorkHoursSum),
		LostHours:      metrics.Round2(a.LostHoursSum),
		LostPct:        a.LostPct(),
		LostDisplay:    FormatPercent(p, a.LostPct()),
		ActualOvertime: a.ActualOvertime(),

		Rate:         a.Rate,
		Cost:         a.Cost,
		CostDisplay:  FormatCost(p, a.Cost),
		CostComplete: a.CostComplete,
	}
}

func toAdjacencyRow(r metrics.AdjacencyRow) report.AdjacencyRow {
	return report.AdjacencyRow{
		Level:        r.Level.String(),
		Month:        r.Period.MonthKey(),
		Company:      r.Key.Company,
		Function:     r.Key.Function,
		Department:   r.Key.Department,
		Employee:     r.Key.Employee,
		Name:         r.Name,
		MemberCount:  r.MemberCount,
		SickLeave:    toLeaveStat(r.SickLeave),
		CasualLeave:  toLeaveStat(r.CasualLeave),
		Absent:       toLeaveStat(r.Absent),
		WorkableDays: r.WorkableDays,
		AbsentPct:    r.AbsentPct(),
	}
}

func toLeaveStat(l metrics.LeaveCount) report.LeaveStat {
	return report.LeaveStat{
		Total:       l.Total,
		Adjacent:    l.Adjacent,
		AdjacentPct: l.AdjacentPct(),
	}
}

func toSkipped(s metrics.Skipped) report.SkippedSummary {
	return report.SkippedSummary{NoIdentity: s.NoIdentity, BadDate: s.BadDate}
}

func toFilterOptions(snap *Snapshot) report.FilterOptions {
	return report.FilterOptions{
		Companies:       nonNil(snap.Options.Companies),
		Functions:       nonNil(snap.Options.Functions),
		Departments:     nonNil(snap.Options.Departments),
		Users:           nonNil(snap.Options.Users),
		Months:          nonNil(snap.Options.Months),
		Weeks:           nonNil(snap.Options.Weeks),
		SnapshotVersion: snap.Version,
		RecordCount:     len(snap.Records),
		LoadedAt:        snap.LoadedAt.Format(time.RFC3339),
	}
}

func periodName(p metrics.PeriodKey) string {
	if p.IsMonth() {
		return metrics.PeriodMonth.String()
	}
	return metrics.PeriodWeek.String()
}

// FormatPercent renders a percentage with two decimals, e.g. "85.50%".
func FormatPercent(p *message.Printer, v float64) string {
	return p.Sprintf("%.2f%%", v)
}

// FormatCost renders a cost with two decimals and digit grouping, or
// CostUnavailable when no rate applied.
func FormatCost(p *message.Printer, cost decimal.NullDecimal) string {
	if !cost.Valid {
		return CostUnavailable
	}
	return groupThousands(p, cost.Decimal.StringFixed(2))
}

// groupThousands inserts the printer's digit grouping into a fixed-point
// decimal string without converting it to a float.
func groupThousands(p *message.Printer, fixed string) string {
	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign, fixed = "-", fixed[1:]
	}
	whole, frac, _ := strings.Cut(fixed, ".")
	sep := p.Sprintf("%d", 1000)[1:2]

	var b strings.Builder
	b.WriteString(sign)
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteString(sep)
		}
		b.WriteRune(r)
	}
	if frac != "" {
		b.WriteString(".")
		b.WriteString(frac)
	}
	return b.String()
}

func warnings(res *metrics.Result, rates metrics.RateTable) []string {
	var out []string
	if rates.IsEmpty() {
		out = append(out, "no cost rate is configured; cost is unavailable")
	}
	for _, m := range res.Mismatches {
		out = append(out, fmt.Sprintf("%s %q %s cost %s differs from its members' total %s",
			m.Level, m.Key.Label(m.Level), m.Period, m.Parent.StringFixed(2), m.Children.StringFixed(2)))
	}
	return out
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
