package metrics

import (
	"testing"

	"github.com/cmlabs-hris/hris-attendance-metrics/internal/domain/attendance"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(code, function, dept, date, flag string) attendance.Record {
	return attendance.Record{
		EmployeeCode: code,
		Name:         "Employee " + code,
		Company:      "Acme",
		Function:     function,
		Departments:  attendance.SplitDepartments(dept),
		Date:         date,
		Flag:         flag,
		ShiftIn:      "09:00",
		ShiftOut:     "17:00",
		InTime:       "09:00",
		OutTime:      "17:00",
	}
}

func worked(r attendance.Record, in, out string) attendance.Record {
	r.InTime, r.OutTime = in, out
	return r
}

func rates(def string, byFunction map[string]string) RateTable {
	t := RateTable{ByFunction: map[string]decimal.Decimal{}}
	if def != "" {
		t.Default = decimal.NewNullDecimal(decimal.RequireFromString(def))
	}
	for k, v := range byFunction {
		t.ByFunction[k] = decimal.RequireFromString(v)
	}
	return t
}

func findRow(t *testing.T, rows []Aggregate, label string) Aggregate {
	t.Helper()
	for _, r := range rows {
		if r.Key.Label(r.Level) == label {
			return r
		}
	}
	require.Failf(t, "row not found", "label %q", label)
	return Aggregate{}
}

// ===== LOST HOURS =====

func TestCompute_LostHoursScenario(t *testing.T) {
	records := []attendance.Record{
		worked(record("E1", "Sales", "North", "2025-01-06", "P"), "09:00", "16:00"),
		worked(record("E1", "Sales", "North", "2025-01-07", "P"), "09:00", "18:00"),
	}

	res := Compute(records, FilterCriteria{}, RateTable{})

	users := res.Rows(PeriodMonth, LevelUser)
	require.Len(t, users, 1)
	u := users[0]
	assert.InDelta(t, 16.0, u.ShiftHoursSum, 1e-9)
	assert.InDelta(t, 16.0, u.WorkHoursSum, 1e-9)
	assert.InDelta(t, 1.0, u.LostHoursSum, 1e-9)
	assert.Equal(t, 0.0, u.ActualOvertime())
	assert.Equal(t, 6.25, u.LostPct())
	assert.Equal(t, 2, u.TotalWorkableDays)
	assert.Equal(t, 1, u.CompletedDays)
	assert.Equal(t, 50.0, u.CompletionPct())
}

func TestCompute_NonCountableFlagsAddHoursButNoLoss(t *testing.T) {
	records := []attendance.Record{
		worked(record("E1", "Sales", "North", "2025-01-06", "SL"), "", ""),
		worked(record("E1", "Sales", "North", "2025-01-07", ""), "", ""),
		worked(record("E1", "Sales", "North", "2025-01-11", "W"), "", ""),
	}

	res := Compute(records, FilterCriteria{}, RateTable{})

	u := res.Rows(PeriodMonth, LevelUser)[0]
	assert.InDelta(t, 16.0, u.ShiftHoursSum, 1e-9)
	assert.InDelta(t, 0.0, u.WorkHoursSum, 1e-9)
	assert.InDelta(t, 8.0, u.LostHoursSum, 1e-9)
	assert.Equal(t, 0, u.PresentCount)
	assert.Equal(t, 0, u.TotalWorkableDays)
}

// ===== ON TIME =====

func TestCompute_OnTime(t *testing.T) {
	late := record("E1", "Sales", "North", "2025-01-07", "P")
	late.IsLate = true
	records := []attendance.Record{
		record("E1", "Sales", "North", "2025-01-06", "P"),
		late,
		record("E1", "Sales", "North", "2025-01-08", "OD"),
		record("E1", "Sales", "North", "2025-01-09", "SL"),
		record("E1", "Sales", "North", "2025-01-10", "Holiday"),
	}

	res := Compute(records, FilterCriteria{}, RateTable{})

	u := res.Rows(PeriodMonth, LevelUser)[0]
	assert.Equal(t, 3, u.PresentCount)
	assert.Equal(t, 1, u.LateCount)
	assert.Equal(t, 2, u.OnTimeCount)
	assert.Equal(t, 66.67, u.OnTimePct())
}

// ===== HEADCOUNT =====

func TestCompute_MonthlyHeadcountCountsPersonOnce(t *testing.T) {
	records := []attendance.Record{
		record("E1", "Sales", "North", "2025-01-06", "P"),
		record("E1", "Sales", "North", "2025-01-08", "P"),
	}

	res := Compute(records, FilterCriteria{}, RateTable{})

	weekly := res.Rows(PeriodWeek, LevelDepartment)
	require.Len(t, weekly, 2)
	assert.Equal(t, 1, weekly[0].MemberCount)
	assert.Equal(t, 1, weekly[1].MemberCount)

	monthly := res.Rows(PeriodMonth, LevelDepartment)
	require.Len(t, monthly, 1)
	assert.Equal(t, 1, monthly[0].MemberCount)
	assert.Equal(t, 1, res.Rows(PeriodMonth, LevelCompany)[0].MemberCount)
}

func TestCompute_MonthlyHeadcountSumsDepartments(t *testing.T) {
	records := []attendance.Record{
		record("E1", "Sales", "North", "2025-01-06", "P"),
		record("E1", "Sales", "North", "2025-01-13", "P"),
		record("E2", "Sales", "South", "2025-01-06", "P"),
		record("E3", "Sales", "South", "2025-01-07", "P"),
		record("E4", "Ops", "", "2025-01-07", "P"),
	}

	res := Compute(records, FilterCriteria{}, RateTable{})

	depts := res.Rows(PeriodMonth, LevelDepartment)
	assert.Equal(t, 1, findRow(t, depts, "North").MemberCount)
	assert.Equal(t, 2, findRow(t, depts, "South").MemberCount)
	assert.Equal(t, 1, findRow(t, depts, attendance.UnassignedDepartment).MemberCount)

	functions := res.Rows(PeriodMonth, LevelFunction)
	assert.Equal(t, 3, findRow(t, functions, "Sales").MemberCount)
	assert.Equal(t, 1, findRow(t, functions, "Ops").MemberCount)
	assert.Equal(t, 4, res.Rows(PeriodMonth, LevelCompany)[0].MemberCount)
}

// ===== COST =====

func TestCompute_CostRollsUp(t *testing.T) {
	records := []attendance.Record{
		worked(record("E1", "Sales", "North", "2025-01-06", "P"), "09:00", "16:00"),
		worked(record("E2", "Sales", "South", "2025-01-06", "P"), "09:00", "14:30"),
		worked(record("E2", "Sales", "South", "2025-01-14", "P"), "09:00", "16:40"),
	}

	res := Compute(records, FilterCriteria{}, rates("", map[string]string{"Sales": "10"}))

	depts := res.Rows(PeriodMonth, LevelDepartment)
	assert.Equal(t, "10.00", findRow(t, depts, "North").Cost.Decimal.StringFixed(2))
	assert.Equal(t, "28.33", findRow(t, depts, "South").Cost.Decimal.StringFixed(2))

	fn := findRow(t, res.Rows(PeriodMonth, LevelFunction), "Sales")
	require.True(t, fn.Cost.Valid)
	assert.True(t, fn.CostComplete)
	assert.Equal(t, "38.33", fn.Cost.Decimal.StringFixed(2))

	company := res.Rows(PeriodMonth, LevelCompany)[0]
	assert.True(t, company.Cost.Decimal.Equal(fn.Cost.Decimal))
	assert.Empty(t, res.Mismatches)
}

func TestCompute_DepartmentCostsSumToFunction(t *testing.T) {
	var records []attendance.Record
	outs := []string{"16:59", "12:13", "15:07", "10:41", "16:01", "13:37"}
	depts := []string{"North", "South", "East"}
	for i := 0; i < 18; i++ {
		code := []string{"E1", "E2", "E3", "E4", "E5", "E6"}[i%6]
		date := []string{"2025-02-03", "2025-02-11", "2025-02-19"}[i%3]
		records = append(records, worked(record(code, "Sales", depts[i%3], date, "P"), "09:00", outs[i%6]))
	}

	res := Compute(records, FilterCriteria{}, rates("", map[string]string{"Sales": "13.37"}))

	for _, period := range []Period{PeriodWeek, PeriodMonth} {
		sums := map[rowKey]decimal.Decimal{}
		for _, d := range res.Rows(period, LevelDepartment) {
			require.True(t, d.Cost.Valid)
			k := rowKey{Group: d.Key.At(LevelFunction), Period: d.Period}
			sums[k] = sums[k].Add(d.Cost.Decimal)
		}
		for _, f := range res.Rows(period, LevelFunction) {
			diff := f.Cost.Decimal.Sub(sums[rowKey{Group: f.Key, Period: f.Period}]).Abs()
			assert.True(t, diff.LessThanOrEqual(CostEpsilon), "%s %s diff %s", period, f.Period, diff)
		}
	}
	assert.Empty(t, res.Mismatches)
}

func TestCompute_MissingRateIsUnavailable(t *testing.T) {
	records := []attendance.Record{
		worked(record("E1", "Factory", "Line", "2025-01-06", "P"), "", ""),
		worked(record("E2", "Sales", "North", "2025-01-06", "P"), "09:00", "16:00"),
	}

	res := Compute(records, FilterCriteria{}, rates("", map[string]string{"Sales": "10"}))

	for _, period := range []Period{PeriodWeek, PeriodMonth} {
		for _, level := range Levels {
			for _, row := range res.Rows(period, level) {
				if row.Key.Function == "Factory" {
					assert.False(t, row.Cost.Valid, "%s %s", period, level)
				}
			}
		}
	}

	company := res.Rows(PeriodMonth, LevelCompany)[0]
	require.True(t, company.Cost.Valid)
	assert.False(t, company.CostComplete)
	assert.Equal(t, "10.00", company.Cost.Decimal.StringFixed(2))
}

func TestCompute_DefaultRateFallback(t *testing.T) {
	records := []attendance.Record{
		worked(record("E1", "Factory", "Line", "2025-01-06", "P"), "09:00", "15:00"),
	}

	res := Compute(records, FilterCriteria{}, rates("5.5", nil))

	u := res.Rows(PeriodMonth, LevelUser)[0]
	require.True(t, u.Cost.Valid)
	assert.Equal(t, "11.00", u.Cost.Decimal.StringFixed(2))
	assert.True(t, u.CostComplete)
}

// ===== PROPERTIES =====

func TestCompute_PercentagesStayInBounds(t *testing.T) {
	base := worked(record("E1", "Sales", "North", "2025-01-06", "P"), "09:00", "20:00")
	late := base
	late.IsLate = true
	var records []attendance.Record
	for i := 0; i < 5; i++ {
		records = append(records, base, late, base)
		records = append(records, worked(record("E1", "Sales", "North", "2025-01-06", "A"), "", ""))
		records = append(records, worked(record("E1", "Sales", "North", "2025-01-06", "?"), "23:00", "01:00"))
	}

	res := Compute(records, FilterCriteria{}, rates("1", nil))

	for _, period := range []Period{PeriodWeek, PeriodMonth} {
		for _, level := range Levels {
			for _, row := range res.Rows(period, level) {
				for _, pct := range []float64{row.OnTimePct(), row.CompletionPct(), row.LostPct()} {
					assert.GreaterOrEqual(t, pct, 0.0)
					assert.LessOrEqual(t, pct, 100.0)
				}
				assert.LessOrEqual(t, row.OnTimeCount, row.PresentCount)
				assert.GreaterOrEqual(t, row.OnTimeCount, 0)
				assert.LessOrEqual(t, row.CompletedDays, row.TotalWorkableDays)
			}
		}
		for _, level := range Levels {
			for _, row := range res.Adjacency[level] {
				assert.LessOrEqual(t, row.AbsentPct(), 100.0)
				assert.GreaterOrEqual(t, row.AbsentPct(), 0.0)
			}
		}
	}
}

func TestCompute_SkipsUnkeyableRecords(t *testing.T) {
	noIdentity := record("", "Sales", "North", "2025-01-06", "P")
	noIdentity.Name = ""
	records := []attendance.Record{
		noIdentity,
		record("E1", "Sales", "North", "2025-01", "P"),
		record("E1", "Sales", "North", "not a date", "P"),
		record("E1", "Sales", "North", "2025-01-06", "P"),
	}

	res := Compute(records, FilterCriteria{}, RateTable{})

	assert.Equal(t, Skipped{NoIdentity: 1, BadDate: 2}, res.Skipped)
	assert.Equal(t, 3, res.Skipped.Total())
	assert.Equal(t, 1, res.Included)
}

func TestCompute_Deterministic(t *testing.T) {
	records := []attendance.Record{
		worked(record("E2", "Sales", "South, North", "2025-01-06", "P"), "09:00", "16:20"),
		worked(record("E1", "Ops", "North", "2025-01-21", "OD"), "22:00", "05:00"),
		worked(record("E3", "Sales", "North", "2025-02-03", "P"), "", ""),
	}
	r := rates("7.25", map[string]string{"Ops": "9.99"})

	first := Compute(records, FilterCriteria{}, r)
	second := Compute(records, FilterCriteria{}, r)

	assert.Equal(t, first, second)
}

func TestCompute_AppliesFilter(t *testing.T) {
	records := []attendance.Record{
		record("E1", "Sales", "North", "2025-01-06", "P"),
		record("E2", "Ops", "South", "2025-01-06", "P"),
		record("E1", "Sales", "North", "2025-02-03", "P"),
	}

	res := Compute(records, FilterCriteria{Functions: []string{"Sales"}, Months: []string{"Jan 2025"}}, RateTable{})

	assert.Equal(t, 1, res.Included)
	users := res.Rows(PeriodMonth, LevelUser)
	require.Len(t, users, 1)
	assert.Equal(t, "E1", users[0].Key.Employee)
	assert.Equal(t, "Employee E1 (E1)", users[0].Name)
}
