package metrics

import "sort"

// table collects aggregate rows by level-projected key and period.
type table struct {
	rows  map[rowKey]*Aggregate
	order []rowKey
}

func newTable() *table {
	return &table{rows: make(map[rowKey]*Aggregate)}
}

func (t *table) get(level Level, key GroupKey, period PeriodKey, name string) *Aggregate {
	k := rowKey{Group: key, Period: period}
	if a, ok := t.rows[k]; ok {
		return a
	}
	a := newAggregate(level, key, period, name)
	t.rows[k] = a
	t.order = append(t.order, k)
	return a
}

// sorted returns the rows ordered by period, then key.
func (t *table) sorted() []Aggregate {
	out := make([]Aggregate, 0, len(t.order))
	for _, k := range sortedKeys(t.order) {
		out = append(out, *t.rows[k])
	}
	return out
}

func sortedKeys(keys []rowKey) []rowKey {
	out := append([]rowKey(nil), keys...)
	sort.Slice(out, func(i, j int) bool { return out[i].less(out[j]) })
	return out
}

// rollUp combines children into their parents at level within the same
// period. Tallies, headcount and cost are summed.
func rollUp(children []Aggregate, level Level) []Aggregate {
	t := newTable()
	for i := range children {
		c := &children[i]
		p := t.get(level, c.Key.At(level), c.Period, c.Key.Label(level))
		p.Counters.Merge(c.Counters)
		p.MemberCount += c.MemberCount
		p.addCost(c.Cost, c.CostComplete)
	}
	return t.sorted()
}

// toMonthly merges an entity's weekly rows into its monthly row. Tallies and
// cost add up; headcount is the largest weekly headcount so that a person
// seen in several weeks is counted once.
func toMonthly(weeks []Aggregate) []Aggregate {
	t := newTable()
	for i := range weeks {
		w := &weeks[i]
		m := t.get(w.Level, w.Key, w.Period.ToMonth(), w.Name)
		m.Counters.Merge(w.Counters)
		if w.MemberCount > m.MemberCount {
			m.MemberCount = w.MemberCount
		}
		if !m.Rate.Valid {
			m.Rate = w.Rate
		}
		m.addCost(w.Cost, w.CostComplete)
	}
	return t.sorted()
}

// hierarchy is the full set of rows for one period granularity.
type hierarchy map[Level][]Aggregate

// buildWeekly rolls weekly user rows up through the hierarchy.
func buildWeekly(users []Aggregate) hierarchy {
	h := hierarchy{LevelUser: users}
	h[LevelDepartment] = rollUp(h[LevelUser], LevelDepartment)
	h[LevelFunction] = rollUp(h[LevelDepartment], LevelFunction)
	h[LevelCompany] = rollUp(h[LevelFunction], LevelCompany)
	return h
}

// buildMonthly derives monthly rows from the weekly hierarchy. Users merge
// their weeks; departments take the per-week maximum headcount and sum their
// users' tallies; functions and companies sum their children.
func buildMonthly(weekly hierarchy) hierarchy {
	h := hierarchy{LevelUser: toMonthly(weekly[LevelUser])}

	depts := rollUp(h[LevelUser], LevelDepartment)
	peaks := make(map[rowKey]int, len(depts))
	for _, d := range toMonthly(weekly[LevelDepartment]) {
		peaks[d.rowKey()] = d.MemberCount
	}
	for i := range depts {
		depts[i].MemberCount = peaks[depts[i].rowKey()]
	}
	h[LevelDepartment] = depts

	h[LevelFunction] = rollUp(h[LevelDepartment], LevelFunction)
	h[LevelCompany] = rollUp(h[LevelFunction], LevelCompany)
	return h
}
