package attendance

import (
	"sort"
	"strings"
)

// Row is one uploaded spreadsheet row keyed by its header cells.
type Row map[string]string

// Source column names as they appear in uploaded attendance sheets.
const (
	ColumnEmployeeCode   = "Employee Code"
	ColumnName           = "Name"
	ColumnCompany        = "Company Name"
	ColumnCompanyTypo    = "Comapny Name"
	ColumnFunction       = "Function Name"
	ColumnDepartment     = "Department Name"
	ColumnDepartmentAlt  = "Department"
	ColumnAttendanceDate = "Attendance Date"
	ColumnFlag           = "Flag"
	ColumnIsLate         = "Is Late"
	ColumnShiftIn        = "Shift In Time"
	ColumnShiftOut       = "Shift Out Time"
	ColumnInTime         = "In Time"
	ColumnOutTime        = "Out Time"
)

// UnassignedDepartment labels records that carry no department.
const UnassignedDepartment = "Unassigned"

// Record is one employee-day from an uploaded attendance sheet. Date and time
// fields keep their raw text; normalisation happens in the metrics engine.
type Record struct {
	EmployeeCode string
	Name         string
	Company      string
	Function     string
	Departments  []string
	Date         string
	Flag         string
	IsLate       bool
	ShiftIn      string
	ShiftOut     string
	InTime       string
	OutTime      string
}

// Identity returns the de-duplication key for the employee: the employee code
// when present, otherwise the name.
func (r Record) Identity() string {
	if r.EmployeeCode != "" {
		return r.EmployeeCode
	}
	return r.Name
}

// HasIdentity reports whether the record can be keyed to an employee.
func (r Record) HasIdentity() bool {
	return r.Identity() != ""
}

// DisplayName returns "Name (Code)" style label used by the user filter.
func (r Record) DisplayName() string {
	switch {
	case r.Name != "" && r.EmployeeCode != "":
		return r.Name + " (" + r.EmployeeCode + ")"
	case r.Name != "":
		return r.Name
	default:
		return r.EmployeeCode
	}
}

// DepartmentLabel returns the canonical label for the record's department set.
func (r Record) DepartmentLabel() string {
	if len(r.Departments) == 0 {
		return UnassignedDepartment
	}
	depts := append([]string(nil), r.Departments...)
	sort.Strings(depts)
	return strings.Join(depts, ", ")
}

// ParsedFlag returns the enumerated flag for the record.
func (r Record) ParsedFlag() Flag {
	return ParseFlag(r.Flag)
}

// FromRow maps a raw row to a Record using best-effort column lookup: exact
// header first, then a case and whitespace insensitive match.
func FromRow(row Row) Record {
	folded := make(map[string]string, len(row))
	for k, v := range row {
		folded[foldColumn(k)] = v
	}
	get := func(keys ...string) string {
		for _, k := range keys {
			if v, ok := row[k]; ok && strings.TrimSpace(v) != "" {
				return strings.TrimSpace(v)
			}
		}
		for _, k := range keys {
			if v, ok := folded[foldColumn(k)]; ok && strings.TrimSpace(v) != "" {
				return strings.TrimSpace(v)
			}
		}
		return ""
	}

	return Record{
		EmployeeCode: get(ColumnEmployeeCode),
		Name:         get(ColumnName),
		Company:      get(ColumnCompany, ColumnCompanyTypo),
		Function:     get(ColumnFunction),
		Departments:  SplitDepartments(get(ColumnDepartment, ColumnDepartmentAlt)),
		Date:         get(ColumnAttendanceDate),
		Flag:         get(ColumnFlag),
		IsLate:       ParseYesNo(get(ColumnIsLate)),
		ShiftIn:      get(ColumnShiftIn),
		ShiftOut:     get(ColumnShiftOut),
		InTime:       get(ColumnInTime),
		OutTime:      get(ColumnOutTime),
	}
}

// FromRows maps every row, preserving order.
func FromRows(rows []Row) []Record {
	records := make([]Record, 0, len(rows))
	for _, row := range rows {
		records = append(records, FromRow(row))
	}
	return records
}

// SplitDepartments splits a comma-joined department cell, dropping blanks and
// duplicates.
func SplitDepartments(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if _, dup := seen[part]; dup {
			continue
		}
		seen[part] = struct{}{}
		out = append(out, part)
	}
	return out
}

// ParseYesNo interprets spreadsheet boolean cells.
func ParseYesNo(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "yes", "y", "true", "1":
		return true
	}
	return false
}

func foldColumn(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
