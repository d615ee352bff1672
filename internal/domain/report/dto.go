package report

import (
	"github.com/cmlabs-hris/hris-attendance-metrics/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========================================
// FILTERS
// ========================================

// FilterRequest selects the records a report covers. Empty fields place no
// restriction; populated fields are combined with AND.
type FilterRequest struct {
	Companies   []string `json:"companies"`
	Functions   []string `json:"functions"`
	Departments []string `json:"departments"`
	Users       []string `json:"users"`
	Months      []string `json:"months" validate:"dive,monthkey"`
	Weeks       []int    `json:"weeks" validate:"dive,min=1,max=5"`
}

func (r *FilterRequest) Validate() error {
	return validator.Struct(r)
}

type FilterOptions struct {
	Companies       []string `json:"companies"`
	Functions       []string `json:"functions"`
	Departments     []string `json:"departments"`
	Users           []string `json:"users"`
	Months          []string `json:"months"`
	Weeks           []int    `json:"weeks"`
	SnapshotVersion string   `json:"snapshot_version"`
	RecordCount     int      `json:"record_count"`
	LoadedAt        string   `json:"loaded_at"`
}

// ========================================
// METRICS
// ========================================

const (
	PeriodWeek  = "week"
	PeriodMonth = "month"

	LevelUser       = "user"
	LevelDepartment = "department"
	LevelFunction   = "function"
	LevelCompany    = "company"
)

type MetricsRequest struct {
	FilterRequest
	Period string `json:"period" validate:"required,oneof=week month"`
	Level  string `json:"level" validate:"required,oneof=user department function company"`
}

func (r *MetricsRequest) Validate() error {
	return validator.Struct(r)
}

type MetricRow struct {
	Level      string `json:"level"`
	Period     string `json:"period"`
	Month      string `json:"month"`
	Week       int    `json:"week,omitempty"`
	Company    string `json:"company"`
	Function   string `json:"function,omitempty"`
	Department string `json:"department,omitempty"`
	Employee   string `json:"employee,omitempty"`
	Name       string `json:"name"`

	MemberCount int `json:"member_count"`

	// On-time
	PresentCount  int     `json:"present_count"`
	LateCount     int     `json:"late_count"`
	OnTimeCount   int     `json:"on_time_count"`
	OnTimePct     float64 `json:"on_time_pct"`
	OnTimeDisplay string  `json:"on_time_display"`

	// Completion
	TotalWorkableDays int     `json:"total_workable_days"`
	CompletedDays     int     `json:"completed_days"`
	CompletionPct     float64 `json:"completion_pct"`
	CompletionDisplay string  `json:"completion_display"`

	// Lost hours
	ShiftHours     float64 `json:"shift_hours"`
	WorkHours      float64 `json:"work_hours"`
	LostHours      float64 `json:"lost_hours"`
	LostPct        float64 `json:"lost_pct"`
	LostDisplay    string  `json:"lost_display"`
	ActualOvertime float64 `json:"actual_overtime"`

	// Cost
	Rate         decimal.NullDecimal `json:"rate"`
	Cost         decimal.NullDecimal `json:"cost"`
	CostDisplay  string              `json:"cost_display"`
	CostComplete bool                `json:"cost_complete"`
}

type SkippedSummary struct {
	NoIdentity int `json:"no_identity"`
	BadDate    int `json:"bad_date"`
}

type MetricsReport struct {
	Period          string         `json:"period"`
	Level           string         `json:"level"`
	GeneratedAt     string         `json:"generated_at"`
	SnapshotVersion string         `json:"snapshot_version"`
	Included        int            `json:"included_records"`
	Skipped         SkippedSummary `json:"skipped_records"`
	Warnings        []string       `json:"warnings,omitempty"`

	Rows []MetricRow `json:"rows"`
}

// ========================================
// LEAVE ADJACENCY
// ========================================

type AdjacencyRequest struct {
	FilterRequest
	Level string `json:"level" validate:"required,oneof=user department function company"`
}

func (r *AdjacencyRequest) Validate() error {
	return validator.Struct(r)
}

type LeaveStat struct {
	Total       int     `json:"total"`
	Adjacent    int     `json:"adjacent"`
	AdjacentPct float64 `json:"adjacent_pct,omitempty"`
}

type AdjacencyRow struct {
	Level      string `json:"level"`
	Month      string `json:"month"`
	Company    string `json:"company"`
	Function   string `json:"function,omitempty"`
	Department string `json:"department,omitempty"`
	Employee   string `json:"employee,omitempty"`
	Name       string `json:"name"`

	MemberCount  int       `json:"member_count"`
	SickLeave    LeaveStat `json:"sick_leave"`
	CasualLeave  LeaveStat `json:"casual_leave"`
	Absent       LeaveStat `json:"absent"`
	WorkableDays int       `json:"workable_days"`
	AbsentPct    float64   `json:"absent_pct"`
}

type AdjacencyReport struct {
	Level           string `json:"level"`
	GeneratedAt     string `json:"generated_at"`
	SnapshotVersion string `json:"snapshot_version"`

	Rows []AdjacencyRow `json:"rows"`
}

// ========================================
// OVERVIEW
// ========================================

type OverviewReport struct {
	GeneratedAt     string   `json:"generated_at"`
	SnapshotVersion string   `json:"snapshot_version"`
	Warnings        []string `json:"warnings,omitempty"`

	Monthly   []MetricRow    `json:"monthly"`
	Weekly    []MetricRow    `json:"weekly"`
	Adjacency []AdjacencyRow `json:"adjacency"`
	Options   FilterOptions  `json:"options"`
}

// ========================================
// SNAPSHOT
// ========================================

type SnapshotInfo struct {
	Version     string `json:"version"`
	RecordCount int    `json:"record_count"`
	LoadedAt    string `json:"loaded_at"`
}
