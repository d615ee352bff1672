package http

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/cmlabs-hris/hris-attendance-metrics/internal/domain/report"
	"github.com/cmlabs-hris/hris-attendance-metrics/internal/handler/http/response"
)

type ReportHandler interface {
	// Metrics by period and level
	GetMetrics(w http.ResponseWriter, r *http.Request)

	// Leave adjacency by level
	GetLeaveAdjacency(w http.ResponseWriter, r *http.Request)

	// Company overview
	GetOverview(w http.ResponseWriter, r *http.Request)

	// Filter options
	GetFilterOptions(w http.ResponseWriter, r *http.Request)

	// Snapshot reload
	Refresh(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	reportService report.ReportService
}

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandlerImpl{
		reportService: reportService,
	}
}

// GetMetrics handles GET /metrics
func (h *reportHandlerImpl) GetMetrics(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter, err := parseFilter(q)
	if err != nil {
		response.BadRequest(w, err.Error(), nil)
		return
	}

	req := report.MetricsRequest{
		FilterRequest: filter,
		Period:        defaultString(q.Get("period"), report.PeriodMonth),
		Level:         defaultString(q.Get("level"), report.LevelCompany),
	}

	result, err := h.reportService.GetMetrics(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetLeaveAdjacency handles GET /metrics/leave-adjacency
func (h *reportHandlerImpl) GetLeaveAdjacency(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter, err := parseFilter(q)
	if err != nil {
		response.BadRequest(w, err.Error(), nil)
		return
	}

	req := report.AdjacencyRequest{
		FilterRequest: filter,
		Level:         defaultString(q.Get("level"), report.LevelUser),
	}

	result, err := h.reportService.GetLeaveAdjacency(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetOverview handles GET /metrics/overview
func (h *reportHandlerImpl) GetOverview(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r.URL.Query())
	if err != nil {
		response.BadRequest(w, err.Error(), nil)
		return
	}

	result, err := h.reportService.GetOverview(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetFilterOptions handles GET /metrics/filters
func (h *reportHandlerImpl) GetFilterOptions(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.GetFilterOptions(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Refresh handles POST /metrics/refresh
func (h *reportHandlerImpl) Refresh(w http.ResponseWriter, r *http.Request) {
	result, err := h.reportService.Refresh(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance data reloaded", result)
}

type queryError struct {
	param string
	value string
}

func (e *queryError) Error() string {
	return "invalid " + e.param + " parameter: " + strconv.Quote(e.value)
}

// parseFilter reads filter values. Each filter accepts its singular or plural
// name, repeated params and comma separated values.
func parseFilter(q url.Values) (report.FilterRequest, error) {
	filter := report.FilterRequest{
		Companies:   queryList(q, "company", "companies"),
		Functions:   queryList(q, "function", "functions"),
		Departments: queryList(q, "department", "departments"),
		Users:       queryList(q, "user", "users"),
		Months:      queryList(q, "month", "months"),
	}

	for _, raw := range queryList(q, "week", "weeks") {
		week, err := strconv.Atoi(raw)
		if err != nil {
			return report.FilterRequest{}, &queryError{param: "week", value: raw}
		}
		filter.Weeks = append(filter.Weeks, week)
	}

	return filter, nil
}

func queryList(q url.Values, names ...string) []string {
	var out []string
	for _, name := range names {
		for _, v := range q[name] {
			for _, part := range strings.Split(v, ",") {
				if part = strings.TrimSpace(part); part != "" {
					out = append(out, part)
				}
			}
		}
	}
	return out
}

func defaultString(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return strings.ToLower(strings.TrimSpace(v))
}
