package report

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-attendance-metrics/internal/domain/costrate"
	"github.com/cmlabs-hris/hris-attendance-metrics/internal/domain/report"
	"github.com/cmlabs-hris/hris-attendance-metrics/internal/service/metrics"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const CacheKeyPrefix = "attendance:report:"

// Config tunes the report service.
type Config struct {
	// DefaultRate applies when no default rate is stored.
	DefaultRate decimal.NullDecimal
	// CacheTTL is how long rendered reports stay in Redis.
	CacheTTL time.Duration
}

type ReportServiceImpl struct {
	store    *SnapshotStore
	rateRepo costrate.CostRateRepository
	rdb      *redis.Client
	sf       *singleflight.Group
	cfg      Config
	now      func() time.Time
}

// NewReportService builds the service. rateRepo and rdb may be nil: without a
// repository only cfg.DefaultRate prices lost hours, and without Redis nothing
// is cached across requests.
func NewReportService(store *SnapshotStore, rateRepo costrate.CostRateRepository, rdb *redis.Client, cfg Config) report.ReportService {
	return newReportService(store, rateRepo, rdb, cfg)
}

func newReportService(store *SnapshotStore, rateRepo costrate.CostRateRepository, rdb *redis.Client, cfg Config) *ReportServiceImpl {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 10 * time.Minute
	}
	return &ReportServiceImpl{
		store:    store,
		rateRepo: rateRepo,
		rdb:      rdb,
		sf:       &singleflight.Group{},
		cfg:      cfg,
		now:      time.Now,
	}
}

// GetMetrics returns the on-time, completion, lost hour and cost rows for one
// period granularity and level.
func (s *ReportServiceImpl) GetMetrics(ctx context.Context, req report.MetricsRequest) (report.MetricsReport, error) {
	if err := req.Validate(); err != nil {
		return report.MetricsReport{}, err
	}
	period, ok := metrics.ParsePeriod(req.Period)
	if !ok {
		return report.MetricsReport{}, report.ErrInvalidPeriod
	}
	level, ok := metrics.ParseLevel(req.Level)
	if !ok {
		return report.MetricsReport{}, report.ErrInvalidLevel
	}

	snap, err := s.store.Current()
	if err != nil {
		return report.MetricsReport{}, err
	}
	rates, err := s.rates(ctx)
	if err != nil {
		return report.MetricsReport{}, err
	}
	filter := toCriteria(req.FilterRequest)

	key := cacheKey("metrics", snap.Version, filter, rates, period.String(), level.String())
	var out report.MetricsReport
	if s.fromCache(ctx, key, &out) {
		return out, nil
	}

	res, err := s.compute(snap, filter, rates)
	if err != nil {
		return report.MetricsReport{}, err
	}

	printer := newPrinter()
	aggs := res.Rows(period, level)
	rows := make([]report.MetricRow, 0, len(aggs))
	for _, a := range aggs {
		rows = append(rows, toMetricRow(a, printer))
	}

	out = report.MetricsReport{
		Period:          period.String(),
		Level:           level.String(),
		GeneratedAt:     s.now().Format(time.RFC3339),
		SnapshotVersion: snap.Version,
		Included:        res.Included,
		Skipped:         toSkipped(res.Skipped),
		Warnings:        warnings(res, rates),
		Rows:            rows,
	}
	s.toCache(ctx, key, out)
	return out, nil
}

// GetLeaveAdjacency returns the monthly leave-adjacency rows for one level.
func (s *ReportServiceImpl) GetLeaveAdjacency(ctx context.Context, req report.AdjacencyRequest) (report.AdjacencyReport, error) {
	if err := req.Validate(); err != nil {
		return report.AdjacencyReport{}, err
	}
	level, ok := metrics.ParseLevel(req.Level)
	if !ok {
		return report.AdjacencyReport{}, report.ErrInvalidLevel
	}

	snap, err := s.store.Current()
	if err != nil {
		return report.AdjacencyReport{}, err
	}
	rates, err := s.rates(ctx)
	if err != nil {
		return report.AdjacencyReport{}, err
	}
	filter := toCriteria(req.FilterRequest)

	key := cacheKey("adjacency", snap.Version, filter, rates, level.String())
	var out report.AdjacencyReport
	if s.fromCache(ctx, key, &out) {
		return out, nil
	}

	res, err := s.compute(snap, filter, rates)
	if err != nil {
		return report.AdjacencyReport{}, err
	}

	src := res.Adjacency[level]
	rows := make([]report.AdjacencyRow, 0, len(src))
	for _, r := range src {
		rows = append(rows, toAdjacencyRow(r))
	}

	out = report.AdjacencyReport{
		Level:           level.String(),
		GeneratedAt:     s.now().Format(time.RFC3339),
		SnapshotVersion: snap.Version,
		Rows:            rows,
	}
	s.toCache(ctx, key, out)
	return out, nil
}

// GetOverview returns the company-level tabs together with the filter options.
func (s *ReportServiceImpl) GetOverview(ctx context.Context, req report.FilterRequest) (report.OverviewReport, error) {
	if err := req.Validate(); err != nil {
		return report.OverviewReport{}, err
	}

	snap, err := s.store.Current()
	if err != nil {
		return report.OverviewReport{}, err
	}
	filter := toCriteria(req)

	var (
		rates metrics.RateTable
		opts  report.FilterOptions
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rates, err = s.rates(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		opts, err = s.GetFilterOptions(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return report.OverviewReport{}, err
	}

	key := cacheKey("overview", snap.Version, filter, rates)
	var out report.OverviewReport
	if s.fromCache(ctx, key, &out) {
		return out, nil
	}

	res, err := s.compute(snap, filter, rates)
	if err != nil {
		return report.OverviewReport{}, err
	}

	printer := newPrinter()
	out = report.OverviewReport{
		GeneratedAt:     s.now().Format(time.RFC3339),
		SnapshotVersion: snap.Version,
		Warnings:        warnings(res, rates),
		Monthly:         make([]report.MetricRow, 0),
		Weekly:          make([]report.MetricRow, 0),
		Adjacency:       make([]report.AdjacencyRow, 0),
		Options:         opts,
	}
	for _, a := range res.Rows(metrics.PeriodMonth, metrics.LevelCompany) {
		out.Monthly = append(out.Monthly, toMetricRow(a, printer))
	}
	for _, a := range res.Rows(metrics.PeriodWeek, metrics.LevelCompany) {
		out.Weekly = append(out.Weekly, toMetricRow(a, printer))
	}
	for _, r := range res.Adjacency[metrics.LevelCompany] {
		out.Adjacency = append(out.Adjacency, toAdjacencyRow(r))
	}

	s.toCache(ctx, key, out)
	return out, nil
}

// GetFilterOptions lists the values each filter can take in the current snapshot.
func (s *ReportServiceImpl) GetFilterOptions(ctx context.Context) (report.FilterOptions, error) {
	snap, err := s.store.Current()
	if err != nil {
		return report.FilterOptions{}, err
	}
	return toFilterOptions(snap), nil
}

// Refresh reloads the snapshot. Cached reports keyed by the old version are
// left to expire.
func (s *ReportServiceImpl) Refresh(ctx context.Context) (report.SnapshotInfo, error) {
	snap, err := s.store.Refresh(ctx)
	if err != nil {
		return report.SnapshotInfo{}, err
	}
	return snap.Info(), nil
}

// rates merges stored rates over the configured default.
func (s *ReportServiceImpl) rates(ctx context.Context) (metrics.RateTable, error) {
	table := metrics.RateTable{Default: s.cfg.DefaultRate}
	if s.rateRepo == nil {
		return table, nil
	}

	settings, err := s.rateRepo.Get(ctx)
	if err != nil {
		return metrics.RateTable{}, fmt.Errorf("failed to load cost rates: %w", err)
	}
	if settings.DefaultRate.Valid {
		table.Default = settings.DefaultRate
	}
	table.ByFunction = settings.FunctionRates
	return table, nil
}

// compute runs the engine once per distinct (snapshot, filter, rates) even
// when requests for it arrive concurrently.
func (s *ReportServiceImpl) compute(snap *Snapshot, filter metrics.FilterCriteria, rates metrics.RateTable) (*metrics.Result, error) {
	key := cacheKey("compute", snap.Version, filter, rates)
	v, err, shared := s.sf.Do(key, func() (interface{}, error) {
		start := s.now()
		res := metrics.Compute(snap.Records, filter, rates)
		slog.Debug("metrics computed",
			"snapshot", snap.Version,
			"included", res.Included,
			"skipped", res.Skipped.Total(),
			"duration", s.now().Sub(start),
		)
		return res, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", report.ErrReportGenerationFailed, err)
	}
	if shared {
		slog.Debug("metrics computation shared", "snapshot", snap.Version)
	}
	return v.(*metrics.Result), nil
}

func (s *ReportServiceImpl) fromCache(ctx context.Context, key string, dst interface{}) bool {
	if s.rdb == nil {
		return false
	}
	cached, err := s.rdb.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("report cache read failed", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal([]byte(cached), dst); err != nil {
		slog.Warn("report cache entry is corrupt", "key", key, "error", err)
		return false
	}
	return true
}

func (s *ReportServiceImpl) toCache(ctx context.Context, key string, v interface{}) {
	if s.rdb == nil {
		return
	}
	payload, err := json.Marshal(v)
	if err != nil {
		slog.Warn("report cache encode failed", "key", key, "error", err)
		return
	}
	if err := s.rdb.Set(ctx, key, string(payload), s.cfg.CacheTTL).Err(); err != nil {
		slog.Warn("report cache write failed", "key", key, "error", err)
	}
}

type cacheKeyInput struct {
	Kind     string                     `json:"kind"`
	Version  string                     `json:"version"`
	Filter   metrics.FilterCriteria     `json:"filter"`
	Default  decimal.NullDecimal        `json:"default_rate"`
	Rates    map[string]decimal.Decimal `json:"rates"`
	Selector []string                   `json:"selector,omitempty"`
}

// cacheKey hashes everything a rendered report depends on.
func cacheKey(kind, version string, filter metrics.FilterCriteria, rates metrics.RateTable, selector ...string) string {
	payload, _ := json.Marshal(cacheKeyInput{
		Kind:     kind,
		Version:  version,
		Filter:   filter,
		Default:  rates.Default,
		Rates:    rates.ByFunction,
		Selector: selector,
	})
	sum := sha256.Sum256(payload)
	return CacheKeyPrefix + kind + ":" + hex.EncodeToString(sum[:])
}
