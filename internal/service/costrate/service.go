package costrate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/cmlabs-hris/hris-attendance-metrics/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-metrics/internal/domain/costrate"
	"github.com/cmlabs-hris/hris-attendance-metrics/internal/pkg/database"
	"github.com/cmlabs-hris/hris-attendance-metrics/internal/repository/postgresql"
	"github.com/shopspring/decimal"
)

type txRunner func(ctx context.Context, fn func(ctx context.Context) error) error

type CostRateServiceImpl struct {
	repo      costrate.CostRateRepository
	functions costrate.FunctionLister
	withTx    txRunner
}

// NewCostRateService wires the service to Postgres. functions may be nil.
func NewCostRateService(db *database.DB, repo costrate.CostRateRepository, functions costrate.FunctionLister) costrate.CostRateService {
	return &CostRateServiceImpl{
		repo:      repo,
		functions: functions,
		withTx: func(ctx context.Context, fn func(ctx context.Context) error) error {
			return postgresql.WithTransaction(ctx, db, fn)
		},
	}
}

// GetRates returns the stored rates and the functions seen in uploads.
func (s *CostRateServiceImpl) GetRates(ctx context.Context) (costrate.RatesResponse, error) {
	settings, err := s.repo.Get(ctx)
	if err != nil {
		return costrate.RatesResponse{}, fmt.Errorf("failed to get cost rates: %w", err)
	}
	return costrate.RatesResponse{
		DefaultRate:   settings.DefaultRate,
		FunctionRates: nonNilRates(settings.FunctionRates),
		Functions:     s.listFunctions(ctx, settings.FunctionRates),
	}, nil
}

// SetDefaultRate stores the fallback rate. A null value removes it.
func (s *CostRateServiceImpl) SetDefaultRate(ctx context.Context, req costrate.SetDefaultRateRequest) (costrate.RatesResponse, error) {
	if err := req.Validate(); err != nil {
		return costrate.RatesResponse{}, err
	}

	if err := s.repo.SetDefault(ctx, req.Value); err != nil {
		return costrate.RatesResponse{}, fmt.Errorf("failed to set default cost rate: %w", err)
	}
	slog.Info("default cost rate updated", "rate", req.Value.Decimal.String(), "cleared", !req.Value.Valid)

	return s.GetRates(ctx)
}

// SetFunctionRates replaces every per-function rate in one transaction.
func (s *CostRateServiceImpl) SetFunctionRates(ctx context.Context, req costrate.SetFunctionRatesRequest) (costrate.RatesResponse, error) {
	if err := req.Validate(); err != nil {
		return costrate.RatesResponse{}, err
	}
	rates := req.Normalized()

	err := s.withTx(ctx, func(ctx context.Context) error {
		return s.repo.ReplaceFunctionRates(ctx, rates)
	})
	if err != nil {
		return costrate.RatesResponse{}, fmt.Errorf("failed to set function cost rates: %w", err)
	}
	slog.Info("function cost rates replaced", "count", len(rates))

	return s.GetRates(ctx)
}

// listFunctions merges uploaded function names with those that already have
// a rate, so stale rates stay visible.
func (s *CostRateServiceImpl) listFunctions(ctx context.Context, rated map[string]decimal.Decimal) []string {
	seen := make(map[string]bool)
	if s.functions != nil {
		names, err := s.functions.Functions(ctx)
		switch {
		case err == nil:
			for _, n := range names {
				seen[n] = true
			}
		case errors.Is(err, attendance.ErrSnapshotNotLoaded):
		default:
			slog.Warn("failed to list attendance functions", "error", err)
		}
	}
	for n := range rated {
		seen[n] = true
	}

	out := make([]string, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func nonNilRates(m map[string]decimal.Decimal) map[string]decimal.Decimal {
	if m == nil {
		return map[string]decimal.Decimal{}
	}
	return m
}
