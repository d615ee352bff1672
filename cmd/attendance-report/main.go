// Command attendance-report computes attendance metrics from an exported
// CSV or Excel sheet and prints them as JSON, without a database.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/cmlabs-hris/hris-attendance-metrics/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-metrics/internal/domain/costrate"
	"github.com/cmlabs-hris/hris-attendance-metrics/internal/domain/report"
	"github.com/cmlabs-hris/hris-attendance-metrics/internal/pkg/sheet"
	reportService "github.com/cmlabs-hris/hris-attendance-metrics/internal/service/report"
	"github.com/shopspring/decimal"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

type options struct {
	path    string
	kind    string
	request report.MetricsRequest
	rates   costrate.RateSettings
}

func parseArgs(args []string) (options, error) {
	fs := flag.NewFlagSet("attendance-report", flag.ContinueOnError)

	var (
		opts          options
		rate          string
		functionRates = rateFlag{}
		companies     listFlag
		functions     listFlag
		departments   listFlag
		users         listFlag
		months        listFlag
		weeks         listFlag
	)
	fs.StringVar(&opts.kind, "report", "metrics", "report to print: metrics or adjacency")
	fs.StringVar(&opts.request.Period, "period", "month", "period granularity: week or month")
	fs.StringVar(&opts.request.Level, "level", "company", "grouping level: user, department, function or company")
	fs.StringVar(&rate, "rate", "", "default cost per lost hour")
	fs.Var(functionRates, "function-rate", "per-function cost as Name=Rate, repeatable")
	fs.Var(&companies, "company", "company filter, comma-separated")
	fs.Var(&functions, "function", "function filter, comma-separated")
	fs.Var(&departments, "department", "department filter, comma-separated")
	fs.Var(&users, "user", "employee code filter, comma-separated")
	fs.Var(&months, "month", "month filter as YYYY-MM, comma-separated")
	fs.Var(&weeks, "week", "week-of-month filter, comma-separated")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if fs.NArg() != 1 {
		return options{}, errors.New("usage: attendance-report [flags] <file.csv|file.xlsx>")
	}
	opts.path = fs.Arg(0)

	if opts.kind != "metrics" && opts.kind != "adjacency" {
		return options{}, fmt.Errorf("unknown report %q", opts.kind)
	}

	if rate != "" {
		d, err := decimal.NewFromString(rate)
		if err != nil {
			return options{}, fmt.Errorf("invalid -rate: %w", err)
		}
		opts.rates.DefaultRate = decimal.NewNullDecimal(d)
	}
	opts.rates.FunctionRates = functionRates

	opts.request.Companies = companies
	opts.request.Functions = functions
	opts.request.Departments = departments
	opts.request.Users = users
	opts.request.Months = months
	for _, w := range weeks {
		n, err := strconv.Atoi(w)
		if err != nil {
			return options{}, fmt.Errorf("invalid -week %q", w)
		}
		opts.request.Weeks = append(opts.request.Weeks, n)
	}

	return opts, nil
}

func run(args []string, out io.Writer) error {
	opts, err := parseArgs(args)
	if err != nil {
		return err
	}

	rows, err := sheet.ReadFile(opts.path)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return attendance.ErrNoRecords
	}

	store := reportService.NewSnapshotStore(nil)
	store.Load(attendance.FromRows(rows))
	svc := reportService.NewReportService(store, staticRates(opts.rates), nil, reportService.Config{})

	ctx := context.Background()
	var result interface{}
	switch opts.kind {
	case "adjacency":
		result, err = svc.GetLeaveAdjacency(ctx, report.AdjacencyRequest{
			FilterRequest: opts.request.FilterRequest,
			Level:         opts.request.Level,
		})
	default:
		result, err = svc.GetMetrics(ctx, opts.request)
	}
	if err != nil {
		return err
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// staticRates serves rates given on the command line.
type staticRates costrate.RateSettings

func (s staticRates) Get(ctx context.Context) (costrate.RateSettings, error) {
	return costrate.RateSettings(s), nil
}

func (s staticRates) SetDefault(ctx context.Context, rate decimal.NullDecimal) error {
	return errors.New("rates are read-only")
}

func (s staticRates) ReplaceFunctionRates(ctx context.Context, rates map[string]decimal.Decimal) error {
	return errors.New("rates are read-only")
}

type listFlag []string

func (l *listFlag) String() string { return strings.Join(*l, ",") }

func (l *listFlag) Set(v string) error {
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			*l = append(*l, part)
		}
	}
	return nil
}

type rateFlag map[string]decimal.Decimal

func (r rateFlag) String() string {
	parts := make([]string, 0, len(r))
	for name, rate := range r {
		parts = append(parts, name+"="+rate.String())
	}
	return strings.Join(parts, ",")
}

func (r rateFlag) Set(v string) error {
	name, raw, ok := strings.Cut(v, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return fmt.Errorf("expected Name=Rate, got %q", v)
	}
	rate, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("invalid rate for %q: %w", name, err)
	}
	if rate.IsNegative() {
		return fmt.Errorf("rate for %q must be non-negative", name)
	}
	r[name] = rate
	return nil
}
