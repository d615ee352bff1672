package costrate

import "context"

// CostRateService manages the hourly rates used to price lost hours.
type CostRateService interface {
	GetRates(ctx context.Context) (RatesResponse, error)
	SetDefaultRate(ctx context.Context, req SetDefaultRateRequest) (RatesResponse, error)
	SetFunctionRates(ctx context.Context, req SetFunctionRatesRequest) (RatesResponse, error)
}

// FunctionLister supplies the function names present in uploaded data.
type FunctionLister interface {
	Functions(ctx context.Context) ([]string, error)
}
