package report

import "errors"

var (
	ErrInvalidPeriod          = errors.New("period must be week or month")
	ErrInvalidLevel           = errors.New("level must be user, department, function or company")
	ErrNoDataFound            = errors.New("no data found for the specified criteria")
	ErrReportGenerationFailed = errors.New("failed to generate report")
)
