package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-attendance-metrics/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-attendance-metrics/internal/domain/auth"
	"github.com/cmlabs-hris/hris-attendance-metrics/internal/domain/costrate"
	"github.com/cmlabs-hris/hris-attendance-metrics/internal/domain/report"
	"github.com/cmlabs-hris/hris-attendance-metrics/internal/domain/user"
	"github.com/cmlabs-hris/hris-attendance-metrics/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, err.Error())
	case errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, err.Error())

	// Attendance snapshot
	case errors.Is(err, attendance.ErrSnapshotNotLoaded):
		ServiceUnavailable(w, "Attendance data is still loading, try again shortly")
	case errors.Is(err, attendance.ErrNoRecords):
		NotFound(w, err.Error())

	// Report
	case errors.Is(err, report.ErrInvalidPeriod),
		errors.Is(err, report.ErrInvalidLevel):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, report.ErrNoDataFound):
		NotFound(w, err.Error())

	// Cost rates
	case errors.Is(err, costrate.ErrNegativeRate),
		errors.Is(err, costrate.ErrInvalidRate):
		BadRequest(w, err.Error(), nil)

	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
