package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/offboarding"
	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/schedule"
	"github.com/cmlabs-hris/payroll-rules-engine/internal/pkg/jwt"
	"github.com/cmlabs-hris/payroll-rules-engine/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth
	case errors.Is(err, jwt.ErrMissingCompanyClaim):
		Unauthorized(w, "Company scope missing from token")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeNotActive):
		Conflict(w, "Employee is not active")
	case errors.Is(err, employee.ErrEmployeeAlreadyOffboarded):
		Conflict(w, "Employee already offboarded")
	case errors.Is(err, employee.ErrInvalidWorkerType), errors.Is(err, employee.ErrMissingCompensation):
		UnprocessableEntity(w, "INVALID_COMPENSATION", err.Error())

	// Schedule domain errors
	case errors.Is(err, schedule.ErrShiftNotFound):
		NotFound(w, "Shift not found")
	case errors.Is(err, schedule.ErrInvalidClockTime):
		BadRequest(w, err.Error(), nil)

	// Payroll domain errors
	case errors.Is(err, payroll.ErrPayrollRunNotFound):
		NotFound(w, "Payroll run not found")
	case errors.Is(err, payroll.ErrPayrollConfigNotFound):
		NotFound(w, "Payroll config not found")
	case errors.Is(err, payroll.ErrPayrollRunAlreadyExists):
		Conflict(w, "Payroll run already exists for this period")
	case errors.Is(err, payroll.ErrNoEmployeesToProcess):
		UnprocessableEntity(w, "NO_EMPLOYEES", "No active employees to process")
	case errors.Is(err, payroll.ErrInvalidPeriod):
		BadRequest(w, "Invalid payroll period", nil)

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		Conflict(w, "Already checked in today")
	case errors.Is(err, attendance.ErrAlreadyCheckedOut):
		Conflict(w, "Already checked out")
	case errors.Is(err, attendance.ErrNotCheckedIn):
		BadRequest(w, "Not checked in yet", nil)
	case errors.Is(err, attendance.ErrAlreadyOnBreak):
		Conflict(w, "A break is already in progress")
	case errors.Is(err, attendance.ErrNotOnBreak):
		BadRequest(w, "No break in progress", nil)
	case errors.Is(err, attendance.ErrRulesConfigNotFound):
		NotFound(w, "Attendance rules not found")
	case errors.Is(err, attendance.ErrInvalidTimezone):
		BadRequest(w, "Invalid timezone", nil)

	// Offboarding domain errors
	case errors.Is(err, offboarding.ErrSettlementNotFound):
		NotFound(w, "Final settlement not found")
	case errors.Is(err, offboarding.ErrSettlementExists):
		Conflict(w, "Employee already has a final settlement")
	case errors.Is(err, offboarding.ErrNonFiniteSettlement):
		UnprocessableEntity(w, "NON_FINITE_SETTLEMENT", err.Error())
	case errors.Is(err, offboarding.ErrLastDayBeforeJoin):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
