package attendance

import (
	"errors"
	"time"

	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/schedule"
	"github.com/cmlabs-hris/payroll-rules-engine/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

type ClockRequest struct {
	EmployeeID string `json:"employee_id"`
}

func (r *ClockRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AttendanceResponse struct {
	AttendanceRecord
	Break *BreakValidation `json:"break,omitempty"`
}

// EvaluateRequest feeds caller-supplied timestamps through the rules engine.
// Rules overrides individual fields of the company's stored rules (or the
// defaults without a company). Config falls back to the stored settings.
type EvaluateRequest struct {
	CheckIn      string                    `json:"check_in"`
	CheckOut     *string                   `json:"check_out,omitempty"`
	BreakMinutes int                       `json:"break_minutes"`
	Shift        *schedule.Shift           `json:"shift,omitempty"`
	Rules        *UpdateRulesConfigRequest `json:"rules,omitempty"`
	Config       *payroll.PayrollConfig    `json:"config,omitempty"`

	CheckInAt  time.Time  `json:"-"`
	CheckOutAt *time.Time `json:"-"`
}

func (r *EvaluateRequest) Validate() error {
	var errs validator.ValidationErrors

	in, ok := validator.IsValidDateTime(r.CheckIn)
	if !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "check_in",
			Message: "check_in must be an RFC3339 timestamp",
		})
	} else {
		r.CheckInAt = in
	}

	if r.CheckOut != nil {
		out, ok := validator.IsValidDateTime(*r.CheckOut)
		switch {
		case !ok:
			errs = append(errs, validator.ValidationError{
				Field:   "check_out",
				Message: "check_out must be an RFC3339 timestamp",
			})
		case !r.CheckInAt.IsZero() && out.Before(r.CheckInAt):
			errs = append(errs, validator.ValidationError{
				Field:   "check_out",
				Message: "check_out must not be before check_in",
			})
		default:
			r.CheckOutAt = &out
		}
	}

	if r.BreakMinutes < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "break_minutes",
			Message: "break_minutes must not be negative",
		})
	}

	if r.Rules != nil {
		if err := r.Rules.Validate(); err != nil {
			var ruleErrs validator.ValidationErrors
			if errors.As(err, &ruleErrs) {
				for _, e := range ruleErrs {
					e.Field = "rules." + e.Field
					errs = append(errs, e)
				}
			}
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type EvaluateResponse struct {
	Status            Status          `json:"status"`
	LateMinutes       int             `json:"late_minutes"`
	WorkedMinutes     int             `json:"worked_minutes"`
	OvertimeMinutes   int             `json:"overtime_minutes"`
	EarlyLeaveMinutes int             `json:"early_leave_minutes"`
	IsHalfDay         bool            `json:"is_half_day"`
	IsWeekend         bool            `json:"is_weekend"`
	Break             BreakValidation `json:"break"`
}

type SummaryRequest struct {
	Date string `json:"date"`

	Day time.Time `json:"-"`
}

func (r *SummaryRequest) Validate() error {
	var errs validator.ValidationErrors

	day, ok := validator.IsValidDate(r.Date)
	if !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}
	r.Day = day

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========================================
// RULES DTOs
// ========================================

type UpdateRulesConfigRequest struct {
	GraceMinutes          *int           `json:"grace_minutes,omitempty"`
	HalfDayThresholdHours *float64       `json:"half_day_threshold_hours,omitempty"`
	AutoAbsentAfterHours  *float64       `json:"auto_absent_after_hours,omitempty"`
	MaxBreakMinutes       *int           `json:"max_break_minutes,omitempty"`
	OvertimeAfterMinutes  *int           `json:"overtime_after_minutes,omitempty"`
	WeekendDays           []time.Weekday `json:"weekend_days,omitempty"`
	Timezone              *string        `json:"timezone,omitempty"`
}

func (r *UpdateRulesConfigRequest) Validate() error {
	var errs validator.ValidationErrors

	nonNegative := func(field string, v *int) {
		if v != nil && *v < 0 {
			errs = append(errs, validator.ValidationError{Field: field, Message: field + " must not be negative"})
		}
	}
	nonNegative("grace_minutes", r.GraceMinutes)
	nonNegative("max_break_minutes", r.MaxBreakMinutes)
	nonNegative("overtime_after_minutes", r.OvertimeAfterMinutes)

	if r.HalfDayThresholdHours != nil && (*r.HalfDayThresholdHours < 0 || *r.HalfDayThresholdHours > 24) {
		errs = append(errs, validator.ValidationError{Field: "half_day_threshold_hours", Message: "half_day_threshold_hours must be between 0 and 24"})
	}
	if r.AutoAbsentAfterHours != nil && (*r.AutoAbsentAfterHours < 0 || *r.AutoAbsentAfterHours > 24) {
		errs = append(errs, validator.ValidationError{Field: "auto_absent_after_hours", Message: "auto_absent_after_hours must be between 0 and 24"})
	}

	for _, d := range r.WeekendDays {
		if d < time.Sunday || d > time.Saturday {
			errs = append(errs, validator.ValidationError{Field: "weekend_days", Message: "weekend_days must contain values 0 (Sunday) to 6 (Saturday)"})
			break
		}
	}

	if r.Timezone != nil {
		if _, err := time.LoadLocation(*r.Timezone); err != nil {
			errs = append(errs, validator.ValidationError{Field: "timezone", Message: ErrInvalidTimezone.Error()})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Apply returns a copy of rules with the request's set fields applied.
func (r *UpdateRulesConfigRequest) Apply(rules RulesConfig) RulesConfig {
	if r.GraceMinutes != nil {
		rules.GraceMinutes = *r.GraceMinutes
	}
	if r.HalfDayThresholdHours != nil {
		rules.HalfDayThresholdHours = *r.HalfDayThresholdHours
	}
	if r.AutoAbsentAfterHours != nil {
		rules.AutoAbsentAfterHours = *r.AutoAbsentAfterHours
	}
	if r.MaxBreakMinutes != nil {
		rules.MaxBreakMinutes = *r.MaxBreakMinutes
	}
	if r.OvertimeAfterMinutes != nil {
		rules.OvertimeAfterMinutes = *r.OvertimeAfterMinutes
	}
	if r.WeekendDays != nil {
		rules.WeekendDays = append([]time.Weekday(nil), r.WeekendDays...)
	}
	if r.Timezone != nil {
		rules.Timezone = *r.Timezone
	}
	return rules
}
