package offboarding

import (
	"time"

	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-rules-engine/internal/pkg/validator"
)

type PreviewSettlementRequest struct {
	Employee         employee.EmployeeInput `json:"employee"`
	LastWorkingDay   string                 `json:"last_working_day"`
	GratuityMonths   float64                `json:"gratuity_months"`
	AdditionalPayout float64                `json:"additional_payout"`
	Config           *payroll.PayrollConfig `json:"config,omitempty"`

	LastDay time.Time `json:"-"`
}

func (r *PreviewSettlementRequest) Validate() error {
	var errs validator.ValidationErrors

	if err := r.Employee.Validate(); err != nil {
		if ve, ok := err.(validator.ValidationErrors); ok {
			for _, e := range ve {
				errs = append(errs, validator.ValidationError{Field: "employee." + e.Field, Message: e.Message})
			}
		} else {
			return err
		}
	}
	errs = append(errs, validateTerms(r.LastWorkingDay, r.GratuityMonths, r.AdditionalPayout, &r.LastDay)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CreateSettlementRequest struct {
	EmployeeID       string                    `json:"employee_id"`
	LastWorkingDay   string                    `json:"last_working_day"`
	GratuityMonths   float64                   `json:"gratuity_months"`
	AdditionalPayout float64                   `json:"additional_payout"`
	Status           employee.EmploymentStatus `json:"status"`

	LastDay time.Time `json:"-"`
}

func (r *CreateSettlementRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id is required"})
	}
	if r.Status == "" {
		r.Status = employee.EmploymentStatusResigned
	}
	if r.Status != employee.EmploymentStatusResigned && r.Status != employee.EmploymentStatusTerminated {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "status must be resigned or terminated"})
	}
	errs = append(errs, validateTerms(r.LastWorkingDay, r.GratuityMonths, r.AdditionalPayout, &r.LastDay)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateTerms(lastWorkingDay string, gratuityMonths, additionalPayout float64, out *time.Time) validator.ValidationErrors {
	var errs validator.ValidationErrors

	day, ok := validator.IsValidDate(lastWorkingDay)
	if !ok {
		errs = append(errs, validator.ValidationError{Field: "last_working_day", Message: "last_working_day must be in YYYY-MM-DD format"})
	}
	*out = day

	if gratuityMonths < 0 {
		errs = append(errs, validator.ValidationError{Field: "gratuity_months", Message: "gratuity_months must not be negative"})
	}
	if additionalPayout < 0 {
		errs = append(errs, validator.ValidationError{Field: "additional_payout", Message: "additional_payout must not be negative"})
	}
	return errs
}
