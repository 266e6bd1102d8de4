package payroll

import (
	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-rules-engine/internal/pkg/validator"
)

// ========== CONFIG DTOs ==========

type UpdatePayrollConfigRequest struct {
	PensionEmployeeRate *float64      `json:"pension_employee_rate,omitempty"`
	PensionEmployerRate *float64      `json:"pension_employer_rate,omitempty"`
	HealthEmployeeRate  *float64      `json:"health_employee_rate,omitempty"`
	HealthEmployerRate  *float64      `json:"health_employer_rate,omitempty"`
	IncomeTaxRate       *float64      `json:"income_tax_rate,omitempty"`
	OvertimeMultiplier  *float64      `json:"overtime_multiplier,omitempty"`
	WorkingHours        *WorkingHours `json:"working_hours,omitempty"`
}

func (r *UpdatePayrollConfigRequest) Validate() error {
	var errs validator.ValidationErrors

	rates := []struct {
		field string
		value *float64
	}{
		{"pension_employee_rate", r.PensionEmployeeRate},
		{"pension_employer_rate", r.PensionEmployerRate},
		{"health_employee_rate", r.HealthEmployeeRate},
		{"health_employer_rate", r.HealthEmployerRate},
		{"income_tax_rate", r.IncomeTaxRate},
	}
	for _, rate := range rates {
		if rate.value != nil && (*rate.value < 0 || *rate.value > 100) {
			errs = append(errs, validator.ValidationError{Field: rate.field, Message: "must be between 0 and 100"})
		}
	}

	if r.OvertimeMultiplier != nil && *r.OvertimeMultiplier < 0 {
		errs = append(errs, validator.ValidationError{Field: "overtime_multiplier", Message: "must be non-negative"})
	}

	if r.WorkingHours != nil {
		wh := r.WorkingHours
		if wh.Daily < 0 || wh.Weekly < 0 || wh.Monthly < 0 || wh.Yearly < 0 {
			errs = append(errs, validator.ValidationError{Field: "working_hours", Message: "must be non-negative"})
		}
		if wh.Daily > 24 {
			errs = append(errs, validator.ValidationError{Field: "working_hours.daily", Message: "must not exceed 24"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Apply returns a copy of cfg with the request's non-nil fields applied.
func (r *UpdatePayrollConfigRequest) Apply(cfg PayrollConfig) PayrollConfig {
	if r.PensionEmployeeRate != nil {
		cfg.PensionEmployeeRate = *r.PensionEmployeeRate
	}
	if r.PensionEmployerRate != nil {
		cfg.PensionEmployerRate = *r.PensionEmployerRate
	}
	if r.HealthEmployeeRate != nil {
		cfg.HealthEmployeeRate = *r.HealthEmployeeRate
	}
	if r.HealthEmployerRate != nil {
		cfg.HealthEmployerRate = *r.HealthEmployerRate
	}
	if r.IncomeTaxRate != nil {
		cfg.IncomeTaxRate = *r.IncomeTaxRate
	}
	if r.OvertimeMultiplier != nil {
		cfg.OvertimeMultiplier = *r.OvertimeMultiplier
	}
	if r.WorkingHours != nil {
		cfg.WorkingHours = *r.WorkingHours
	}
	return cfg
}

// ========== CALCULATION DTOs ==========

type CalculatePayrollRequest struct {
	Employee employee.EmployeeInput `json:"employee"`
	// Config overrides the company config when present.
	Config *PayrollConfig `json:"config,omitempty"`
}

func (r *CalculatePayrollRequest) Validate() error {
	return r.Employee.Validate()
}

type VarianceRequest struct {
	Employees []employee.EmployeeInput `json:"employees"`
	Current   map[string]PayrollDetails `json:"current"`
	Previous  *PayrollRun               `json:"previous,omitempty"`
}

func (r *VarianceRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.Employees) == 0 {
		errs = append(errs, validator.ValidationError{Field: "employees", Message: "at least one employee is required"})
	}
	for i := range r.Employees {
		if validator.IsEmpty(r.Employees[i].ID) {
			errs = append(errs, validator.ValidationError{Field: "employees[" + validator.Itoa(i) + "].id", Message: "is required"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========== RUN DTOs ==========

type GeneratePayrollRunRequest struct {
	PeriodMonth int `json:"period_month"`
	PeriodYear  int `json:"period_year"`
}

func (r *GeneratePayrollRunRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.PeriodMonth < 1 || r.PeriodMonth > 12 {
		errs = append(errs, validator.ValidationError{Field: "period_month", Message: "must be between 1 and 12"})
	}
	if r.PeriodYear < 2020 {
		errs = append(errs, validator.ValidationError{Field: "period_year", Message: "must be 2020 or later"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type PayrollRunResponse struct {
	Run      PayrollRun     `json:"run"`
	Variance VarianceReport `json:"variance"`
}

type PayrollRunFilter struct {
	PeriodMonth *int `json:"period_month,omitempty"`
	PeriodYear  *int `json:"period_year,omitempty"`
	Page        int  `json:"page"`
	Limit       int  `json:"limit"`
}

func (f *PayrollRunFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{Field: "page", Message: "page must be a positive number"})
	}
	if f.Page == 0 {
		f.Page = 1
	}
	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{Field: "limit", Message: "limit must be a positive number"})
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{Field: "limit", Message: "limit must not exceed 100"})
	}
	if f.PeriodMonth != nil && (*f.PeriodMonth < 1 || *f.PeriodMonth > 12) {
		errs = append(errs, validator.ValidationError{Field: "period_month", Message: "must be between 1 and 12"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ListPayrollRunResponse struct {
	Data       []PayrollRun `json:"data"`
	TotalCount int64        `json:"total_count"`
	Page       int          `json:"page"`
	Limit      int          `json:"limit"`
}
