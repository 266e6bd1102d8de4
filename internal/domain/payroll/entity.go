package payroll

import (
	"time"

	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/employee"
)

// WorkingHours holds the company's target working hours.
type WorkingHours struct {
	Daily   float64 `json:"daily"`
	Weekly  float64 `json:"weekly"`
	Monthly float64 `json:"monthly"`
	Yearly  float64 `json:"yearly"`
}

// PayrollConfig - Company payroll configuration. Rates are percentages (0-100).
// The pension scheme's employee deduction narrows the taxable base; the health
// scheme's does not.
type PayrollConfig struct {
	ID                  string       `json:"id,omitempty"`
	CompanyID           string       `json:"company_id,omitempty"`
	PensionEmployeeRate float64      `json:"pension_employee_rate"`
	PensionEmployerRate float64      `json:"pension_employer_rate"`
	HealthEmployeeRate  float64      `json:"health_employee_rate"`
	HealthEmployerRate  float64      `json:"health_employer_rate"`
	IncomeTaxRate       float64      `json:"income_tax_rate"`
	OvertimeMultiplier  float64      `json:"overtime_multiplier"`
	WorkingHours        WorkingHours `json:"working_hours"`
	CreatedAt           time.Time    `json:"-"`
	UpdatedAt           time.Time    `json:"-"`
}

// PayrollDetails - Derived, immutable payroll breakdown for one employee.
type PayrollDetails struct {
	WorkerType                  employee.WorkerType `json:"worker_type"`
	BasePay                     float64             `json:"base_pay"`
	OvertimePay                 float64             `json:"overtime_pay"`
	Allowances                  float64             `json:"allowances"`
	Bonus                       float64             `json:"bonus"`
	Reimbursements              float64             `json:"reimbursements"`
	GrossPay                    float64             `json:"gross_pay"`
	PensionEmployeeDeduction    float64             `json:"pension_employee_deduction"`
	PensionEmployerContribution float64             `json:"pension_employer_contribution"`
	HealthEmployeeDeduction     float64             `json:"health_employee_deduction"`
	HealthEmployerContribution  float64             `json:"health_employer_contribution"`
	TaxableBase                 float64             `json:"taxable_base"`
	TaxDeduction                float64             `json:"tax_deduction"`
	OtherDeductions             float64             `json:"other_deductions"`
	TotalDeductions             float64             `json:"total_deductions"`
	NetPay                      float64             `json:"net_pay"`
}

// StatutoryDeductions is the ordered statutory breakdown shared by payroll
// and final settlement.
type StatutoryDeductions struct {
	PensionEmployeeDeduction    float64
	PensionEmployerContribution float64
	HealthEmployeeDeduction     float64
	HealthEmployerContribution  float64
	TaxableBase                 float64
	TaxDeduction                float64
	OtherDeductions             float64
	TotalDeductions             float64
}

// PayrollRunEntry is one employee's settled payroll within a run.
type PayrollRunEntry struct {
	EmployeeID   string         `json:"employee_id"`
	EmployeeName string         `json:"employee_name"`
	EmployeeCode string         `json:"employee_code"`
	Details      PayrollDetails `json:"details"`
}

// PayrollRun - Settlement of record for one pay period. Immutable once created.
type PayrollRun struct {
	ID          string                     `json:"id"`
	CompanyID   string                     `json:"company_id"`
	PeriodMonth int                        `json:"period_month"`
	PeriodYear  int                        `json:"period_year"`
	RunDate     time.Time                  `json:"run_date"`
	Employees   map[string]PayrollRunEntry `json:"employees"`
	CreatedBy   *string                    `json:"created_by,omitempty"`
	CreatedAt   time.Time                  `json:"created_at"`
}

// TotalNetPay sums the net pay of every entry in the run.
func (r PayrollRun) TotalNetPay() float64 {
	total := 0.0
	for _, e := range r.Employees {
		total += e.Details.NetPay
	}
	return total
}

// PreviousPeriod returns the period immediately before the run's period.
func PreviousPeriod(month, year int) (int, int) {
	if month == 1 {
		return 12, year - 1
	}
	return month - 1, year
}

// VarianceType enum
type VarianceType string

const (
	VarianceTypeNew      VarianceType = "new"
	VarianceTypeIncrease VarianceType = "increase"
	VarianceTypeDecrease VarianceType = "decrease"
)

// VarianceSeverity enum
type VarianceSeverity string

const (
	SeverityHigh   VarianceSeverity = "high"
	SeverityMedium VarianceSeverity = "medium"
	SeverityLow    VarianceSeverity = "low"
)

// Rank orders severities high < medium < low.
func (s VarianceSeverity) Rank() int {
	switch s {
	case SeverityHigh:
		return 0
	case SeverityMedium:
		return 1
	case SeverityLow:
		return 2
	default:
		return 3
	}
}

// RankedVariance - Net pay change for one employee between two runs.
type RankedVariance struct {
	EmployeeID      string           `json:"employee_id"`
	EmployeeName    string           `json:"employee_name"`
	Type            VarianceType     `json:"type"`
	Severity        VarianceSeverity `json:"severity"`
	CurrentNetPay   float64          `json:"current_net_pay"`
	PreviousNetPay  float64          `json:"previous_net_pay"`
	Variance        float64          `json:"variance"`
	VariancePercent float64          `json:"variance_percent"`
	Reason          string           `json:"reason"`
}

// VarianceSummary - Run-level totals for a variance analysis.
type VarianceSummary struct {
	TotalCurrent    float64 `json:"total_current"`
	TotalPrevious   float64 `json:"total_previous"`
	TotalVariance   float64 `json:"total_variance"`
	VariancePercent float64 `json:"variance_percent"`
	HighCount       int     `json:"high_count"`
	MediumCount     int     `json:"medium_count"`
	NewCount        int     `json:"new_count"`
	TotalEmployees  int     `json:"total_employees"`
}

// VarianceReport is the output of a variance analysis.
type VarianceReport struct {
	Variances []RankedVariance `json:"variances"`
	Summary   VarianceSummary  `json:"summary"`
}
