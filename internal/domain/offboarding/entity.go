package offboarding

import (
	"math"
	"time"

	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/employee"
)

// FinalSettlement - End-of-employment payout snapshot. Immutable once recorded.
type FinalSettlement struct {
	ID                          string                    `json:"id,omitempty"`
	CompanyID                   string                    `json:"company_id,omitempty"`
	EmployeeID                  string                    `json:"employee_id"`
	EmploymentStatus            employee.EmploymentStatus `json:"employment_status,omitempty"`
	LastWorkingDay              time.Time                 `json:"last_working_day"`
	DaysInMonth                 int                       `json:"days_in_month"`
	DaysWorked                  int                       `json:"days_worked"`
	DailyRate                   float64                   `json:"daily_rate"`
	ProratedSalary              float64                   `json:"prorated_salary"`
	LeavePayout                 float64                   `json:"leave_payout"`
	YearsOfService              int                       `json:"years_of_service"`
	GratuityMonths              float64                   `json:"gratuity_months"`
	GratuityAmount              float64                   `json:"gratuity_amount"`
	AdditionalPayout            float64                   `json:"additional_payout"`
	Allowances                  float64                   `json:"allowances"`
	Bonus                       float64                   `json:"bonus"`
	GrossFinalPay               float64                   `json:"gross_final_pay"`
	PensionEmployeeDeduction    float64                   `json:"pension_employee_deduction"`
	PensionEmployerContribution float64                   `json:"pension_employer_contribution"`
	HealthEmployeeDeduction     float64                   `json:"health_employee_deduction"`
	HealthEmployerContribution  float64                   `json:"health_employer_contribution"`
	TaxableBase                 float64                   `json:"taxable_base"`
	TaxDeduction                float64                   `json:"tax_deduction"`
	OtherDeductions             float64                   `json:"other_deductions"`
	TotalDeductions             float64                   `json:"total_deductions"`
	NetFinalPay                 float64                   `json:"net_final_pay"`
	CreatedBy                   *string                   `json:"created_by,omitempty"`
	CreatedAt                   time.Time                 `json:"created_at,omitempty"`
}

// IsFinite reports whether every monetary amount is a finite number.
// A zero years-of-service gratuity produces Inf or NaN.
func (s FinalSettlement) IsFinite() bool {
	for _, v := range []float64{
		s.DailyRate, s.ProratedSalary, s.LeavePayout, s.GratuityAmount,
		s.AdditionalPayout, s.Allowances, s.Bonus, s.GrossFinalPay,
		s.PensionEmployeeDeduction, s.PensionEmployerContribution,
		s.HealthEmployeeDeduction, s.HealthEmployerContribution,
		s.TaxableBase, s.TaxDeduction, s.OtherDeductions,
		s.TotalDeductions, s.NetFinalPay,
	} {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return false
		}
	}
	return true
}
