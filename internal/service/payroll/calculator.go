package payroll

import (
	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/payroll"
)

type payComponents struct {
	base      float64
	overtime  float64
	statutory bool
}

// CalculatePayroll computes one employee's payroll breakdown. It is pure and
// performs no validation; negative amounts flow straight through.
func CalculatePayroll(emp employee.Employee, cfg payroll.PayrollConfig) payroll.PayrollDetails {
	pay := employee.MatchCompensation(emp.Compensation,
		func(s employee.Salaried) payComponents {
			return payComponents{base: s.Salary, overtime: s.Overtime, statutory: true}
		},
		func(h employee.Hourly) payComponents {
			return payComponents{
				base:      h.HourlyRate * h.HoursWorked,
				overtime:  h.OvertimeHours * h.HourlyRate * cfg.OvertimeMultiplier,
				statutory: true,
			}
		},
		// Contractor overtime is a flat amount and contractors are exempt
		// from statutory schemes.
		func(c employee.Contractor) payComponents {
			return payComponents{base: c.ContractAmount, overtime: c.Overtime}
		},
	)

	details := payroll.PayrollDetails{
		WorkerType:     emp.WorkerType(),
		BasePay:        pay.base,
		OvertimePay:    pay.overtime,
		Allowances:     emp.Allowances,
		Bonus:          emp.Bonus,
		Reimbursements: emp.Reimbursements,
	}
	details.GrossPay = details.BasePay + details.OvertimePay + details.Allowances + details.Bonus + details.Reimbursements

	if !pay.statutory {
		details.OtherDeductions = emp.Deductions
		details.TotalDeductions = emp.Deductions
		details.NetPay = details.GrossPay - details.TotalDeductions
		return details
	}

	d := ApplyStatutoryDeductions(details.GrossPay, emp.Deductions, cfg)
	details.PensionEmployeeDeduction = d.PensionEmployeeDeduction
	details.PensionEmployerContribution = d.PensionEmployerContribution
	details.HealthEmployeeDeduction = d.HealthEmployeeDeduction
	details.HealthEmployerContribution = d.HealthEmployerContribution
	details.TaxableBase = d.TaxableBase
	details.TaxDeduction = d.TaxDeduction
	details.OtherDeductions = d.OtherDeductions
	details.TotalDeductions = d.TotalDeductions
	details.NetPay = details.GrossPay - details.TotalDeductions
	return details
}

// ApplyStatutoryDeductions runs the statutory chain over a gross amount.
// Order is fixed: pension, health, taxable base (gross less pension only),
// tax on that base, then the total including other deductions.
func ApplyStatutoryDeductions(gross, other float64, cfg payroll.PayrollConfig) payroll.StatutoryDeductions {
	var d payroll.StatutoryDeductions

	d.PensionEmployeeDeduction = gross * cfg.PensionEmployeeRate / 100
	d.PensionEmployerContribution = gross * cfg.PensionEmployerRate / 100

	d.HealthEmployeeDeduction = gross * cfg.HealthEmployeeRate / 100
	d.HealthEmployerContribution = gross * cfg.HealthEmployerRate / 100

	d.TaxableBase = gross - d.PensionEmployeeDeduction
	d.TaxDeduction = d.TaxableBase * cfg.IncomeTaxRate / 100

	d.OtherDeductions = other
	d.TotalDeductions = d.PensionEmployeeDeduction + d.HealthEmployeeDeduction + d.TaxDeduction + other
	return d
}
