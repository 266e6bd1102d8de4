package payroll

import (
	"testing"

	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/payroll"
	"github.com/stretchr/testify/assert"
)

const delta = 1e-9

func testConfig() payroll.PayrollConfig {
	return payroll.PayrollConfig{
		PensionEmployeeRate: 5,
		PensionEmployerRate: 5,
		HealthEmployeeRate:  1,
		HealthEmployerRate:  1,
		IncomeTaxRate:       25,
		OvertimeMultiplier:  1.5,
		WorkingHours:        payroll.WorkingHours{Daily: 8, Weekly: 40, Monthly: 173, Yearly: 2080},
	}
}

func TestCalculatePayroll_Salaried(t *testing.T) {
	emp := employee.Employee{
		ID:           "e1",
		Compensation: employee.Salaried{Salary: 10000},
		Allowances:   500,
	}

	d := CalculatePayroll(emp, testConfig())

	assert.Equal(t, employee.WorkerTypeSalaried, d.WorkerType)
	assert.InDelta(t, 10000, d.BasePay, delta)
	assert.InDelta(t, 10500, d.GrossPay, delta)
	assert.InDelta(t, 525, d.PensionEmployeeDeduction, delta)
	assert.InDelta(t, 525, d.PensionEmployerContribution, delta)
	assert.InDelta(t, 9975, d.TaxableBase, delta)
	assert.InDelta(t, 2493.75, d.TaxDeduction, delta)
	assert.InDelta(t, 105, d.HealthEmployeeDeduction, delta)
	assert.InDelta(t, 105, d.HealthEmployerContribution, delta)
	assert.InDelta(t, 3123.75, d.TotalDeductions, delta)
	assert.InDelta(t, 7376.25, d.NetPay, delta)
}

func TestCalculatePayroll_Hourly(t *testing.T) {
	emp := employee.Employee{
		ID:           "e2",
		Compensation: employee.Hourly{HourlyRate: 50, HoursWorked: 160, OvertimeHours: 10},
	}

	d := CalculatePayroll(emp, testConfig())

	assert.InDelta(t, 8000, d.BasePay, delta)
	assert.InDelta(t, 750, d.OvertimePay, delta)
	assert.InDelta(t, 8750, d.GrossPay, delta)
	assert.InDelta(t, 437.5, d.PensionEmployeeDeduction, delta)
	assert.InDelta(t, 87.5, d.HealthEmployeeDeduction, delta)
	assert.InDelta(t, 8312.5, d.TaxableBase, delta)
	assert.InDelta(t, 2078.125, d.TaxDeduction, delta)
	assert.InDelta(t, 2603.125, d.TotalDeductions, delta)
	assert.InDelta(t, 6146.875, d.NetPay, delta)
}

func TestCalculatePayroll_OvertimeIsFlatOutsideHourly(t *testing.T) {
	cfg := testConfig()

	salaried := CalculatePayroll(employee.Employee{Compensation: employee.Salaried{Salary: 1000, Overtime: 10}}, cfg)
	assert.InDelta(t, 10, salaried.OvertimePay, delta)

	contractor := CalculatePayroll(employee.Employee{Compensation: employee.Contractor{ContractAmount: 1000, Overtime: 10}}, cfg)
	assert.InDelta(t, 10, contractor.OvertimePay, delta)
}

func TestCalculatePayroll_ContractorExemption(t *testing.T) {
	emp := employee.Employee{
		Compensation:   employee.Contractor{ContractAmount: 4000, Overtime: 200},
		Allowances:     100,
		Bonus:          50,
		Reimbursements: 25,
		Deductions:     300,
	}

	d := CalculatePayroll(emp, testConfig())

	assert.Equal(t, employee.WorkerTypeContractor, d.WorkerType)
	assert.InDelta(t, 4375, d.GrossPay, delta)
	assert.Zero(t, d.PensionEmployeeDeduction)
	assert.Zero(t, d.PensionEmployerContribution)
	assert.Zero(t, d.HealthEmployeeDeduction)
	assert.Zero(t, d.HealthEmployerContribution)
	assert.Zero(t, d.TaxDeduction)
	assert.InDelta(t, 300, d.TotalDeductions, delta)
	assert.InDelta(t, 4075, d.NetPay, delta)
}

func TestCalculatePayroll_Invariants(t *testing.T) {
	employees := []employee.Employee{
		{Compensation: employee.Salaried{Salary: 12345.67, Overtime: 321}, Allowances: 10, Bonus: 20, Reimbursements: 30, Deductions: 40},
		{Compensation: employee.Hourly{HourlyRate: 17.5, HoursWorked: 151, OvertimeHours: 7.25}, Allowances: 99, Deductions: 12},
		{Compensation: employee.Contractor{ContractAmount: 9000, Overtime: 500}, Bonus: 1000, Deductions: 250},
		{Compensation: employee.Salaried{Salary: -100}, Deductions: -5},
	}

	for _, emp := range employees {
		d := CalculatePayroll(emp, testConfig())
		assert.InDelta(t, d.BasePay+d.OvertimePay+d.Allowances+d.Bonus+d.Reimbursements, d.GrossPay, delta)
		assert.InDelta(t, d.GrossPay-d.TotalDeductions, d.NetPay, delta)
		assert.Equal(t, d, CalculatePayroll(emp, testConfig()), "deterministic")
	}
}

func TestCalculatePayroll_HealthRateDoesNotAffectTax(t *testing.T) {
	emp := employee.Employee{Compensation: employee.Salaried{Salary: 10000}, Allowances: 500}

	low := testConfig()
	high := testConfig()
	high.HealthEmployeeRate = 12

	a := CalculatePayroll(emp, low)
	b := CalculatePayroll(emp, high)

	assert.Equal(t, a.TaxableBase, b.TaxableBase)
	assert.Equal(t, a.TaxDeduction, b.TaxDeduction)
	assert.Greater(t, b.HealthEmployeeDeduction, a.HealthEmployeeDeduction)
	assert.Less(t, b.NetPay, a.NetPay)
}

func TestApplyStatutoryDeductions_EmployerSideNotDeducted(t *testing.T) {
	cfg := testConfig()
	cfg.PensionEmployerRate = 50
	cfg.HealthEmployerRate = 50

	d := ApplyStatutoryDeductions(1000, 0, cfg)

	assert.InDelta(t, 500, d.PensionEmployerContribution, delta)
	assert.InDelta(t, 500, d.HealthEmployerContribution, delta)
	assert.InDelta(t, 50+10+237.5, d.TotalDeductions, delta)
}
