package offboarding

import (
	"math"
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/payroll"
	"github.com/stretchr/testify/assert"
)

const delta = 1e-9

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testConfig() payroll.PayrollConfig {
	return payroll.PayrollConfig{
		PensionEmployeeRate: 5,
		PensionEmployerRate: 5,
		HealthEmployeeRate:  1,
		HealthEmployerRate:  1,
		IncomeTaxRate:       25,
		OvertimeMultiplier:  1.5,
	}
}

func TestComputeFinalSettlement(t *testing.T) {
	emp := employee.Employee{
		ID:                 "e1",
		Compensation:       employee.Salaried{Salary: 3000},
		Allowances:         50,
		AnnualLeaveBalance: 5,
		JoinDate:           date(2020, time.March, 1),
	}

	s := ComputeFinalSettlement(emp, date(2024, time.June, 15), testConfig(), 2, 100)

	assert.Equal(t, 30, s.DaysInMonth)
	assert.Equal(t, 15, s.DaysWorked)
	assert.InDelta(t, 100, s.DailyRate, delta)
	assert.InDelta(t, 1500, s.ProratedSalary, delta)
	assert.InDelta(t, 500, s.LeavePayout, delta)
	assert.Equal(t, 4, s.YearsOfService)
	assert.InDelta(t, 6000, s.GratuityAmount, delta)
	assert.InDelta(t, 8150, s.GrossFinalPay, delta)
	assert.InDelta(t, 407.5, s.PensionEmployeeDeduction, delta)
	assert.InDelta(t, 81.5, s.HealthEmployeeDeduction, delta)
	assert.InDelta(t, 7742.5, s.TaxableBase, delta)
	assert.InDelta(t, 1935.625, s.TaxDeduction, delta)
	assert.InDelta(t, 2424.625, s.TotalDeductions, delta)
	assert.InDelta(t, 5725.375, s.NetFinalPay, delta)
	assert.True(t, s.IsFinite())
}

func TestComputeFinalSettlement_ZeroYearsOfServiceGratuity(t *testing.T) {
	emp := employee.Employee{
		Compensation: employee.Salaried{Salary: 3000},
		JoinDate:     date(2023, time.July, 15),
	}

	s := ComputeFinalSettlement(emp, date(2024, time.June, 15), testConfig(), 2, 0)

	assert.Equal(t, 0, s.YearsOfService)
	assert.True(t, math.IsInf(s.GratuityAmount, 1))
	assert.True(t, math.IsInf(s.GrossFinalPay, 1))
	assert.True(t, math.IsNaN(s.NetFinalPay))
	assert.False(t, s.IsFinite())

	noGratuity := ComputeFinalSettlement(emp, date(2024, time.June, 15), testConfig(), 0, 0)
	assert.Zero(t, noGratuity.GratuityAmount)
	assert.True(t, noGratuity.IsFinite())
}

func TestComputeFinalSettlement_WorkerTypes(t *testing.T) {
	last := date(2024, time.February, 10)
	join := date(2010, time.January, 1)

	hourly := ComputeFinalSettlement(employee.Employee{
		Compensation: employee.Hourly{HourlyRate: 20, HoursWorked: 100, Salary: 2900},
		JoinDate:     join,
	}, last, testConfig(), 0, 0)
	assert.Equal(t, 29, hourly.DaysInMonth)
	assert.InDelta(t, 100, hourly.DailyRate, delta)
	assert.InDelta(t, 1000, hourly.ProratedSalary, delta)

	contractor := ComputeFinalSettlement(employee.Employee{
		Compensation: employee.Contractor{ContractAmount: 2900},
		JoinDate:     join,
		Deductions:   10,
	}, last, testConfig(), 0, 0)
	assert.InDelta(t, 1000, contractor.GrossFinalPay, delta)
	assert.InDelta(t, 50, contractor.PensionEmployeeDeduction, delta)
	assert.InDelta(t, 10, contractor.OtherDeductions, delta)
	assert.InDelta(t, contractor.GrossFinalPay-contractor.TotalDeductions, contractor.NetFinalPay, delta)
}

func TestYearsOfService(t *testing.T) {
	tests := []struct {
		join, last time.Time
		want       int
	}{
		{date(2020, time.March, 1), date(2024, time.June, 15), 4},
		{date(2020, time.June, 15), date(2024, time.June, 15), 4},
		{date(2020, time.June, 16), date(2024, time.June, 15), 3},
		{date(2020, time.February, 29), date(2021, time.February, 28), 0},
		{date(2023, time.July, 15), date(2024, time.June, 15), 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, YearsOfService(tt.join, tt.last), "%s -> %s", tt.join.Format("2006-01-02"), tt.last.Format("2006-01-02"))
	}
}

func TestDaysInMonth(t *testing.T) {
	assert.Equal(t, 31, DaysInMonth(date(2024, time.January, 31)))
	assert.Equal(t, 29, DaysInMonth(date(2024, time.February, 1)))
	assert.Equal(t, 28, DaysInMonth(date(2023, time.February, 1)))
	assert.Equal(t, 31, DaysInMonth(date(2024, time.December, 1)))
}
