package offboarding

import (
	"time"

	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/offboarding"
	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/payroll"
	payrollsvc "github.com/cmlabs-hris/payroll-rules-engine/internal/service/payroll"
)

// ComputeFinalSettlement prorates the final month and adds leave payout and
// gratuity. With fewer than one full year of service the gratuity formula
// divides by zero and the result is left non-finite for the caller to reject.
func ComputeFinalSettlement(emp employee.Employee, lastWorkingDay time.Time, cfg payroll.PayrollConfig, gratuityMonths, additionalPayout float64) offboarding.FinalSettlement {
	salary := emp.Compensation.MonthlySalary()

	daysInMonth := DaysInMonth(lastWorkingDay)
	daysWorked := lastWorkingDay.Day()
	dailyRate := salary / float64(daysInMonth)

	s := offboarding.FinalSettlement{
		EmployeeID:       emp.ID,
		LastWorkingDay:   lastWorkingDay,
		DaysInMonth:      daysInMonth,
		DaysWorked:       daysWorked,
		DailyRate:        dailyRate,
		ProratedSalary:   dailyRate * float64(daysWorked),
		LeavePayout:      emp.AnnualLeaveBalance * dailyRate,
		YearsOfService:   YearsOfService(emp.JoinDate, lastWorkingDay),
		GratuityMonths:   gratuityMonths,
		AdditionalPayout: additionalPayout,
		Allowances:       emp.Allowances,
		Bonus:            emp.Bonus,
	}

	if gratuityMonths > 0 {
		yos := float64(s.YearsOfService)
		s.GratuityAmount = (salary * gratuityMonths) * max(1, yos) / yos
	}

	s.GrossFinalPay = s.ProratedSalary + s.LeavePayout + s.GratuityAmount + s.AdditionalPayout + s.Allowances + s.Bonus

	d := payrollsvc.ApplyStatutoryDeductions(s.GrossFinalPay, emp.Deductions, cfg)
	s.PensionEmployeeDeduction = d.PensionEmployeeDeduction
	s.PensionEmployerContribution = d.PensionEmployerContribution
	s.HealthEmployeeDeduction = d.HealthEmployeeDeduction
	s.HealthEmployerContribution = d.HealthEmployerContribution
	s.TaxableBase = d.TaxableBase
	s.TaxDeduction = d.TaxDeduction
	s.OtherDeductions = d.OtherDeductions
	s.TotalDeductions = d.TotalDeductions
	s.NetFinalPay = s.GrossFinalPay - s.TotalDeductions

	return s
}

// DaysInMonth returns the number of days in t's month.
func DaysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// YearsOfService counts whole years completed between join and last.
func YearsOfService(join, last time.Time) int {
	years := last.Year() - join.Year()
	if last.Month() < join.Month() || (last.Month() == join.Month() && last.Day() < join.Day()) {
		years--
	}
	return years
}
