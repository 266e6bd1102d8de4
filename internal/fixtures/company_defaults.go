package fixtures

import (
	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/schedule"
)

// ==========================================
// PAYROLL CONFIG
// ==========================================

// GetDefaultPayrollConfig returns the payroll config used until a company saves its own.
func GetDefaultPayrollConfig(companyID string) payroll.PayrollConfig {
	return payroll.PayrollConfig{
		CompanyID:           companyID,
		PensionEmployeeRate: 5, // pension scheme, employee side
		PensionEmployerRate: 5,
		HealthEmployeeRate:  1, // health scheme, employee side
		HealthEmployerRate:  1,
		IncomeTaxRate:       25,
		OvertimeMultiplier:  1.5,
		WorkingHours: payroll.WorkingHours{
			Daily:   8,
			Weekly:  40,
			Monthly: 173.33,
			Yearly:  2080,
		},
	}
}

// ==========================================
// ATTENDANCE RULES
// ==========================================

// GetDefaultAttendanceRules returns the default attendance policy for a company.
func GetDefaultAttendanceRules(companyID string) attendance.RulesConfig {
	rules := attendance.DefaultRulesConfig()
	rules.CompanyID = companyID
	return rules
}

// ==========================================
// SHIFTS
// ==========================================

// GetDefaultShifts returns the standard shifts offered to a new company:
// office hours, an afternoon shift and an overnight shift.
func GetDefaultShifts(companyID string) []schedule.Shift {
	return []schedule.Shift{
		{
			CompanyID: companyID,
			Name:      "Standard Office Hours",
			Start:     schedule.MustParseClockTime("09:00"),
			End:       schedule.MustParseClockTime("18:00"),
		},
		{
			CompanyID: companyID,
			Name:      "Afternoon Shift",
			Start:     schedule.MustParseClockTime("14:00"),
			End:       schedule.MustParseClockTime("22:00"),
		},
		{
			CompanyID: companyID,
			Name:      "Night Shift",
			Start:     schedule.MustParseClockTime("22:00"),
			End:       schedule.MustParseClockTime("06:00"), // next day
		},
	}
}
