package payroll

import (
	"testing"

	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/payroll"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runWith(netPays map[string]float64) *payroll.PayrollRun {
	run := &payroll.PayrollRun{Employees: map[string]payroll.PayrollRunEntry{}}
	for id, net := range netPays {
		run.Employees[id] = payroll.PayrollRunEntry{EmployeeID: id, Details: payroll.PayrollDetails{NetPay: net}}
	}
	return run
}

func TestAnalyzeVariance_Decrease(t *testing.T) {
	employees := []employee.Employee{{ID: "e1", FullName: "Ada"}}
	current := map[string]payroll.PayrollDetails{"e1": {NetPay: 4200}}

	report := AnalyzeVariance(employees, current, runWith(map[string]float64{"e1": 5000}))

	require.Len(t, report.Variances, 1)
	v := report.Variances[0]
	assert.Equal(t, payroll.VarianceTypeDecrease, v.Type)
	assert.Equal(t, payroll.SeverityMedium, v.Severity)
	assert.InDelta(t, -800, v.Variance, delta)
	assert.InDelta(t, -16, v.VariancePercent, delta)
	assert.Equal(t, "Net pay decreased by 16% compared to the previous run.", v.Reason)
	assert.Equal(t, "Ada", v.EmployeeName)
}

func TestAnalyzeVariance_NewEmployee(t *testing.T) {
	employees := []employee.Employee{{ID: "e1"}, {ID: "e2"}}
	current := map[string]payroll.PayrollDetails{"e1": {NetPay: 3000}, "e2": {NetPay: 1000}}

	report := AnalyzeVariance(employees, current, nil)

	require.Len(t, report.Variances, 2)
	for _, v := range report.Variances {
		assert.Equal(t, payroll.VarianceTypeNew, v.Type)
		assert.Equal(t, payroll.SeverityMedium, v.Severity)
		assert.Equal(t, 100.0, v.VariancePercent)
		assert.Equal(t, v.CurrentNetPay, v.Variance)
		assert.Equal(t, "New employee added to payroll.", v.Reason)
	}
	assert.Equal(t, 2, report.Summary.NewCount)
	assert.Equal(t, 2, report.Summary.MediumCount)
	assert.Zero(t, report.Summary.TotalPrevious)
	assert.Zero(t, report.Summary.VariancePercent)
	assert.InDelta(t, 4000, report.Summary.TotalVariance, delta)
}

func TestClassifySeverity(t *testing.T) {
	tests := []struct {
		percent  float64
		severity payroll.VarianceSeverity
		included bool
	}{
		{20, payroll.SeverityHigh, true},
		{-20, payroll.SeverityHigh, true},
		{19.999, payroll.SeverityMedium, true},
		{10, payroll.SeverityMedium, true},
		{9.999, payroll.SeverityLow, true},
		{5, payroll.SeverityLow, true},
		{-5, payroll.SeverityLow, true},
		{4.999, "", false},
		{0, "", false},
	}

	for _, tt := range tests {
		severity, ok := classifySeverity(tt.percent)
		assert.Equal(t, tt.included, ok, "percent %v", tt.percent)
		assert.Equal(t, tt.severity, severity, "percent %v", tt.percent)
	}
}

func TestAnalyzeVariance_ThresholdsAndOrder(t *testing.T) {
	employees := []employee.Employee{{ID: "low"}, {ID: "tiny"}, {ID: "medium"}, {ID: "high"}, {ID: "new"}, {ID: "zero-prev"}, {ID: "no-current"}}
	current := map[string]payroll.PayrollDetails{
		"low":       {NetPay: 1060},
		"tiny":      {NetPay: 1049.99},
		"medium":    {NetPay: 1199.99},
		"high":      {NetPay: 1250},
		"new":       {NetPay: 700},
		"zero-prev": {NetPay: 500},
	}
	previous := runWith(map[string]float64{
		"low": 1000, "tiny": 1000, "medium": 1000, "high": 1000, "zero-prev": 0, "no-current": 800,
	})

	report := AnalyzeVariance(employees, current, previous)

	ids := make([]string, 0, len(report.Variances))
	for _, v := range report.Variances {
		ids = append(ids, v.EmployeeID)
	}
	// Stable within a tier: medium keeps input order ahead of new.
	assert.Equal(t, []string{"high", "medium", "new", "low"}, ids)
	assert.Equal(t, payroll.VarianceTypeIncrease, report.Variances[0].Type)
	assert.Equal(t, "Net pay increased by 25% compared to the previous run.", report.Variances[0].Reason)

	s := report.Summary
	assert.Equal(t, 6, s.TotalEmployees)
	assert.Equal(t, 1, s.HighCount)
	assert.Equal(t, 2, s.MediumCount)
	assert.Equal(t, 1, s.NewCount)
	assert.InDelta(t, 1060+1049.99+1199.99+1250+700+500, s.TotalCurrent, 1e-6)
	assert.InDelta(t, 4800, s.TotalPrevious, delta)
	assert.InDelta(t, s.TotalCurrent-s.TotalPrevious, s.TotalVariance, 1e-6)
	assert.InDelta(t, s.TotalVariance/s.TotalPrevious*100, s.VariancePercent, 1e-9)
}

func TestAnalyzeVariance_Empty(t *testing.T) {
	report := AnalyzeVariance(nil, nil, nil)
	assert.NotNil(t, report.Variances)
	assert.Empty(t, report.Variances)
	assert.Zero(t, report.Summary)
}
