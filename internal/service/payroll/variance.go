package payroll

import (
	"fmt"
	"math"
	"sort"

	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/payroll"
)

const newEmployeeReason = "New employee added to payroll."

// Severity thresholds on the absolute percentage change in net pay.
const (
	highVariancePercent   = 20
	mediumVariancePercent = 10
	lowVariancePercent    = 5
)

// AnalyzeVariance compares each employee's current net pay with the previous
// run. Employees without current details are skipped; changes below the low
// threshold are left out of the list.
func AnalyzeVariance(employees []employee.Employee, current map[string]payroll.PayrollDetails, previous *payroll.PayrollRun) payroll.VarianceReport {
	variances := make([]payroll.RankedVariance, 0)
	var summary payroll.VarianceSummary

	for _, emp := range employees {
		cur, ok := current[emp.ID]
		if !ok {
			continue
		}
		summary.TotalEmployees++
		summary.TotalCurrent += cur.NetPay

		var prev payroll.PayrollRunEntry
		found := false
		if previous != nil {
			prev, found = previous.Employees[emp.ID]
		}

		if !found {
			variances = append(variances, payroll.RankedVariance{
				EmployeeID:      emp.ID,
				EmployeeName:    emp.FullName,
				Type:            payroll.VarianceTypeNew,
				Severity:        payroll.SeverityMedium,
				CurrentNetPay:   cur.NetPay,
				Variance:        cur.NetPay,
				VariancePercent: 100,
				Reason:          newEmployeeReason,
			})
			summary.NewCount++
			continue
		}

		diff := cur.NetPay - prev.Details.NetPay
		percent := 0.0
		if prev.Details.NetPay > 0 {
			percent = diff / prev.Details.NetPay * 100
		}

		severity, ok := classifySeverity(percent)
		if !ok {
			continue
		}

		varianceType := payroll.VarianceTypeDecrease
		if diff > 0 {
			varianceType = payroll.VarianceTypeIncrease
		}

		variances = append(variances, payroll.RankedVariance{
			EmployeeID:      emp.ID,
			EmployeeName:    emp.FullName,
			Type:            varianceType,
			Severity:        severity,
			CurrentNetPay:   cur.NetPay,
			PreviousNetPay:  prev.Details.NetPay,
			Variance:        diff,
			VariancePercent: percent,
			Reason:          varianceReason(varianceType, percent),
		})
	}

	sort.SliceStable(variances, func(i, j int) bool {
		return variances[i].Severity.Rank() < variances[j].Severity.Rank()
	})

	for _, v := range variances {
		switch v.Severity {
		case payroll.SeverityHigh:
			summary.HighCount++
		case payroll.SeverityMedium:
			summary.MediumCount++
		}
	}

	if previous != nil {
		summary.TotalPrevious = previous.TotalNetPay()
	}
	summary.TotalVariance = summary.TotalCurrent - summary.TotalPrevious
	if summary.TotalPrevious != 0 {
		summary.VariancePercent = summary.TotalVariance / summary.TotalPrevious * 100
	}

	return payroll.VarianceReport{Variances: variances, Summary: summary}
}

// classifySeverity buckets a percentage change. ok is false below the low threshold.
func classifySeverity(percent float64) (payroll.VarianceSeverity, bool) {
	abs := math.Abs(percent)
	switch {
	case abs >= highVariancePercent:
		return payroll.SeverityHigh, true
	case abs >= mediumVariancePercent:
		return payroll.SeverityMedium, true
	case abs >= lowVariancePercent:
		return payroll.SeverityLow, true
	default:
		return "", false
	}
}

func varianceReason(t payroll.VarianceType, percent float64) string {
	verb := "decreased"
	if t == payroll.VarianceTypeIncrease {
		verb = "increased"
	}
	return fmt.Sprintf("Net pay %s by %.0f%% compared to the previous run.", verb, math.Round(math.Abs(percent)))
}
