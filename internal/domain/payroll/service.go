package payroll

import "context"

// PayrollService generates and reads payroll runs for the company in context.
type PayrollService interface {
	// Calculate computes payroll for a single employee snapshot without persisting it.
	Calculate(ctx context.Context, req CalculatePayrollRequest) (PayrollDetails, error)

	// GenerateRun computes payroll for all active employees, analyses the
	// variance against the previous period and stores the run atomically.
	GenerateRun(ctx context.Context, req GeneratePayrollRunRequest) (PayrollRunResponse, error)

	GetRun(ctx context.Context, id string) (PayrollRun, error)
	ListRuns(ctx context.Context, filter PayrollRunFilter) (ListPayrollRunResponse, error)

	// AnalyzeVariance compares caller-supplied runs without persisting anything.
	AnalyzeVariance(ctx context.Context, req VarianceRequest) (VarianceReport, error)
}
