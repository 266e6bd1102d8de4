package payroll

import "context"

// PayrollRepository defines data access methods for payroll.
// All methods include companyID parameter to prevent cross-company data access attacks.
type PayrollRepository interface {
	// Config
	GetConfig(ctx context.Context, companyID string) (PayrollConfig, error)
	UpsertConfig(ctx context.Context, config PayrollConfig) (PayrollConfig, error)

	// Runs. CreateRun writes the run and all of its entries; callers wrap it in
	// a transaction so a partial run is never visible.
	CreateRun(ctx context.Context, run PayrollRun) (PayrollRun, error)
	GetRunByID(ctx context.Context, id string, companyID string) (PayrollRun, error)
	GetRunByPeriod(ctx context.Context, companyID string, month, year int) (PayrollRun, error)
	ListRuns(ctx context.Context, companyID string, filter PayrollRunFilter) ([]PayrollRun, int64, error)
}
