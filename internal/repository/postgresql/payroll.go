package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-rules-engine/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

// ========== CONFIG ==========

func (r *payrollRepository) GetConfig(ctx context.Context, companyID string) (payroll.PayrollConfig, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, pension_employee_rate, pension_employer_rate,
			   health_employee_rate, health_employer_rate, income_tax_rate, overtime_multiplier,
			   working_hours_daily, working_hours_weekly, working_hours_monthly, working_hours_yearly,
			   created_at, updated_at
		FROM payroll_configs
		WHERE company_id = $1
	`

	var c payroll.PayrollConfig
	var n [10]decimal.Decimal
	err := q.QueryRow(ctx, query, companyID).Scan(
		&c.ID, &c.CompanyID, &n[0], &n[1],
		&n[2], &n[3], &n[4], &n[5],
		&n[6], &n[7], &n[8], &n[9],
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollConfig{}, payroll.ErrPayrollConfigNotFound
		}
		return payroll.PayrollConfig{}, fmt.Errorf("failed to get payroll config: %w", err)
	}

	c.PensionEmployeeRate = toFloat(n[0])
	c.PensionEmployerRate = toFloat(n[1])
	c.HealthEmployeeRate = toFloat(n[2])
	c.HealthEmployerRate = toFloat(n[3])
	c.IncomeTaxRate = toFloat(n[4])
	c.OvertimeMultiplier = toFloat(n[5])
	c.WorkingHours = payroll.WorkingHours{
		Daily:   toFloat(n[6]),
		Weekly:  toFloat(n[7]),
		Monthly: toFloat(n[8]),
		Yearly:  toFloat(n[9]),
	}
	return c, nil
}

func (r *payrollRepository) UpsertConfig(ctx context.Context, config payroll.PayrollConfig) (payroll.PayrollConfig, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_configs (
			company_id, pension_employee_rate, pension_employer_rate,
			health_employee_rate, health_employer_rate, income_tax_rate, overtime_multiplier,
			working_hours_daily, working_hours_weekly, working_hours_monthly, working_hours_yearly
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (company_id) DO UPDATE SET
			pension_employee_rate = EXCLUDED.pension_employee_rate,
			pension_employer_rate = EXCLUDED.pension_employer_rate,
			health_employee_rate = EXCLUDED.health_employee_rate,
			health_employer_rate = EXCLUDED.health_employer_rate,
			income_tax_rate = EXCLUDED.income_tax_rate,
			overtime_multiplier = EXCLUDED.overtime_multiplier,
			working_hours_daily = EXCLUDED.working_hours_daily,
			working_hours_weekly = EXCLUDED.working_hours_weekly,
			working_hours_monthly = EXCLUDED.working_hours_monthly,
			working_hours_yearly = EXCLUDED.working_hours_yearly,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		config.CompanyID, rate(config.PensionEmployeeRate), rate(config.PensionEmployerRate),
		rate(config.HealthEmployeeRate), rate(config.HealthEmployerRate), rate(config.IncomeTaxRate), rate(config.OvertimeMultiplier),
		rate(config.WorkingHours.Daily), rate(config.WorkingHours.Weekly), rate(config.WorkingHours.Monthly), rate(config.WorkingHours.Yearly),
	).Scan(&config.ID, &config.CreatedAt, &config.UpdatedAt)
	if err != nil {
		return payroll.PayrollConfig{}, fmt.Errorf("failed to upsert payroll config: %w", err)
	}

	return config, nil
}

// ========== RUNS ==========

// CreateRun writes the run header and queues every entry in one batch. Amounts
// are stored rounded to cents.
func (r *payrollRepository) CreateRun(ctx context.Context, run payroll.PayrollRun) (payroll.PayrollRun, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_runs (id, company_id, period_month, period_year, run_date, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	err := q.QueryRow(ctx, query,
		run.ID, run.CompanyID, run.PeriodMonth, run.PeriodYear, run.RunDate, run.CreatedBy,
	).Scan(&run.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "uk_payroll_run_period") {
			return payroll.PayrollRun{}, payroll.ErrPayrollRunAlreadyExists
		}
		return payroll.PayrollRun{}, fmt.Errorf("failed to create payroll run: %w", err)
	}

	entryQuery := `
		INSERT INTO payroll_run_entries (
			run_id, employee_id, employee_name, employee_code, worker_type,
			base_pay, overtime_pay, allowances, bonus, reimbursements, gross_pay,
			pension_employee_deduction, pension_employer_contribution,
			health_employee_deduction, health_employer_contribution,
			taxable_base, tax_deduction, other_deductions, total_deductions, net_pay
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	`

	batch := &pgx.Batch{}
	for _, e := range run.Employees {
		d := e.Details
		batch.Queue(entryQuery,
			run.ID, e.EmployeeID, e.EmployeeName, e.EmployeeCode, d.WorkerType,
			money(d.BasePay), money(d.OvertimePay), money(d.Allowances), money(d.Bonus), money(d.Reimbursements), money(d.GrossPay),
			money(d.PensionEmployeeDeduction), money(d.PensionEmployerContribution),
			money(d.HealthEmployeeDeduction), money(d.HealthEmployerContribution),
			money(d.TaxableBase), money(d.TaxDeduction), money(d.OtherDeductions), money(d.TotalDeductions), money(d.NetPay),
		)
	}

	results := q.SendBatch(ctx, batch)
	for range run.Employees {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return payroll.PayrollRun{}, fmt.Errorf("failed to create payroll run entry: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return payroll.PayrollRun{}, fmt.Errorf("failed to create payroll run entries: %w", err)
	}

	return run, nil
}

const payrollRunColumns = `id, company_id, period_month, period_year, run_date, created_by, created_at`

func scanPayrollRun(row pgx.Row) (payroll.PayrollRun, error) {
	var run payroll.PayrollRun
	err := row.Scan(&run.ID, &run.CompanyID, &run.PeriodMonth, &run.PeriodYear, &run.RunDate, &run.CreatedBy, &run.CreatedAt)
	return run, err
}

func (r *payrollRepository) GetRunByID(ctx context.Context, id string, companyID string) (payroll.PayrollRun, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + payrollRunColumns + ` FROM payroll_runs WHERE id = $1 AND company_id = $2`
	return r.getRun(ctx, q, query, id, companyID)
}

func (r *payrollRepository) GetRunByPeriod(ctx context.Context, companyID string, month, year int) (payroll.PayrollRun, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + payrollRunColumns + `
		FROM payroll_runs
		WHERE company_id = $1 AND period_month = $2 AND period_year = $3`
	return r.getRun(ctx, q, query, companyID, month, year)
}

func (r *payrollRepository) getRun(ctx context.Context, q database.Querier, query string, args ...interface{}) (payroll.PayrollRun, error) {
	run, err := scanPayrollRun(q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollRun{}, payroll.ErrPayrollRunNotFound
		}
		return payroll.PayrollRun{}, fmt.Errorf("failed to get payroll run: %w", err)
	}

	run.Employees, err = r.getEntries(ctx, q, run.ID)
	if err != nil {
		return payroll.PayrollRun{}, err
	}
	return run, nil
}

func (r *payrollRepository) getEntries(ctx context.Context, q database.Querier, runID string) (map[string]payroll.PayrollRunEntry, error) {
	query := `
		SELECT employee_id, employee_name, employee_code, worker_type,
			   base_pay, overtime_pay, allowances, bonus, reimbursements, gross_pay,
			   pension_employee_deduction, pension_employer_contribution,
			   health_employee_deduction, health_employer_contribution,
			   taxable_base, tax_deduction, other_deductions, total_deductions, net_pay
		FROM payroll_run_entries
		WHERE run_id = $1
	`

	rows, err := q.Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payroll run entries: %w", err)
	}
	defer rows.Close()

	entries := make(map[string]payroll.PayrollRunEntry)
	for rows.Next() {
		var e payroll.PayrollRunEntry
		var workerType string
		var n [15]decimal.Decimal
		if err := rows.Scan(
			&e.EmployeeID, &e.EmployeeName, &e.EmployeeCode, &workerType,
			&n[0], &n[1], &n[2], &n[3], &n[4], &n[5],
			&n[6], &n[7], &n[8], &n[9],
			&n[10], &n[11], &n[12], &n[13], &n[14],
		); err != nil {
			return nil, fmt.Errorf("failed to scan payroll run entry: %w", err)
		}
		e.Details = payroll.PayrollDetails{
			WorkerType:                  employee.WorkerType(workerType),
			BasePay:                     toFloat(n[0]),
			OvertimePay:                 toFloat(n[1]),
			Allowances:                  toFloat(n[2]),
			Bonus:                       toFloat(n[3]),
			Reimbursements:              toFloat(n[4]),
			GrossPay:                    toFloat(n[5]),
			PensionEmployeeDeduction:    toFloat(n[6]),
			PensionEmployerContribution: toFloat(n[7]),
			HealthEmployeeDeduction:     toFloat(n[8]),
			HealthEmployerContribution:  toFloat(n[9]),
			TaxableBase:                 toFloat(n[10]),
			TaxDeduction:                toFloat(n[11]),
			OtherDeductions:             toFloat(n[12]),
			TotalDeductions:             toFloat(n[13]),
			NetPay:                      toFloat(n[14]),
		}
		entries[e.EmployeeID] = e
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payroll run entries: %w", err)
	}

	return entries, nil
}

// ListRuns returns run headers only; entries are loaded by GetRunByID.
func (r *payrollRepository) ListRuns(ctx context.Context, companyID string, filter payroll.PayrollRunFilter) ([]payroll.PayrollRun, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseQuery := `
		FROM payroll_runs
		WHERE company_id = $1
	`
	args := []interface{}{companyID}
	argIdx := 2

	if filter.PeriodMonth != nil {
		baseQuery += fmt.Sprintf(" AND period_month = $%d", argIdx)
		args = append(args, *filter.PeriodMonth)
		argIdx++
	}
	if filter.PeriodYear != nil {
		baseQuery += fmt.Sprintf(" AND period_year = $%d", argIdx)
		args = append(args, *filter.PeriodYear)
		argIdx++
	}

	var totalCount int64
	countQuery := "SELECT COUNT(*) " + baseQuery
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count payroll runs: %w", err)
	}

	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	offset := (filter.Page - 1) * filter.Limit

	selectQuery := fmt.Sprintf(`
		SELECT %s
		%s
		ORDER BY period_year DESC, period_month DESC
		LIMIT $%d OFFSET $%d
	`, payrollRunColumns, baseQuery, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payroll runs: %w", err)
	}
	defer rows.Close()

	var runs []payroll.PayrollRun
	for rows.Next() {
		run, err := scanPayrollRun(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan payroll run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate payroll runs: %w", err)
	}

	return runs, totalCount, nil
}
