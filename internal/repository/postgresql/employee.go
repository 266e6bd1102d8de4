package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-rules-engine/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeColumns = `
	id, company_id, employee_code, full_name, worker_type,
	salary, hourly_rate, hours_worked, overtime_hours, overtime_amount, contract_amount,
	allowances, bonus, reimbursements, deductions, annual_leave_balance,
	join_date, shift_id, employment_status, created_at, updated_at`

// employeeRow mirrors the employees table before the compensation columns are
// folded into a single employee.Compensation.
type employeeRow struct {
	ID                 string
	CompanyID          string
	EmployeeCode       string
	FullName           string
	WorkerType         string
	Salary             decimal.Decimal
	HourlyRate         decimal.Decimal
	HoursWorked        decimal.Decimal
	OvertimeHours      decimal.Decimal
	OvertimeAmount     decimal.Decimal
	ContractAmount     decimal.Decimal
	Allowances         decimal.Decimal
	Bonus              decimal.Decimal
	Reimbursements     decimal.Decimal
	Deductions         decimal.Decimal
	AnnualLeaveBalance decimal.Decimal
	JoinDate           time.Time
	ShiftID            *string
	EmploymentStatus   string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var r employeeRow
	err := row.Scan(
		&r.ID, &r.CompanyID, &r.EmployeeCode, &r.FullName, &r.WorkerType,
		&r.Salary, &r.HourlyRate, &r.HoursWorked, &r.OvertimeHours, &r.OvertimeAmount, &r.ContractAmount,
		&r.Allowances, &r.Bonus, &r.Reimbursements, &r.Deductions, &r.AnnualLeaveBalance,
		&r.JoinDate, &r.ShiftID, &r.EmploymentStatus, &r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return employee.Employee{}, err
	}
	return r.toEmployee()
}

func (r employeeRow) toEmployee() (employee.Employee, error) {
	var comp employee.Compensation
	switch employee.WorkerType(r.WorkerType) {
	case employee.WorkerTypeSalaried:
		comp = employee.Salaried{Salary: toFloat(r.Salary), Overtime: toFloat(r.OvertimeAmount)}
	case employee.WorkerTypeHourly:
		comp = employee.Hourly{
			HourlyRate:    toFloat(r.HourlyRate),
			HoursWorked:   toFloat(r.HoursWorked),
			OvertimeHours: toFloat(r.OvertimeHours),
			Salary:        toFloat(r.Salary),
		}
	case employee.WorkerTypeContractor:
		comp = employee.Contractor{ContractAmount: toFloat(r.ContractAmount), Overtime: toFloat(r.OvertimeAmount)}
	default:
		return employee.Employee{}, fmt.Errorf("employee %s: %w: %q", r.ID, employee.ErrInvalidWorkerType, r.WorkerType)
	}

	return employee.Employee{
		ID:                 r.ID,
		CompanyID:          r.CompanyID,
		EmployeeCode:       r.EmployeeCode,
		FullName:           r.FullName,
		Compensation:       comp,
		Allowances:         toFloat(r.Allowances),
		Bonus:              toFloat(r.Bonus),
		Reimbursements:     toFloat(r.Reimbursements),
		Deductions:         toFloat(r.Deductions),
		AnnualLeaveBalance: toFloat(r.AnnualLeaveBalance),
		JoinDate:           r.JoinDate,
		ShiftID:            r.ShiftID,
		EmploymentStatus:   employee.EmploymentStatus(r.EmploymentStatus),
		CreatedAt:          r.CreatedAt,
		UpdatedAt:          r.UpdatedAt,
	}, nil
}

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByID(ctx context.Context, id string, companyID string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `SELECT ` + employeeColumns + `
		FROM employees
		WHERE id = $1 AND company_id = $2`

	emp, err := scanEmployee(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return emp, nil
}

// GetActiveByCompanyID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetActiveByCompanyID(ctx context.Context, companyID string) ([]employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `SELECT ` + employeeColumns + `
		FROM employees
		WHERE company_id = $1 AND employment_status = $2
		ORDER BY employee_code`

	rows, err := q.Query(ctx, query, companyID, employee.EmploymentStatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}

	return employees, nil
}

// CountActiveByCompanyID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) CountActiveByCompanyID(ctx context.Context, companyID string) (int, error) {
	q := GetQuerier(ctx, e.db)

	var count int
	err := q.QueryRow(ctx,
		`SELECT COUNT(*) FROM employees WHERE company_id = $1 AND employment_status = $2`,
		companyID, employee.EmploymentStatusActive,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count active employees: %w", err)
	}
	return count, nil
}

// MarkOffboarded implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) MarkOffboarded(ctx context.Context, id string, companyID string, status employee.EmploymentStatus) error {
	q := GetQuerier(ctx, e.db)

	query := `
		UPDATE employees
		SET employment_status = $1, updated_at = NOW()
		WHERE id = $2 AND company_id = $3 AND employment_status = $4`

	tag, err := q.Exec(ctx, query, status, id, companyID, employee.EmploymentStatusActive)
	if err != nil {
		return fmt.Errorf("failed to update employment status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotActive
	}
	return nil
}

// CompanyDirectory lists the companies the scheduled sweeps iterate over.
type CompanyDirectory struct {
	db *database.DB
}

func NewCompanyDirectory(db *database.DB) *CompanyDirectory {
	return &CompanyDirectory{db: db}
}

// ListCompanyIDs returns every company with at least one active employee.
func (c *CompanyDirectory) ListCompanyIDs(ctx context.Context) ([]string, error) {
	q := GetQuerier(ctx, c.db)

	rows, err := q.Query(ctx,
		`SELECT DISTINCT company_id FROM employees WHERE employment_status = $1 ORDER BY company_id`,
		employee.EmploymentStatusActive,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan company id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
