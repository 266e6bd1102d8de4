package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-rules-engine/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-rules-engine/internal/pkg/jwt"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const defaultWorkerLimit = 8

// ConfigProvider resolves the payroll config in force for a company.
type ConfigProvider interface {
	PayrollConfig(ctx context.Context, companyID string) (payroll.PayrollConfig, error)
}

type PayrollServiceImpl struct {
	tx           database.TxRunner
	payrollRepo  payroll.PayrollRepository
	employeeRepo employee.EmployeeRepository
	configs      ConfigProvider
	workerLimit  int
	now          func() time.Time
}

func NewPayrollService(
	tx database.TxRunner,
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	configs ConfigProvider,
	workerLimit int,
) payroll.PayrollService {
	if workerLimit <= 0 {
		workerLimit = defaultWorkerLimit
	}
	return &PayrollServiceImpl{
		tx:           tx,
		payrollRepo:  payrollRepo,
		employeeRepo: employeeRepo,
		configs:      configs,
		workerLimit:  workerLimit,
		now:          time.Now,
	}
}

// Calculate implements payroll.PayrollService.
func (s *PayrollServiceImpl) Calculate(ctx context.Context, req payroll.CalculatePayrollRequest) (payroll.PayrollDetails, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollDetails{}, err
	}

	emp, err := req.Employee.ToEmployee()
	if err != nil {
		return payroll.PayrollDetails{}, err
	}

	cfg, err := s.resolveConfig(ctx, req.Config)
	if err != nil {
		return payroll.PayrollDetails{}, err
	}

	return CalculatePayroll(emp, cfg), nil
}

// GenerateRun implements payroll.PayrollService.
func (s *PayrollServiceImpl) GenerateRun(ctx context.Context, req payroll.GeneratePayrollRunRequest) (payroll.PayrollRunResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollRunResponse{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return payroll.PayrollRunResponse{}, err
	}
	companyID := claims.CompanyID

	_, err = s.payrollRepo.GetRunByPeriod(ctx, companyID, req.PeriodMonth, req.PeriodYear)
	if err == nil {
		return payroll.PayrollRunResponse{}, payroll.ErrPayrollRunAlreadyExists
	}
	if !errors.Is(err, payroll.ErrPayrollRunNotFound) {
		return payroll.PayrollRunResponse{}, fmt.Errorf("failed to check existing payroll run: %w", err)
	}

	cfg, err := s.configs.PayrollConfig(ctx, companyID)
	if err != nil {
		return payroll.PayrollRunResponse{}, fmt.Errorf("failed to get payroll config: %w", err)
	}

	employees, err := s.employeeRepo.GetActiveByCompanyID(ctx, companyID)
	if err != nil {
		return payroll.PayrollRunResponse{}, fmt.Errorf("failed to get employees: %w", err)
	}
	if len(employees) == 0 {
		return payroll.PayrollRunResponse{}, payroll.ErrNoEmployeesToProcess
	}

	details, err := CalculateBatch(ctx, employees, cfg, s.workerLimit)
	if err != nil {
		return payroll.PayrollRunResponse{}, err
	}

	var previous *payroll.PayrollRun
	prevMonth, prevYear := payroll.PreviousPeriod(req.PeriodMonth, req.PeriodYear)
	prevRun, err := s.payrollRepo.GetRunByPeriod(ctx, companyID, prevMonth, prevYear)
	switch {
	case err == nil:
		previous = &prevRun
	case !errors.Is(err, payroll.ErrPayrollRunNotFound):
		return payroll.PayrollRunResponse{}, fmt.Errorf("failed to get previous payroll run: %w", err)
	}

	current := make(map[string]payroll.PayrollDetails, len(employees))
	entries := make(map[string]payroll.PayrollRunEntry, len(employees))
	for i, emp := range employees {
		current[emp.ID] = details[i]
		entries[emp.ID] = payroll.PayrollRunEntry{
			EmployeeID:   emp.ID,
			EmployeeName: emp.FullName,
			EmployeeCode: emp.EmployeeCode,
			Details:      details[i],
		}
	}
	report := AnalyzeVariance(employees, current, previous)

	run := payroll.PayrollRun{
		ID:          uuid.NewString(),
		CompanyID:   companyID,
		PeriodMonth: req.PeriodMonth,
		PeriodYear:  req.PeriodYear,
		RunDate:     s.now().UTC(),
		Employees:   entries,
	}
	if claims.UserID != "" {
		run.CreatedBy = &claims.UserID
	}

	// Nothing has been written yet; a cancelled request discards the batch.
	if err := ctx.Err(); err != nil {
		return payroll.PayrollRunResponse{}, err
	}

	var created payroll.PayrollRun
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		created, err = s.payrollRepo.CreateRun(ctx, run)
		return err
	})
	if err != nil {
		return payroll.PayrollRunResponse{}, fmt.Errorf("failed to store payroll run: %w", err)
	}

	slog.Info("Payroll run generated",
		"company_id", companyID,
		"run_id", created.ID,
		"period", fmt.Sprintf("%04d-%02d", req.PeriodYear, req.PeriodMonth),
		"employees", len(entries),
		"high_variances", report.Summary.HighCount,
	)

	return payroll.PayrollRunResponse{Run: created, Variance: report}, nil
}

// GetRun implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetRun(ctx context.Context, id string) (payroll.PayrollRun, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return payroll.PayrollRun{}, err
	}
	return s.payrollRepo.GetRunByID(ctx, id, claims.CompanyID)
}

// ListRuns implements payroll.PayrollService.
func (s *PayrollServiceImpl) ListRuns(ctx context.Context, filter payroll.PayrollRunFilter) (payroll.ListPayrollRunResponse, error) {
	if err := filter.Validate(); err != nil {
		return payroll.ListPayrollRunResponse{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return payroll.ListPayrollRunResponse{}, err
	}

	runs, total, err := s.payrollRepo.ListRuns(ctx, claims.CompanyID, filter)
	if err != nil {
		return payroll.ListPayrollRunResponse{}, fmt.Errorf("failed to list payroll runs: %w", err)
	}

	return payroll.ListPayrollRunResponse{
		Data:       runs,
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

// AnalyzeVariance implements payroll.PayrollService.
func (s *PayrollServiceImpl) AnalyzeVariance(ctx context.Context, req payroll.VarianceRequest) (payroll.VarianceReport, error) {
	if err := req.Validate(); err != nil {
		return payroll.VarianceReport{}, err
	}

	employees := make([]employee.Employee, 0, len(req.Employees))
	for i := range req.Employees {
		employees = append(employees, employee.Employee{
			ID:       req.Employees[i].ID,
			FullName: req.Employees[i].FullName,
		})
	}

	return AnalyzeVariance(employees, req.Current, req.Previous), nil
}

// resolveConfig prefers an explicit override and falls back to the company's config.
func (s *PayrollServiceImpl) resolveConfig(ctx context.Context, override *payroll.PayrollConfig) (payroll.PayrollConfig, error) {
	if override != nil {
		return *override, nil
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return payroll.PayrollConfig{}, err
	}
	cfg, err := s.configs.PayrollConfig(ctx, claims.CompanyID)
	if err != nil {
		return payroll.PayrollConfig{}, fmt.Errorf("failed to get payroll config: %w", err)
	}
	return cfg, nil
}

// CalculateBatch computes payroll for every employee concurrently. Results are
// index-aligned with employees. Each goroutine writes only its own slot.
func CalculateBatch(ctx context.Context, employees []employee.Employee, cfg payroll.PayrollConfig, limit int) ([]payroll.PayrollDetails, error) {
	if limit <= 0 {
		limit = defaultWorkerLimit
	}

	results := make([]payroll.PayrollDetails, len(employees))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, emp := range employees {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if emp.Compensation == nil {
				return fmt.Errorf("employee %s: %w", emp.ID, employee.ErrMissingCompensation)
			}
			results[i] = CalculatePayroll(emp, cfg)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
