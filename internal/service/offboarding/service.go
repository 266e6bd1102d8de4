package offboarding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/offboarding"
	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-rules-engine/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-rules-engine/internal/pkg/jwt"
	"github.com/google/uuid"
)

// ConfigProvider resolves the payroll config in force for a company.
type ConfigProvider interface {
	PayrollConfig(ctx context.Context, companyID string) (payroll.PayrollConfig, error)
}

type OffboardingServiceImpl struct {
	tx             database.TxRunner
	settlementRepo offboarding.SettlementRepository
	employeeRepo   employee.EmployeeRepository
	configs        ConfigProvider
	now            func() time.Time
}

func NewOffboardingService(
	tx database.TxRunner,
	settlementRepo offboarding.SettlementRepository,
	employeeRepo employee.EmployeeRepository,
	configs ConfigProvider,
) offboarding.OffboardingService {
	return &OffboardingServiceImpl{
		tx:             tx,
		settlementRepo: settlementRepo,
		employeeRepo:   employeeRepo,
		configs:        configs,
		now:            time.Now,
	}
}

// Preview implements offboarding.OffboardingService.
func (s *OffboardingServiceImpl) Preview(ctx context.Context, req offboarding.PreviewSettlementRequest) (offboarding.FinalSettlement, error) {
	if err := req.Validate(); err != nil {
		return offboarding.FinalSettlement{}, err
	}

	emp, err := req.Employee.ToEmployee()
	if err != nil {
		return offboarding.FinalSettlement{}, err
	}
	if !emp.JoinDate.IsZero() && req.LastDay.Before(emp.JoinDate) {
		return offboarding.FinalSettlement{}, offboarding.ErrLastDayBeforeJoin
	}

	cfg, err := s.resolveConfig(ctx, req.Config)
	if err != nil {
		return offboarding.FinalSettlement{}, err
	}

	settlement := ComputeFinalSettlement(emp, req.LastDay, cfg, req.GratuityMonths, req.AdditionalPayout)
	if !settlement.IsFinite() {
		return offboarding.FinalSettlement{}, offboarding.ErrNonFiniteSettlement
	}
	return settlement, nil
}

// Settle implements offboarding.OffboardingService.
func (s *OffboardingServiceImpl) Settle(ctx context.Context, req offboarding.CreateSettlementRequest) (offboarding.FinalSettlement, error) {
	if err := req.Validate(); err != nil {
		return offboarding.FinalSettlement{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return offboarding.FinalSettlement{}, err
	}
	companyID := claims.CompanyID

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID, companyID)
	if err != nil {
		return offboarding.FinalSettlement{}, err
	}
	if emp.EmploymentStatus != employee.EmploymentStatusActive {
		return offboarding.FinalSettlement{}, employee.ErrEmployeeAlreadyOffboarded
	}
	if emp.Compensation == nil {
		return offboarding.FinalSettlement{}, employee.ErrMissingCompensation
	}
	if req.LastDay.Before(emp.JoinDate) {
		return offboarding.FinalSettlement{}, offboarding.ErrLastDayBeforeJoin
	}

	_, err = s.settlementRepo.GetByEmployeeID(ctx, emp.ID, companyID)
	if err == nil {
		return offboarding.FinalSettlement{}, offboarding.ErrSettlementExists
	}
	if !errors.Is(err, offboarding.ErrSettlementNotFound) {
		return offboarding.FinalSettlement{}, fmt.Errorf("failed to check existing settlement: %w", err)
	}

	cfg, err := s.configs.PayrollConfig(ctx, companyID)
	if err != nil {
		return offboarding.FinalSettlement{}, fmt.Errorf("failed to get payroll config: %w", err)
	}

	settlement := ComputeFinalSettlement(emp, req.LastDay, cfg, req.GratuityMonths, req.AdditionalPayout)
	if !settlement.IsFinite() {
		slog.Warn("Refusing non-finite settlement", "employee_id", emp.ID, "years_of_service", settlement.YearsOfService)
		return offboarding.FinalSettlement{}, offboarding.ErrNonFiniteSettlement
	}

	settlement.ID = uuid.NewString()
	settlement.CompanyID = companyID
	settlement.EmploymentStatus = req.Status
	settlement.CreatedAt = s.now().UTC()
	if claims.UserID != "" {
		settlement.CreatedBy = &claims.UserID
	}

	var created offboarding.FinalSettlement
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		created, err = s.settlementRepo.Create(ctx, settlement)
		if err != nil {
			return err
		}
		return s.employeeRepo.MarkOffboarded(ctx, emp.ID, companyID, req.Status)
	})
	if err != nil {
		return offboarding.FinalSettlement{}, fmt.Errorf("failed to store settlement: %w", err)
	}

	slog.Info("Final settlement recorded",
		"company_id", companyID,
		"employee_id", emp.ID,
		"status", req.Status,
		"net_final_pay", created.NetFinalPay,
	)
	return created, nil
}

// GetSettlement implements offboarding.OffboardingService.
func (s *OffboardingServiceImpl) GetSettlement(ctx context.Context, employeeID string) (offboarding.FinalSettlement, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return offboarding.FinalSettlement{}, err
	}
	return s.settlementRepo.GetByEmployeeID(ctx, employeeID, claims.CompanyID)
}

func (s *OffboardingServiceImpl) resolveConfig(ctx context.Context, override *payroll.PayrollConfig) (payroll.PayrollConfig, error) {
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
