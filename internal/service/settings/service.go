package settings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/settings"
	"github.com/cmlabs-hris/payroll-rules-engine/internal/fixtures"
	"github.com/cmlabs-hris/payroll-rules-engine/internal/pkg/jwt"
)

type SettingsServiceImpl struct {
	payrollRepo payroll.PayrollRepository
	rulesRepo   attendance.RulesRepository
	cache       settings.Cache
}

// NewSettingsService builds the settings service. cache may be nil.
func NewSettingsService(payrollRepo payroll.PayrollRepository, rulesRepo attendance.RulesRepository, cache settings.Cache) settings.SettingsService {
	return &SettingsServiceImpl{
		payrollRepo: payrollRepo,
		rulesRepo:   rulesRepo,
		cache:       cache,
	}
}

// PayrollConfig returns the company's payroll config, or the defaults when none is stored.
func (s *SettingsServiceImpl) PayrollConfig(ctx context.Context, companyID string) (payroll.PayrollConfig, error) {
	if s.cache != nil {
		cfg, found, err := s.cache.GetPayrollConfig(ctx, companyID)
		if err != nil {
			slog.Warn("Settings cache read failed", "company_id", companyID, "error", err)
		} else if found {
			return cfg, nil
		}
	}

	cfg, err := s.payrollRepo.GetConfig(ctx, companyID)
	if err != nil {
		if !errors.Is(err, payroll.ErrPayrollConfigNotFound) {
			return payroll.PayrollConfig{}, fmt.Errorf("failed to get payroll config: %w", err)
		}
		cfg = fixtures.GetDefaultPayrollConfig(companyID)
	}

	s.cachePayrollConfig(ctx, cfg)
	return cfg, nil
}

// RulesConfig returns the company's attendance rules, or the defaults when none are stored.
func (s *SettingsServiceImpl) RulesConfig(ctx context.Context, companyID string) (attendance.RulesConfig, error) {
	if s.cache != nil {
		rules, found, err := s.cache.GetRulesConfig(ctx, companyID)
		if err != nil {
			slog.Warn("Settings cache read failed", "company_id", companyID, "error", err)
		} else if found {
			return rules, nil
		}
	}

	rules, err := s.rulesRepo.GetRules(ctx, companyID)
	if err != nil {
		if !errors.Is(err, attendance.ErrRulesConfigNotFound) {
			return attendance.RulesConfig{}, fmt.Errorf("failed to get attendance rules: %w", err)
		}
		rules = fixtures.GetDefaultAttendanceRules(companyID)
	}

	s.cacheRulesConfig(ctx, rules)
	return rules, nil
}

// GetPayrollConfig implements settings.SettingsService.
func (s *SettingsServiceImpl) GetPayrollConfig(ctx context.Context) (payroll.PayrollConfig, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return payroll.PayrollConfig{}, err
	}
	return s.PayrollConfig(ctx, claims.CompanyID)
}

// UpdatePayrollConfig implements settings.SettingsService.
func (s *SettingsServiceImpl) UpdatePayrollConfig(ctx context.Context, req payroll.UpdatePayrollConfigRequest) (payroll.PayrollConfig, error) {
	if err := req.Validate(); err != nil {
		return payroll.PayrollConfig{}, err
	}

	current, err := s.GetPayrollConfig(ctx)
	if err != nil {
		return payroll.PayrollConfig{}, err
	}

	updated, err := s.payrollRepo.UpsertConfig(ctx, req.Apply(current))
	if err != nil {
		return payroll.PayrollConfig{}, fmt.Errorf("failed to update payroll config: %w", err)
	}

	s.cachePayrollConfig(ctx, updated)
	slog.Info("Payroll config updated", "company_id", updated.CompanyID)
	return updated, nil
}

// GetRulesConfig implements settings.SettingsService.
func (s *SettingsServiceImpl) GetRulesConfig(ctx context.Context) (attendance.RulesConfig, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return attendance.RulesConfig{}, err
	}
	return s.RulesConfig(ctx, claims.CompanyID)
}

// UpdateRulesConfig implements settings.SettingsService.
func (s *SettingsServiceImpl) UpdateRulesConfig(ctx context.Context, req attendance.UpdateRulesConfigRequest) (attendance.RulesConfig, error) {
	if err := req.Validate(); err != nil {
		return attendance.RulesConfig{}, err
	}

	current, err := s.GetRulesConfig(ctx)
	if err != nil {
		return attendance.RulesConfig{}, err
	}

	updated, err := s.rulesRepo.UpsertRules(ctx, req.Apply(current))
	if err != nil {
		return attendance.RulesConfig{}, fmt.Errorf("failed to update attendance rules: %w", err)
	}

	s.cacheRulesConfig(ctx, updated)
	slog.Info("Attendance rules updated", "company_id", updated.CompanyID)
	return updated, nil
}

func (s *SettingsServiceImpl) cachePayrollConfig(ctx context.Context, cfg payroll.PayrollConfig) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetPayrollConfig(ctx, cfg); err != nil {
		slog.Warn("Settings cache write failed", "company_id", cfg.CompanyID, "error", err)
	}
}

func (s *SettingsServiceImpl) cacheRulesConfig(ctx context.Context, rules attendance.RulesConfig) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetRulesConfig(ctx, rules); err != nil {
		slog.Warn("Settings cache write failed", "company_id", rules.CompanyID, "error", err)
	}
}
