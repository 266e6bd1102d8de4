package settings

import (
	"context"

	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/payroll"
)

// SettingsService reads and updates the settings of the company in context.
// Companies without stored settings get the defaults.
type SettingsService interface {
	GetPayrollConfig(ctx context.Context) (payroll.PayrollConfig, error)
	UpdatePayrollConfig(ctx context.Context, req payroll.UpdatePayrollConfigRequest) (payroll.PayrollConfig, error)
	GetRulesConfig(ctx context.Context) (attendance.RulesConfig, error)
	UpdateRulesConfig(ctx context.Context, req attendance.UpdateRulesConfigRequest) (attendance.RulesConfig, error)

	// Provider methods used by the engine services and cron jobs.
	PayrollConfig(ctx context.Context, companyID string) (payroll.PayrollConfig, error)
	RulesConfig(ctx context.Context, companyID string) (attendance.RulesConfig, error)
}

// Cache is a best-effort store of settings documents in front of the database.
// found is false on a miss.
type Cache interface {
	GetPayrollConfig(ctx context.Context, companyID string) (cfg payroll.PayrollConfig, found bool, err error)
	SetPayrollConfig(ctx context.Context, cfg payroll.PayrollConfig) error
	GetRulesConfig(ctx context.Context, companyID string) (rules attendance.RulesConfig, found bool, err error)
	SetRulesConfig(ctx context.Context, rules attendance.RulesConfig) error
}
