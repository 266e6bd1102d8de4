package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/offboarding"
	"github.com/cmlabs-hris/payroll-rules-engine/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type settlementRepository struct {
	db *database.DB
}

func NewSettlementRepository(db *database.DB) offboarding.SettlementRepository {
	return &settlementRepository{db: db}
}

// Create implements offboarding.SettlementRepository. Non-finite amounts cannot
// be represented as NUMERIC and are refused before the insert.
func (r *settlementRepository) Create(ctx context.Context, s offboarding.FinalSettlement) (offboarding.FinalSettlement, error) {
	if !s.IsFinite() {
		return offboarding.FinalSettlement{}, offboarding.ErrNonFiniteSettlement
	}

	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO final_settlements (
			company_id, employee_id, employment_status, last_working_day,
			days_in_month, days_worked, daily_rate, prorated_salary, leave_payout,
			years_of_service, gratuity_months, gratuity_amount, additional_payout,
			allowances, bonus, gross_final_pay,
			pension_employee_deduction, pension_employer_contribution,
			health_employee_deduction, health_employer_contribution,
			taxable_base, tax_deduction, other_deductions, total_deductions, net_final_pay,
			created_by
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
			$14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26
		) RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query,
		s.CompanyID, s.EmployeeID, s.EmploymentStatus, s.LastWorkingDay,
		s.DaysInMonth, s.DaysWorked, money(s.DailyRate), money(s.ProratedSalary), money(s.LeavePayout),
		s.YearsOfService, rate(s.GratuityMonths), money(s.GratuityAmount), money(s.AdditionalPayout),
		money(s.Allowances), money(s.Bonus), money(s.GrossFinalPay),
		money(s.PensionEmployeeDeduction), money(s.PensionEmployerContribution),
		money(s.HealthEmployeeDeduction), money(s.HealthEmployerContribution),
		money(s.TaxableBase), money(s.TaxDeduction), money(s.OtherDeductions), money(s.TotalDeductions), money(s.NetFinalPay),
		s.CreatedBy,
	).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "uk_final_settlement_employee") {
			return offboarding.FinalSettlement{}, offboarding.ErrSettlementExists
		}
		return offboarding.FinalSettlement{}, fmt.Errorf("failed to create final settlement: %w", err)
	}

	return s, nil
}

// GetByEmployeeID implements offboarding.SettlementRepository.
func (r *settlementRepository) GetByEmployeeID(ctx context.Context, employeeID string, companyID string) (offboarding.FinalSettlement, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, employee_id, employment_status, last_working_day,
			   days_in_month, days_worked, daily_rate, prorated_salary, leave_payout,
			   years_of_service, gratuity_months, gratuity_amount, additional_payout,
			   allowances, bonus, gross_final_pay,
			   pension_employee_deduction, pension_employer_contribution,
			   health_employee_deduction, health_employer_contribution,
			   taxable_base, tax_deduction, other_deductions, total_deductions, net_final_pay,
			   created_by, created_at
		FROM final_settlements
		WHERE employee_id = $1 AND company_id = $2
	`

	var s offboarding.FinalSettlement
	var n [18]decimal.Decimal
	err := q.QueryRow(ctx, query, employeeID, companyID).Scan(
		&s.ID, &s.CompanyID, &s.EmployeeID, &s.EmploymentStatus, &s.LastWorkingDay,
		&s.DaysInMonth, &s.DaysWorked, &n[0], &n[1], &n[2],
		&s.YearsOfService, &n[3], &n[4], &n[5],
		&n[6], &n[7], &n[8],
		&n[9], &n[10],
		&n[11], &n[12],
		&n[13], &n[14], &n[15], &n[16], &n[17],
		&s.CreatedBy, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return offboarding.FinalSettlement{}, offboarding.ErrSettlementNotFound
		}
		return offboarding.FinalSettlement{}, fmt.Errorf("failed to get final settlement: %w", err)
	}

	s.DailyRate = toFloat(n[0])
	s.ProratedSalary = toFloat(n[1])
	s.LeavePayout = toFloat(n[2])
	s.GratuityMonths = toFloat(n[3])
	s.GratuityAmount = toFloat(n[4])
	s.AdditionalPayout = toFloat(n[5])
	s.Allowances = toFloat(n[6])
	s.Bonus = toFloat(n[7])
	s.GrossFinalPay = toFloat(n[8])
	s.PensionEmployeeDeduction = toFloat(n[9])
	s.PensionEmployerContribution = toFloat(n[10])
	s.HealthEmployeeDeduction = toFloat(n[11])
	s.HealthEmployerContribution = toFloat(n[12])
	s.TaxableBase = toFloat(n[13])
	s.TaxDeduction = toFloat(n[14])
	s.OtherDeductions = toFloat(n[15])
	s.TotalDeductions = toFloat(n[16])
	s.NetFinalPay = toFloat(n[17])
	return s, nil
}
