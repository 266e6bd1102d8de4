package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-rules-engine/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type rulesRepository struct {
	db *database.DB
}

func NewRulesRepository(db *database.DB) attendance.RulesRepository {
	return &rulesRepository{db: db}
}

// GetRules implements attendance.RulesRepository.
func (r *rulesRepository) GetRules(ctx context.Context, companyID string) (attendance.RulesConfig, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT company_id, grace_minutes, half_day_threshold_hours, auto_absent_after_hours,
			   max_break_minutes, overtime_after_minutes, weekend_days, timezone, updated_at
		FROM attendance_rules
		WHERE company_id = $1
	`

	var rules attendance.RulesConfig
	var halfDay, autoAbsent decimal.Decimal
	var weekend []int16
	err := q.QueryRow(ctx, query, companyID).Scan(
		&rules.CompanyID, &rules.GraceMinutes, &halfDay, &autoAbsent,
		&rules.MaxBreakMinutes, &rules.OvertimeAfterMinutes, &weekend, &rules.Timezone, &rules.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.RulesConfig{}, attendance.ErrRulesConfigNotFound
		}
		return attendance.RulesConfig{}, fmt.Errorf("failed to get attendance rules: %w", err)
	}

	rules.HalfDayThresholdHours = toFloat(halfDay)
	rules.AutoAbsentAfterHours = toFloat(autoAbsent)
	rules.WeekendDays = make([]time.Weekday, 0, len(weekend))
	for _, d := range weekend {
		rules.WeekendDays = append(rules.WeekendDays, time.Weekday(d))
	}
	return rules, nil
}

// UpsertRules implements attendance.RulesRepository.
func (r *rulesRepository) UpsertRules(ctx context.Context, rules attendance.RulesConfig) (attendance.RulesConfig, error) {
	q := GetQuerier(ctx, r.db)

	weekend := make([]int16, 0, len(rules.WeekendDays))
	for _, d := range rules.WeekendDays {
		weekend = append(weekend, int16(d))
	}

	query := `
		INSERT INTO attendance_rules (
			company_id, grace_minutes, half_day_threshold_hours, auto_absent_after_hours,
			max_break_minutes, overtime_after_minutes, weekend_days, timezone
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (company_id) DO UPDATE SET
			grace_minutes = EXCLUDED.grace_minutes,
			half_day_threshold_hours = EXCLUDED.half_day_threshold_hours,
			auto_absent_after_hours = EXCLUDED.auto_absent_after_hours,
			max_break_minutes = EXCLUDED.max_break_minutes,
			overtime_after_minutes = EXCLUDED.overtime_after_minutes,
			weekend_days = EXCLUDED.weekend_days,
			timezone = EXCLUDED.timezone,
			updated_at = NOW()
		RETURNING updated_at
	`

	err := q.QueryRow(ctx, query,
		rules.CompanyID, rules.GraceMinutes, rate(rules.HalfDayThresholdHours), rate(rules.AutoAbsentAfterHours),
		rules.MaxBreakMinutes, rules.OvertimeAfterMinutes, weekend, rules.Timezone,
	).Scan(&rules.UpdatedAt)
	if err != nil {
		return attendance.RulesConfig{}, fmt.Errorf("failed to upsert attendance rules: %w", err)
	}

	return rules, nil
}
