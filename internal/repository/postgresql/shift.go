package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/schedule"
	"github.com/cmlabs-hris/payroll-rules-engine/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type shiftRepositoryImpl struct {
	db *database.DB
}

func NewShiftRepository(db *database.DB) schedule.ShiftRepository {
	return &shiftRepositoryImpl{db: db}
}

const shiftColumns = `s.id, s.company_id, s.name,
	to_char(s.start_time, 'HH24:MI'), to_char(s.end_time, 'HH24:MI'),
	s.created_at, s.updated_at`

func scanShift(row pgx.Row) (schedule.Shift, error) {
	var sh schedule.Shift
	var start, end string
	if err := row.Scan(&sh.ID, &sh.CompanyID, &sh.Name, &start, &end, &sh.CreatedAt, &sh.UpdatedAt); err != nil {
		return schedule.Shift{}, err
	}

	var err error
	if sh.Start, err = schedule.ParseClockTime(start); err != nil {
		return schedule.Shift{}, err
	}
	if sh.End, err = schedule.ParseClockTime(end); err != nil {
		return schedule.Shift{}, err
	}
	return sh, nil
}

// GetByID implements schedule.ShiftRepository.
func (r *shiftRepositoryImpl) GetByID(ctx context.Context, id string, companyID string) (schedule.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + shiftColumns + `
		FROM shifts s
		WHERE s.id = $1 AND s.company_id = $2`

	sh, err := scanShift(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return schedule.Shift{}, schedule.ErrShiftNotFound
		}
		return schedule.Shift{}, fmt.Errorf("failed to get shift: %w", err)
	}
	return sh, nil
}

// GetByEmployeeID implements schedule.ShiftRepository.
func (r *shiftRepositoryImpl) GetByEmployeeID(ctx context.Context, employeeID string, companyID string) (schedule.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + shiftColumns + `
		FROM shifts s
		JOIN employees e ON e.shift_id = s.id
		WHERE e.id = $1 AND e.company_id = $2`

	sh, err := scanShift(q.QueryRow(ctx, query, employeeID, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return schedule.Shift{}, schedule.ErrShiftNotFound
		}
		return schedule.Shift{}, fmt.Errorf("failed to get employee shift: %w", err)
	}
	return sh, nil
}

// ListByCompanyID implements schedule.ShiftRepository.
func (r *shiftRepositoryImpl) ListByCompanyID(ctx context.Context, companyID string) ([]schedule.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + shiftColumns + `
		FROM shifts s
		WHERE s.company_id = $1
		ORDER BY s.start_time`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}
	defer rows.Close()

	var shifts []schedule.Shift
	for rows.Next() {
		sh, err := scanShift(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		shifts = append(shifts, sh)
	}
	return shifts, rows.Err()
}
