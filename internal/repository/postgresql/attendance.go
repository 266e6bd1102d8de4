package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-rules-engine/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

const attendanceColumns = `
	a.id, a.company_id, a.employee_id, a.date, a.check_in_time, a.check_out_time, a.status,
	a.late_minutes, a.early_leave_minutes, a.break_minutes, a.break_started_at,
	a.total_work_minutes, a.overtime_minutes, a.is_half_day, a.created_at, a.updated_at`

func scanAttendance(row pgx.Row, extra ...interface{}) (attendance.AttendanceRecord, error) {
	var att attendance.AttendanceRecord
	dest := []interface{}{
		&att.ID, &att.CompanyID, &att.EmployeeID, &att.Date, &att.CheckInTime, &att.CheckOutTime, &att.Status,
		&att.LateMinutes, &att.EarlyLeaveMinutes, &att.BreakMinutes, &att.BreakStartedAt,
		&att.TotalWorkMinutes, &att.OvertimeMinutes, &att.IsHalfDay, &att.CreatedAt, &att.UpdatedAt,
	}
	err := row.Scan(append(dest, extra...)...)
	return att, err
}

// Create implements attendance.AttendanceRepository.
func (a *attendanceRepository) Create(ctx context.Context, record attendance.AttendanceRecord) (attendance.AttendanceRecord, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendances (
			company_id, employee_id, date, check_in_time, check_out_time, status,
			late_minutes, early_leave_minutes, break_minutes, break_started_at,
			total_work_minutes, overtime_minutes, is_half_day
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		record.CompanyID,
		record.EmployeeID,
		record.Date,
		record.CheckInTime,
		record.CheckOutTime,
		record.Status,
		record.LateMinutes,
		record.EarlyLeaveMinutes,
		record.BreakMinutes,
		record.BreakStartedAt,
		record.TotalWorkMinutes,
		record.OvertimeMinutes,
		record.IsHalfDay,
	).Scan(&record.ID, &record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "uk_attendance_date_employee") {
			return attendance.AttendanceRecord{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.AttendanceRecord{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return record, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, companyID string) (attendance.AttendanceRecord, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendances a
		WHERE a.employee_id = $1
		  AND a.date = $2
		  AND a.company_id = $3
		LIMIT 1`

	att, err := scanAttendance(q.QueryRow(ctx, query, employeeID, date, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.AttendanceRecord{}, attendance.ErrAttendanceNotFound
		}
		return attendance.AttendanceRecord{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	return att, nil
}

// Update implements attendance.AttendanceRepository.
func (a *attendanceRepository) Update(ctx context.Context, record attendance.AttendanceRecord) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances SET
			check_in_time = $1,
			check_out_time = $2,
			status = $3,
			late_minutes = $4,
			early_leave_minutes = $5,
			break_minutes = $6,
			break_started_at = $7,
			total_work_minutes = $8,
			overtime_minutes = $9,
			is_half_day = $10,
			updated_at = NOW()
		WHERE id = $11 AND company_id = $12
	`

	tag, err := q.Exec(ctx, query,
		record.CheckInTime,
		record.CheckOutTime,
		record.Status,
		record.LateMinutes,
		record.EarlyLeaveMinutes,
		record.BreakMinutes,
		record.BreakStartedAt,
		record.TotalWorkMinutes,
		record.OvertimeMinutes,
		record.IsHalfDay,
		record.ID,
		record.CompanyID,
	)
	if err != nil {
		return fmt.Errorf("failed to update attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}

// ListByDate implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListByDate(ctx context.Context, date time.Time, companyID string) ([]attendance.AttendanceRecord, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + `, e.full_name
		FROM attendances a
		JOIN employees e ON e.id = a.employee_id
		WHERE a.date = $1 AND a.company_id = $2
		ORDER BY e.full_name`

	rows, err := q.Query(ctx, query, date, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendances: %w", err)
	}
	defer rows.Close()

	var records []attendance.AttendanceRecord
	for rows.Next() {
		var name string
		att, err := scanAttendance(rows, &name)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		att.EmployeeName = &name
		records = append(records, att)
	}
	return records, rows.Err()
}

// ListOpenSessions implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListOpenSessions(ctx context.Context, before time.Time) ([]attendance.AttendanceRecord, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendances a
		WHERE a.check_in_time IS NOT NULL
		  AND a.check_out_time IS NULL
		  AND a.check_in_time < $1
		ORDER BY a.check_in_time`

	rows, err := q.Query(ctx, query, before)
	if err != nil {
		return nil, fmt.Errorf("failed to list open sessions: %w", err)
	}
	defer rows.Close()

	var records []attendance.AttendanceRecord
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, att)
	}
	return records, rows.Err()
}
