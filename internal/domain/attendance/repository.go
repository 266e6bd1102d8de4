package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records.
// All methods take companyID to keep data company-scoped.
type AttendanceRepository interface {
	Create(ctx context.Context, record AttendanceRecord) (AttendanceRecord, error)

	// GetByEmployeeAndDate returns ErrAttendanceNotFound when the employee has no record for date.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, companyID string) (AttendanceRecord, error)

	Update(ctx context.Context, record AttendanceRecord) error

	ListByDate(ctx context.Context, date time.Time, companyID string) ([]AttendanceRecord, error)

	// ListOpenSessions returns records checked in but never checked out, across companies.
	ListOpenSessions(ctx context.Context, before time.Time) ([]AttendanceRecord, error)
}

// RulesRepository stores company-scoped attendance rules.
type RulesRepository interface {
	GetRules(ctx context.Context, companyID string) (RulesConfig, error)
	UpsertRules(ctx context.Context, rules RulesConfig) (RulesConfig, error)
}
