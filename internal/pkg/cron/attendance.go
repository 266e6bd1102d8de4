package cron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/schedule"
	attendanceService "github.com/cmlabs-hris/payroll-rules-engine/internal/service/attendance"
)

// CompanyLister enumerates the companies a sweep runs for.
type CompanyLister interface {
	ListCompanyIDs(ctx context.Context) ([]string, error)
}

type AttendanceJobs struct {
	attendanceRepo attendance.AttendanceRepository
	employeeRepo   employee.EmployeeRepository
	shiftRepo      schedule.ShiftRepository
	settings       attendanceService.SettingsProvider
	companies      CompanyLister
	now            func() time.Time
}

func NewAttendanceJobs(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	shiftRepo schedule.ShiftRepository,
	settings attendanceService.SettingsProvider,
	companies CompanyLister,
	now func() time.Time,
) *AttendanceJobs {
	if now == nil {
		now = time.Now
	}
	return &AttendanceJobs{
		attendanceRepo: attendanceRepo,
		employeeRepo:   employeeRepo,
		shiftRepo:      shiftRepo,
		settings:       settings,
		companies:      companies,
		now:            now,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob("mark_absent_employees", interval, j.MarkAbsentEmployees)
	scheduler.AddJob("auto_clock_out_stale_sessions", interval, j.AutoClockOutStaleSessions)
}

// MarkAbsentEmployees records an Absent day for every active employee whose
// shift started more than AutoAbsentAfterHours ago without a check-in.
// Employees without a shift, and weekend days, are skipped.
func (j *AttendanceJobs) MarkAbsentEmployees(ctx context.Context) error {
	slog.Info("Cron: Starting mark absent employees job")

	companyIDs, err := j.companies.ListCompanyIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list companies: %w", err)
	}

	now := j.now()
	markedCount := 0
	for _, companyID := range companyIDs {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, err := j.markAbsentForCompany(ctx, companyID, now)
		if err != nil {
			slog.Error("Cron: Failed to mark absent employees", "company_id", companyID, "error", err)
			continue
		}
		markedCount += n
	}

	slog.Info("Cron: Marked absent employees", "count", markedCount)
	return nil
}

func (j *AttendanceJobs) markAbsentForCompany(ctx context.Context, companyID string, now time.Time) (int, error) {
	rules, err := j.settings.RulesConfig(ctx, companyID)
	if err != nil {
		return 0, fmt.Errorf("failed to get attendance rules: %w", err)
	}

	employees, err := j.employeeRepo.GetActiveByCompanyID(ctx, companyID)
	if err != nil {
		return 0, fmt.Errorf("failed to get employees: %w", err)
	}

	marked := 0
	for _, emp := range employees {
		shift, err := attendanceService.ShiftFor(ctx, j.shiftRepo, emp)
		if err != nil {
			slog.Error("Cron: Failed to get shift", "employee_id", emp.ID, "error", err)
			continue
		}
		if shift == nil || !attendanceService.ShouldMarkAbsent(shift, now, rules) {
			continue
		}

		date := attendanceService.ShiftDate(*shift, now, rules)
		if attendanceService.IsWeekend(date, rules) {
			continue
		}

		_, err = j.attendanceRepo.GetByEmployeeAndDate(ctx, emp.ID, date, companyID)
		if err == nil {
			continue
		}
		if !errors.Is(err, attendance.ErrAttendanceNotFound) {
			slog.Error("Cron: Failed to check attendance", "employee_id", emp.ID, "error", err)
			continue
		}

		_, err = j.attendanceRepo.Create(ctx, attendance.AttendanceRecord{
			CompanyID:  companyID,
			EmployeeID: emp.ID,
			Date:       date,
			Status:     attendance.StatusAbsent,
		})
		if err != nil {
			slog.Error("Cron: Failed to mark employee absent",
				"employee_id", emp.ID,
				"date", date.Format("2006-01-02"),
				"error", err)
			continue
		}
		marked++
	}

	return marked, nil
}

// AutoClockOutStaleSessions closes open sessions whose shift ended more than
// AutoAbsentAfterHours ago. The session is closed at shift end and flagged
// Auto Clock-out.
func (j *AttendanceJobs) AutoClockOutStaleSessions(ctx context.Context) error {
	slog.Info("Cron: Starting auto clock-out job")

	now := j.now()
	sessions, err := j.attendanceRepo.ListOpenSessions(ctx, now)
	if err != nil {
		return fmt.Errorf("failed to get open sessions: %w", err)
	}
	if len(sessions) == 0 {
		slog.Info("Cron: No open sessions found")
		return nil
	}

	rulesByCompany := make(map[string]attendance.RulesConfig)
	closedCount := 0
	for _, session := range sessions {
		if err := ctx.Err(); err != nil {
			return err
		}

		closed, err := j.autoClockOut(ctx, session, now, rulesByCompany)
		if err != nil {
			slog.Error("Cron: Failed to auto clock-out attendance",
				"attendance_id", session.ID,
				"employee_id", session.EmployeeID,
				"error", err)
			continue
		}
		if closed {
			closedCount++
		}
	}

	slog.Info("Cron: Auto clocked-out stale sessions", "count", closedCount)
	return nil
}

func (j *AttendanceJobs) autoClockOut(ctx context.Context, session attendance.AttendanceRecord, now time.Time, cache map[string]attendance.RulesConfig) (bool, error) {
	if session.CheckInTime == nil {
		return false, nil
	}

	rules, ok := cache[session.CompanyID]
	if !ok {
		var err error
		rules, err = j.settings.RulesConfig(ctx, session.CompanyID)
		if err != nil {
			return false, fmt.Errorf("failed to get attendance rules: %w", err)
		}
		cache[session.CompanyID] = rules
	}

	emp, err := j.employeeRepo.GetByID(ctx, session.EmployeeID, session.CompanyID)
	if err != nil {
		return false, fmt.Errorf("failed to get employee: %w", err)
	}
	shift, err := attendanceService.ShiftFor(ctx, j.shiftRepo, emp)
	if err != nil {
		return false, err
	}

	checkIn := *session.CheckInTime
	if !attendanceService.ShouldAutoClockOut(checkIn, shift, now, rules) {
		return false, nil
	}

	var cfg *payroll.PayrollConfig
	if shift == nil {
		c, err := j.settings.PayrollConfig(ctx, session.CompanyID)
		if err != nil {
			return false, fmt.Errorf("failed to get payroll config: %w", err)
		}
		cfg = &c
	}

	out := attendanceService.SessionEnd(checkIn, shift, rules)
	attendanceService.CloseSession(&session, out, shift, cfg, rules)
	session.Status = attendance.StatusAutoClockOut

	if err := j.attendanceRepo.Update(ctx, session); err != nil {
		return false, fmt.Errorf("failed to update attendance: %w", err)
	}

	slog.Info("Cron: Attendance auto clocked-out",
		"attendance_id", session.ID,
		"employee_id", session.EmployeeID,
		"check_out", out)
	return true, nil
}
