package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/schedule"
	"github.com/cmlabs-hris/payroll-rules-engine/internal/pkg/jwt"
)

// SettingsProvider resolves the company settings the rules engine runs with.
type SettingsProvider interface {
	RulesConfig(ctx context.Context, companyID string) (attendance.RulesConfig, error)
	PayrollConfig(ctx context.Context, companyID string) (payroll.PayrollConfig, error)
}

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	employee.EmployeeRepository
	schedule.ShiftRepository
	settings SettingsProvider
	now      func() time.Time
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	shiftRepo schedule.ShiftRepository,
	settings SettingsProvider,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepo,
		EmployeeRepository:   employeeRepo,
		ShiftRepository:      shiftRepo,
		settings:             settings,
		now:                  time.Now,
	}
}

// DateOf returns the calendar day of t in loc, as a UTC midnight.
func DateOf(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// ShiftFor returns the employee's shift, or nil when none is assigned.
func ShiftFor(ctx context.Context, repo schedule.ShiftRepository, emp employee.Employee) (*schedule.Shift, error) {
	if emp.ShiftID == nil {
		return nil, nil
	}
	shift, err := repo.GetByEmployeeID(ctx, emp.ID, emp.CompanyID)
	if err != nil {
		if errors.Is(err, schedule.ErrShiftNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get shift: %w", err)
	}
	return &shift, nil
}

type clockContext struct {
	companyID string
	employee  employee.Employee
	rules     attendance.RulesConfig
	now       time.Time
}

func (s *AttendanceServiceImpl) prepare(ctx context.Context, req *attendance.ClockRequest) (clockContext, error) {
	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return clockContext{}, err
	}
	if req.EmployeeID == "" {
		req.EmployeeID = claims.EmployeeID
	}
	if err := req.Validate(); err != nil {
		return clockContext{}, err
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, req.EmployeeID, claims.CompanyID)
	if err != nil {
		return clockContext{}, err
	}
	if emp.EmploymentStatus != employee.EmploymentStatusActive {
		return clockContext{}, employee.ErrEmployeeNotActive
	}

	rules, err := s.settings.RulesConfig(ctx, claims.CompanyID)
	if err != nil {
		return clockContext{}, fmt.Errorf("failed to get attendance rules: %w", err)
	}

	return clockContext{companyID: claims.CompanyID, employee: emp, rules: rules, now: s.now().UTC()}, nil
}

// openRecord finds the employee's open session, today's first and then
// yesterday's for overnight shifts.
func (s *AttendanceServiceImpl) openRecord(ctx context.Context, cc clockContext) (attendance.AttendanceRecord, error) {
	today := DateOf(cc.now, cc.rules.Location())

	record, err := s.AttendanceRepository.GetByEmployeeAndDate(ctx, cc.employee.ID, today, cc.companyID)
	switch {
	case err == nil && record.IsOpen():
		return record, nil
	case err == nil && record.CheckOutTime != nil:
		return attendance.AttendanceRecord{}, attendance.ErrAlreadyCheckedOut
	case err != nil && !errors.Is(err, attendance.ErrAttendanceNotFound):
		return attendance.AttendanceRecord{}, fmt.Errorf("failed to get attendance: %w", err)
	}

	yesterday, err := s.AttendanceRepository.GetByEmployeeAndDate(ctx, cc.employee.ID, today.AddDate(0, 0, -1), cc.companyID)
	if err == nil && yesterday.IsOpen() {
		return yesterday, nil
	}
	if err != nil && !errors.Is(err, attendance.ErrAttendanceNotFound) {
		return attendance.AttendanceRecord{}, fmt.Errorf("failed to get attendance: %w", err)
	}
	return attendance.AttendanceRecord{}, attendance.ErrNotCheckedIn
}

// ClockIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ClockIn(ctx context.Context, req attendance.ClockRequest) (attendance.AttendanceResponse, error) {
	cc, err := s.prepare(ctx, &req)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	shift, err := ShiftFor(ctx, s.ShiftRepository, cc.employee)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	// The record belongs to the shift occurrence, which for an overnight
	// shift may have started the previous calendar day.
	date := DateOf(cc.now, cc.rules.Location())
	if shift != nil {
		date = ShiftDate(*shift, cc.now, cc.rules)
	}
	_, err = s.AttendanceRepository.GetByEmployeeAndDate(ctx, cc.employee.ID, date, cc.companyID)
	if err == nil {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedIn
	}
	if !errors.Is(err, attendance.ErrAttendanceNotFound) {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to check today's attendance: %w", err)
	}

	result := DetermineStatus(cc.now, shift, cc.rules)
	checkIn := cc.now
	record := attendance.AttendanceRecord{
		CompanyID:   cc.companyID,
		EmployeeID:  cc.employee.ID,
		Date:        date,
		CheckInTime: &checkIn,
		Status:      result.Status,
		LateMinutes: result.LateMinutes,
	}

	created, err := s.AttendanceRepository.Create(ctx, record)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to create attendance: %w", err)
	}
	return attendance.AttendanceResponse{AttendanceRecord: created}, nil
}

// ClockOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ClockOut(ctx context.Context, req attendance.ClockRequest) (attendance.AttendanceResponse, error) {
	cc, err := s.prepare(ctx, &req)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	record, err := s.openRecord(ctx, cc)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	shift, err := ShiftFor(ctx, s.ShiftRepository, cc.employee)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	var cfg *payroll.PayrollConfig
	if shift == nil {
		c, err := s.settings.PayrollConfig(ctx, cc.companyID)
		if err != nil {
			return attendance.AttendanceResponse{}, fmt.Errorf("failed to get payroll config: %w", err)
		}
		cfg = &c
	}

	var brk *attendance.BreakValidation
	if record.BreakStartedAt != nil {
		v := endBreak(&record, cc.now, cc.rules)
		brk = &v
	}
	CloseSession(&record, cc.now, shift, cfg, cc.rules)
	record.EarlyLeaveMinutes = CalculateEarlyLeaveMinutes(cc.now, shift, cc.rules)

	if err := s.AttendanceRepository.Update(ctx, record); err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to update attendance: %w", err)
	}
	return attendance.AttendanceResponse{AttendanceRecord: record, Break: brk}, nil
}

// StartBreak implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) StartBreak(ctx context.Context, req attendance.ClockRequest) (attendance.AttendanceResponse, error) {
	cc, err := s.prepare(ctx, &req)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	record, err := s.openRecord(ctx, cc)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if record.BreakStartedAt != nil {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyOnBreak
	}

	started := cc.now
	record.BreakStartedAt = &started
	record.Status = attendance.StatusOnBreak

	if err := s.AttendanceRepository.Update(ctx, record); err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to update attendance: %w", err)
	}
	return attendance.AttendanceResponse{AttendanceRecord: record}, nil
}

// EndBreak implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) EndBreak(ctx context.Context, req attendance.ClockRequest) (attendance.AttendanceResponse, error) {
	cc, err := s.prepare(ctx, &req)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	record, err := s.openRecord(ctx, cc)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if record.BreakStartedAt == nil {
		return attendance.AttendanceResponse{}, attendance.ErrNotOnBreak
	}

	v := endBreak(&record, cc.now, cc.rules)
	if err := s.AttendanceRepository.Update(ctx, record); err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to update attendance: %w", err)
	}
	return attendance.AttendanceResponse{AttendanceRecord: record, Break: &v}, nil
}

// endBreak folds the running break into the record and restores the check-in status.
func endBreak(record *attendance.AttendanceRecord, now time.Time, rules attendance.RulesConfig) attendance.BreakValidation {
	if record.BreakStartedAt != nil {
		record.BreakMinutes += wholeMinutes(now.Sub(*record.BreakStartedAt))
		record.BreakStartedAt = nil
	}
	if record.Status == attendance.StatusOnBreak {
		record.Status = checkInStatus(*record)
	}
	return ValidateBreakDuration(record.BreakMinutes, rules)
}

func checkInStatus(record attendance.AttendanceRecord) attendance.Status {
	if record.LateMinutes > 0 {
		return attendance.StatusLate
	}
	return attendance.StatusPresent
}

// CloseSession checks the record out at out and fills in the derived totals.
// The status reverts from On Break to the check-in status.
func CloseSession(record *attendance.AttendanceRecord, out time.Time, shift *schedule.Shift, cfg *payroll.PayrollConfig, rules attendance.RulesConfig) {
	if record.BreakStartedAt != nil {
		record.BreakMinutes += wholeMinutes(out.Sub(*record.BreakStartedAt))
		record.BreakStartedAt = nil
	}
	if record.Status == attendance.StatusOnBreak {
		record.Status = checkInStatus(*record)
	}

	checkOut := out
	record.CheckOutTime = &checkOut
	record.TotalWorkMinutes = WorkedMinutes(*record.CheckInTime, out, record.BreakMinutes)
	record.OvertimeMinutes = CalculateOvertimeMinutes(*record.CheckInTime, out, record.BreakMinutes, shift, cfg, rules)
	record.IsHalfDay = IsHalfDay(record.TotalWorkMinutes, rules)
}

// Evaluate implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Evaluate(ctx context.Context, req attendance.EvaluateRequest) (attendance.EvaluateResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.EvaluateResponse{}, err
	}

	claims, claimsErr := jwt.ClaimsFromContext(ctx)

	rules := attendance.DefaultRulesConfig()
	if claimsErr == nil {
		r, err := s.settings.RulesConfig(ctx, claims.CompanyID)
		if err != nil {
			return attendance.EvaluateResponse{}, fmt.Errorf("failed to get attendance rules: %w", err)
		}
		rules = r
	}
	if req.Rules != nil {
		rules = req.Rules.Apply(rules)
	}

	cfg := req.Config
	if cfg == nil && req.Shift == nil && claimsErr == nil {
		c, err := s.settings.PayrollConfig(ctx, claims.CompanyID)
		if err != nil {
			return attendance.EvaluateResponse{}, fmt.Errorf("failed to get payroll config: %w", err)
		}
		cfg = &c
	}

	status := DetermineStatus(req.CheckInAt, req.Shift, rules)
	resp := attendance.EvaluateResponse{
		Status:      status.Status,
		LateMinutes: status.LateMinutes,
		IsWeekend:   IsWeekend(req.CheckInAt.In(rules.Location()), rules),
		Break:       ValidateBreakDuration(req.BreakMinutes, rules),
	}

	if req.CheckOutAt != nil {
		out := *req.CheckOutAt
		resp.WorkedMinutes = WorkedMinutes(req.CheckInAt, out, req.BreakMinutes)
		resp.OvertimeMinutes = CalculateOvertimeMinutes(req.CheckInAt, out, req.BreakMinutes, req.Shift, cfg, rules)
		resp.EarlyLeaveMinutes = CalculateEarlyLeaveMinutes(out, req.Shift, rules)
		resp.IsHalfDay = IsHalfDay(resp.WorkedMinutes, rules)
	}

	return resp, nil
}

// Summary implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Summary(ctx context.Context, req attendance.SummaryRequest) (attendance.DailySummary, error) {
	if err := req.Validate(); err != nil {
		return attendance.DailySummary{}, err
	}

	claims, err := jwt.ClaimsFromContext(ctx)
	if err != nil {
		return attendance.DailySummary{}, err
	}

	records, err := s.AttendanceRepository.ListByDate(ctx, req.Day, claims.CompanyID)
	if err != nil {
		return attendance.DailySummary{}, fmt.Errorf("failed to list attendance: %w", err)
	}
	total, err := s.EmployeeRepository.CountActiveByCompanyID(ctx, claims.CompanyID)
	if err != nil {
		return attendance.DailySummary{}, fmt.Errorf("failed to count employees: %w", err)
	}

	summary := SummarizeDay(records, total)
	summary.Date = req.Date
	return summary, nil
}
