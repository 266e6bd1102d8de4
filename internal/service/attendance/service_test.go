package attendance

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/schedule"
	"github.com/cmlabs-hris/payroll-rules-engine/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memAttendanceRepo struct {
	records map[string]attendance.AttendanceRecord
	seq     int
}

func newMemAttendanceRepo() *memAttendanceRepo {
	return &memAttendanceRepo{records: map[string]attendance.AttendanceRecord{}}
}

func recordKey(employeeID string, date time.Time) string {
	return employeeID + "|" + date.Format("2006-01-02")
}

func (r *memAttendanceRepo) Create(ctx context.Context, rec attendance.AttendanceRecord) (attendance.AttendanceRecord, error) {
	r.seq++
	rec.ID = fmt.Sprintf("att-%d", r.seq)
	r.records[recordKey(rec.EmployeeID, rec.Date)] = rec
	return rec, nil
}

func (r *memAttendanceRepo) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, companyID string) (attendance.AttendanceRecord, error) {
	rec, ok := r.records[recordKey(employeeID, date)]
	if !ok || rec.CompanyID != companyID {
		return attendance.AttendanceRecord{}, attendance.ErrAttendanceNotFound
	}
	return rec, nil
}

func (r *memAttendanceRepo) Update(ctx context.Context, rec attendance.AttendanceRecord) error {
	r.records[recordKey(rec.EmployeeID, rec.Date)] = rec
	return nil
}

func (r *memAttendanceRepo) ListByDate(ctx context.Context, date time.Time, companyID string) ([]attendance.AttendanceRecord, error) {
	var out []attendance.AttendanceRecord
	for _, rec := range r.records {
		if rec.CompanyID == companyID && rec.Date.Equal(date) {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *memAttendanceRepo) ListOpenSessions(ctx context.Context, before time.Time) ([]attendance.AttendanceRecord, error) {
	var out []attendance.AttendanceRecord
	for _, rec := range r.records {
		if rec.IsOpen() && rec.CheckInTime.Before(before) {
			out = append(out, rec)
		}
	}
	return out, nil
}

type memEmployeeRepo struct {
	employees []employee.Employee
}

func (r *memEmployeeRepo) GetByID(ctx context.Context, id string, companyID string) (employee.Employee, error) {
	for _, e := range r.employees {
		if e.ID == id && e.CompanyID == companyID {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (r *memEmployeeRepo) GetActiveByCompanyID(ctx context.Context, companyID string) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, e := range r.employees {
		if e.CompanyID == companyID && e.EmploymentStatus == employee.EmploymentStatusActive {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *memEmployeeRepo) CountActiveByCompanyID(ctx context.Context, companyID string) (int, error) {
	active, _ := r.GetActiveByCompanyID(ctx, companyID)
	return len(active), nil
}

func (r *memEmployeeRepo) MarkOffboarded(ctx context.Context, id string, companyID string, status employee.EmploymentStatus) error {
	return nil
}

type memShiftRepo struct {
	byEmployee map[string]schedule.Shift
}

func (r *memShiftRepo) GetByID(ctx context.Context, id string, companyID string) (schedule.Shift, error) {
	for _, s := range r.byEmployee {
		if s.ID == id {
			return s, nil
		}
	}
	return schedule.Shift{}, schedule.ErrShiftNotFound
}

func (r *memShiftRepo) GetByEmployeeID(ctx context.Context, employeeID string, companyID string) (schedule.Shift, error) {
	s, ok := r.byEmployee[employeeID]
	if !ok {
		return schedule.Shift{}, schedule.ErrShiftNotFound
	}
	return s, nil
}

func (r *memShiftRepo) ListByCompanyID(ctx context.Context, companyID string) ([]schedule.Shift, error) {
	var out []schedule.Shift
	for _, s := range r.byEmployee {
		out = append(out, s)
	}
	return out, nil
}

type staticSettings struct {
	rules attendance.RulesConfig
	cfg   payroll.PayrollConfig
}

func (s staticSettings) RulesConfig(ctx context.Context, companyID string) (attendance.RulesConfig, error) {
	return s.rules, nil
}

func (s staticSettings) PayrollConfig(ctx context.Context, companyID string) (payroll.PayrollConfig, error) {
	return s.cfg, nil
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func companyContext(t *testing.T, claims jwt.Claims) context.Context {
	t.Helper()
	ctx, err := jwt.ContextWithClaims(context.Background(), jwtauth.New("HS256", []byte("test-secret"), nil), claims)
	require.NoError(t, err)
	return ctx
}

type fixture struct {
	svc     *AttendanceServiceImpl
	records *memAttendanceRepo
	clock   *clock
	ctx     context.Context
}

func newFixture(t *testing.T) fixture {
	shiftID := "s1"
	shift := schedule.Shift{ID: shiftID, Start: schedule.MustParseClockTime("08:00"), End: schedule.MustParseClockTime("17:00")}
	employees := &memEmployeeRepo{employees: []employee.Employee{
		{ID: "e1", CompanyID: "c1", ShiftID: &shiftID, EmploymentStatus: employee.EmploymentStatusActive},
		{ID: "e2", CompanyID: "c1", EmploymentStatus: employee.EmploymentStatusActive},
		{ID: "e3", CompanyID: "c1", EmploymentStatus: employee.EmploymentStatusResigned},
	}}
	records := newMemAttendanceRepo()
	settings := staticSettings{
		rules: attendance.DefaultRulesConfig(),
		cfg:   payroll.PayrollConfig{WorkingHours: payroll.WorkingHours{Daily: 8}},
	}

	svc := NewAttendanceService(records, employees, &memShiftRepo{byEmployee: map[string]schedule.Shift{"e1": shift}}, settings).(*AttendanceServiceImpl)
	c := &clock{t: time.Date(2024, 3, 12, 8, 20, 0, 0, time.UTC)}
	svc.now = c.now

	return fixture{svc: svc, records: records, clock: c, ctx: companyContext(t, jwt.Claims{UserID: "u1", CompanyID: "c1", EmployeeID: "e1"})}
}

func TestAttendanceService_FullDay(t *testing.T) {
	f := newFixture(t)

	in, err := f.svc.ClockIn(f.ctx, attendance.ClockRequest{})
	require.NoError(t, err)
	assert.Equal(t, "e1", in.EmployeeID)
	assert.Equal(t, attendance.StatusLate, in.Status)
	assert.Equal(t, 20, in.LateMinutes)

	_, err = f.svc.ClockIn(f.ctx, attendance.ClockRequest{})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)

	f.clock.t = time.Date(2024, 3, 12, 12, 0, 0, 0, time.UTC)
	brk, err := f.svc.StartBreak(f.ctx, attendance.ClockRequest{})
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusOnBreak, brk.Status)

	_, err = f.svc.StartBreak(f.ctx, attendance.ClockRequest{})
	assert.ErrorIs(t, err, attendance.ErrAlreadyOnBreak)

	f.clock.t = time.Date(2024, 3, 12, 13, 15, 0, 0, time.UTC)
	ended, err := f.svc.EndBreak(f.ctx, attendance.ClockRequest{})
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusLate, ended.Status)
	assert.Equal(t, 75, ended.BreakMinutes)
	require.NotNil(t, ended.Break)
	assert.False(t, ended.Break.IsValid)

	_, err = f.svc.EndBreak(f.ctx, attendance.ClockRequest{})
	assert.ErrorIs(t, err, attendance.ErrNotOnBreak)

	f.clock.t = time.Date(2024, 3, 12, 16, 30, 0, 0, time.UTC)
	out, err := f.svc.ClockOut(f.ctx, attendance.ClockRequest{})
	require.NoError(t, err)
	assert.Equal(t, 8*60+10-75, out.TotalWorkMinutes)
	assert.Equal(t, 30, out.EarlyLeaveMinutes)
	assert.Zero(t, out.OvertimeMinutes)
	assert.False(t, out.IsHalfDay)
	assert.Nil(t, out.Break)

	_, err = f.svc.ClockOut(f.ctx, attendance.ClockRequest{})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedOut)
}

func TestAttendanceService_OvernightLateArrival(t *testing.T) {
	shiftID := "night"
	night := schedule.Shift{ID: shiftID, Start: schedule.MustParseClockTime("22:00"), End: schedule.MustParseClockTime("06:00")}
	employees := &memEmployeeRepo{employees: []employee.Employee{
		{ID: "n1", CompanyID: "c1", ShiftID: &shiftID, EmploymentStatus: employee.EmploymentStatusActive},
	}}
	records := newMemAttendanceRepo()
	settings := staticSettings{rules: attendance.DefaultRulesConfig()}
	svc := NewAttendanceService(records, employees, &memShiftRepo{byEmployee: map[string]schedule.Shift{"n1": night}}, settings).(*AttendanceServiceImpl)
	c := &clock{t: time.Date(2024, 3, 13, 0, 30, 0, 0, time.UTC)}
	svc.now = c.now
	ctx := companyContext(t, jwt.Claims{UserID: "u1", CompanyID: "c1", EmployeeID: "n1"})

	in, err := svc.ClockIn(ctx, attendance.ClockRequest{})
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusLate, in.Status)
	assert.Equal(t, 150, in.LateMinutes)
	assert.Equal(t, time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC), in.Date)

	c.t = time.Date(2024, 3, 13, 6, 0, 0, 0, time.UTC)
	out, err := svc.ClockOut(ctx, attendance.ClockRequest{})
	require.NoError(t, err)
	assert.Equal(t, 330, out.TotalWorkMinutes)
	assert.Zero(t, out.EarlyLeaveMinutes)

	// The shift that was worked is on record, so an absence sweep finds it.
	_, err = records.GetByEmployeeAndDate(context.Background(), "n1", time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC), "c1")
	require.NoError(t, err)

	c.t = time.Date(2024, 3, 13, 21, 55, 0, 0, time.UTC)
	next, err := svc.ClockIn(ctx, attendance.ClockRequest{})
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, next.Status)
	assert.Equal(t, time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC), next.Date)

	c.t = time.Date(2024, 3, 14, 6, 5, 0, 0, time.UTC)
	out, err = svc.ClockOut(ctx, attendance.ClockRequest{})
	require.NoError(t, err)
	assert.Equal(t, next.ID, out.ID)
	assert.Equal(t, 8*60+10, out.TotalWorkMinutes)
}

func TestAttendanceService_ClockOutWithoutShiftUsesConfig(t *testing.T) {
	f := newFixture(t)
	f.clock.t = time.Date(2024, 3, 12, 7, 0, 0, 0, time.UTC)

	in, err := f.svc.ClockIn(f.ctx, attendance.ClockRequest{EmployeeID: "e2"})
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, in.Status)

	f.clock.t = time.Date(2024, 3, 12, 10, 0, 0, 0, time.UTC)
	_, err = f.svc.StartBreak(f.ctx, attendance.ClockRequest{EmployeeID: "e2"})
	require.NoError(t, err)

	// Clocking out mid-break closes the break first.
	f.clock.t = time.Date(2024, 3, 12, 17, 0, 0, 0, time.UTC)
	out, err := f.svc.ClockOut(f.ctx, attendance.ClockRequest{EmployeeID: "e2"})
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, out.Status)
	assert.Equal(t, 3*60, out.TotalWorkMinutes)
	assert.True(t, out.IsHalfDay)
	require.NotNil(t, out.Break)
	assert.False(t, out.Break.IsValid)
}

func TestAttendanceService_Errors(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ClockOut(f.ctx, attendance.ClockRequest{})
	assert.ErrorIs(t, err, attendance.ErrNotCheckedIn)

	_, err = f.svc.ClockIn(f.ctx, attendance.ClockRequest{EmployeeID: "e3"})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotActive)

	_, err = f.svc.ClockIn(f.ctx, attendance.ClockRequest{EmployeeID: "nobody"})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	noEmployee := companyContext(t, jwt.Claims{CompanyID: "c1"})
	_, err = f.svc.ClockIn(noEmployee, attendance.ClockRequest{})
	assert.ErrorContains(t, err, "employee_id")
}

func TestAttendanceService_Evaluate(t *testing.T) {
	f := newFixture(t)
	shift := schedule.Shift{Start: schedule.MustParseClockTime("08:00"), End: schedule.MustParseClockTime("17:00")}
	out := "2024-03-16T18:00:00Z"

	resp, err := f.svc.Evaluate(context.Background(), attendance.EvaluateRequest{
		CheckIn:      "2024-03-16T08:20:00Z",
		CheckOut:     &out,
		BreakMinutes: 30,
		Shift:        &shift,
	})
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusLate, resp.Status)
	assert.Equal(t, 20, resp.LateMinutes)
	assert.Equal(t, 550, resp.WorkedMinutes)
	assert.Equal(t, 10, resp.OvertimeMinutes)
	assert.Zero(t, resp.EarlyLeaveMinutes)
	assert.True(t, resp.IsWeekend)
	assert.True(t, resp.Break.IsValid)

	grace := 30
	resp, err = f.svc.Evaluate(f.ctx, attendance.EvaluateRequest{CheckIn: "2024-03-12T08:20:00Z", Shift: &shift, Rules: &attendance.UpdateRulesConfigRequest{GraceMinutes: &grace}})
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, resp.Status)
	assert.Zero(t, resp.WorkedMinutes)

	_, err = f.svc.Evaluate(context.Background(), attendance.EvaluateRequest{CheckIn: "yesterday"})
	assert.Error(t, err)
}

func TestAttendanceService_EvaluatePartialRules(t *testing.T) {
	f := newFixture(t)
	shift := schedule.Shift{Start: schedule.MustParseClockTime("08:00"), End: schedule.MustParseClockTime("17:00")}

	body := `{"check_in":"2024-03-16T08:20:00Z","break_minutes":30,"rules":{"grace_minutes":30}}`
	var req attendance.EvaluateRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	req.Shift = &shift

	// Without a company the override applies on top of the defaults.
	resp, err := f.svc.Evaluate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, resp.Status)
	assert.True(t, resp.Break.IsValid)
	assert.True(t, resp.IsWeekend)

	// With a company it applies on top of the stored rules.
	stored := attendance.DefaultRulesConfig()
	stored.MaxBreakMinutes = 20
	stored.WeekendDays = []time.Weekday{time.Friday}
	f.svc.settings = staticSettings{rules: stored}

	var companyReq attendance.EvaluateRequest
	require.NoError(t, json.Unmarshal([]byte(body), &companyReq))
	companyReq.Shift = &shift
	resp, err = f.svc.Evaluate(f.ctx, companyReq)
	require.NoError(t, err)
	assert.Equal(t, attendance.StatusPresent, resp.Status)
	assert.False(t, resp.Break.IsValid)
	assert.False(t, resp.IsWeekend)

	negative := -1
	_, err = f.svc.Evaluate(f.ctx, attendance.EvaluateRequest{
		CheckIn: "2024-03-16T08:20:00Z",
		Rules:   &attendance.UpdateRulesConfigRequest{GraceMinutes: &negative},
	})
	assert.ErrorContains(t, err, "rules.grace_minutes")
}

func TestAttendanceService_Summary(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ClockIn(f.ctx, attendance.ClockRequest{EmployeeID: "e1"})
	require.NoError(t, err)
	_, err = f.svc.ClockIn(f.ctx, attendance.ClockRequest{EmployeeID: "e2"})
	require.NoError(t, err)

	s, err := f.svc.Summary(f.ctx, attendance.SummaryRequest{Date: "2024-03-12"})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-12", s.Date)
	assert.Equal(t, 2, s.Present)
	assert.Equal(t, 1, s.Late)
	assert.Equal(t, 0, s.Absent)

	_, err = f.svc.Summary(f.ctx, attendance.SummaryRequest{Date: "12/03/2024"})
	assert.Error(t, err)
}
