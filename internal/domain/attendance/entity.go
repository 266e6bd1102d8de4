package attendance

import (
	"sync"
	"time"
)

// Status enum
type Status string

const (
	StatusPresent      Status = "Present"
	StatusLate         Status = "Late"
	StatusAbsent       Status = "Absent"
	StatusOnBreak      Status = "On Break"
	StatusAutoClockOut Status = "Auto Clock-out"
)

// RulesConfig - Company attendance policy. Ships with defaults, see DefaultRulesConfig.
type RulesConfig struct {
	CompanyID             string         `json:"company_id,omitempty"`
	GraceMinutes          int            `json:"grace_minutes"`
	HalfDayThresholdHours float64        `json:"half_day_threshold_hours"`
	AutoAbsentAfterHours  float64        `json:"auto_absent_after_hours"`
	MaxBreakMinutes       int            `json:"max_break_minutes"`
	OvertimeAfterMinutes  int            `json:"overtime_after_minutes"`
	WeekendDays           []time.Weekday `json:"weekend_days"`
	Timezone              string         `json:"timezone"`
	UpdatedAt             time.Time      `json:"-"`
}

// DefaultRulesConfig returns the documented default policy.
func DefaultRulesConfig() RulesConfig {
	return RulesConfig{
		GraceMinutes:          15,
		HalfDayThresholdHours: 4,
		AutoAbsentAfterHours:  4,
		MaxBreakMinutes:       60,
		OvertimeAfterMinutes:  0,
		WeekendDays:           []time.Weekday{time.Sunday, time.Saturday},
		Timezone:              "UTC",
	}
}

// locations memoizes resolved timezones by name. Unknown names map to UTC.
var locations sync.Map

// Location resolves the configured timezone, falling back to UTC.
func (r RulesConfig) Location() *time.Location {
	if r.Timezone == "" {
		return time.UTC
	}
	if loc, ok := locations.Load(r.Timezone); ok {
		return loc.(*time.Location)
	}
	loc, err := time.LoadLocation(r.Timezone)
	if err != nil {
		loc = time.UTC
	}
	actual, _ := locations.LoadOrStore(r.Timezone, loc)
	return actual.(*time.Location)
}

// AttendanceRecord - One employee's attendance for one calendar day.
type AttendanceRecord struct {
	ID                string     `json:"id"`
	CompanyID         string     `json:"company_id"`
	EmployeeID        string     `json:"employee_id"`
	Date              time.Time  `json:"date"`
	CheckInTime       *time.Time `json:"check_in_time,omitempty"`
	CheckOutTime      *time.Time `json:"check_out_time,omitempty"`
	Status            Status     `json:"status"`
	LateMinutes       int        `json:"late_minutes"`
	EarlyLeaveMinutes int        `json:"early_leave_minutes"`
	BreakMinutes      int        `json:"break_minutes"`
	BreakStartedAt    *time.Time `json:"break_started_at,omitempty"`
	TotalWorkMinutes  int        `json:"total_work_minutes"`
	OvertimeMinutes   int        `json:"overtime_minutes"`
	IsHalfDay         bool       `json:"is_half_day"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`

	// DTO
	EmployeeName *string `json:"employee_name,omitempty"`
}

// IsOpen reports whether the employee has checked in but not yet out.
func (a AttendanceRecord) IsOpen() bool {
	return a.CheckInTime != nil && a.CheckOutTime == nil
}

// StatusResult is the outcome of evaluating a check-in against a shift.
type StatusResult struct {
	Status      Status `json:"status"`
	LateMinutes int    `json:"late_minutes"`
}

// BreakValidation is advisory; an invalid break is never rejected outright.
type BreakValidation struct {
	IsValid bool   `json:"is_valid"`
	Message string `json:"message,omitempty"`
}

// DailySummary - Aggregated attendance counts for one day.
type DailySummary struct {
	Date               string  `json:"date,omitempty"`
	Present            int     `json:"present"`
	Late               int     `json:"late"`
	Absent             int     `json:"absent"`
	OnBreak            int     `json:"on_break"`
	ClockedOut         int     `json:"clocked_out"`
	AverageWorkHours   float64 `json:"average_work_hours"`
	TotalOvertimeHours float64 `json:"total_overtime_hours"`
}
