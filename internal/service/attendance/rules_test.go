package attendance

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustShift(t *testing.T, start, end string) *schedule.Shift {
	t.Helper()
	s, err := schedule.NewShift(start, end)
	require.NoError(t, err)
	return &s
}

func at(day, hour, minute int) time.Time {
	return time.Date(2024, 3, day, hour, minute, 0, 0, time.UTC)
}

func TestDetermineStatus(t *testing.T) {
	rules := attendance.DefaultRulesConfig()
	shift := mustShift(t, "08:00", "17:00")

	tests := []struct {
		name    string
		checkIn time.Time
		want    attendance.StatusResult
	}{
		{"early", at(12, 7, 45), attendance.StatusResult{Status: attendance.StatusPresent}},
		{"on time", at(12, 8, 0), attendance.StatusResult{Status: attendance.StatusPresent}},
		{"at grace boundary", at(12, 8, 15), attendance.StatusResult{Status: attendance.StatusPresent}},
		{"one past grace", at(12, 8, 16), attendance.StatusResult{Status: attendance.StatusLate, LateMinutes: 16}},
		{"twenty late", at(12, 8, 20), attendance.StatusResult{Status: attendance.StatusLate, LateMinutes: 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetermineStatus(tt.checkIn, shift, rules))
		})
	}

	t.Run("no shift", func(t *testing.T) {
		got := DetermineStatus(at(12, 23, 59), nil, rules)
		assert.Equal(t, attendance.StatusResult{Status: attendance.StatusPresent}, got)
	})

	t.Run("company timezone", func(t *testing.T) {
		r := rules
		r.Timezone = "Africa/Lusaka" // UTC+2
		got := DetermineStatus(at(12, 6, 30), shift, r)
		assert.Equal(t, attendance.StatusResult{Status: attendance.StatusLate, LateMinutes: 30}, got)
	})

	t.Run("overnight shift after midnight", func(t *testing.T) {
		night := mustShift(t, "22:00", "06:00")
		got := DetermineStatus(at(13, 0, 10), night, rules)
		assert.Equal(t, attendance.StatusResult{Status: attendance.StatusLate, LateMinutes: 130}, got)
	})
}

func TestCalculateOvertimeMinutes(t *testing.T) {
	rules := attendance.DefaultRulesConfig()
	shift := mustShift(t, "08:00", "17:00")
	cfg := &payroll.PayrollConfig{WorkingHours: payroll.WorkingHours{Daily: 7.5}}

	assert.Equal(t, 60, CalculateOvertimeMinutes(at(12, 8, 0), at(12, 18, 30), 30, shift, cfg, rules))
	assert.Equal(t, 120, CalculateOvertimeMinutes(at(12, 8, 0), at(12, 17, 30), 0, nil, cfg, rules))
	assert.Equal(t, 90, CalculateOvertimeMinutes(at(12, 8, 0), at(12, 17, 30), 0, nil, nil, rules))

	r := rules
	r.OvertimeAfterMinutes = 30
	assert.Equal(t, 30, CalculateOvertimeMinutes(at(12, 8, 0), at(12, 18, 0), 0, shift, nil, r))

	t.Run("never negative", func(t *testing.T) {
		cases := [][2]time.Time{
			{at(12, 8, 0), at(12, 9, 0)},
			{at(12, 8, 0), at(12, 8, 0)},
			{at(12, 18, 0), at(12, 8, 0)},
		}
		for _, c := range cases {
			for _, brk := range []int{0, 45, 10000} {
				assert.GreaterOrEqual(t, CalculateOvertimeMinutes(c[0], c[1], brk, shift, cfg, rules), 0)
				assert.GreaterOrEqual(t, CalculateOvertimeMinutes(c[0], c[1], brk, nil, nil, rules), 0)
			}
		}
	})
}

func TestCalculateEarlyLeaveMinutes(t *testing.T) {
	rules := attendance.DefaultRulesConfig()
	shift := mustShift(t, "08:00", "17:00")

	assert.Equal(t, 0, CalculateEarlyLeaveMinutes(at(12, 16, 0), nil, rules))
	assert.Equal(t, 0, CalculateEarlyLeaveMinutes(at(12, 17, 0), shift, rules))
	assert.Equal(t, 0, CalculateEarlyLeaveMinutes(at(12, 19, 0), shift, rules))
	assert.Equal(t, 45, CalculateEarlyLeaveMinutes(at(12, 16, 15), shift, rules))

	night := mustShift(t, "22:00", "06:00")
	assert.Equal(t, 60, CalculateEarlyLeaveMinutes(at(13, 5, 0), night, rules))
	assert.Equal(t, 0, CalculateEarlyLeaveMinutes(at(13, 6, 5), night, rules))
}

func TestShouldMarkAbsent(t *testing.T) {
	rules := attendance.DefaultRulesConfig()
	shift := mustShift(t, "08:00", "17:00")

	assert.False(t, ShouldMarkAbsent(nil, at(12, 23, 0), rules))
	assert.False(t, ShouldMarkAbsent(shift, at(12, 11, 59), rules))
	assert.False(t, ShouldMarkAbsent(shift, at(12, 12, 0), rules))
	assert.True(t, ShouldMarkAbsent(shift, at(12, 12, 1), rules))

	r := rules
	r.AutoAbsentAfterHours = 0.5
	assert.True(t, ShouldMarkAbsent(shift, at(12, 8, 31), r))
}

func TestShouldAutoClockOut(t *testing.T) {
	rules := attendance.DefaultRulesConfig()
	shift := mustShift(t, "08:00", "17:00")

	assert.False(t, ShouldAutoClockOut(at(12, 8, 0), shift, at(12, 21, 0), rules))
	assert.True(t, ShouldAutoClockOut(at(12, 8, 0), shift, at(12, 21, 1), rules))
	assert.Equal(t, at(12, 17, 0), SessionEnd(at(12, 8, 0), shift, rules))

	assert.False(t, ShouldAutoClockOut(at(12, 8, 0), nil, at(13, 8, 0), rules))
	assert.True(t, ShouldAutoClockOut(at(12, 8, 0), nil, at(13, 8, 1), rules))
	assert.Equal(t, at(12, 16, 0), SessionEnd(at(12, 8, 0), nil, rules))

	// Checked in after the shift already ended.
	assert.Equal(t, at(12, 18, 0), SessionEnd(at(12, 18, 0), shift, rules))
}

func TestValidateBreakDuration(t *testing.T) {
	rules := attendance.DefaultRulesConfig()

	assert.Equal(t, attendance.BreakValidation{IsValid: true}, ValidateBreakDuration(60, rules))
	assert.Equal(t, attendance.BreakValidation{IsValid: true}, ValidateBreakDuration(0, rules))

	v := ValidateBreakDuration(61, rules)
	assert.False(t, v.IsValid)
	assert.Equal(t, "Break of 61 minutes exceeds the 60 minute limit.", v.Message)
}

func TestIsWeekend(t *testing.T) {
	rules := attendance.DefaultRulesConfig()

	assert.True(t, IsWeekend(at(16, 12, 0), rules))  // Saturday
	assert.True(t, IsWeekend(at(17, 12, 0), rules))  // Sunday
	assert.False(t, IsWeekend(at(18, 12, 0), rules)) // Monday

	r := rules
	r.WeekendDays = []time.Weekday{time.Friday}
	assert.True(t, IsWeekend(at(15, 12, 0), r))
	assert.False(t, IsWeekend(at(16, 12, 0), r))
}

func TestIsHalfDay(t *testing.T) {
	rules := attendance.DefaultRulesConfig()

	assert.False(t, IsHalfDay(0, rules))
	assert.True(t, IsHalfDay(1, rules))
	assert.True(t, IsHalfDay(239, rules))
	assert.False(t, IsHalfDay(240, rules))
}

func TestWorkedMinutes(t *testing.T) {
	assert.Equal(t, 480, WorkedMinutes(at(12, 8, 0), at(12, 17, 0), 60))
	assert.Equal(t, 0, WorkedMinutes(at(12, 8, 0), at(12, 8, 30), 60))
}

func TestShiftDate(t *testing.T) {
	rules := attendance.DefaultRulesConfig()
	night, err := schedule.NewShift("22:00", "06:00")
	require.NoError(t, err)
	day, err := schedule.NewShift("09:00", "18:00")
	require.NoError(t, err)

	tests := []struct {
		name  string
		shift schedule.Shift
		at    time.Time
		want  time.Time
	}{
		{"day shift", day, time.Date(2024, 6, 3, 14, 0, 0, 0, time.UTC), time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)},
		{"overnight after midnight", night, time.Date(2024, 6, 4, 2, 0, 0, 0, time.UTC), time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)},
		{"overnight before start", night, time.Date(2024, 6, 4, 21, 0, 0, 0, time.UTC), time.Date(2024, 6, 4, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ShiftDate(tt.shift, tt.at, rules))
		})
	}
}
