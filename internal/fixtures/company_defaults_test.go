package fixtures

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetDefaultPayrollConfig(t *testing.T) {
	cfg := GetDefaultPayrollConfig("c1")
	assert.Equal(t, "c1", cfg.CompanyID)
	assert.Equal(t, 1.5, cfg.OvertimeMultiplier)
	assert.Equal(t, 8.0, cfg.WorkingHours.Daily)
}

func TestGetDefaultAttendanceRules(t *testing.T) {
	rules := GetDefaultAttendanceRules("c1")
	assert.Equal(t, "c1", rules.CompanyID)
	assert.Equal(t, 15, rules.GraceMinutes)
	assert.Equal(t, []time.Weekday{time.Sunday, time.Saturday}, rules.WeekendDays)
}

func TestGetDefaultShifts(t *testing.T) {
	shifts := GetDefaultShifts("c1")
	assert.Len(t, shifts, 3)

	want := []time.Duration{9 * time.Hour, 8 * time.Hour, 8 * time.Hour}
	for i, s := range shifts {
		assert.Equal(t, "c1", s.CompanyID)
		assert.Equal(t, want[i], s.Duration(), s.Name)
	}
	assert.False(t, shifts[0].IsOvernight())
	assert.True(t, shifts[2].IsOvernight())
}
