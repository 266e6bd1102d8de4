package attendance

import (
	"fmt"
	"math"
	"time"

	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/schedule"
)

const fallbackDailyHours = 8

// shiftWindow returns the shift occurrence that t belongs to, in the rules'
// timezone. For an overnight shift, times before the midpoint of the off-duty
// gap belong to the occurrence that started the previous day.
func shiftWindow(shift schedule.Shift, t time.Time, rules attendance.RulesConfig) (start, end time.Time) {
	local := t.In(rules.Location())
	start, end = shift.On(local)
	if shift.IsOvernight() && local.Before(start) {
		mins := local.Hour()*60 + local.Minute()
		if mins < (shift.End.Minutes()+shift.Start.Minutes())/2 {
			start, end = shift.On(local.AddDate(0, 0, -1))
		}
	}
	return start, end
}

// ShiftDate returns the calendar day of the shift occurrence t belongs to.
func ShiftDate(shift schedule.Shift, t time.Time, rules attendance.RulesConfig) time.Time {
	start, _ := shiftWindow(shift, t, rules)
	return DateOf(start, rules.Location())
}

func wholeMinutes(d time.Duration) int {
	return int(d / time.Minute)
}

// DetermineStatus classifies a check-in. Lateness within the grace period
// counts as on time; beyond it the full lateness is reported.
func DetermineStatus(checkIn time.Time, shift *schedule.Shift, rules attendance.RulesConfig) attendance.StatusResult {
	if shift == nil {
		return attendance.StatusResult{Status: attendance.StatusPresent}
	}

	start, _ := shiftWindow(*shift, checkIn, rules)
	late := wholeMinutes(checkIn.Sub(start))
	if late <= 0 || late <= rules.GraceMinutes {
		return attendance.StatusResult{Status: attendance.StatusPresent}
	}
	return attendance.StatusResult{Status: attendance.StatusLate, LateMinutes: late}
}

// WorkedMinutes is the session length less breaks, never negative.
func WorkedMinutes(checkIn, checkOut time.Time, breakMinutes int) int {
	worked := wholeMinutes(checkOut.Sub(checkIn)) - breakMinutes
	if worked < 0 {
		return 0
	}
	return worked
}

// CalculateOvertimeMinutes returns minutes worked beyond the expected day plus
// the configured threshold. Without a shift the expected day comes from cfg,
// and from an 8 hour day when cfg is nil as well.
func CalculateOvertimeMinutes(checkIn, checkOut time.Time, breakMinutes int, shift *schedule.Shift, cfg *payroll.PayrollConfig, rules attendance.RulesConfig) int {
	worked := wholeMinutes(checkOut.Sub(checkIn)) - breakMinutes

	var expected int
	switch {
	case shift != nil:
		expected = wholeMinutes(shift.Duration())
	case cfg != nil:
		expected = int(math.Round(cfg.WorkingHours.Daily * 60))
	default:
		expected = fallbackDailyHours * 60
	}

	overtime := worked - expected - rules.OvertimeAfterMinutes
	if overtime < 0 {
		return 0
	}
	return overtime
}

// CalculateEarlyLeaveMinutes returns how long before shift end the employee left.
func CalculateEarlyLeaveMinutes(checkOut time.Time, shift *schedule.Shift, rules attendance.RulesConfig) int {
	if shift == nil {
		return 0
	}

	_, end := shiftWindow(*shift, checkOut, rules)
	if !checkOut.Before(end) {
		return 0
	}
	return wholeMinutes(end.Sub(checkOut))
}

// ShouldMarkAbsent reports whether now is past the absence cutoff for today's
// shift. Callers only ask for employees with no check-in that day.
func ShouldMarkAbsent(shift *schedule.Shift, now time.Time, rules attendance.RulesConfig) bool {
	if shift == nil {
		return false
	}

	start, _ := shiftWindow(*shift, now, rules)
	return now.After(start.Add(hoursDuration(rules.AutoAbsentAfterHours)))
}

// ShouldAutoClockOut reports whether an open session is stale: its shift ended
// more than AutoAbsentAfterHours ago. Sessions without a shift go stale a day
// after check-in.
func ShouldAutoClockOut(checkIn time.Time, shift *schedule.Shift, now time.Time, rules attendance.RulesConfig) bool {
	return now.After(AutoClockOutDeadline(checkIn, shift, rules))
}

// AutoClockOutDeadline is the instant after which an open session is stale.
func AutoClockOutDeadline(checkIn time.Time, shift *schedule.Shift, rules attendance.RulesConfig) time.Time {
	if shift == nil {
		return checkIn.Add(24 * time.Hour)
	}
	_, end := shiftWindow(*shift, checkIn, rules)
	return end.Add(hoursDuration(rules.AutoAbsentAfterHours))
}

// SessionEnd is where an auto clock-out closes the session: shift end, or
// check-in plus the default day when no shift applies.
func SessionEnd(checkIn time.Time, shift *schedule.Shift, rules attendance.RulesConfig) time.Time {
	if shift == nil {
		return checkIn.Add(fallbackDailyHours * time.Hour)
	}
	_, end := shiftWindow(*shift, checkIn, rules)
	if end.Before(checkIn) {
		return checkIn
	}
	return end
}

// ValidateBreakDuration is advisory. An overlong break is reported, never rejected.
func ValidateBreakDuration(minutes int, rules attendance.RulesConfig) attendance.BreakValidation {
	if minutes <= rules.MaxBreakMinutes {
		return attendance.BreakValidation{IsValid: true}
	}
	return attendance.BreakValidation{
		IsValid: false,
		Message: fmt.Sprintf("Break of %d minutes exceeds the %d minute limit.", minutes, rules.MaxBreakMinutes),
	}
}

// IsWeekend tests date's own weekday against the configured weekend days.
func IsWeekend(date time.Time, rules attendance.RulesConfig) bool {
	day := date.Weekday()
	for _, d := range rules.WeekendDays {
		if d == day {
			return true
		}
	}
	return false
}

// IsHalfDay reports a worked day shorter than the half-day threshold.
func IsHalfDay(workedMinutes int, rules attendance.RulesConfig) bool {
	return workedMinutes > 0 && float64(workedMinutes) < rules.HalfDayThresholdHours*60
}

func hoursDuration(hours float64) time.Duration {
	return time.Duration(hours * float64(time.Hour))
}
