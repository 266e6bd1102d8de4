package attendance

import "errors"

// Attendance domain errors
var (
	// Clock errors
	ErrAlreadyCheckedIn  = errors.New("you have already checked in today")
	ErrNotCheckedIn      = errors.New("you have not checked in yet")
	ErrAlreadyCheckedOut = errors.New("you have already checked out")
	ErrAlreadyOnBreak    = errors.New("a break is already in progress")
	ErrNotOnBreak        = errors.New("no break in progress")

	// General errors
	ErrAttendanceNotFound  = errors.New("attendance record not found")
	ErrRulesConfigNotFound = errors.New("attendance rules not found")
	ErrInvalidTimezone     = errors.New("invalid timezone")
)
