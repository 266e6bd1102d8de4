package schedule

import "errors"

var (
	ErrShiftNotFound    = errors.New("shift not found")
	ErrInvalidClockTime = errors.New("invalid clock time, use HH:mm")
)
