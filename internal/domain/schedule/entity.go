package schedule

import (
	"encoding/json"
	"fmt"
	"time"
)

// ClockTime is a wall-clock time of day without a date component.
type ClockTime struct {
	Hour   int
	Minute int
}

// ParseClockTime parses an "HH:mm" string.
func ParseClockTime(s string) (ClockTime, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return ClockTime{}, fmt.Errorf("%w: %q", ErrInvalidClockTime, s)
	}
	return ClockTime{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// MustParseClockTime is ParseClockTime for literals known to be valid.
func MustParseClockTime(s string) ClockTime {
	c, err := ParseClockTime(s)
	if err != nil {
		panic(err)
	}
	return c
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// Minutes returns the number of minutes since midnight.
func (c ClockTime) Minutes() int {
	return c.Hour*60 + c.Minute
}

// On combines the clock time with the calendar day of t, in t's location.
func (c ClockTime) On(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), c.Hour, c.Minute, 0, 0, t.Location())
}

func (c ClockTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *ClockTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseClockTime(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Shift is a daily working window expressed in wall-clock times.
type Shift struct {
	ID        string    `json:"id,omitempty"`
	CompanyID string    `json:"company_id,omitempty"`
	Name      string    `json:"name,omitempty"`
	Start     ClockTime `json:"start_time"`
	End       ClockTime `json:"end_time"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// NewShift parses start and end "HH:mm" strings into a Shift.
func NewShift(start, end string) (Shift, error) {
	s, err := ParseClockTime(start)
	if err != nil {
		return Shift{}, err
	}
	e, err := ParseClockTime(end)
	if err != nil {
		return Shift{}, err
	}
	return Shift{Start: s, End: e}, nil
}

// IsOvernight reports whether the shift ends on the following calendar day.
func (s Shift) IsOvernight() bool {
	return s.End.Minutes() <= s.Start.Minutes()
}

// On returns the concrete start and end instants of the shift for the
// calendar day of t. Overnight shifts end on the next day.
func (s Shift) On(t time.Time) (start, end time.Time) {
	start = s.Start.On(t)
	end = s.End.On(t)
	if s.IsOvernight() {
		end = end.AddDate(0, 0, 1)
	}
	return start, end
}

// Duration is the scheduled length of the shift.
func (s Shift) Duration() time.Duration {
	mins := s.End.Minutes() - s.Start.Minutes()
	if s.IsOvernight() {
		mins += 24 * 60
	}
	return time.Duration(mins) * time.Minute
}
