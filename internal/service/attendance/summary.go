package attendance

import (
	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/attendance"
)

// SummarizeDay aggregates one day's records. Absent counts employees with no
// record at all; leave days are not considered.
func SummarizeDay(records []attendance.AttendanceRecord, totalEmployees int) attendance.DailySummary {
	var (
		s             attendance.DailySummary
		workMinutes   int
		overtimeTotal int
	)

	for _, r := range records {
		switch r.Status {
		case attendance.StatusPresent:
			s.Present++
		case attendance.StatusLate:
			s.Present++
			s.Late++
		case attendance.StatusOnBreak:
			s.OnBreak++
		}
		if r.CheckOutTime != nil {
			s.ClockedOut++
		}
		workMinutes += r.TotalWorkMinutes
		overtimeTotal += r.OvertimeMinutes
	}

	s.Absent = totalEmployees - len(records)
	if len(records) > 0 {
		s.AverageWorkHours = float64(workMinutes) / float64(len(records)) / 60
	}
	s.TotalOvertimeHours = float64(overtimeTotal) / 60
	return s
}
