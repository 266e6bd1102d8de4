package attendance

import (
	"context"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	ClockIn(ctx context.Context, req ClockRequest) (AttendanceResponse, error)
	ClockOut(ctx context.Context, req ClockRequest) (AttendanceResponse, error)
	StartBreak(ctx context.Context, req ClockRequest) (AttendanceResponse, error)

	// EndBreak closes the running break. An overlong break is reported, not rejected.
	EndBreak(ctx context.Context, req ClockRequest) (AttendanceResponse, error)

	// Evaluate runs the rules engine over caller-supplied times without persisting.
	Evaluate(ctx context.Context, req EvaluateRequest) (EvaluateResponse, error)

	Summary(ctx context.Context, req SummaryRequest) (DailySummary, error)
}
