package offboarding

import "context"

type OffboardingService interface {
	// Preview computes a settlement for a caller-supplied employee snapshot without persisting.
	Preview(ctx context.Context, req PreviewSettlementRequest) (FinalSettlement, error)

	// Settle computes and records the settlement and the employee's status change atomically.
	Settle(ctx context.Context, req CreateSettlementRequest) (FinalSettlement, error)

	GetSettlement(ctx context.Context, employeeID string) (FinalSettlement, error)
}
