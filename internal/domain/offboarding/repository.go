package offboarding

import "context"

type SettlementRepository interface {
	Create(ctx context.Context, settlement FinalSettlement) (FinalSettlement, error)
	GetByEmployeeID(ctx context.Context, employeeID string, companyID string) (FinalSettlement, error)
}
