package employee

import "context"

// EmployeeRepository is read by the engine services. Writes belong to the
// HR-management collaborator except for the offboarding status change.
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string, companyID string) (Employee, error)
	GetActiveByCompanyID(ctx context.Context, companyID string) ([]Employee, error)
	CountActiveByCompanyID(ctx context.Context, companyID string) (int, error)
	MarkOffboarded(ctx context.Context, id string, companyID string, status EmploymentStatus) error
}
