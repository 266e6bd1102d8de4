package schedule

import "context"

// ShiftRepository resolves the shift window assigned to an employee.
type ShiftRepository interface {
	GetByID(ctx context.Context, id string, companyID string) (Shift, error)
	// GetByEmployeeID returns ErrShiftNotFound when the employee has no shift.
	GetByEmployeeID(ctx context.Context, employeeID string, companyID string) (Shift, error)
	ListByCompanyID(ctx context.Context, companyID string) ([]Shift, error)
}
