package employee

import (
	"time"
)

// Employee is an immutable snapshot of the HR facts a calculation needs.
// It is owned by the HR-management collaborator; the engine only reads it.
type Employee struct {
	ID                 string
	CompanyID          string
	EmployeeCode       string
	FullName           string
	Compensation       Compensation
	Allowances         float64
	Bonus              float64
	Reimbursements     float64
	Deductions         float64 // other, non-statutory
	AnnualLeaveBalance float64 // days
	JoinDate           time.Time
	ShiftID            *string
	EmploymentStatus   EmploymentStatus
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// WorkerType returns the worker type of the employee's compensation, or an
// empty string when no compensation is attached.
func (e Employee) WorkerType() WorkerType {
	if e.Compensation == nil {
		return ""
	}
	return e.Compensation.WorkerType()
}

type EmploymentStatus string

const (
	EmploymentStatusActive     EmploymentStatus = "active"
	EmploymentStatusResigned   EmploymentStatus = "resigned"
	EmploymentStatusTerminated EmploymentStatus = "terminated"
)
