package employee

import (
	"time"

	"github.com/cmlabs-hris/payroll-rules-engine/internal/pkg/validator"
)

// EmployeeInput is the flat wire shape of an employee snapshot. Overtime is
// hours for Hourly workers and a currency amount otherwise.
type EmployeeInput struct {
	ID                 string  `json:"id"`
	EmployeeCode       string  `json:"employee_code,omitempty"`
	FullName           string  `json:"full_name,omitempty"`
	WorkerType         string  `json:"worker_type"`
	Salary             float64 `json:"salary"`
	HourlyRate         float64 `json:"hourly_rate"`
	HoursWorked        float64 `json:"hours_worked"`
	Overtime           float64 `json:"overtime"`
	Allowances         float64 `json:"allowances"`
	Bonus              float64 `json:"bonus"`
	Reimbursements     float64 `json:"reimbursements"`
	Deductions         float64 `json:"deductions"`
	AnnualLeaveBalance float64 `json:"annual_leave_balance"`
	JoinDate           string  `json:"join_date,omitempty"` // YYYY-MM-DD
}

func (r *EmployeeInput) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsInSlice(r.WorkerType, WorkerTypeValues) {
		errs = append(errs, validator.ValidationError{
			Field:   "worker_type",
			Message: "worker_type must be one of: Salaried, Hourly, Contractor",
		})
	}

	if r.JoinDate != "" {
		if _, valid := validator.IsValidDate(r.JoinDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "join_date",
				Message: "join_date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ToEmployee converts the input into an Employee snapshot. Negative amounts are
// passed through untouched; non-negativity is the caller's concern.
func (r *EmployeeInput) ToEmployee() (Employee, error) {
	var comp Compensation
	switch WorkerType(r.WorkerType) {
	case WorkerTypeSalaried:
		comp = Salaried{Salary: r.Salary, Overtime: r.Overtime}
	case WorkerTypeHourly:
		comp = Hourly{
			HourlyRate:    r.HourlyRate,
			HoursWorked:   r.HoursWorked,
			OvertimeHours: r.Overtime,
			Salary:        r.Salary,
		}
	case WorkerTypeContractor:
		comp = Contractor{ContractAmount: r.Salary, Overtime: r.Overtime}
	default:
		return Employee{}, ErrInvalidWorkerType
	}

	var joinDate time.Time
	if r.JoinDate != "" {
		parsed, err := time.Parse("2006-01-02", r.JoinDate)
		if err != nil {
			return Employee{}, err
		}
		joinDate = parsed
	}

	return Employee{
		ID:                 r.ID,
		EmployeeCode:       r.EmployeeCode,
		FullName:           r.FullName,
		Compensation:       comp,
		Allowances:         r.Allowances,
		Bonus:              r.Bonus,
		Reimbursements:     r.Reimbursements,
		Deductions:         r.Deductions,
		AnnualLeaveBalance: r.AnnualLeaveBalance,
		JoinDate:           joinDate,
		EmploymentStatus:   EmploymentStatusActive,
	}, nil
}

// FromEmployee flattens an Employee back into its wire shape.
func FromEmployee(e Employee) EmployeeInput {
	in := EmployeeInput{
		ID:                 e.ID,
		EmployeeCode:       e.EmployeeCode,
		FullName:           e.FullName,
		WorkerType:         string(e.WorkerType()),
		Allowances:         e.Allowances,
		Bonus:              e.Bonus,
		Reimbursements:     e.Reimbursements,
		Deductions:         e.Deductions,
		AnnualLeaveBalance: e.AnnualLeaveBalance,
	}
	if !e.JoinDate.IsZero() {
		in.JoinDate = e.JoinDate.Format("2006-01-02")
	}
	if e.Compensation == nil {
		return in
	}

	return MatchCompensation(e.Compensation,
		func(s Salaried) EmployeeInput {
			in.Salary = s.Salary
			in.Overtime = s.Overtime
			return in
		},
		func(h Hourly) EmployeeInput {
			in.HourlyRate = h.HourlyRate
			in.HoursWorked = h.HoursWorked
			in.Overtime = h.OvertimeHours
			in.Salary = h.Salary
			return in
		},
		func(c Contractor) EmployeeInput {
			in.Salary = c.ContractAmount
			in.Overtime = c.Overtime
			return in
		},
	)
}
