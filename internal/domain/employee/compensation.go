package employee

import "fmt"

type WorkerType string

const (
	WorkerTypeSalaried   WorkerType = "Salaried"
	WorkerTypeHourly     WorkerType = "Hourly"
	WorkerTypeContractor WorkerType = "Contractor"
)

var WorkerTypeValues = []string{
	string(WorkerTypeSalaried),
	string(WorkerTypeHourly),
	string(WorkerTypeContractor),
}

// Compensation is the pay basis of an employee. The set of implementations is
// closed: Salaried, Hourly and Contractor.
type Compensation interface {
	WorkerType() WorkerType
	// MonthlySalary is the monthly amount used for settlement proration.
	MonthlySalary() float64
	sealed()
}

// Salaried is paid a fixed monthly salary. Overtime is a flat currency amount.
type Salaried struct {
	Salary   float64
	Overtime float64
}

// Hourly is paid per hour worked. OvertimeHours is multiplied by the hourly
// rate and the company's overtime multiplier. Salary is the contractual
// monthly reference salary and is not used by the payroll calculation.
type Hourly struct {
	HourlyRate    float64
	HoursWorked   float64
	OvertimeHours float64
	Salary        float64
}

// Contractor is paid a contract amount. Overtime is a flat currency amount.
type Contractor struct {
	ContractAmount float64
	Overtime       float64
}

func (Salaried) WorkerType() WorkerType   { return WorkerTypeSalaried }
func (Hourly) WorkerType() WorkerType     { return WorkerTypeHourly }
func (Contractor) WorkerType() WorkerType { return WorkerTypeContractor }

func (s Salaried) MonthlySalary() float64   { return s.Salary }
func (h Hourly) MonthlySalary() float64     { return h.Salary }
func (c Contractor) MonthlySalary() float64 { return c.ContractAmount }

func (Salaried) sealed()   {}
func (Hourly) sealed()     {}
func (Contractor) sealed() {}

// MatchCompensation dispatches on the compensation variant. Every caller has to
// supply a branch for each worker type.
func MatchCompensation[T any](
	c Compensation,
	onSalaried func(Salaried) T,
	onHourly func(Hourly) T,
	onContractor func(Contractor) T,
) T {
	switch v := c.(type) {
	case Salaried:
		return onSalaried(v)
	case *Salaried:
		return onSalaried(*v)
	case Hourly:
		return onHourly(v)
	case *Hourly:
		return onHourly(*v)
	case Contractor:
		return onContractor(v)
	case *Contractor:
		return onContractor(*v)
	default:
		panic(fmt.Sprintf("employee: unknown compensation %T", c))
	}
}
