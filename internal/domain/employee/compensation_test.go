package employee

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchCompensation(t *testing.T) {
	name := func(c Compensation) string {
		return MatchCompensation(c,
			func(Salaried) string { return "salaried" },
			func(Hourly) string { return "hourly" },
			func(Contractor) string { return "contractor" },
		)
	}

	assert.Equal(t, "salaried", name(Salaried{Salary: 1}))
	assert.Equal(t, "salaried", name(&Salaried{Salary: 1}))
	assert.Equal(t, "hourly", name(Hourly{HourlyRate: 1}))
	assert.Equal(t, "contractor", name(Contractor{ContractAmount: 1}))
	assert.Panics(t, func() { name(nil) })
}

func TestMonthlySalary(t *testing.T) {
	assert.Equal(t, 10000.0, Salaried{Salary: 10000}.MonthlySalary())
	assert.Equal(t, 3000.0, Hourly{HourlyRate: 50, HoursWorked: 160, Salary: 3000}.MonthlySalary())
	assert.Equal(t, 7000.0, Contractor{ContractAmount: 7000}.MonthlySalary())
}

func TestEmployeeInput_ToEmployee(t *testing.T) {
	t.Run("hourly overtime is hours", func(t *testing.T) {
		in := EmployeeInput{ID: "e1", WorkerType: "Hourly", HourlyRate: 50, HoursWorked: 160, Overtime: 10, JoinDate: "2020-03-01"}
		require.NoError(t, in.Validate())

		emp, err := in.ToEmployee()
		require.NoError(t, err)
		assert.Equal(t, WorkerTypeHourly, emp.WorkerType())
		assert.Equal(t, Hourly{HourlyRate: 50, HoursWorked: 160, OvertimeHours: 10}, emp.Compensation)
		assert.Equal(t, 2020, emp.JoinDate.Year())
	})

	t.Run("contractor reuses salary as contract amount", func(t *testing.T) {
		in := EmployeeInput{WorkerType: "Contractor", Salary: 4000, Overtime: 200}
		emp, err := in.ToEmployee()
		require.NoError(t, err)
		assert.Equal(t, Contractor{ContractAmount: 4000, Overtime: 200}, emp.Compensation)
	})

	t.Run("unknown worker type", func(t *testing.T) {
		in := EmployeeInput{WorkerType: "Intern", JoinDate: "01-01-2020"}
		err := in.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "worker_type")
		assert.Contains(t, err.Error(), "join_date")

		_, err = in.ToEmployee()
		assert.ErrorIs(t, err, ErrInvalidWorkerType)
	})
}

func TestFromEmployee_RoundTrip(t *testing.T) {
	in := EmployeeInput{
		ID:         "e2",
		WorkerType: "Salaried",
		Salary:     10000,
		Overtime:   250,
		Allowances: 500,
		JoinDate:   "2019-07-15",
	}
	emp, err := in.ToEmployee()
	require.NoError(t, err)

	assert.Equal(t, in, FromEmployee(emp))
}
