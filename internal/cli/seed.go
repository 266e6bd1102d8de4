package cli

import (
	"fmt"
	"math"
	"time"

	"github.com/brianvoe/gofakeit"
	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/employee"
	"github.com/spf13/cobra"
)

type seedOptions struct {
	Count  int
	Seed   int64
	Output string
}

func newSeedCmd() *cobra.Command {
	var opts seedOptions

	cmd := &cobra.Command{
		Use:   "seed [-n 50]",
		Short: "Generate a fake employees file for calculate and settle.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Count < 1 {
				return fmt.Errorf("count must be at least 1")
			}
			if opts.Seed != 0 {
				gofakeit.Seed(opts.Seed)
			}
			return writeJSON(cmd.OutOrStdout(), opts.Output, FakeEmployees(opts.Count))
		},
	}

	cmd.Flags().IntVarP(&opts.Count, "count", "n", 50, "Number of employees to generate")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "Random seed for reproducible output")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Write the employees to this file instead of stdout")
	return cmd
}

// FakeEmployees generates n employee snapshots cycling through the worker types.
func FakeEmployees(n int) []employee.EmployeeInput {
	joinStart := time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC)
	joinEnd := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	out := make([]employee.EmployeeInput, 0, n)
	for i := 0; i < n; i++ {
		in := employee.EmployeeInput{
			ID:                 gofakeit.UUID(),
			EmployeeCode:       fmt.Sprintf("EMP-%04d", i+1),
			FullName:           gofakeit.Name(),
			WorkerType:         employee.WorkerTypeValues[i%len(employee.WorkerTypeValues)],
			Allowances:         roundCents(gofakeit.Float64Range(0, 500)),
			Bonus:              roundCents(gofakeit.Float64Range(0, 1000)),
			Reimbursements:     roundCents(gofakeit.Float64Range(0, 200)),
			Deductions:         roundCents(gofakeit.Float64Range(0, 100)),
			AnnualLeaveBalance: float64(gofakeit.Number(0, 20)),
			JoinDate:           gofakeit.DateRange(joinStart, joinEnd).Format("2006-01-02"),
		}

		switch employee.WorkerType(in.WorkerType) {
		case employee.WorkerTypeHourly:
			in.HourlyRate = roundCents(gofakeit.Float64Range(15, 60))
			in.HoursWorked = float64(gofakeit.Number(80, 176))
			in.Overtime = float64(gofakeit.Number(0, 20))
			in.Salary = roundCents(in.HourlyRate * 160)
		case employee.WorkerTypeContractor:
			in.Salary = roundCents(gofakeit.Float64Range(3000, 12000))
		default:
			in.Salary = roundCents(gofakeit.Float64Range(3000, 10000))
			in.Overtime = roundCents(gofakeit.Float64Range(0, 300))
		}
		out = append(out, in)
	}
	return out
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
