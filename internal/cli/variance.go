package cli

import (
	"sort"

	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/payroll"
	payrollService "github.com/cmlabs-hris/payroll-rules-engine/internal/service/payroll"
	"github.com/spf13/cobra"
)

type varianceOptions struct {
	CurrentFile  string
	PreviousFile string
	Output       string
}

func newVarianceCmd() *cobra.Command {
	var opts varianceOptions

	cmd := &cobra.Command{
		Use:   "variance --current run.json [--previous run.json]",
		Short: "Compare two payroll runs and rank net pay changes.",
		RunE: func(cmd *cobra.Command, args []string) error {
			var current payroll.PayrollRun
			if err := readJSON(opts.CurrentFile, &current); err != nil {
				return err
			}

			var previous *payroll.PayrollRun
			if opts.PreviousFile != "" {
				previous = &payroll.PayrollRun{}
				if err := readJSON(opts.PreviousFile, previous); err != nil {
					return err
				}
			}

			employees, details := runEmployees(current)
			report := payrollService.AnalyzeVariance(employees, details, previous)
			return writeJSON(cmd.OutOrStdout(), opts.Output, report)
		},
	}

	cmd.Flags().StringVar(&opts.CurrentFile, "current", "", "Current payroll run JSON file")
	cmd.Flags().StringVar(&opts.PreviousFile, "previous", "", "Previous payroll run JSON file (every employee is new when omitted)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Write the report to this file instead of stdout")
	_ = cmd.MarkFlagRequired("current")
	return cmd
}

// runEmployees flattens a run into employees ordered by ID and their details.
func runEmployees(run payroll.PayrollRun) ([]employee.Employee, map[string]payroll.PayrollDetails) {
	employees := make([]employee.Employee, 0, len(run.Employees))
	details := make(map[string]payroll.PayrollDetails, len(run.Employees))
	for id, entry := range run.Employees {
		employees = append(employees, employee.Employee{
			ID:           id,
			EmployeeCode: entry.EmployeeCode,
			FullName:     entry.EmployeeName,
		})
		details[id] = entry.Details
	}
	sort.Slice(employees, func(i, j int) bool { return employees[i].ID < employees[j].ID })
	return employees, details
}
