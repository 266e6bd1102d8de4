package cli

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/employee"
	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-rules-engine/internal/pkg/validator"
	payrollService "github.com/cmlabs-hris/payroll-rules-engine/internal/service/payroll"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

type calculateOptions struct {
	EmployeesFile string
	ConfigFile    string
	Period        string
	Output        string
	Workers       int
}

func newCalculateCmd() *cobra.Command {
	var opts calculateOptions

	cmd := &cobra.Command{
		Use:   "calculate -f employees.json [-c config.json]",
		Short: "Calculate payroll for a list of employees and print the run.",
		RunE: func(cmd *cobra.Command, args []string) error {
			var inputs []employee.EmployeeInput
			if err := readJSON(opts.EmployeesFile, &inputs); err != nil {
				return err
			}
			cfg, err := loadConfig(opts.ConfigFile)
			if err != nil {
				return err
			}

			period := time.Now()
			if opts.Period != "" {
				period, err = time.Parse("2006-01", opts.Period)
				if err != nil {
					return fmt.Errorf("period must be in YYYY-MM format: %w", err)
				}
			}

			run, err := calculateRun(cmd, inputs, cfg, period, opts.Workers)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), opts.Output, run)
		},
	}

	cmd.Flags().StringVarP(&opts.EmployeesFile, "file", "f", "", "Employees JSON file")
	cmd.Flags().StringVarP(&opts.ConfigFile, "config", "c", "", "Payroll config JSON file (defaults when omitted)")
	cmd.Flags().StringVarP(&opts.Period, "period", "p", "", "Payroll period as YYYY-MM (current month when omitted)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Write the run to this file instead of stdout")
	cmd.Flags().IntVarP(&opts.Workers, "workers", "w", 8, "Number of concurrent calculations")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func calculateRun(cmd *cobra.Command, inputs []employee.EmployeeInput, cfg payroll.PayrollConfig, period time.Time, workers int) (payroll.PayrollRun, error) {
	employees := make([]employee.Employee, 0, len(inputs))
	seen := make(map[string]int, len(inputs))
	for i := range inputs {
		if err := inputs[i].Validate(); err != nil {
			return payroll.PayrollRun{}, fmt.Errorf("employee %d (%s): %w", i, inputs[i].ID, err)
		}
		if first, ok := seen[inputs[i].ID]; ok {
			return payroll.PayrollRun{}, fmt.Errorf("employee %d (%s): %w", i, inputs[i].ID, validator.ValidationErrors{{
				Field:   "id",
				Message: fmt.Sprintf("duplicate id, already used by employee %d", first),
			}})
		}
		seen[inputs[i].ID] = i
		emp, err := inputs[i].ToEmployee()
		if err != nil {
			return payroll.PayrollRun{}, fmt.Errorf("employee %d (%s): %w", i, inputs[i].ID, err)
		}
		employees = append(employees, emp)
	}

	details, err := payrollService.CalculateBatch(cmd.Context(), employees, cfg, workers)
	if err != nil {
		return payroll.PayrollRun{}, err
	}

	run := payroll.PayrollRun{
		ID:          uuid.NewString(),
		PeriodMonth: int(period.Month()),
		PeriodYear:  period.Year(),
		RunDate:     time.Now().UTC(),
		Employees:   make(map[string]payroll.PayrollRunEntry, len(employees)),
	}
	for i, emp := range employees {
		run.Employees[emp.ID] = payroll.PayrollRunEntry{
			EmployeeID:   emp.ID,
			EmployeeName: emp.FullName,
			EmployeeCode: emp.EmployeeCode,
			Details:      details[i],
		}
	}
	return run, nil
}
