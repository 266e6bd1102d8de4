package cli

import (
	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/offboarding"
	offboardingService "github.com/cmlabs-hris/payroll-rules-engine/internal/service/offboarding"
	"github.com/spf13/cobra"
)

type settleOptions struct {
	EmployeeFile     string
	ConfigFile       string
	LastDay          string
	GratuityMonths   float64
	AdditionalPayout float64
	Output           string
}

func newSettleCmd() *cobra.Command {
	var opts settleOptions

	cmd := &cobra.Command{
		Use:   "settle -f employee.json --last-day YYYY-MM-DD",
		Short: "Compute the final settlement for a departing employee.",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := offboarding.PreviewSettlementRequest{
				LastWorkingDay:   opts.LastDay,
				GratuityMonths:   opts.GratuityMonths,
				AdditionalPayout: opts.AdditionalPayout,
			}
			if err := readJSON(opts.EmployeeFile, &req.Employee); err != nil {
				return err
			}
			cfg, err := loadConfig(opts.ConfigFile)
			if err != nil {
				return err
			}
			req.Config = &cfg

			// Preview with an explicit config needs no repositories.
			svc := offboardingService.NewOffboardingService(nil, nil, nil, nil)
			settlement, err := svc.Preview(cmd.Context(), req)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), opts.Output, settlement)
		},
	}

	cmd.Flags().StringVarP(&opts.EmployeeFile, "file", "f", "", "Employee JSON file")
	cmd.Flags().StringVarP(&opts.ConfigFile, "config", "c", "", "Payroll config JSON file (defaults when omitted)")
	cmd.Flags().StringVar(&opts.LastDay, "last-day", "", "Last working day as YYYY-MM-DD")
	cmd.Flags().Float64Var(&opts.GratuityMonths, "gratuity-months", 0, "Months of salary per year of service paid as gratuity")
	cmd.Flags().Float64Var(&opts.AdditionalPayout, "additional-payout", 0, "Extra amount added to the settlement")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Write the settlement to this file instead of stdout")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("last-day")
	return cmd
}
