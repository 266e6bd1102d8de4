package cli

import (
	"fmt"
	"strings"

	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/schedule"
	"github.com/cmlabs-hris/payroll-rules-engine/internal/fixtures"
	attendanceService "github.com/cmlabs-hris/payroll-rules-engine/internal/service/attendance"
	"github.com/spf13/cobra"
)

type evaluateOptions struct {
	CheckIn      string
	CheckOut     string
	BreakMinutes int
	Shift        string
	ShiftStart   string
	ShiftEnd     string
	RulesFile    string
	ConfigFile   string
	Output       string
}

func newEvaluateCmd() *cobra.Command {
	var opts evaluateOptions

	cmd := &cobra.Command{
		Use:   "evaluate --check-in RFC3339 [--check-out RFC3339] [--shift office]",
		Short: "Evaluate attendance times against a shift and the attendance rules.",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := attendance.EvaluateRequest{
				CheckIn:      opts.CheckIn,
				BreakMinutes: opts.BreakMinutes,
			}
			if opts.CheckOut != "" {
				req.CheckOut = &opts.CheckOut
			}

			shift, err := resolveShift(opts)
			if err != nil {
				return err
			}
			req.Shift = shift

			if opts.RulesFile != "" {
				var rules attendance.UpdateRulesConfigRequest
				if err := readJSON(opts.RulesFile, &rules); err != nil {
					return err
				}
				req.Rules = &rules
			}

			cfg, err := loadConfig(opts.ConfigFile)
			if err != nil {
				return err
			}
			req.Config = &cfg

			// Without a company Evaluate starts from the default rules and needs no repositories.
			svc := attendanceService.NewAttendanceService(nil, nil, nil, nil)
			result, err := svc.Evaluate(cmd.Context(), req)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), opts.Output, result)
		},
	}

	cmd.Flags().StringVar(&opts.CheckIn, "check-in", "", "Check-in time (RFC3339)")
	cmd.Flags().StringVar(&opts.CheckOut, "check-out", "", "Check-out time (RFC3339)")
	cmd.Flags().IntVar(&opts.BreakMinutes, "break-minutes", 0, "Minutes spent on break")
	cmd.Flags().StringVar(&opts.Shift, "shift", "", "Standard shift: office, afternoon or night")
	cmd.Flags().StringVar(&opts.ShiftStart, "shift-start", "", "Custom shift start (HH:mm)")
	cmd.Flags().StringVar(&opts.ShiftEnd, "shift-end", "", "Custom shift end (HH:mm)")
	cmd.Flags().StringVarP(&opts.RulesFile, "rules", "r", "", "Attendance rules JSON file (defaults when omitted)")
	cmd.Flags().StringVarP(&opts.ConfigFile, "config", "c", "", "Payroll config JSON file (defaults when omitted)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Write the result to this file instead of stdout")
	cmd.MarkFlagsMutuallyExclusive("shift", "shift-start")
	cmd.MarkFlagsRequiredTogether("shift-start", "shift-end")
	_ = cmd.MarkFlagRequired("check-in")
	return cmd
}

// resolveShift returns a standard shift by name, a custom shift, or nil when
// neither is given.
func resolveShift(opts evaluateOptions) (*schedule.Shift, error) {
	if opts.ShiftStart != "" {
		shift, err := schedule.NewShift(opts.ShiftStart, opts.ShiftEnd)
		if err != nil {
			return nil, err
		}
		return &shift, nil
	}
	if opts.Shift == "" {
		return nil, nil
	}

	for _, s := range fixtures.GetDefaultShifts("") {
		if strings.Contains(strings.ToLower(s.Name), strings.ToLower(opts.Shift)) {
			return &s, nil
		}
	}
	return nil, fmt.Errorf("unknown shift %q", opts.Shift)
}
