package cli

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/cmlabs-hris/payroll-rules-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/payroll-rules-engine/internal/fixtures"
	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

// NewRootCmd builds the payrollctl command tree. Every command works on local
// JSON files and never touches the database.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "payrollctl",
		Short:         "Run payroll and attendance calculations against JSON files.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newCalculateCmd(),
		newSettleCmd(),
		newEvaluateCmd(),
		newVarianceCmd(),
		newSeedCmd(),
	)
	return rootCmd
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		log.Fatalf("Error executing command: %s", err)
	}
}

func readJSON(path string, v interface{}) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}

// writeJSON writes v to path, or to w when path is empty.
func writeJSON(w io.Writer, path string, v interface{}) error {
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// loadConfig reads a payroll config file, or returns the defaults when path is empty.
func loadConfig(path string) (payroll.PayrollConfig, error) {
	if path == "" {
		return fixtures.GetDefaultPayrollConfig(""), nil
	}
	var cfg payroll.PayrollConfig
	if err := readJSON(path, &cfg); err != nil {
		return payroll.PayrollConfig{}, err
	}
	return cfg, nil
}
