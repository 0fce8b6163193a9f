package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"movecalc/internal/affordability"
)

// NewScheduleCommand creates the schedule command.
func NewScheduleCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		flags inputFlags
		out   string
	)
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Write the month-by-month repayment schedule as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			in := flags.resolve(cmd, rootOpts.config().Defaults)
			rows, err := affordability.Schedule(in, affordability.Recalculate(in))
			if err != nil {
				return fail(f, "schedule", err)
			}

			if out == "-" {
				return affordability.WriteScheduleCSV(cmd.OutOrStdout(), rows)
			}
			if err := writeCSVFile(out, rows); err != nil {
				return fail(f, "write schedule", err)
			}
			return f.Result(
				fmt.Sprintf("wrote %d rows to %s\n", len(rows), out),
				map[string]any{"rows": len(rows), "path": out},
			)
		},
	}
	addInputFlags(cmd, &flags)
	cmd.Flags().StringVar(&out, "out", "schedule.csv", "output CSV path (- for stdout)")
	return cmd
}

func writeCSVFile(path string, rows []affordability.ScheduleRow) (err error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()
	return affordability.WriteScheduleCSV(file, rows)
}
