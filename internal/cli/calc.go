package cli

import (
	"github.com/spf13/cobra"

	"movecalc/internal/affordability"
	"movecalc/internal/model"
	"movecalc/internal/report"
)

// CalcResult is the JSON payload of the calc command.
type CalcResult struct {
	Inputs        model.Inputs        `json:"inputs"`
	Results       model.Results       `json:"results"`
	LoanToValue   float64             `json:"loan_to_value"`
	FundingStatus model.FundingStatus `json:"funding_status"`
}

// NewCalcCommand creates the calc command.
func NewCalcCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		flags    inputFlags
		markdown bool
		width    int
	)
	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Calculate a move from the configured defaults and flags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			in, res, err := calculate(cmd, rootOpts, &flags)
			if err != nil {
				return fail(f, "calculate failed", err)
			}
			f.VerboseLog("inputs: %+v", in)

			if f.Format == "json" {
				return f.Success(CalcResult{
					Inputs:        in,
					Results:       res,
					LoanToValue:   res.LoanToValue(in.PropertyPrice),
					FundingStatus: res.FundingStatus(),
				})
			}
			return printReport(f, report.Markdown(in, res), markdown, width)
		},
	}
	addInputFlags(cmd, &flags)
	cmd.Flags().BoolVar(&markdown, "markdown", false, "print raw Markdown instead of styled text")
	cmd.Flags().IntVar(&width, "width", 80, "wrap width for styled output")
	return cmd
}

// calculate computes locally, or on the server when --server is set. The
// server's defaults are then the base the input flags apply to.
func calculate(cmd *cobra.Command, rootOpts *RootOptions, flags *inputFlags) (model.Inputs, model.Results, error) {
	remote := rootOpts.remote()
	if remote == nil {
		in := flags.resolve(cmd, rootOpts.config().Defaults)
		return in, affordability.Recalculate(in), nil
	}
	base, err := remote.Defaults(cmd.Context())
	if err != nil {
		return model.Inputs{}, model.Results{}, err
	}
	in := flags.resolve(cmd, base)
	res, err := remote.Calculate(cmd.Context(), in)
	return in, res, err
}

// printReport writes md styled for the terminal, or raw when asked to or
// when styling fails.
func printReport(f *OutputFormatter, md string, raw bool, width int) error {
	if !raw {
		styled, err := report.Terminal(md, width)
		if err == nil {
			return f.Result(styled, nil)
		}
		f.VerboseLog("styled output unavailable: %v", err)
	}
	return f.Result(md, nil)
}
