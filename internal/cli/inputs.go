package cli

import (
	"github.com/spf13/cobra"

	"movecalc/internal/model"
)

// inputFlags binds the nine calculator inputs to command flags.
type inputFlags struct {
	price, rate, currentValue, outstanding, agencyFee, removals, savings float64
	term                                                                int
	ftb                                                                 bool
}

func addInputFlags(cmd *cobra.Command, f *inputFlags) {
	fs := cmd.Flags()
	fs.Float64Var(&f.price, "price", 0, "property price (£)")
	fs.Float64Var(&f.rate, "rate", 0, "annual interest rate (%)")
	fs.IntVar(&f.term, "term", 0, "mortgage term (years)")
	fs.BoolVar(&f.ftb, "ftb", false, "first-time buyer")
	fs.Float64Var(&f.currentValue, "current-value", 0, "value of the property being sold (£)")
	fs.Float64Var(&f.outstanding, "outstanding", 0, "mortgage outstanding on the property being sold (£)")
	fs.Float64Var(&f.agencyFee, "agency-fee", 0, "estate agency fee (£)")
	fs.Float64Var(&f.removals, "removals", 0, "removal costs (£)")
	fs.Float64Var(&f.savings, "savings", 0, "current savings (£)")
}

// resolve starts from base and applies only the flags the user set, so an
// explicit 0 still overrides a default.
func (f *inputFlags) resolve(cmd *cobra.Command, base model.Inputs) model.Inputs {
	in := base
	changed := cmd.Flags().Changed
	if changed("price") {
		in.PropertyPrice = f.price
	}
	if changed("rate") {
		in.InterestRate = f.rate
	}
	if changed("term") {
		in.MortgageTerm = f.term
	}
	if changed("ftb") {
		in.IsFirstTimeBuyer = f.ftb
	}
	if changed("current-value") {
		in.CurrentPropertyValue = f.currentValue
	}
	if changed("outstanding") {
		in.OutstandingMortgage = f.outstanding
	}
	if changed("agency-fee") {
		in.AgencyFee = f.agencyFee
	}
	if changed("removals") {
		in.RemovalCosts = f.removals
	}
	if changed("savings") {
		in.CurrentSavings = f.savings
	}
	return in.Sanitize()
}
