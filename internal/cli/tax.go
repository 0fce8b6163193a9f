package cli

import (
	"fmt"
	"math"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"movecalc/internal/affordability"
	"movecalc/internal/model"
	"movecalc/internal/money"
)

// TaxResult is the JSON payload of the tax command.
type TaxResult struct {
	Price          float64            `json:"price"`
	FirstTimeBuyer bool               `json:"first_time_buyer"`
	Tax            float64            `json:"tax"`
	Breakdown      []model.BandCharge `json:"breakdown"`
}

// NewTaxCommand creates the tax command.
func NewTaxCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		price string
		ftb   bool
	)
	cmd := &cobra.Command{
		Use:   "tax",
		Short: "Show the transfer tax on a price, band by band",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			p := model.ParseNumber(price)
			breakdown := affordability.TaxBreakdown(p, ftb)
			if breakdown == nil {
				breakdown = []model.BandCharge{}
			}
			result := TaxResult{
				Price:          p,
				FirstTimeBuyer: ftb,
				Tax:            affordability.TransferTax(p, ftb),
				Breakdown:      breakdown,
			}
			return f.Result(taxText(result), result)
		},
	}
	cmd.Flags().StringVar(&price, "price", "", "property price, e.g. 325000 or £325,000")
	cmd.Flags().BoolVar(&ftb, "ftb", false, "first-time buyer")
	_ = cmd.MarkFlagRequired("price")
	return cmd
}

func taxText(r TaxResult) string {
	var b strings.Builder
	who := "standard rates"
	if r.FirstTimeBuyer {
		who = "first-time buyer rates"
	}
	fmt.Fprintf(&b, "LBTT on %s (%s): %s\n", money.Format(r.Price), who, money.Format(r.Tax))
	if len(r.Breakdown) == 0 {
		if r.FirstTimeBuyer && r.Price > 0 {
			b.WriteString("No tax: price is within first-time buyer relief.\n")
		}
		return b.String()
	}

	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Band\tRate\tTaxed\tCharge\t")
	for _, c := range r.Breakdown {
		upper := "and above"
		if !math.IsInf(c.Upper, 1) {
			upper = "to " + money.Format(c.Upper)
		}
		fmt.Fprintf(tw, "%s %s\t%s\t%s\t%s\t\n",
			money.Format(c.From), upper,
			money.Percent(c.Rate*100),
			money.Format(c.Slice),
			money.Format(c.Charge))
	}
	tw.Flush()
	return b.String()
}
