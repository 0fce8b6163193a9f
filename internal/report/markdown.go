// Package report renders a calculation as Markdown, and from there as HTML
// for the API or styled text for a terminal.
package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"movecalc/internal/model"
	"movecalc/internal/money"
)

// Markdown summarises a calculation the way the calculator page lays it out.
func Markdown(in model.Inputs, res model.Results) string {
	var b strings.Builder

	b.WriteString("# Move Affordability\n\n")

	b.WriteString("## Monthly Payment\n\n")
	fmt.Fprintf(&b, "**%s** per month for %d years at %s.\n\n",
		money.Format(res.MonthlyPayment), in.MortgageTerm, rate(in.InterestRate))

	b.WriteString("## Liquidity Summary\n\n")
	table(&b, [][2]string{
		{"Sale Proceeds", money.Format(res.NetProceeds)},
		{"Savings", money.Format(in.CurrentSavings)},
		{"Total Liquid Funds", money.Format(res.TotalLiquidFunds)},
		{"Less: Buying Costs", "-" + money.Format(res.BuyingCosts)},
		{"**Available Deposit**", "**" + money.Format(res.DisplayDeposit()) + "**"},
	})

	b.WriteString("## Costs & Fees\n\n")
	taxLabel := "LBTT"
	if in.IsFirstTimeBuyer {
		taxLabel = "LBTT (first-time buyer)"
	}
	table(&b, [][2]string{
		{taxLabel, money.Format(res.TransferTax)},
		{"Agency Fee", money.Format(in.AgencyFee)},
		{"Removals", money.Format(in.RemovalCosts)},
		{"**Total Transaction Costs**", "**" + money.Format(res.TotalTransactionCosts) + "**"},
	})

	b.WriteString("## Mortgage Details\n\n")
	table(&b, [][2]string{
		{"Property Price", money.Format(in.PropertyPrice)},
		{"Loan Required", money.Format(res.LoanAmount)},
		{"Loan to Value", money.Percent(res.LoanToValue(in.PropertyPrice))},
		{"Total Repayable", money.Format(res.TotalRepayable)},
		{"Total Interest", money.Format(res.TotalInterest)},
	})

	switch res.FundingStatus() {
	case model.FundingSurplus:
		b.WriteString("> Ready to proceed: you have sufficient funds for this purchase.\n")
	case model.FundingShortfall:
		fmt.Fprintf(&b, "> Shortfall: buying costs exceed liquid funds by %s.\n",
			money.Format(-res.DepositAvailable))
	default:
		b.WriteString("> Liquid funds exactly cover the buying costs; nothing is left for a deposit.\n")
	}
	return b.String()
}

func table(b *strings.Builder, rows [][2]string) {
	b.WriteString("| Item | Amount |\n")
	b.WriteString("|---|---:|\n")
	for _, r := range rows {
		fmt.Fprintf(b, "| %s | %s |\n", r[0], r[1])
	}
	b.WriteString("\n")
}

func rate(p float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", p), "0"), ".") + "%"
}

var htmlRenderer = goldmark.New(goldmark.WithExtensions(extension.GFM))

// HTML converts report Markdown to an HTML fragment. Tables are rendered.
func HTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := htmlRenderer.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	return buf.String(), nil
}

// Terminal renders report Markdown for a terminal of the given width.
// Styles follow the terminal background.
func Terminal(markdown string, width int) (string, error) {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("create renderer: %w", err)
	}
	out, err := r.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("render terminal: %w", err)
	}
	return out, nil
}
