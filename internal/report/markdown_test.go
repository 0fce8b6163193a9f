package report

import (
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"movecalc/internal/affordability"
	"movecalc/internal/model"
)

func zeroRateInputs() model.Inputs {
	return model.Inputs{
		PropertyPrice:  300000,
		InterestRate:   0,
		MortgageTerm:   25,
		AgencyFee:      2000,
		RemovalCosts:   1000,
		CurrentSavings: 100000,
	}
}

func TestMarkdown_Golden(t *testing.T) {
	in := zeroRateInputs()
	out := Markdown(in, affordability.Recalculate(in))

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "zero_rate", []byte(out))
}

func TestMarkdown_Headings(t *testing.T) {
	in := model.DefaultInputs()
	src := []byte(Markdown(in, affordability.Recalculate(in)))

	root := goldmark.DefaultParser().Parse(text.NewReader(src))
	var headings []string
	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if h, ok := n.(*ast.Heading); ok && entering {
			headings = append(headings, string(h.Text(src)))
		}
		return ast.WalkContinue, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Move Affordability",
		"Monthly Payment",
		"Liquidity Summary",
		"Costs & Fees",
		"Mortgage Details",
	}, headings)
}

func TestMarkdown_Shortfall(t *testing.T) {
	in := model.Inputs{PropertyPrice: 500000, MortgageTerm: 25, AgencyFee: 5000}
	out := Markdown(in, affordability.Recalculate(in))

	assert.Contains(t, out, "| **Available Deposit** | **£0** |")
	assert.Contains(t, out, "> Shortfall: buying costs exceed liquid funds by £")
}

func TestMarkdown_BreakEven(t *testing.T) {
	out := Markdown(model.Inputs{}, affordability.Recalculate(model.Inputs{}))
	assert.Contains(t, out, "nothing is left for a deposit")
}

func TestHTML_RendersTables(t *testing.T) {
	in := zeroRateInputs()
	html, err := HTML(Markdown(in, affordability.Recalculate(in)))
	require.NoError(t, err)

	assert.Contains(t, html, "<h1>Move Affordability</h1>")
	assert.Equal(t, 3, strings.Count(html, "<table>"))
	assert.Contains(t, html, "£207,600")
}

func TestTerminal(t *testing.T) {
	in := zeroRateInputs()
	out, err := Terminal(Markdown(in, affordability.Recalculate(in)), 0)
	require.NoError(t, err)
	assert.Contains(t, out, "Mortgage Details")
	assert.Contains(t, out, "£207,600")
}
