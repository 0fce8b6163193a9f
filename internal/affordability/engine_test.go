package affordability

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movecalc/internal/model"
)

func exampleInputs() model.Inputs {
	return model.Inputs{
		PropertyPrice:        750000,
		InterestRate:         4.0,
		MortgageTerm:         27,
		IsFirstTimeBuyer:     false,
		CurrentPropertyValue: 200000,
		OutstandingMortgage:  150000,
		AgencyFee:            5000,
		RemovalCosts:         800,
		CurrentSavings:       100000,
	}
}

func TestRecalculate_ExampleScenario(t *testing.T) {
	r := Recalculate(exampleInputs())

	assert.Equal(t, 50000.0, r.EquityFromSale)
	assert.Equal(t, r.EquityFromSale, r.NetProceeds)
	assert.InDelta(t, 48350, r.TransferTax, 1e-6)
	assert.InDelta(t, 54150, r.BuyingCosts, 1e-6)
	assert.Equal(t, r.BuyingCosts, r.TotalTransactionCosts)
	assert.Equal(t, 150000.0, r.TotalLiquidFunds)
	assert.InDelta(t, 95850, r.DepositAvailable, 1e-6)
	assert.InDelta(t, 654150, r.LoanAmount, 1e-6)

	rate := 0.04 / 12
	n := 324.0
	want := 654150 * (rate * math.Pow(1+rate, n)) / (math.Pow(1+rate, n) - 1)
	assert.InDelta(t, want, r.MonthlyPayment, 1e-6)
	assert.InDelta(t, 3304.82, r.MonthlyPayment, 0.01)
	assert.InDelta(t, r.MonthlyPayment*n, r.TotalRepayable, 1e-6)
	assert.InDelta(t, r.TotalRepayable-r.LoanAmount, r.TotalInterest, 1e-6)
}

func TestRecalculate_AllZero(t *testing.T) {
	assert.Equal(t, model.Results{}, Recalculate(model.Inputs{}))
}

func TestRecalculate_Idempotent(t *testing.T) {
	in := exampleInputs()
	assert.Equal(t, Recalculate(in), Recalculate(in))
}

func TestRecalculate_Invariants(t *testing.T) {
	cases := []model.Inputs{
		exampleInputs(),
		{PropertyPrice: 100000, CurrentSavings: 500000},
		{PropertyPrice: 300000, AgencyFee: 900000},
		{PropertyPrice: 180000, IsFirstTimeBuyer: true, InterestRate: 5.5, MortgageTerm: 30},
	}
	for _, in := range cases {
		r := Recalculate(in)
		assert.InDelta(t, r.NetProceeds+in.CurrentSavings, r.TotalLiquidFunds, 1e-6)
		assert.InDelta(t, r.TotalLiquidFunds-r.BuyingCosts, r.DepositAvailable, 1e-6)
		assert.InDelta(t, math.Max(0, in.PropertyPrice-r.DepositAvailable), r.LoanAmount, 1e-6)
		assert.InDelta(t, math.Max(0, r.TotalRepayable-r.LoanAmount), r.TotalInterest, 1e-6)
	}
}

func TestRecalculate_NegativeDepositIsKept(t *testing.T) {
	r := Recalculate(model.Inputs{PropertyPrice: 300000, AgencyFee: 10000})
	assert.Less(t, r.DepositAvailable, 0.0)
	assert.InDelta(t, 300000-r.DepositAvailable, r.LoanAmount, 1e-6)
	assert.Equal(t, model.FundingShortfall, r.FundingStatus())
	assert.Zero(t, r.DisplayDeposit())
}

func TestRecalculate_StraightLineFallback(t *testing.T) {
	t.Run("zero rate", func(t *testing.T) {
		r := Recalculate(model.Inputs{PropertyPrice: 120000, MortgageTerm: 10})
		require.InDelta(t, 120000+TransferTax(120000, false), r.LoanAmount, 1e-6)
		assert.InDelta(t, r.LoanAmount/120, r.MonthlyPayment, 1e-6)
		assert.Zero(t, r.TotalInterest)
	})
	t.Run("zero term", func(t *testing.T) {
		r := Recalculate(model.Inputs{PropertyPrice: 100000, InterestRate: 4})
		assert.InDelta(t, r.LoanAmount, r.MonthlyPayment, 1e-6)
		assert.Zero(t, r.TotalRepayable)
		assert.Zero(t, r.TotalInterest)
	})
}

func TestRecalculate_LargeInputsAreNotCapped(t *testing.T) {
	in := model.Inputs{PropertyPrice: 300000, InterestRate: 4, MortgageTerm: 150}
	r := Recalculate(in)
	assert.InDelta(t, 1800, r.TotalRepayable/r.MonthlyPayment, 1e-6)
	assert.InDelta(t, MonthlyPayment(r.LoanAmount, MonthlyRate(4), 1800), r.MonthlyPayment, 1e-9)

	big := Recalculate(model.Inputs{PropertyPrice: 2e12, InterestRate: 4, MortgageTerm: 25})
	assert.InDelta(t, 2e12+TransferTax(2e12, false), big.LoanAmount, 1)

	steep := Recalculate(model.Inputs{PropertyPrice: 100000, InterestRate: 2400, MortgageTerm: 1})
	assert.InDelta(t, MonthlyPayment(steep.LoanAmount, 2, 12), steep.MonthlyPayment, 1e-6)
}

func TestRecalculate_NeverNonFinite(t *testing.T) {
	cases := []model.Inputs{
		{PropertyPrice: math.MaxFloat64, CurrentSavings: math.MaxFloat64, CurrentPropertyValue: math.MaxFloat64, MortgageTerm: 30, InterestRate: 4},
		{PropertyPrice: math.NaN(), InterestRate: math.Inf(1), MortgageTerm: -3, CurrentSavings: math.Inf(-1)},
		{PropertyPrice: 1e300, InterestRate: 1e300, MortgageTerm: 1 << 30, AgencyFee: 1e300},
		{PropertyPrice: 500000, InterestRate: 1e-300, MortgageTerm: 25},
	}
	for _, in := range cases {
		r := Recalculate(in)
		for _, v := range []float64{
			r.EquityFromSale, r.NetProceeds, r.TransferTax, r.BuyingCosts, r.TotalTransactionCosts,
			r.TotalLiquidFunds, r.DepositAvailable, r.LoanAmount, r.MonthlyPayment, r.TotalRepayable, r.TotalInterest,
		} {
			require.False(t, math.IsNaN(v) || math.IsInf(v, 0), "non-finite result for %+v: %+v", in, r)
		}
	}
}

func TestMonthlyPayment_MatchesClassicFormula(t *testing.T) {
	for _, tc := range []struct {
		loan, annual float64
		years        int
	}{
		{200000, 3.5, 25}, {10000, 12, 2}, {654150, 4, 27},
	} {
		r := MonthlyRate(tc.annual)
		n := float64(NumPayments(tc.years))
		want := tc.loan * (r * math.Pow(1+r, n)) / (math.Pow(1+r, n) - 1)
		assert.InDelta(t, want, MonthlyPayment(tc.loan, r, NumPayments(tc.years)), 1e-6)
	}
}
