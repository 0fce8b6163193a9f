package affordability

import (
	"math"

	"movecalc/internal/model"
)

// Recalculate derives the full results record from the inputs.
// It is pure and total: inputs are sanitized first, every branch that
// could divide by zero is guarded, and a sum that overflows float64 is
// held at the largest finite value.
func Recalculate(in model.Inputs) model.Results {
	in = in.Sanitize()

	var r model.Results

	r.EquityFromSale = math.Max(0, in.CurrentPropertyValue-in.OutstandingMortgage)
	r.NetProceeds = r.EquityFromSale

	r.TransferTax = TransferTax(in.PropertyPrice, in.IsFirstTimeBuyer)
	r.BuyingCosts = r.TransferTax + in.AgencyFee + in.RemovalCosts
	r.TotalTransactionCosts = r.BuyingCosts

	r.TotalLiquidFunds = r.NetProceeds + in.CurrentSavings
	r.DepositAvailable = r.TotalLiquidFunds - r.BuyingCosts
	r.LoanAmount = math.Max(0, in.PropertyPrice-r.DepositAvailable)

	monthlyRate := MonthlyRate(in.InterestRate)
	numPayments := NumPayments(in.MortgageTerm)
	r.MonthlyPayment = MonthlyPayment(r.LoanAmount, monthlyRate, numPayments)

	r.TotalRepayable = r.MonthlyPayment * float64(numPayments)
	r.TotalInterest = math.Max(0, r.TotalRepayable-r.LoanAmount)
	return finiteResults(r)
}

func finiteResults(r model.Results) model.Results {
	for _, p := range []*float64{
		&r.EquityFromSale, &r.NetProceeds, &r.TransferTax, &r.BuyingCosts,
		&r.TotalTransactionCosts, &r.TotalLiquidFunds, &r.DepositAvailable,
		&r.LoanAmount, &r.MonthlyPayment, &r.TotalRepayable, &r.TotalInterest,
	} {
		switch {
		case math.IsNaN(*p):
			*p = 0
		case math.IsInf(*p, 1):
			*p = math.MaxFloat64
		case math.IsInf(*p, -1):
			*p = -math.MaxFloat64
		}
	}
	return r
}

// MonthlyRate converts an annual percentage to a monthly fraction.
func MonthlyRate(annualPercent float64) float64 {
	return annualPercent / 100 / 12
}

// NumPayments is the number of monthly payments over a term in years.
func NumPayments(termYears int) int {
	return termYears * 12
}

// MonthlyPayment is the level payment that amortizes loan over n months.
//
// With a positive rate and term it is the standard annuity payment
// loan * r(1+r)^n / ((1+r)^n - 1), evaluated as loan * r / (1 - (1+r)^-n)
// so large n cannot overflow. Otherwise the loan is repaid straight line
// over max(1, n) months.
func MonthlyPayment(loan, monthlyRate float64, n int) float64 {
	if loan <= 0 {
		return 0
	}
	if monthlyRate > 0 && n > 0 {
		denom := 1 - math.Pow(1+monthlyRate, -float64(n))
		if denom > 0 {
			p := loan * monthlyRate / denom
			if !math.IsNaN(p) && !math.IsInf(p, 0) {
				return p
			}
		}
	}
	return loan / math.Max(1, float64(n))
}
