package model

import "math"

// Results are derived from Inputs on every change and never edited directly.
//
// Invariants:
//   - TotalLiquidFunds = NetProceeds + CurrentSavings
//   - DepositAvailable = TotalLiquidFunds - BuyingCosts (may be negative)
//   - LoanAmount = max(0, PropertyPrice - DepositAvailable)
//   - TotalInterest = max(0, TotalRepayable - LoanAmount)
type Results struct {
	EquityFromSale        float64 `json:"equity_from_sale"`
	NetProceeds           float64 `json:"net_proceeds"`
	TransferTax           float64 `json:"transfer_tax"`
	BuyingCosts           float64 `json:"buying_costs"`
	TotalTransactionCosts float64 `json:"total_transaction_costs"`
	TotalLiquidFunds      float64 `json:"total_liquid_funds"`
	DepositAvailable      float64 `json:"deposit_available"`
	LoanAmount            float64 `json:"loan_amount"`
	MonthlyPayment        float64 `json:"monthly_payment"`
	TotalRepayable        float64 `json:"total_repayable"`
	TotalInterest         float64 `json:"total_interest"`
}

// LoanToValue is the loan as a percentage of the property price.
// It is display-only and 0 when nothing is borrowed.
func (r Results) LoanToValue(propertyPrice float64) float64 {
	if r.LoanAmount <= 0 {
		return 0
	}
	return r.LoanAmount / math.Max(1, propertyPrice) * 100
}

// DisplayDeposit clamps a shortfall to 0 for presentation. The stored
// DepositAvailable keeps its sign.
func (r Results) DisplayDeposit() float64 {
	return math.Max(0, r.DepositAvailable)
}

// FundingStatus classifies DepositAvailable.
// Keep these values stable; they are part of API and CSV output.
type FundingStatus string

const (
	FundingSurplus   FundingStatus = "SURPLUS"
	FundingBreakEven FundingStatus = "BREAK_EVEN"
	FundingShortfall FundingStatus = "SHORTFALL"
)

func (r Results) FundingStatus() FundingStatus {
	switch {
	case r.DepositAvailable < 0:
		return FundingShortfall
	case r.DepositAvailable > 0:
		return FundingSurplus
	default:
		return FundingBreakEven
	}
}
