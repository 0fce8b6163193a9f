package models

import (
	"movecalc/internal/affordability"
	"movecalc/internal/identity"
	"movecalc/internal/model"
	"movecalc/internal/store"
)

// CalculateResponse is returned by POST /api/v1/calculate.
type CalculateResponse struct {
	Inputs  model.Inputs  `json:"inputs"`
	Results model.Results `json:"results"`
	Display Display       `json:"display"`
}

// Display holds presentation-ready values derived from Results.
type Display struct {
	PropertyPrice         string              `json:"property_price"`
	TransferTax           string              `json:"transfer_tax"`
	BuyingCosts           string              `json:"buying_costs"`
	TotalTransactionCosts string              `json:"total_transaction_costs"`
	TotalLiquidFunds      string              `json:"total_liquid_funds"`
	DepositAvailable      string              `json:"deposit_available"` // clamped at £0
	LoanAmount            string              `json:"loan_amount"`
	MonthlyPayment        string              `json:"monthly_payment"`
	TotalRepayable        string              `json:"total_repayable"`
	TotalInterest         string              `json:"total_interest"`
	LoanToValue           string              `json:"loan_to_value"`
	FundingStatus         model.FundingStatus `json:"funding_status"`
	TaxBreakdown          []model.BandCharge  `json:"tax_breakdown"`
}

// ScheduleResponse is the JSON form of POST /api/v1/schedule.
type ScheduleResponse struct {
	Count int                         `json:"count"`
	Rows  []affordability.ScheduleRow `json:"rows"`
}

// TaxBandsResponse describes both transfer-tax schedules.
type TaxBandsResponse struct {
	ReliefThreshold float64       `json:"first_time_buyer_relief_threshold"`
	Standard        []TaxBandInfo `json:"standard"`
	FirstTimeBuyer  []TaxBandInfo `json:"first_time_buyer"`
}

// TaxBandInfo is one band. UpTo is omitted for the top, unbounded band.
type TaxBandInfo struct {
	From float64  `json:"from"`
	UpTo *float64 `json:"up_to,omitempty"`
	Rate float64  `json:"rate"`
}

// ConfigListResponse is returned by GET /api/v1/configs.
type ConfigListResponse struct {
	Backend string          `json:"backend"`
	Configs []store.Summary `json:"configs"`
}

type SaveConfigResponse struct {
	ID string `json:"id"`
}

type ConfigResponse struct {
	ID     string       `json:"id"`
	Inputs model.Inputs `json:"inputs"`
}

type UserResponse struct {
	User identity.User `json:"user"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
