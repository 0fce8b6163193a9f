package model

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	in := Inputs{
		PropertyPrice:        math.NaN(),
		InterestRate:         math.Inf(1),
		MortgageTerm:         -5,
		CurrentPropertyValue: -100,
		OutstandingMortgage:  math.Inf(-1),
		AgencyFee:            5e15,
		RemovalCosts:         800,
		CurrentSavings:       1000,
	}
	out := in.Sanitize()

	assert.Zero(t, out.PropertyPrice)
	assert.Zero(t, out.InterestRate)
	assert.Zero(t, out.MortgageTerm)
	assert.Zero(t, out.CurrentPropertyValue)
	assert.Zero(t, out.OutstandingMortgage)
	assert.Equal(t, 5e15, out.AgencyFee)
	assert.Equal(t, 800.0, out.RemovalCosts)
	assert.Equal(t, 1000.0, out.CurrentSavings)

	assert.Equal(t, 150, Inputs{MortgageTerm: 150}.Sanitize().MortgageTerm)
	assert.Equal(t, 5000.0, Inputs{InterestRate: 5000}.Sanitize().InterestRate)
	assert.Equal(t, maxTermYears, Inputs{MortgageTerm: math.MaxInt64}.Sanitize().MortgageTerm)
	assert.Equal(t, DefaultInputs(), DefaultInputs().Sanitize())
}

func TestParseNumber(t *testing.T) {
	tests := map[string]float64{
		"":          0,
		"  ":        0,
		"abc":       0,
		"NaN":       0,
		"Inf":       0,
		"1e400":     0,
		"42":        42,
		" 4.5 ":     4.5,
		"£750,000":  750000,
		"-12":       -12,
		"1,234.50":  1234.5,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseNumber(in), "input %q", in)
	}
}

func TestInputsSet(t *testing.T) {
	in := DefaultInputs()

	require.NoError(t, in.Set("property_price", "900000"))
	assert.Equal(t, 900000.0, in.PropertyPrice)

	require.NoError(t, in.Set("interestRate", "oops"))
	assert.Zero(t, in.InterestRate)

	require.NoError(t, in.Set("mortgage_term", "25.9"))
	assert.Equal(t, 25, in.MortgageTerm)

	require.NoError(t, in.Set("is_first_time_buyer", "yes"))
	assert.True(t, in.IsFirstTimeBuyer)
	require.NoError(t, in.Set("is_first_time_buyer", "false"))
	assert.False(t, in.IsFirstTimeBuyer)

	require.NoError(t, in.Set("current_savings", "-10"))
	assert.Zero(t, in.CurrentSavings)

	err := in.Set("colour", "red")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestInputsUnmarshalJSON_Lenient(t *testing.T) {
	raw := `{
		"property_price": "750000",
		"interest_rate": null,
		"mortgage_term": 27.6,
		"is_first_time_buyer": 1,
		"current_property_value": "not a number",
		"outstanding_mortgage": -150000,
		"agency_fee": true,
		"removal_costs": 800,
		"current_savings": "Infinity"
	}`
	var in Inputs
	require.NoError(t, json.Unmarshal([]byte(raw), &in))

	assert.Equal(t, 750000.0, in.PropertyPrice)
	assert.Zero(t, in.InterestRate)
	assert.Equal(t, 27, in.MortgageTerm)
	assert.True(t, in.IsFirstTimeBuyer)
	assert.Zero(t, in.CurrentPropertyValue)
	assert.Zero(t, in.OutstandingMortgage)
	assert.Zero(t, in.AgencyFee)
	assert.Equal(t, 800.0, in.RemovalCosts)
	assert.Zero(t, in.CurrentSavings)
}

func TestInputsUnmarshalJSON_BrowserPayload(t *testing.T) {
	raw := `{"propertyPrice":750000,"interestRate":4,"mortgageTerm":27,"isFirstTimeBuyer":false,
		"currentPropertyValue":200000,"outstandingMortgage":150000,"agencyFee":5000,
		"removalCosts":800,"currentSavings":100000}`
	var in Inputs
	require.NoError(t, json.Unmarshal([]byte(raw), &in))
	assert.Equal(t, DefaultInputs(), in)
}

func TestInputsJSONRoundTrip(t *testing.T) {
	want := DefaultInputs()
	raw, err := json.Marshal(want)
	require.NoError(t, err)

	var got Inputs
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, want, got)
}

func TestInputsUnmarshalJSON_NotAnObject(t *testing.T) {
	var in Inputs
	assert.Error(t, json.Unmarshal([]byte(`[1,2,3]`), &in))
}

func TestMergeInputs(t *testing.T) {
	base := DefaultInputs()
	out := MergeInputs(base, Inputs{PropertyPrice: 900000, IsFirstTimeBuyer: true})
	assert.Equal(t, 900000.0, out.PropertyPrice)
	assert.True(t, out.IsFirstTimeBuyer)
	assert.Equal(t, base.InterestRate, out.InterestRate)
	assert.Equal(t, base.CurrentSavings, out.CurrentSavings)
}

func TestFieldNames(t *testing.T) {
	names := FieldNames()
	require.Len(t, names, 9)
	assert.Equal(t, "property_price", names[0])
	assert.Equal(t, "current_savings", names[8])
}
