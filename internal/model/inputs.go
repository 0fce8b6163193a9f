package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// maxTermYears keeps the payment count (years * 12) inside int32.
const maxTermYears = math.MaxInt32 / 12

var ErrUnknownField = errors.New("unknown input field")

// Inputs are the nine values a user edits on the calculator.
// Units:
// - money fields: GBP
// - InterestRate: annual percentage (4.0 means 4%)
// - MortgageTerm: years
type Inputs struct {
	PropertyPrice        float64 `json:"property_price" yaml:"property_price"`
	InterestRate         float64 `json:"interest_rate" yaml:"interest_rate"`
	MortgageTerm         int     `json:"mortgage_term" yaml:"mortgage_term"`
	IsFirstTimeBuyer     bool    `json:"is_first_time_buyer" yaml:"is_first_time_buyer"`
	CurrentPropertyValue float64 `json:"current_property_value" yaml:"current_property_value"`
	OutstandingMortgage  float64 `json:"outstanding_mortgage" yaml:"outstanding_mortgage"`
	AgencyFee            float64 `json:"agency_fee" yaml:"agency_fee"`
	RemovalCosts         float64 `json:"removal_costs" yaml:"removal_costs"`
	CurrentSavings       float64 `json:"current_savings" yaml:"current_savings"`
}

// DefaultInputs returns the figures the calculator opens with.
func DefaultInputs() Inputs {
	return Inputs{
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

// Sanitize returns a copy where every numeric field is finite and not
// negative: NaN, ±Inf and negative values become 0. Large values are kept.
// This is the only place invalid input is coerced; the engine relies on it.
func (in Inputs) Sanitize() Inputs {
	out := in
	out.PropertyPrice = nonNegative(in.PropertyPrice)
	out.InterestRate = nonNegative(in.InterestRate)
	out.CurrentPropertyValue = nonNegative(in.CurrentPropertyValue)
	out.OutstandingMortgage = nonNegative(in.OutstandingMortgage)
	out.AgencyFee = nonNegative(in.AgencyFee)
	out.RemovalCosts = nonNegative(in.RemovalCosts)
	out.CurrentSavings = nonNegative(in.CurrentSavings)
	switch {
	case in.MortgageTerm < 0:
		out.MortgageTerm = 0
	case in.MortgageTerm > maxTermYears:
		out.MortgageTerm = maxTermYears
	}
	return out
}

func nonNegative(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) || x < 0 {
		return 0
	}
	return x
}

// ParseNumber coerces user text to a number the way the form did:
// anything that is not a finite number is 0. A leading "£", thousands
// separators and surrounding spaces are tolerated.
func ParseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "£")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0
	}
	x, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return x
}

// parseBool follows form checkbox semantics: "true", "yes", "on" and
// non-zero numbers are true.
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "yes", "y", "on":
		return true
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return ParseNumber(s) != 0
}

// termFromFloat truncates a fractional term and keeps it inside int range.
func termFromFloat(x float64) int {
	if math.IsNaN(x) || x <= 0 {
		return 0
	}
	if x > maxTermYears {
		return maxTermYears
	}
	return int(x)
}

type inputField struct {
	key   string
	alias string // key used by payloads saved from the browser page
	kind  string // "number", "term" or "bool"
	num   func(*Inputs) *float64
	flag  func(*Inputs) *bool
}

var inputFields = []inputField{
	{key: "property_price", alias: "propertyPrice", kind: "number", num: func(in *Inputs) *float64 { return &in.PropertyPrice }},
	{key: "interest_rate", alias: "interestRate", kind: "number", num: func(in *Inputs) *float64 { return &in.InterestRate }},
	{key: "mortgage_term", alias: "mortgageTerm", kind: "term"},
	{key: "is_first_time_buyer", alias: "isFirstTimeBuyer", kind: "bool", flag: func(in *Inputs) *bool { return &in.IsFirstTimeBuyer }},
	{key: "current_property_value", alias: "currentPropertyValue", kind: "number", num: func(in *Inputs) *float64 { return &in.CurrentPropertyValue }},
	{key: "outstanding_mortgage", alias: "outstandingMortgage", kind: "number", num: func(in *Inputs) *float64 { return &in.OutstandingMortgage }},
	{key: "agency_fee", alias: "agencyFee", kind: "number", num: func(in *Inputs) *float64 { return &in.AgencyFee }},
	{key: "removal_costs", alias: "removalCosts", kind: "number", num: func(in *Inputs) *float64 { return &in.RemovalCosts }},
	{key: "current_savings", alias: "currentSavings", kind: "number", num: func(in *Inputs) *float64 { return &in.CurrentSavings }},
}

// FieldNames lists the settable field keys in display order.
func FieldNames() []string {
	names := make([]string, len(inputFields))
	for i, f := range inputFields {
		names[i] = f.key
	}
	return names
}

func lookupField(name string) (inputField, bool) {
	for _, f := range inputFields {
		if f.key == name || f.alias == name {
			return f, true
		}
	}
	return inputField{}, false
}

// Set assigns one field from text, coercing the value like ParseNumber.
// The result is sanitized.
func (in *Inputs) Set(name, value string) error {
	f, ok := lookupField(strings.TrimSpace(name))
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	switch f.kind {
	case "bool":
		*f.flag(in) = parseBool(value)
	case "term":
		in.MortgageTerm = termFromFloat(ParseNumber(value))
	default:
		*f.num(in) = ParseNumber(value)
	}
	*in = in.Sanitize()
	return nil
}

// UnmarshalJSON is lenient: numbers, numeric strings, null and junk all
// decode, non-numeric values become 0 and the result is sanitized.
// Both snake_case keys and the camelCase keys of browser payloads are read.
func (in *Inputs) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var out Inputs
	for _, f := range inputFields {
		v, ok := raw[f.key]
		if !ok {
			v, ok = raw[f.alias]
		}
		if !ok {
			continue
		}
		switch f.kind {
		case "bool":
			*f.flag(&out) = coerceBool(v)
		case "term":
			out.MortgageTerm = termFromFloat(coerceNumber(v))
		default:
			*f.num(&out) = coerceNumber(v)
		}
	}
	*in = out.Sanitize()
	return nil
}

func coerceNumber(raw json.RawMessage) float64 {
	var x float64
	if err := json.Unmarshal(raw, &x); err == nil {
		return x
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return ParseNumber(s)
	}
	return 0
}

func coerceBool(raw json.RawMessage) bool {
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b
	}
	var x float64
	if err := json.Unmarshal(raw, &x); err == nil {
		return x != 0
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return parseBool(s)
	}
	return false
}

// MergeInputs overlays non-zero fields from override onto base.
// IsFirstTimeBuyer is taken from override only when it is set.
func MergeInputs(base, override Inputs) Inputs {
	out := base
	if override.PropertyPrice != 0 {
		out.PropertyPrice = override.PropertyPrice
	}
	if override.InterestRate != 0 {
		out.InterestRate = override.InterestRate
	}
	if override.MortgageTerm != 0 {
		out.MortgageTerm = override.MortgageTerm
	}
	if override.IsFirstTimeBuyer {
		out.IsFirstTimeBuyer = true
	}
	if override.CurrentPropertyValue != 0 {
		out.CurrentPropertyValue = override.CurrentPropertyValue
	}
	if override.OutstandingMortgage != 0 {
		out.OutstandingMortgage = override.OutstandingMortgage
	}
	if override.AgencyFee != 0 {
		out.AgencyFee = override.AgencyFee
	}
	if override.RemovalCosts != 0 {
		out.RemovalCosts = override.RemovalCosts
	}
	if override.CurrentSavings != 0 {
		out.CurrentSavings = override.CurrentSavings
	}
	return out
}
