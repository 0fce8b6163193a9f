package affordability

import (
	"math"

	"movecalc/internal/model"
)

// FirstTimeBuyerReliefThreshold is the price at or below which a first-time
// buyer pays no transfer tax.
const FirstTimeBuyerReliefThreshold = 175000.0

// FirstTimeBuyerBands is the LBTT schedule with first-time buyer relief.
var FirstTimeBuyerBands = []model.TaxBand{
	{Upper: 175000, Rate: 0},
	{Upper: 250000, Rate: 0.02},
	{Upper: 325000, Rate: 0.05},
	{Upper: 750000, Rate: 0.10},
	{Upper: math.Inf(1), Rate: 0.12},
}

// StandardBands is the LBTT schedule for everyone else.
var StandardBands = []model.TaxBand{
	{Upper: 145000, Rate: 0},
	{Upper: 250000, Rate: 0.02},
	{Upper: 325000, Rate: 0.05},
	{Upper: 750000, Rate: 0.10},
	{Upper: math.Inf(1), Rate: 0.12},
}

// Bands returns the schedule that applies to the buyer.
func Bands(firstTimeBuyer bool) []model.TaxBand {
	if firstTimeBuyer {
		return FirstTimeBuyerBands
	}
	return StandardBands
}

// TransferTax computes the tiered property transfer tax (LBTT) on price.
// A negative or non-finite price is treated as 0.
func TransferTax(price float64, firstTimeBuyer bool) float64 {
	tax := 0.0
	for _, c := range TaxBreakdown(price, firstTimeBuyer) {
		tax += c.Charge
	}
	return tax
}

// TaxBreakdown walks the bands in ascending order and returns the slice of
// price taxed in each band. Bands above the price are omitted.
func TaxBreakdown(price float64, firstTimeBuyer bool) []model.BandCharge {
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return nil
	}
	if firstTimeBuyer && price <= FirstTimeBuyerReliefThreshold {
		return nil
	}

	bands := Bands(firstTimeBuyer)
	out := make([]model.BandCharge, 0, len(bands))
	remaining := price
	from := 0.0
	for _, b := range bands {
		if remaining <= 0 {
			break
		}
		slice := math.Min(remaining, b.Upper-from)
		out = append(out, model.BandCharge{
			From:   from,
			Upper:  b.Upper,
			Rate:   b.Rate,
			Slice:  slice,
			Charge: slice * b.Rate,
		})
		remaining -= slice
		from = b.Upper
	}
	return out
}
