package model

import "math"

// TaxBand is one marginal band of a progressive transfer-tax schedule.
// Upper is the band's inclusive upper price bound; the last band of a
// schedule is unbounded (math.Inf(1)).
type TaxBand struct {
	Upper float64
	Rate  float64
}

// Unbounded reports whether the band has no upper limit.
func (b TaxBand) Unbounded() bool {
	return math.IsInf(b.Upper, 1)
}

// BandCharge is the part of a price that fell inside one band and the tax
// charged on it.
type BandCharge struct {
	From   float64 `json:"from"`
	Upper  float64 `json:"-"`
	Rate   float64 `json:"rate"`
	Slice  float64 `json:"slice"`
	Charge float64 `json:"charge"`
}
