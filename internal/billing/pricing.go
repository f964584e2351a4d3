package billing

import "math"

// LineTotal computes the price of one draft line: quantity times unit price,
// less the percentage discount. Invalid inputs contribute nothing instead of
// erroring, so a half-filled draft stays computable while it is being edited:
// negative or NaN quantity/price count as zero, and a discount outside 0-100
// counts as zero discount.
func LineTotal(quantity int, unitPrice, discountPercent float64) float64 {
	if quantity < 0 {
		quantity = 0
	}
	if math.IsNaN(unitPrice) || math.IsInf(unitPrice, 0) || unitPrice < 0 {
		unitPrice = 0
	}
	if math.IsNaN(discountPercent) || discountPercent < 0 || discountPercent > 100 {
		discountPercent = 0
	}
	return float64(quantity) * unitPrice * (1 - discountPercent/100)
}

// Round2 rounds to currency precision. Totals are kept unrounded while a
// draft is open and rounded only for display and submission.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
