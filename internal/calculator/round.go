package calculator

import (
	"math"

	"github.com/shopspring/decimal"
)

// Round1 rounds v to one decimal place using half-to-even on the shortest
// decimal representation of v. Non-finite values are returned unchanged.
func Round1(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).RoundBank(1).InexactFloat64()
}
