package calculator

import "math"

// FairOdds is the zero-margin price implied by a model probability.
type FairOdds struct {
	Decimal  float64
	American int
}

// FairOddsFor converts a probability into fair decimal and American odds.
// It reports false when p has no finite price (p <= 0 or p >= 1).
func FairOddsFor(p float64) (FairOdds, bool) {
	if math.IsNaN(p) || p <= 0 || p >= 1 {
		return FairOdds{}, false
	}
	decimal := probabilityToDecimal(p)
	return FairOdds{
		Decimal:  round(decimal),
		American: decimalToAmerican(decimal),
	}, true
}

// probabilityToDecimal converts an implied probability to decimal odds
func probabilityToDecimal(p float64) float64 {
	return 1.0 / p
}

// decimalToAmerican converts decimal odds to American odds
func decimalToAmerican(decimal float64) int {
	if decimal >= 2.0 {
		return int(math.Round((decimal - 1.0) * 100))
	}
	return int(math.Round(-100.0 / (decimal - 1.0)))
}

// round rounds a float to 2 decimal places
func round(val float64) float64 {
	return math.Round(val*100) / 100
}
