package calculator

import "math"

const (
	// DefaultHalfTimeShare is the fraction of a match's goals expected before half time.
	DefaultHalfTimeShare = 0.45

	// HalfTimeRateFloor keeps half-time rates away from a degenerate zero-rate Poisson.
	HalfTimeRateFloor = 0.01
)

// HalfTime holds the half-time projection of a full-time model.
type HalfTime struct {
	Rates   ExpectedGoals
	Matrix  *ScoreMatrix
	Markets *MarketSet
}

// HalfTimeRates scales full-time rates by share, floored at HalfTimeRateFloor.
func HalfTimeRates(ft ExpectedGoals, share float64) ExpectedGoals {
	return ExpectedGoals{
		Home: math.Max(HalfTimeRateFloor, ft.Home*share),
		Away: math.Max(HalfTimeRateFloor, ft.Away*share),
	}
}

// ProjectHalfTime derives half-time rates from full-time rates and re-runs the
// score matrix and market aggregation on them. Only the result, totals and
// BTTS of the half-time markets are considered meaningful; double chance and
// correct score are computed identically and left to the caller.
func ProjectHalfTime(ft ExpectedGoals, share float64, maxGoals int, lines []float64) (*HalfTime, error) {
	if err := ft.Validate(); err != nil {
		return nil, err
	}
	if err := validateHalfTimeShare(share); err != nil {
		return nil, err
	}

	rates := HalfTimeRates(ft, share)
	matrix, err := NewScoreMatrix(rates.Home, rates.Away, maxGoals)
	if err != nil {
		return nil, err
	}
	markets, err := Aggregate(matrix, lines)
	if err != nil {
		return nil, err
	}

	return &HalfTime{Rates: rates, Matrix: matrix, Markets: markets}, nil
}

func validateHalfTimeShare(share float64) error {
	if math.IsNaN(share) || share <= 0 || share > 1 {
		return &InvalidRangeError{Field: "ht_goal_share", Value: share, Min: 0, Max: 1}
	}
	return nil
}
