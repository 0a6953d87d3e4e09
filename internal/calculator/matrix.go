package calculator

import "math"

// MaxGoalsCeiling is the largest per-side goal count a score matrix may enumerate.
const MaxGoalsCeiling = 30

// ExpectedGoals holds the Poisson rates for the two sides of a match.
type ExpectedGoals struct {
	Home float64 `json:"home"`
	Away float64 `json:"away"`
}

// Validate checks that both rates are positive and finite.
func (eg ExpectedGoals) Validate() error {
	if !validRate(eg.Home) {
		return &InvalidRateError{Side: "home", Rate: eg.Home}
	}
	if !validRate(eg.Away) {
		return &InvalidRateError{Side: "away", Rate: eg.Away}
	}
	return nil
}

// ScoreMatrix is the joint probability grid of a match's final score.
// Cells[i][j] is the probability that home scores i and away scores j.
type ScoreMatrix struct {
	MaxGoals int
	Cells    [][]float64
}

// NewScoreMatrix builds the outer product of two independent Poisson
// distributions truncated at maxGoals per side. The tail beyond maxGoals is
// redistributed proportionally, so the grid always sums to 1.
func NewScoreMatrix(lambdaHome, lambdaAway float64, maxGoals int) (*ScoreMatrix, error) {
	if err := (ExpectedGoals{Home: lambdaHome, Away: lambdaAway}).Validate(); err != nil {
		return nil, err
	}
	if err := validateMaxGoals(maxGoals); err != nil {
		return nil, err
	}

	home := poissonMarginal(lambdaHome, maxGoals)
	away := poissonMarginal(lambdaAway, maxGoals)

	cells := make([][]float64, maxGoals+1)
	total := 0.0
	for i := range cells {
		cells[i] = make([]float64, maxGoals+1)
		for j := range cells[i] {
			cells[i][j] = home[i] * away[j]
			total += cells[i][j]
		}
	}

	for i := range cells {
		for j := range cells[i] {
			cells[i][j] /= total
		}
	}

	return &ScoreMatrix{MaxGoals: maxGoals, Cells: cells}, nil
}

// Size returns the number of rows (and columns) in the grid.
func (m *ScoreMatrix) Size() int {
	return len(m.Cells)
}

// CorrectScore returns the probability of a specific scoreline, or 0 when the
// scoreline lies outside the grid.
func (m *ScoreMatrix) CorrectScore(homeGoals, awayGoals int) float64 {
	if homeGoals < 0 || awayGoals < 0 || homeGoals >= m.Size() || awayGoals >= m.Size() {
		return 0
	}
	return m.Cells[homeGoals][awayGoals]
}

// TotalProbability returns the sum of all cells.
func (m *ScoreMatrix) TotalProbability() float64 {
	total := 0.0
	for _, row := range m.Cells {
		for _, p := range row {
			total += p
		}
	}
	return total
}

// ExpectedGoals returns the mean home and away goals under the truncated grid.
func (m *ScoreMatrix) ExpectedGoals() ExpectedGoals {
	var eg ExpectedGoals
	for i, row := range m.Cells {
		for j, p := range row {
			eg.Home += float64(i) * p
			eg.Away += float64(j) * p
		}
	}
	return eg
}

func validateMaxGoals(maxGoals int) error {
	if maxGoals < 0 || maxGoals > MaxGoalsCeiling {
		return &InvalidRangeError{Field: "max_goals", Value: float64(maxGoals), Min: 0, Max: MaxGoalsCeiling}
	}
	return nil
}

// checkNormalized fails when a distribution drifts from 1 by more than tolerance.
func checkNormalized(what string, sum float64) error {
	if math.IsNaN(sum) || math.Abs(sum-1) > tolerance {
		return &InvariantViolationError{What: what, Sum: sum}
	}
	return nil
}
