package calculator

import (
	"fmt"
	"math"
	"sort"
	"strconv"
)

// tolerance is the allowed drift of a distribution's sum from 1.
const tolerance = 1e-9

// DefaultGoalLines are the over/under lines evaluated when none are configured.
var DefaultGoalLines = []float64{0.5, 1.5, 2.5, 3.5, 4.5}

// Result is the three-way match result (1X2) distribution.
type Result struct {
	Home float64
	Draw float64
	Away float64
}

// Sum returns Home + Draw + Away.
func (r Result) Sum() float64 {
	return r.Home + r.Draw + r.Away
}

// DoubleChance covers two of the three result outcomes per entry.
type DoubleChance struct {
	HomeOrDraw float64 // 1X
	HomeOrAway float64 // 12
	DrawOrAway float64 // X2
}

// BTTS is the both-teams-to-score distribution.
type BTTS struct {
	Yes float64
	No  float64
}

// Total is the over/under distribution for one goal line.
type Total struct {
	Line  float64
	Over  float64
	Under float64
}

// Key returns the line formatted as a market key, e.g. "2.5".
func (t Total) Key() string {
	return LineKey(t.Line)
}

// MarketSet holds every market derived from a single score matrix.
type MarketSet struct {
	Result       Result
	DoubleChance DoubleChance
	BTTS         BTTS
	Totals       []Total            // ascending by line
	CorrectScore map[string]float64 // "home-away" -> probability
}

// Total returns the over/under distribution for line, if it was computed.
func (ms *MarketSet) Total(line float64) (Total, bool) {
	for _, t := range ms.Totals {
		if t.Line == line {
			return t, true
		}
	}
	return Total{}, false
}

// Aggregate reduces a score matrix into its named markets. The matrix must
// sum to 1; lines are deduplicated and evaluated in ascending order.
func Aggregate(m *ScoreMatrix, lines []float64) (*MarketSet, error) {
	if m == nil || m.Size() == 0 {
		return nil, &InvariantViolationError{What: "score matrix", Sum: 0}
	}
	for _, row := range m.Cells {
		if len(row) != m.Size() {
			return nil, &InvariantViolationError{What: "non-square score matrix", Sum: m.TotalProbability()}
		}
	}
	if err := checkNormalized("score matrix", m.TotalProbability()); err != nil {
		return nil, err
	}
	lines, err := normalizeLines(lines)
	if err != nil {
		return nil, err
	}

	var result Result
	var btts BTTS
	byTotal := make([]float64, 2*m.Size()-1) // P(home + away = t)
	correctScore := make(map[string]float64, m.Size()*m.Size())

	for i, row := range m.Cells {
		for j, p := range row {
			switch {
			case i > j:
				result.Home += p
			case i == j:
				result.Draw += p
			default:
				result.Away += p
			}

			if i >= 1 && j >= 1 {
				btts.Yes += p
			}

			byTotal[i+j] += p
			correctScore[ScoreKey(i, j)] = p
		}
	}
	btts.No = 1 - btts.Yes

	totals := make([]Total, 0, len(lines))
	for _, line := range lines {
		threshold := int(math.Floor(line)) + 1
		over := 0.0
		for t := threshold; t < len(byTotal); t++ {
			over += byTotal[t]
		}
		totals = append(totals, Total{Line: line, Over: over, Under: 1 - over})
	}

	return &MarketSet{
		Result: result,
		DoubleChance: DoubleChance{
			HomeOrDraw: result.Home + result.Draw,
			HomeOrAway: result.Home + result.Away,
			DrawOrAway: result.Draw + result.Away,
		},
		BTTS:         btts,
		Totals:       totals,
		CorrectScore: correctScore,
	}, nil
}

// ScoreKey formats a scoreline as a correct-score market key, e.g. "2-1".
func ScoreKey(homeGoals, awayGoals int) string {
	return fmt.Sprintf("%d-%d", homeGoals, awayGoals)
}

// LineKey formats a goal line as a totals market key, e.g. "2.5".
func LineKey(line float64) string {
	return strconv.FormatFloat(line, 'f', -1, 64)
}

// ValidateGoalLines checks that every line is a finite number in
// [0, 2*MaxGoalsCeiling].
func ValidateGoalLines(lines []float64) error {
	_, err := normalizeLines(lines)
	return err
}

func normalizeLines(lines []float64) ([]float64, error) {
	const maxLine = 2 * MaxGoalsCeiling

	seen := make(map[float64]bool, len(lines))
	out := make([]float64, 0, len(lines))
	for _, line := range lines {
		if math.IsNaN(line) || line < 0 || line > maxLine {
			return nil, &InvalidRangeError{Field: "goal_line", Value: line, Min: 0, Max: maxLine}
		}
		if seen[line] {
			continue
		}
		seen[line] = true
		out = append(out, line)
	}
	sort.Float64s(out)
	return out, nil
}
