package calculator_test

import (
	"errors"
	"math"
	"testing"

	"github.com/XavierBriggs/fortuna/services/match-predictor/internal/calculator"
)

func aggregate(t *testing.T, lambdaHome, lambdaAway float64, maxGoals int) *calculator.MarketSet {
	t.Helper()
	m, err := calculator.NewScoreMatrix(lambdaHome, lambdaAway, maxGoals)
	if err != nil {
		t.Fatalf("NewScoreMatrix(%v, %v, %d): %v", lambdaHome, lambdaAway, maxGoals, err)
	}
	ms, err := calculator.Aggregate(m, calculator.DefaultGoalLines)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	return ms
}

func TestAggregate_DistributionsSumToOne(t *testing.T) {
	rates := []float64{0.05, 0.4, 0.9, 1.45, 2.2, 3.5, 6.0}

	for _, home := range rates {
		for _, away := range rates {
			ms := aggregate(t, home, away, 6)

			if sum := ms.Result.Sum(); math.Abs(sum-1) > 1e-9 {
				t.Errorf("(%v, %v): result sums to %.15f", home, away, sum)
			}

			csSum := 0.0
			for _, p := range ms.CorrectScore {
				csSum += p
			}
			if math.Abs(csSum-1) > 1e-9 {
				t.Errorf("(%v, %v): correct score sums to %.15f", home, away, csSum)
			}

			if sum := ms.BTTS.Yes + ms.BTTS.No; math.Abs(sum-1) > 1e-12 {
				t.Errorf("(%v, %v): btts sums to %.15f", home, away, sum)
			}

			for _, total := range ms.Totals {
				if sum := total.Over + total.Under; math.Abs(sum-1) > 1e-12 {
					t.Errorf("(%v, %v) line %s: over + under = %.15f", home, away, total.Key(), sum)
				}
			}
		}
	}
}

func TestAggregate_DoubleChance(t *testing.T) {
	ms := aggregate(t, 1.45, 1.10, 6)
	r := ms.Result

	if math.Abs(ms.DoubleChance.HomeOrDraw-(r.Home+r.Draw)) > 1e-15 {
		t.Errorf("1X = %f, want %f", ms.DoubleChance.HomeOrDraw, r.Home+r.Draw)
	}
	if math.Abs(ms.DoubleChance.HomeOrAway-(r.Home+r.Away)) > 1e-15 {
		t.Errorf("12 = %f, want %f", ms.DoubleChance.HomeOrAway, r.Home+r.Away)
	}
	if math.Abs(ms.DoubleChance.DrawOrAway-(r.Draw+r.Away)) > 1e-15 {
		t.Errorf("X2 = %f, want %f", ms.DoubleChance.DrawOrAway, r.Draw+r.Away)
	}
}

func TestAggregate_Symmetry(t *testing.T) {
	pairs := [][2]float64{{1.45, 1.10}, {0.3, 2.7}, {2.0, 2.0}, {0.8, 1.6}}

	for _, pair := range pairs {
		a, b := pair[0], pair[1]
		forward := aggregate(t, a, b, 6)
		swapped := aggregate(t, b, a, 6)

		if math.Abs(forward.Result.Home-swapped.Result.Away) > 1e-12 {
			t.Errorf("(%v, %v): home win %f != swapped away win %f", a, b, forward.Result.Home, swapped.Result.Away)
		}
		if math.Abs(forward.Result.Draw-swapped.Result.Draw) > 1e-12 {
			t.Errorf("(%v, %v): draw %f != swapped draw %f", a, b, forward.Result.Draw, swapped.Result.Draw)
		}
	}
}

func TestAggregate_HomeWinMonotonic(t *testing.T) {
	for _, away := range []float64{0.5, 1.0, 1.5, 2.5} {
		previous := -1.0
		for home := 0.2; home <= 4.0; home += 0.2 {
			ms := aggregate(t, home, away, 6)
			if ms.Result.Home <= previous {
				t.Errorf("away %v: home win %f at home rate %v did not increase from %f", away, ms.Result.Home, home, previous)
			}
			previous = ms.Result.Home
		}
	}
}

func TestAggregate_HomeWinMonotonicAtExtremeRates(t *testing.T) {
	// Past the grid bound the home marginal saturates, so home win levels off
	// instead of strictly increasing.
	previous := -1.0
	for _, home := range []float64{10, 1e3, 1e8, 1e16, 1e17, 1e20, 1e100} {
		ms := aggregate(t, home, 1.0, 6)
		if ms.Result.Home < previous-1e-12 {
			t.Errorf("home win %f at home rate %v dropped from %f", ms.Result.Home, home, previous)
		}
		previous = ms.Result.Home
	}
	if previous < 0.999 {
		t.Errorf("home win at saturation = %f, want above 0.999", previous)
	}
}

func TestAggregate_TypicalFixture(t *testing.T) {
	ms := aggregate(t, 1.45, 1.10, 6)

	if ms.Result.Home <= ms.Result.Away {
		t.Errorf("home win %f should exceed away win %f", ms.Result.Home, ms.Result.Away)
	}

	nilNil := ms.CorrectScore["0-0"]
	for i := 0; i <= 6; i++ {
		for j := 0; j <= 6; j++ {
			if i+j < 6 {
				continue
			}
			if p := ms.CorrectScore[calculator.ScoreKey(i, j)]; p >= nilNil {
				t.Errorf("score %d-%d = %f, want below 0-0 = %f", i, j, p, nilNil)
			}
		}
	}
}

func TestAggregate_NearScorelessDraw(t *testing.T) {
	ms := aggregate(t, 0.01, 0.01, 6)

	if p := ms.CorrectScore["0-0"]; p < 0.97 {
		t.Errorf("0-0 = %f, want close to 1", p)
	}
	if ms.BTTS.Yes > 0.001 {
		t.Errorf("btts yes = %f, want close to 0", ms.BTTS.Yes)
	}
}

func TestAggregate_ZeroMaxGoals(t *testing.T) {
	ms := aggregate(t, 1.45, 1.10, 0)

	if len(ms.CorrectScore) != 1 || ms.CorrectScore["0-0"] != 1 {
		t.Fatalf("correct score = %v, want only 0-0 = 1", ms.CorrectScore)
	}
	if ms.Result.Draw != 1 {
		t.Errorf("draw = %f, want 1", ms.Result.Draw)
	}
	if ms.BTTS.Yes != 0 {
		t.Errorf("btts yes = %f, want 0", ms.BTTS.Yes)
	}
	for _, total := range ms.Totals {
		if total.Over != 0 {
			t.Errorf("line %s: over = %f, want 0", total.Key(), total.Over)
		}
		if total.Under != 1 {
			t.Errorf("line %s: under = %f, want 1", total.Key(), total.Under)
		}
	}
}

func TestAggregate_TotalsThreshold(t *testing.T) {
	m, err := calculator.NewScoreMatrix(1.45, 1.10, 6)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ms, err := calculator.Aggregate(m, []float64{2, 2.5, 0.5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantOver := 0.0
	for i, row := range m.Cells {
		for j, p := range row {
			if i+j >= 3 {
				wantOver += p
			}
		}
	}

	line25, ok := ms.Total(2.5)
	if !ok {
		t.Fatal("line 2.5 missing")
	}
	if math.Abs(line25.Over-wantOver) > 1e-12 {
		t.Errorf("over 2.5 = %f, want %f", line25.Over, wantOver)
	}

	// A whole line uses the same threshold as the half line above it.
	line2, ok := ms.Total(2)
	if !ok {
		t.Fatal("line 2 missing")
	}
	if line2.Over != line25.Over {
		t.Errorf("over 2 = %f, want %f", line2.Over, line25.Over)
	}

	line05, _ := ms.Total(0.5)
	if math.Abs(line05.Under-m.CorrectScore(0, 0)) > 1e-12 {
		t.Errorf("under 0.5 = %f, want P(0-0) = %f", line05.Under, m.CorrectScore(0, 0))
	}

	if ms.Totals[0].Line != 0.5 || ms.Totals[1].Line != 2 || ms.Totals[2].Line != 2.5 {
		t.Errorf("totals not sorted by line: %+v", ms.Totals)
	}
}

func TestAggregate_DuplicateLines(t *testing.T) {
	m, err := calculator.NewScoreMatrix(1.45, 1.10, 6)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ms, err := calculator.Aggregate(m, []float64{2.5, 1.5, 2.5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ms.Totals) != 2 {
		t.Errorf("got %d totals, want 2", len(ms.Totals))
	}
	if _, ok := ms.Total(3.5); ok {
		t.Error("line 3.5 was not requested but is present")
	}
}

func TestAggregate_InvalidLines(t *testing.T) {
	m, err := calculator.NewScoreMatrix(1.45, 1.10, 6)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, line := range []float64{-0.5, math.NaN(), math.Inf(1), 2*calculator.MaxGoalsCeiling + 1} {
		_, err := calculator.Aggregate(m, []float64{2.5, line})

		var rangeErr *calculator.InvalidRangeError
		if !errors.As(err, &rangeErr) {
			t.Errorf("line %v: error = %v, want InvalidRangeError", line, err)
		}
	}
}

func TestAggregate_RejectsUnnormalizedMatrix(t *testing.T) {
	m := &calculator.ScoreMatrix{
		MaxGoals: 1,
		Cells:    [][]float64{{0.3, 0.2}, {0.2, 0.1}},
	}

	_, err := calculator.Aggregate(m, calculator.DefaultGoalLines)

	var invErr *calculator.InvariantViolationError
	if !errors.As(err, &invErr) {
		t.Fatalf("error = %v, want InvariantViolationError", err)
	}
	if math.Abs(invErr.Sum-0.8) > 1e-12 {
		t.Errorf("reported sum = %f, want 0.8", invErr.Sum)
	}
}

func TestAggregate_EmptyMatrix(t *testing.T) {
	_, err := calculator.Aggregate(nil, calculator.DefaultGoalLines)

	var invErr *calculator.InvariantViolationError
	if !errors.As(err, &invErr) {
		t.Fatalf("error = %v, want InvariantViolationError", err)
	}
}

func TestAggregate_RejectsRaggedMatrix(t *testing.T) {
	m := &calculator.ScoreMatrix{
		MaxGoals: 1,
		Cells:    [][]float64{{0.5, 0.25, 0.05}, {0.2}},
	}

	_, err := calculator.Aggregate(m, calculator.DefaultGoalLines)

	var invErr *calculator.InvariantViolationError
	if !errors.As(err, &invErr) {
		t.Fatalf("error = %v, want InvariantViolationError", err)
	}
}
