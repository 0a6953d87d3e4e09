package calculator

import "math"

// Outcome labels a three-way result: "1" home win, "X" draw, "2" away win.
type Outcome string

const (
	HomeWin Outcome = "1"
	Draw    Outcome = "X"
	AwayWin Outcome = "2"
)

// Outcomes lists the three result outcomes in market order.
var Outcomes = [3]Outcome{HomeWin, Draw, AwayWin}

func (r Result) outcomes() [3]float64 {
	return [3]float64{r.Home, r.Draw, r.Away}
}

// CombinedOutcome is the half-time/full-time distribution.
// CombinedOutcome[h][f] is P(half-time outcome Outcomes[h], full-time outcome Outcomes[f]).
type CombinedOutcome [3][3]float64

// Get returns the probability of the given half-time/full-time pair.
func (c CombinedOutcome) Get(ht, ft Outcome) float64 {
	return c[outcomeIndex(ht)][outcomeIndex(ft)]
}

// Map returns the distribution keyed "HT/FT", e.g. "X/1".
func (c CombinedOutcome) Map() map[string]float64 {
	out := make(map[string]float64, 9)
	for h, htOutcome := range Outcomes {
		for f, ftOutcome := range Outcomes {
			out[string(htOutcome)+"/"+string(ftOutcome)] = c[h][f]
		}
	}
	return out
}

// Sum returns the total probability mass of the nine entries.
func (c CombinedOutcome) Sum() float64 {
	total := 0.0
	for _, row := range c {
		for _, p := range row {
			total += p
		}
	}
	return total
}

// CombineHTFT merges half-time and full-time result distributions assuming the
// two are independent, then renormalizes the nine products.
//
// Full-time goals can never be fewer than half-time goals, so the real joint
// distribution is not independent: pairs such as "2/1" are overstated.
func CombineHTFT(ht, ft Result) (CombinedOutcome, error) {
	var out CombinedOutcome
	htProbs := ht.outcomes()
	ftProbs := ft.outcomes()

	for h := range htProbs {
		for f := range ftProbs {
			out[h][f] = htProbs[h] * ftProbs[f]
		}
	}

	total := out.Sum()
	if total <= 0 || math.IsNaN(total) || math.IsInf(total, 0) {
		return CombinedOutcome{}, &InvariantViolationError{What: "half-time/full-time distribution", Sum: total}
	}
	for h := range out {
		for f := range out[h] {
			out[h][f] /= total
		}
	}
	return out, nil
}

func outcomeIndex(o Outcome) int {
	switch o {
	case HomeWin:
		return 0
	case Draw:
		return 1
	default:
		return 2
	}
}
