package handlers

import (
	"sort"

	"github.com/XavierBriggs/fortuna/services/match-predictor/internal/calculator"
	"github.com/XavierBriggs/fortuna/services/match-predictor/pkg/models"
	"github.com/google/uuid"
)

// buildResponse converts a prediction into its wire form. The full
// correct-score grid and the optional half-time markets are only included
// when full is set.
func buildResponse(p *calculator.Prediction, top int, full bool) models.PredictionResponse {
	ft := p.FullTime
	ht := p.HalfTime.Markets

	resp := models.PredictionResponse{
		PredictionID: uuid.NewString(),
		XGEstimate:   models.XG{Home: p.Rates.Home, Away: p.Rates.Away},
		Model: models.ModelParams{
			MaxGoals:    p.Config.MaxGoals,
			GoalLines:   lineValues(ft.Totals),
			HTGoalShare: p.Config.HalfTimeShare,
			HTXG:        models.XG{Home: p.HalfTime.Rates.Home, Away: p.HalfTime.Rates.Away},
		},
		FT: models.FullTimeMarkets{
			OneXTwo:         resultMap(ft.Result),
			DoubleChance:    doubleChanceMap(ft.DoubleChance),
			BTTS:            bttsMap(ft.BTTS),
			Totals:          totalsMap(ft.Totals),
			CorrectScoreTop: topScores(ft.CorrectScore, top),
			FairOdds:        fairOdds(ft),
		},
		HT: models.HalfTimeMarkets{
			OneXTwo: resultMap(ht.Result),
			BTTS:    bttsMap(ht.BTTS),
			Totals:  totalsMap(ht.Totals),
		},
		HTFT: p.HTFT.Map(),
	}

	if full {
		resp.FT.CorrectScore = ft.CorrectScore
		resp.HT.DoubleChance = doubleChanceMap(ht.DoubleChance)
		resp.HT.CorrectScore = ht.CorrectScore
	}
	return resp
}

// topScores returns the n most likely scorelines, most likely first. Ties are
// broken by label so the order is stable.
func topScores(correctScore map[string]float64, n int) []models.ScoreProbability {
	scores := make([]models.ScoreProbability, 0, len(correctScore))
	for score, p := range correctScore {
		scores = append(scores, models.ScoreProbability{Score: score, Probability: p})
	}
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Probability != scores[j].Probability {
			return scores[i].Probability > scores[j].Probability
		}
		return scores[i].Score < scores[j].Score
	})
	if n < len(scores) {
		scores = scores[:n]
	}
	return scores
}

func resultMap(r calculator.Result) map[string]float64 {
	return map[string]float64{
		string(calculator.HomeWin): r.Home,
		string(calculator.Draw):    r.Draw,
		string(calculator.AwayWin): r.Away,
	}
}

func doubleChanceMap(dc calculator.DoubleChance) map[string]float64 {
	return map[string]float64{
		"1X": dc.HomeOrDraw,
		"12": dc.HomeOrAway,
		"X2": dc.DrawOrAway,
	}
}

func bttsMap(b calculator.BTTS) map[string]float64 {
	return map[string]float64{
		"GG": b.Yes,
		"NG": b.No,
	}
}

func totalsMap(totals []calculator.Total) map[string]models.OverUnder {
	out := make(map[string]models.OverUnder, len(totals))
	for _, t := range totals {
		out[t.Key()] = models.OverUnder{Over: t.Over, Under: t.Under}
	}
	return out
}

func lineValues(totals []calculator.Total) []float64 {
	lines := make([]float64, len(totals))
	for i, t := range totals {
		lines[i] = t.Line
	}
	return lines
}

// fairOdds prices the full-time result and double chance outcomes. Outcomes
// with probability 0 or 1 have no price and are left out.
func fairOdds(ms *calculator.MarketSet) map[string]models.FairOdds {
	probs := resultMap(ms.Result)
	for k, p := range doubleChanceMap(ms.DoubleChance) {
		probs[k] = p
	}

	out := make(map[string]models.FairOdds, len(probs))
	for k, p := range probs {
		odds, ok := calculator.FairOddsFor(p)
		if !ok {
			continue
		}
		out[k] = models.FairOdds{Decimal: odds.Decimal, American: odds.American}
	}
	return out
}
