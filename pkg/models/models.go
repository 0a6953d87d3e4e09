package models

// CalculateRequest is the request for an ad-hoc prediction from explicit rates
type CalculateRequest struct {
	HomeXG      float64   `json:"home_xg"`
	AwayXG      float64   `json:"away_xg"`
	MaxGoals    *int      `json:"max_goals,omitempty"`
	GoalLines   []float64 `json:"goal_lines,omitempty"`
	HTGoalShare *float64  `json:"ht_goal_share,omitempty"`
	Top         *int      `json:"top,omitempty"` // Correct scores listed in correct_score_top
}

// PredictionResponse is the unified response for fixture and ad-hoc predictions
type PredictionResponse struct {
	PredictionID string             `json:"prediction_id"`
	FixtureID    string             `json:"fixture_id,omitempty"`
	Source       string             `json:"source,omitempty"` // Rate source that answered
	XGEstimate   XG                 `json:"xg_estimate"`
	Model        ModelParams        `json:"model"`
	FT           FullTimeMarkets    `json:"ft"`
	HT           HalfTimeMarkets    `json:"ht"`
	HTFT         map[string]float64 `json:"ht_ft"` // "1/1", "1/X", ... "2/2"
}

// XG holds the expected-goal rates a prediction was computed from
type XG struct {
	Home float64 `json:"home"`
	Away float64 `json:"away"`
}

// ModelParams echoes the parameters used for a prediction
type ModelParams struct {
	MaxGoals    int       `json:"max_goals"`
	GoalLines   []float64 `json:"goal_lines"`
	HTGoalShare float64   `json:"ht_goal_share"`
	HTXG        XG        `json:"ht_xg"`
}

// FullTimeMarkets holds full-time market probabilities
type FullTimeMarkets struct {
	OneXTwo         map[string]float64   `json:"1x2"`           // "1", "X", "2"
	DoubleChance    map[string]float64   `json:"double_chance"` // "1X", "12", "X2"
	BTTS            map[string]float64   `json:"btts"`          // "GG", "NG"
	Totals          map[string]OverUnder `json:"totals"`        // keyed by line, e.g. "2.5"
	CorrectScoreTop []ScoreProbability   `json:"correct_score_top"`
	CorrectScore    map[string]float64   `json:"correct_score,omitempty"` // Full grid, calculate endpoint only
	FairOdds        map[string]FairOdds  `json:"fair_odds"`
}

// HalfTimeMarkets holds half-time market probabilities
type HalfTimeMarkets struct {
	OneXTwo      map[string]float64   `json:"1x2"`
	BTTS         map[string]float64   `json:"btts"`
	Totals       map[string]OverUnder `json:"totals"`
	DoubleChance map[string]float64   `json:"double_chance,omitempty"` // Optional
	CorrectScore map[string]float64   `json:"correct_score,omitempty"` // Optional
}

// OverUnder is a totals market for one goal line
type OverUnder struct {
	Over  float64 `json:"over"`
	Under float64 `json:"under"`
}

// ScoreProbability is one correct-score entry
type ScoreProbability struct {
	Score       string  `json:"score"`
	Probability float64 `json:"probability"`
}

// FairOdds is the zero-margin price of a model probability
type FairOdds struct {
	Decimal  float64 `json:"decimal"`
	American int     `json:"american"`
}
