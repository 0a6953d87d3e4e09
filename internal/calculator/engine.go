package calculator

// Config holds the model parameters of an Engine.
type Config struct {
	MaxGoals      int
	GoalLines     []float64
	HalfTimeShare float64
}

// DefaultConfig returns the model parameters used when nothing is configured.
func DefaultConfig() Config {
	lines := make([]float64, len(DefaultGoalLines))
	copy(lines, DefaultGoalLines)
	return Config{
		MaxGoals:      6,
		GoalLines:     lines,
		HalfTimeShare: DefaultHalfTimeShare,
	}
}

// Validate checks every parameter against its accepted range.
func (c Config) Validate() error {
	if err := validateMaxGoals(c.MaxGoals); err != nil {
		return err
	}
	if err := ValidateGoalLines(c.GoalLines); err != nil {
		return err
	}
	return validateHalfTimeShare(c.HalfTimeShare)
}

// Overrides replaces engine parameters for a single prediction. Nil and empty
// fields keep the engine's configuration.
type Overrides struct {
	MaxGoals      *int
	GoalLines     []float64
	HalfTimeShare *float64
}

// Prediction is the full output of one model run.
type Prediction struct {
	Rates    ExpectedGoals
	Config   Config
	FullTime *MarketSet
	HalfTime *HalfTime
	HTFT     CombinedOutcome
}

// Engine runs the full-time, half-time and HT/FT models with a fixed
// configuration. It is immutable and safe for concurrent use.
type Engine struct {
	cfg Config
}

// NewEngine validates cfg and returns an engine bound to it.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	lines := make([]float64, len(cfg.GoalLines))
	copy(lines, cfg.GoalLines)
	cfg.GoalLines = lines
	return &Engine{cfg: cfg}, nil
}

// Config returns a copy of the engine's configuration.
func (e *Engine) Config() Config {
	cfg := e.cfg
	cfg.GoalLines = append([]float64(nil), e.cfg.GoalLines...)
	return cfg
}

// Predict computes every market for the given full-time rates.
func (e *Engine) Predict(rates ExpectedGoals, ov Overrides) (*Prediction, error) {
	cfg := e.resolve(ov)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	matrix, err := NewScoreMatrix(rates.Home, rates.Away, cfg.MaxGoals)
	if err != nil {
		return nil, err
	}
	fullTime, err := Aggregate(matrix, cfg.GoalLines)
	if err != nil {
		return nil, err
	}

	halfTime, err := ProjectHalfTime(rates, cfg.HalfTimeShare, cfg.MaxGoals, cfg.GoalLines)
	if err != nil {
		return nil, err
	}

	htft, err := CombineHTFT(halfTime.Markets.Result, fullTime.Result)
	if err != nil {
		return nil, err
	}

	return &Prediction{
		Rates:    rates,
		Config:   cfg,
		FullTime: fullTime,
		HalfTime: halfTime,
		HTFT:     htft,
	}, nil
}

func (e *Engine) resolve(ov Overrides) Config {
	cfg := e.Config()
	if ov.MaxGoals != nil {
		cfg.MaxGoals = *ov.MaxGoals
	}
	if len(ov.GoalLines) > 0 {
		cfg.GoalLines = append([]float64(nil), ov.GoalLines...)
	}
	if ov.HalfTimeShare != nil {
		cfg.HalfTimeShare = *ov.HalfTimeShare
	}
	return cfg
}
