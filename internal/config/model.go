package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/XavierBriggs/fortuna/services/match-predictor/internal/calculator"
)

// modelFile is the layout of the model config file:
//
//	model:
//	  max_goals: 6
//	  goal_lines: [0.5, 1.5, 2.5, 3.5, 4.5]
//	  ht_goal_share: 0.45
type modelFile struct {
	Model modelSection `yaml:"model"`
}

type modelSection struct {
	MaxGoals      int       `yaml:"max_goals"`
	GoalLines     []float64 `yaml:"goal_lines"`
	HalfTimeShare float64   `yaml:"ht_goal_share"`
}

// LoadModel reads the model parameters at path. An empty path yields the
// defaults. Missing fields keep their default values.
func LoadModel(path string) (calculator.Config, error) {
	defaults := calculator.DefaultConfig()
	if path == "" {
		return defaults, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return calculator.Config{}, fmt.Errorf("model config: read %q: %w", path, err)
	}

	file := modelFile{Model: modelSection{
		MaxGoals:      defaults.MaxGoals,
		GoalLines:     defaults.GoalLines,
		HalfTimeShare: defaults.HalfTimeShare,
	}}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return calculator.Config{}, fmt.Errorf("model config: parse yaml: %w", err)
	}

	cfg := calculator.Config{
		MaxGoals:      file.Model.MaxGoals,
		GoalLines:     file.Model.GoalLines,
		HalfTimeShare: file.Model.HalfTimeShare,
	}
	if len(cfg.GoalLines) == 0 {
		cfg.GoalLines = defaults.GoalLines
	}
	if err := cfg.Validate(); err != nil {
		return calculator.Config{}, fmt.Errorf("model config: %w", err)
	}
	return cfg, nil
}
