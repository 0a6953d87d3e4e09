package ratesource

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/XavierBriggs/fortuna/services/match-predictor/internal/calculator"
)

// ErrNotFound is returned when a source holds no rates for a fixture.
var ErrNotFound = errors.New("fixture rates not found")

// Source supplies the full-time expected-goal rates for a fixture.
type Source interface {
	Rates(ctx context.Context, fixtureID string) (calculator.ExpectedGoals, error)
	Name() string
}

// Static returns the same placeholder rates for every fixture until a real
// estimation pipeline feeds Redis or Postgres.
type Static struct {
	Home float64
	Away float64
}

// NewStatic creates a placeholder source.
func NewStatic(home, away float64) *Static {
	return &Static{Home: home, Away: away}
}

// Rates returns the placeholder rates.
func (s *Static) Rates(ctx context.Context, fixtureID string) (calculator.ExpectedGoals, error) {
	return calculator.ExpectedGoals{Home: s.Home, Away: s.Away}, nil
}

// Name identifies the source in logs.
func (s *Static) Name() string {
	return "static"
}

// Chain queries sources in order and returns the first rates found.
// ErrNotFound moves on to the next source; any other error stops the lookup.
type Chain struct {
	sources []Source
}

// NewChain creates a chain over the given sources.
func NewChain(sources ...Source) *Chain {
	return &Chain{sources: sources}
}

// Rates returns the rates of the first source that knows the fixture.
func (c *Chain) Rates(ctx context.Context, fixtureID string) (calculator.ExpectedGoals, error) {
	for _, src := range c.sources {
		rates, err := src.Rates(ctx, fixtureID)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return calculator.ExpectedGoals{}, fmt.Errorf("%s: %w", src.Name(), err)
		}
		return rates, nil
	}
	return calculator.ExpectedGoals{}, ErrNotFound
}

// Name lists the chained sources.
func (c *Chain) Name() string {
	name := "chain("
	for i, src := range c.sources {
		if i > 0 {
			name += ","
		}
		name += src.Name()
	}
	return name + ")"
}

// parseRates reads home and away rates from string fields.
func parseRates(home, away string) (calculator.ExpectedGoals, error) {
	h, err := strconv.ParseFloat(home, 64)
	if err != nil {
		return calculator.ExpectedGoals{}, fmt.Errorf("parse home rate %q: %w", home, err)
	}
	a, err := strconv.ParseFloat(away, 64)
	if err != nil {
		return calculator.ExpectedGoals{}, fmt.Errorf("parse away rate %q: %w", away, err)
	}
	return calculator.ExpectedGoals{Home: h, Away: a}, nil
}
