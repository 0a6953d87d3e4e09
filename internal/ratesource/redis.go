package ratesource

import (
	"context"
	"fmt"

	"github.com/XavierBriggs/fortuna/services/match-predictor/internal/calculator"
	"github.com/redis/go-redis/v9"
)

// RedisSource reads fixture rates from a Redis hash with "home" and "away" fields.
type RedisSource struct {
	client *redis.Client
}

// NewRedisSource creates a Redis-backed rate source
func NewRedisSource(client *redis.Client) *RedisSource {
	return &RedisSource{
		client: client,
	}
}

// RatesKey returns the hash key holding a fixture's rates.
func RatesKey(fixtureID string) string {
	return fmt.Sprintf("fixture:%s:xg", fixtureID)
}

// Rates fetches the fixture's rates.
func (s *RedisSource) Rates(ctx context.Context, fixtureID string) (calculator.ExpectedGoals, error) {
	fields, err := s.client.HGetAll(ctx, RatesKey(fixtureID)).Result()
	if err != nil {
		return calculator.ExpectedGoals{}, fmt.Errorf("reading %s: %w", RatesKey(fixtureID), err)
	}
	return ratesFromHash(fields)
}

// Name identifies the source in logs.
func (s *RedisSource) Name() string {
	return "redis"
}

func ratesFromHash(fields map[string]string) (calculator.ExpectedGoals, error) {
	home, okHome := fields["home"]
	away, okAway := fields["away"]
	if !okHome || !okAway {
		return calculator.ExpectedGoals{}, ErrNotFound
	}
	return parseRates(home, away)
}
