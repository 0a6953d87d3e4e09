package ratesource

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/XavierBriggs/fortuna/services/match-predictor/internal/calculator"
	_ "github.com/lib/pq"
)

const ratesQuery = `
	SELECT home_xg, away_xg
	FROM fixture_expected_goals
	WHERE fixture_id = $1
`

// PostgresSource reads fixture rates from the fixture_expected_goals table.
type PostgresSource struct {
	db *sql.DB
}

// NewPostgresSource opens a connection pool to dsn and verifies it.
func NewPostgresSource(dsn string) (*PostgresSource, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresSource{db: db}, nil
}

// NewPostgresSourceFromDB wraps an existing pool.
func NewPostgresSourceFromDB(db *sql.DB) *PostgresSource {
	return &PostgresSource{db: db}
}

// Rates fetches the fixture's rates.
func (s *PostgresSource) Rates(ctx context.Context, fixtureID string) (calculator.ExpectedGoals, error) {
	var rates calculator.ExpectedGoals
	err := s.db.QueryRowContext(ctx, ratesQuery, fixtureID).Scan(&rates.Home, &rates.Away)
	if errors.Is(err, sql.ErrNoRows) {
		return calculator.ExpectedGoals{}, ErrNotFound
	}
	if err != nil {
		return calculator.ExpectedGoals{}, fmt.Errorf("query fixture rates: %w", err)
	}
	return rates, nil
}

// Name identifies the source in logs.
func (s *PostgresSource) Name() string {
	return "postgres"
}

// Close releases the connection pool.
func (s *PostgresSource) Close() error {
	return s.db.Close()
}
