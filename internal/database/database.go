// internal/database/database.go
//
// Package database archives finished games in Postgres. Live state never
// touches the database; it lives in the cache until the game ends.
package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jason-s-yu/wizard/engine"
)

// GameResult captures everything worth keeping about a finished game.
type GameResult struct {
	GameID     uuid.UUID
	NumPlayers int
	Seed       uint64
	Winners    []uuid.UUID
	Totals     map[uuid.UUID]int
	ScorePad   engine.ScorePad
	FinishedAt time.Time
}

// Store wraps a pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// Connect opens a pool against dsn and verifies connectivity.
func Connect(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Close releases the pool.
func (s *Store) Close() {
	s.pool.Close()
}

const schema = `
CREATE TABLE IF NOT EXISTS game_results (
	game_id     UUID PRIMARY KEY,
	num_players INT NOT NULL,
	seed        BIGINT NOT NULL,
	winners     UUID[] NOT NULL,
	totals      JSONB NOT NULL,
	score_pad   JSONB NOT NULL,
	finished_at TIMESTAMPTZ NOT NULL
);
`

// Migrate creates the schema if it does not exist yet.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// SaveResult archives one finished game. Re-saving the same game ID is an
// upsert so a retried callback cannot fail on the primary key.
func (s *Store) SaveResult(ctx context.Context, res GameResult) error {
	totals, err := json.Marshal(totalsByString(res.Totals))
	if err != nil {
		return fmt.Errorf("failed to marshal totals: %w", err)
	}
	pad, err := json.Marshal(res.ScorePad)
	if err != nil {
		return fmt.Errorf("failed to marshal score pad: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO game_results (game_id, num_players, seed, winners, totals, score_pad, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (game_id) DO UPDATE SET
			winners = EXCLUDED.winners,
			totals = EXCLUDED.totals,
			score_pad = EXCLUDED.score_pad,
			finished_at = EXCLUDED.finished_at`,
		res.GameID, res.NumPlayers, int64(res.Seed), res.Winners, totals, pad, res.FinishedAt)
	if err != nil {
		return fmt.Errorf("failed to save result for game %s: %w", res.GameID, err)
	}
	return nil
}

// LoadResult fetches a single archived game.
func (s *Store) LoadResult(ctx context.Context, gameID uuid.UUID) (*GameResult, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT game_id, num_players, seed, winners, totals, score_pad, finished_at
		FROM game_results WHERE game_id = $1`, gameID)

	var res GameResult
	var seed int64
	var totals, pad []byte
	if err := row.Scan(&res.GameID, &res.NumPlayers, &seed, &res.Winners, &totals, &pad, &res.FinishedAt); err != nil {
		return nil, fmt.Errorf("failed to load result for game %s: %w", gameID, err)
	}
	res.Seed = uint64(seed)

	byString := map[string]int{}
	if err := json.Unmarshal(totals, &byString); err != nil {
		return nil, fmt.Errorf("failed to unmarshal totals: %w", err)
	}
	res.Totals = make(map[uuid.UUID]int, len(byString))
	for k, v := range byString {
		id, err := uuid.Parse(k)
		if err != nil {
			return nil, fmt.Errorf("bad player id %q in totals: %w", k, err)
		}
		res.Totals[id] = v
	}
	if err := json.Unmarshal(pad, &res.ScorePad); err != nil {
		return nil, fmt.Errorf("failed to unmarshal score pad: %w", err)
	}
	return &res, nil
}

func totalsByString(totals map[uuid.UUID]int) map[string]int {
	out := make(map[string]int, len(totals))
	for id, v := range totals {
		out[id.String()] = v
	}
	return out
}
