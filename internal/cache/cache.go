// internal/cache/cache.go
//
// Package cache stores live engine snapshots in Redis so a crashed or
// restarted host can restore in-flight games. The engine keeps its RNG
// cursor inside the state, so a restored snapshot replays identically.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jason-s-yu/wizard/engine"
)

// DefaultTTL bounds how long an abandoned game's snapshot lingers.
const DefaultTTL = 24 * time.Hour

// SnapshotStore persists engine state keyed by game ID.
type SnapshotStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// New connects a SnapshotStore to the Redis instance at addr.
// A non-positive ttl falls back to DefaultTTL.
func New(addr string, ttl time.Duration) *SnapshotStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &SnapshotStore{
		rdb: redis.NewClient(&redis.Options{Addr: addr}),
		ttl: ttl,
	}
}

// NewWithClient wraps an existing Redis client, mainly for tests.
func NewWithClient(rdb *redis.Client, ttl time.Duration) *SnapshotStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &SnapshotStore{rdb: rdb, ttl: ttl}
}

// Ping verifies connectivity.
func (s *SnapshotStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// Close releases the underlying client.
func (s *SnapshotStore) Close() error {
	return s.rdb.Close()
}

func snapshotKey(gameID uuid.UUID) string {
	return "wizard:game:" + gameID.String()
}

// SaveSnapshot writes the full engine state for gameID, refreshing the TTL.
func (s *SnapshotStore) SaveSnapshot(ctx context.Context, gameID uuid.UUID, g *engine.Game) error {
	data, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot for game %s: %w", gameID, err)
	}
	if err := s.rdb.Set(ctx, snapshotKey(gameID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store snapshot for game %s: %w", gameID, err)
	}
	return nil
}

// LoadSnapshot reads the engine state for gameID. Returns redis.Nil via the
// wrapped error when no snapshot exists.
func (s *SnapshotStore) LoadSnapshot(ctx context.Context, gameID uuid.UUID) (*engine.Game, error) {
	data, err := s.rdb.Get(ctx, snapshotKey(gameID)).Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot for game %s: %w", gameID, err)
	}
	var g engine.Game
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot for game %s: %w", gameID, err)
	}
	return &g, nil
}

// DeleteSnapshot removes the snapshot once a game is archived.
func (s *SnapshotStore) DeleteSnapshot(ctx context.Context, gameID uuid.UUID) error {
	return s.rdb.Del(ctx, snapshotKey(gameID)).Err()
}

// ListGameIDs returns the IDs of all games with a live snapshot.
func (s *SnapshotStore) ListGameIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	iter := s.rdb.Scan(ctx, 0, "wizard:game:*", 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		id, err := uuid.Parse(key[len("wizard:game:"):])
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan snapshots: %w", err)
	}
	return ids, nil
}
