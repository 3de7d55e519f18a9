package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// OpenSession is the cached view of a running session, keyed by station.
type OpenSession struct {
	SessionID int64     `json:"session_id"`
	StationID int64     `json:"station_id"`
	StartTime time.Time `json:"start_time"`
}

// Store caches open sessions for quick per-station lookups. Postgres stays the
// source of truth; every write here is best effort.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore returns redis-backed store.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{client: client, ttl: ttl}
}

func (s *Store) key(stationID int64) string {
	return fmt.Sprintf("billing:open-session:%d", stationID)
}

// Save caches the open session for its station.
func (s *Store) Save(ctx context.Context, session OpenSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(session.StationID), data, s.ttl).Err()
}

// Get returns the cached open session for the station.
func (s *Store) Get(ctx context.Context, stationID int64) (*OpenSession, error) {
	result, err := s.client.Get(ctx, s.key(stationID)).Result()
	if err != nil {
		return nil, err
	}
	var session OpenSession
	if err := json.Unmarshal([]byte(result), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Delete drops the cached entry after close.
func (s *Store) Delete(ctx context.Context, stationID int64) error {
	return s.client.Del(ctx, s.key(stationID)).Err()
}
