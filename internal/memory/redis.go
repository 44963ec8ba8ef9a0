package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	backend "github.com/redis/go-redis/v9"
)

// RedisStore is a durable session backend keyed one JSON document per session
// at {basePrefix}/{memoryPrefix}/{sessionID}.json.
type RedisStore struct {
	client    *backend.Client
	keyPrefix string
	ttl       time.Duration
}

func NewRedisStore(addr, password string, db int, basePrefix, memoryPrefix string, ttl time.Duration) *RedisStore {
	client := backend.NewClient(&backend.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return NewRedisStoreFromClient(client, basePrefix, memoryPrefix, ttl)
}

// NewRedisStoreFromClient wraps an existing client; used by tests to point at
// miniredis.
func NewRedisStoreFromClient(client *backend.Client, basePrefix, memoryPrefix string, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client:    client,
		keyPrefix: joinPrefix(basePrefix, memoryPrefix),
		ttl:       ttl,
	}
}

// joinPrefix normalizes path pieces into "a/b/" form, dropping empty parts.
func joinPrefix(parts ...string) string {
	var pieces []string
	for _, p := range parts {
		p = strings.Trim(strings.TrimSpace(p), "/")
		if p != "" {
			pieces = append(pieces, p)
		}
	}
	if len(pieces) == 0 {
		return ""
	}
	return strings.Join(pieces, "/") + "/"
}

func (s *RedisStore) key(sessionID string) string {
	return s.keyPrefix + sessionID + ".json"
}

func (s *RedisStore) Load(ctx context.Context, sessionID string) (Record, error) {
	val, err := s.client.Get(ctx, s.key(sessionID)).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return Record{}, ErrNotFound
		}
		return Record{}, fmt.Errorf("redis get: %w", err)
	}

	var rec Record
	if err := json.Unmarshal([]byte(val), &rec); err != nil {
		return Record{}, fmt.Errorf("decode session document: %w", err)
	}
	return rec, nil
}

func (s *RedisStore) Save(ctx context.Context, record Record) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode session document: %w", err)
	}
	if err := s.client.Set(ctx, s.key(record.SessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
