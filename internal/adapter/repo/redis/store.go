// Package redisrepo persists bot state, history records and delegated
// owners in Redis. The key layout is flat: scalars hold JSON documents,
// histories are lists trimmed to a fixed length on every push so they
// stay bounded without a separate janitor.
package redisrepo

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	keyBotState        = "bot:state"
	keyIntervalHours   = "bot:petting_interval_hours"
	keyTransactions    = "transactions"
	keyErrors          = "errors"
	keyManualTriggers  = "manual_triggers"
	keyWorkerLogs      = "worker_logs"
	keyDelegatedOwners = "delegated:owners"
)

type Store struct {
	client *redis.Client
}

// Open connects to the Redis instance at url (redis:// or rediss://) and
// verifies the connection before returning.
func Open(ctx context.Context, url string) (*Store, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Store{client: client}, nil
}

func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

func (s *Store) Close() error {
	return s.client.Close()
}

// pushBounded prepends JSON-encoded values to a list and trims it to cap
// entries, newest first.
func (s *Store) pushBounded(ctx context.Context, key string, capacity int64, encoded ...any) error {
	if len(encoded) == 0 {
		return nil
	}
	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, key, encoded...)
	pipe.LTrim(ctx, key, 0, capacity-1)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Store) listRange(ctx context.Context, key string, limit int) ([]string, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit) - 1
	}
	return s.client.LRange(ctx, key, 0, stop).Result()
}
