package redisrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"petkeeper/internal/app/ports"

	"github.com/redis/go-redis/v9"
)

// DelegationRepo keeps the registered owner set as a JSON array under a
// single key. Mutations run under WATCH so concurrent register calls do
// not drop each other's writes.
type DelegationRepo struct {
	store *Store
}

func NewDelegationRepo(store *Store) DelegationRepo {
	return DelegationRepo{store: store}
}

func (r DelegationRepo) Owners(ctx context.Context) ([]string, error) {
	raw, err := r.store.client.Get(ctx, keyDelegatedOwners).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get delegated owners: %w", err)
	}
	return decodeOwners(raw)
}

func (r DelegationRepo) Add(ctx context.Context, owner string) error {
	return r.mutate(ctx, func(owners []string) ([]string, error) {
		if slices.Contains(owners, owner) {
			return owners, nil
		}
		return append(owners, owner), nil
	})
}

func (r DelegationRepo) Remove(ctx context.Context, owner string) error {
	return r.mutate(ctx, func(owners []string) ([]string, error) {
		i := slices.Index(owners, owner)
		if i < 0 {
			return nil, ports.ErrNotFound
		}
		return slices.Delete(owners, i, i+1), nil
	})
}

func (r DelegationRepo) Contains(ctx context.Context, owner string) (bool, error) {
	owners, err := r.Owners(ctx)
	if err != nil {
		return false, err
	}
	return slices.Contains(owners, owner), nil
}

func (r DelegationRepo) Clear(ctx context.Context) (int, error) {
	owners, err := r.Owners(ctx)
	if err != nil {
		return 0, err
	}
	if err := r.store.client.Del(ctx, keyDelegatedOwners).Err(); err != nil {
		return 0, fmt.Errorf("clear delegated owners: %w", err)
	}
	return len(owners), nil
}

func (r DelegationRepo) mutate(ctx context.Context, fn func([]string) ([]string, error)) error {
	txn := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, keyDelegatedOwners).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return fmt.Errorf("get delegated owners: %w", err)
		}
		var owners []string
		if err == nil {
			if owners, err = decodeOwners(raw); err != nil {
				return err
			}
		}
		next, err := fn(owners)
		if err != nil {
			return err
		}
		encoded, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("encode delegated owners: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, keyDelegatedOwners, encoded, 0)
			return nil
		})
		return err
	}
	for {
		err := r.store.client.Watch(ctx, txn, keyDelegatedOwners)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
}

func decodeOwners(raw string) ([]string, error) {
	var owners []string
	if err := json.Unmarshal([]byte(raw), &owners); err != nil {
		return nil, fmt.Errorf("decode delegated owners: %w", err)
	}
	return owners, nil
}
