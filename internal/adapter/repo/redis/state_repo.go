package redisrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"petkeeper/internal/domain/petting"

	"github.com/redis/go-redis/v9"
)

type StateRepo struct {
	store *Store
}

func NewStateRepo(store *Store) StateRepo {
	return StateRepo{store: store}
}

func (r StateRepo) GetBotState(ctx context.Context) (petting.BotState, error) {
	raw, err := r.store.client.Get(ctx, keyBotState).Result()
	if errors.Is(err, redis.Nil) {
		return petting.BotState{Running: false}, nil
	}
	if err != nil {
		return petting.BotState{}, fmt.Errorf("get bot state: %w", err)
	}
	var state petting.BotState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		// A corrupt document is unrecoverable; fall back to stopped
		// rather than wedging every cycle.
		return petting.BotState{Running: false}, nil
	}
	return state, nil
}

func (r StateRepo) SetBotState(ctx context.Context, state petting.BotState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode bot state: %w", err)
	}
	if err := r.store.client.Set(ctx, keyBotState, raw, 0).Err(); err != nil {
		return fmt.Errorf("set bot state: %w", err)
	}
	return nil
}

func (r StateRepo) GetIntervalHours(ctx context.Context) (float64, error) {
	raw, err := r.store.client.Get(ctx, keyIntervalHours).Result()
	if errors.Is(err, redis.Nil) {
		return petting.DefaultIntervalHours, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get petting interval: %w", err)
	}
	hours, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return petting.DefaultIntervalHours, nil
	}
	return petting.IntervalOrDefault(hours), nil
}

func (r StateRepo) SetIntervalHours(ctx context.Context, hours float64) error {
	hours = petting.ClampIntervalHours(hours)
	raw := strconv.FormatFloat(hours, 'f', -1, 64)
	if err := r.store.client.Set(ctx, keyIntervalHours, raw, 0).Err(); err != nil {
		return fmt.Errorf("set petting interval: %w", err)
	}
	return nil
}
