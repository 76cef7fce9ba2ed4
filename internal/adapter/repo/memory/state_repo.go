package memory

import (
	"context"

	"petkeeper/internal/domain/petting"
)

type StateRepo struct {
	store *Store
}

func NewStateRepo(store *Store) StateRepo {
	return StateRepo{store: store}
}

func (r StateRepo) GetBotState(_ context.Context) (petting.BotState, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	if !r.store.stateSet {
		return petting.BotState{Running: false}, nil
	}
	return r.store.state, nil
}

func (r StateRepo) SetBotState(_ context.Context, state petting.BotState) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.state = state
	r.store.stateSet = true
	return nil
}

func (r StateRepo) GetIntervalHours(_ context.Context) (float64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	if !r.store.intervalSet {
		return petting.DefaultIntervalHours, nil
	}
	return petting.IntervalOrDefault(r.store.intervalHours), nil
}

func (r StateRepo) SetIntervalHours(_ context.Context, hours float64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.intervalHours = petting.ClampIntervalHours(hours)
	r.store.intervalSet = true
	return nil
}
