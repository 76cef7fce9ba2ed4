package memory

import (
	"context"

	"petkeeper/internal/app/ports"
)

type DelegationRepo struct {
	store *Store
}

func NewDelegationRepo(store *Store) DelegationRepo {
	return DelegationRepo{store: store}
}

func (r DelegationRepo) Owners(_ context.Context) ([]string, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	out := make([]string, len(r.store.owners))
	copy(out, r.store.owners)
	return out, nil
}

func (r DelegationRepo) Add(_ context.Context, owner string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, o := range r.store.owners {
		if o == owner {
			return nil
		}
	}
	r.store.owners = append(r.store.owners, owner)
	return nil
}

func (r DelegationRepo) Remove(_ context.Context, owner string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for i, o := range r.store.owners {
		if o == owner {
			r.store.owners = append(r.store.owners[:i], r.store.owners[i+1:]...)
			return nil
		}
	}
	return ports.ErrNotFound
}

func (r DelegationRepo) Contains(_ context.Context, owner string) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, o := range r.store.owners {
		if o == owner {
			return true, nil
		}
	}
	return false, nil
}

func (r DelegationRepo) Clear(_ context.Context) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	n := len(r.store.owners)
	r.store.owners = nil
	return n, nil
}
