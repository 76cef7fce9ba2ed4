package memory

import (
	"context"

	"petkeeper/internal/app/ports"
	"petkeeper/internal/domain/petting"
)

type RecordRepo struct {
	store *Store
}

func NewRecordRepo(store *Store) RecordRepo {
	return RecordRepo{store: store}
}

func (r RecordRepo) AddTransaction(_ context.Context, tx petting.Transaction) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.transactions.PushFront(tx)
	return nil
}

func (r RecordRepo) ListTransactions(_ context.Context, limit int) ([]petting.Transaction, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.store.transactions.Items(limit), nil
}

func (r RecordRepo) TransactionByHash(_ context.Context, hash string) (petting.Transaction, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, tx := range r.store.transactions.Items(0) {
		if tx.Hash == hash {
			return tx, nil
		}
	}
	return petting.Transaction{}, ports.ErrNotFound
}

func (r RecordRepo) ClearTransactions(_ context.Context) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.transactions.Clear()
	return nil
}

func (r RecordRepo) AddError(_ context.Context, e petting.ErrorLog) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.errorLogs.PushFront(e)
	return nil
}

func (r RecordRepo) ListErrors(_ context.Context, limit int) ([]petting.ErrorLog, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.store.errorLogs.Items(limit), nil
}

func (r RecordRepo) ClearErrors(_ context.Context) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.errorLogs.Clear()
	return nil
}

func (r RecordRepo) AddManualTrigger(_ context.Context, m petting.ManualTriggerLog) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.manuals.PushFront(m)
	return nil
}

func (r RecordRepo) ListManualTriggers(_ context.Context, limit int) ([]petting.ManualTriggerLog, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.store.manuals.Items(limit), nil
}

func (r RecordRepo) ClearManualTriggers(_ context.Context) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.manuals.Clear()
	return nil
}

func (r RecordRepo) AppendWorkerLogs(_ context.Context, entries []petting.WorkerLogEntry) error {
	if len(entries) == 0 {
		return nil
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, e := range entries {
		r.store.workerLogs.PushFront(e)
	}
	return nil
}

func (r RecordRepo) ListWorkerLogs(_ context.Context, limit int) ([]petting.WorkerLogEntry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.store.workerLogs.Items(limit), nil
}
