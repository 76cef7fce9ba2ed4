package redisrepo

import (
	"context"
	"encoding/json"
	"fmt"

	"petkeeper/internal/app/ports"
	"petkeeper/internal/domain/petting"
)

type RecordRepo struct {
	store *Store
}

func NewRecordRepo(store *Store) RecordRepo {
	return RecordRepo{store: store}
}

func (r RecordRepo) AddTransaction(ctx context.Context, tx petting.Transaction) error {
	raw, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("encode transaction: %w", err)
	}
	return r.store.pushBounded(ctx, keyTransactions, petting.TransactionHistoryCap, raw)
}

func (r RecordRepo) ListTransactions(ctx context.Context, limit int) ([]petting.Transaction, error) {
	return decodeList[petting.Transaction](r.store, ctx, keyTransactions, limit)
}

func (r RecordRepo) TransactionByHash(ctx context.Context, hash string) (petting.Transaction, error) {
	txs, err := r.ListTransactions(ctx, 0)
	if err != nil {
		return petting.Transaction{}, err
	}
	for _, tx := range txs {
		if tx.Hash == hash {
			return tx, nil
		}
	}
	return petting.Transaction{}, ports.ErrNotFound
}

func (r RecordRepo) ClearTransactions(ctx context.Context) error {
	return r.store.client.Del(ctx, keyTransactions).Err()
}

func (r RecordRepo) AddError(ctx context.Context, e petting.ErrorLog) error {
	raw, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode error log: %w", err)
	}
	return r.store.pushBounded(ctx, keyErrors, petting.ErrorHistoryCap, raw)
}

func (r RecordRepo) ListErrors(ctx context.Context, limit int) ([]petting.ErrorLog, error) {
	return decodeList[petting.ErrorLog](r.store, ctx, keyErrors, limit)
}

func (r RecordRepo) ClearErrors(ctx context.Context) error {
	return r.store.client.Del(ctx, keyErrors).Err()
}

func (r RecordRepo) AddManualTrigger(ctx context.Context, m petting.ManualTriggerLog) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode manual trigger: %w", err)
	}
	return r.store.pushBounded(ctx, keyManualTriggers, petting.ManualTriggerHistoryCap, raw)
}

func (r RecordRepo) ListManualTriggers(ctx context.Context, limit int) ([]petting.ManualTriggerLog, error) {
	return decodeList[petting.ManualTriggerLog](r.store, ctx, keyManualTriggers, limit)
}

func (r RecordRepo) ClearManualTriggers(ctx context.Context) error {
	return r.store.client.Del(ctx, keyManualTriggers).Err()
}

func (r RecordRepo) AppendWorkerLogs(ctx context.Context, entries []petting.WorkerLogEntry) error {
	if len(entries) == 0 {
		return nil
	}
	encoded := make([]any, 0, len(entries))
	for _, e := range entries {
		raw, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("encode worker log: %w", err)
		}
		encoded = append(encoded, raw)
	}
	// LPUSH pushes left to right, so chronological input lands newest
	// first, matching list read order.
	return r.store.pushBounded(ctx, keyWorkerLogs, petting.WorkerLogHistoryCap, encoded...)
}

func (r RecordRepo) ListWorkerLogs(ctx context.Context, limit int) ([]petting.WorkerLogEntry, error) {
	return decodeList[petting.WorkerLogEntry](r.store, ctx, keyWorkerLogs, limit)
}

func decodeList[T any](store *Store, ctx context.Context, key string, limit int) ([]T, error) {
	raws, err := store.listRange(ctx, key, limit)
	if err != nil {
		return nil, fmt.Errorf("range %s: %w", key, err)
	}
	out := make([]T, 0, len(raws))
	for _, raw := range raws {
		var item T
		if err := json.Unmarshal([]byte(raw), &item); err != nil {
			// Skip entries that no longer decode instead of failing
			// the whole listing.
			continue
		}
		out = append(out, item)
	}
	return out, nil
}
