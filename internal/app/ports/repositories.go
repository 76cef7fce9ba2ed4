package ports

import (
	"context"

	"petkeeper/internal/domain/petting"
)

// StateRepository persists the bot run-state singleton and the cooldown
// interval scalar. Reads return usable defaults when the store was never
// initialized: a stopped BotState and the default interval.
type StateRepository interface {
	GetBotState(ctx context.Context) (petting.BotState, error)
	SetBotState(ctx context.Context, state petting.BotState) error
	GetIntervalHours(ctx context.Context) (float64, error)
	SetIntervalHours(ctx context.Context, hours float64) error
}

// RecordRepository holds the bounded append-only histories. List methods
// return newest first; limit <= 0 means the adapter's full retained window.
type RecordRepository interface {
	AddTransaction(ctx context.Context, tx petting.Transaction) error
	ListTransactions(ctx context.Context, limit int) ([]petting.Transaction, error)
	TransactionByHash(ctx context.Context, hash string) (petting.Transaction, error)
	ClearTransactions(ctx context.Context) error

	AddError(ctx context.Context, e petting.ErrorLog) error
	ListErrors(ctx context.Context, limit int) ([]petting.ErrorLog, error)
	ClearErrors(ctx context.Context) error

	AddManualTrigger(ctx context.Context, m petting.ManualTriggerLog) error
	ListManualTriggers(ctx context.Context, limit int) ([]petting.ManualTriggerLog, error)
	ClearManualTriggers(ctx context.Context) error

	AppendWorkerLogs(ctx context.Context, entries []petting.WorkerLogEntry) error
	ListWorkerLogs(ctx context.Context, limit int) ([]petting.WorkerLogEntry, error)
}

// DelegationRepository stores normalized delegated-owner addresses in
// registration order.
type DelegationRepository interface {
	Owners(ctx context.Context) ([]string, error)
	Add(ctx context.Context, owner string) error
	Remove(ctx context.Context, owner string) error
	Contains(ctx context.Context, owner string) (bool, error)
	Clear(ctx context.Context) (int, error)
}
