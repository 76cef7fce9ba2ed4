package history

import (
	"context"
	"math"
	"math/big"
	"sort"
	"time"

	"petkeeper/internal/app/ports"
	"petkeeper/internal/domain/petting"
)

const defaultLimit = 50

// statsWindow caps how many records feed the aggregates; the stores hold
// at most this many transactions anyway.
const statsWindow = 100

// UseCase reads the bounded record histories. Executions merges confirmed
// transactions and manual-trigger records into one recency-ordered feed;
// Stats aggregates the stored records without touching the chain.
type UseCase struct {
	Records ports.RecordRepository
	State   ports.StateRepository
	Now     func() time.Time
}

type ExecutionEntry struct {
	Type        string   `json:"type"` // "transaction" or "manual"
	Hash        string   `json:"hash,omitempty"`
	ID          string   `json:"id,omitempty"`
	Timestamp   int64    `json:"timestamp"`
	BlockNumber int64    `json:"blockNumber,omitempty"`
	GasUsed     string   `json:"gasUsed,omitempty"`
	GasCostWei  string   `json:"gasCostWei,omitempty"`
	TokenIDs    []string `json:"tokenIds,omitempty"`
	Message     string   `json:"message,omitempty"`
	Petted      int      `json:"petted,omitempty"`
}

func (u UseCase) Executions(ctx context.Context, limit int) ([]ExecutionEntry, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	txs, err := u.Records.ListTransactions(ctx, limit)
	if err != nil {
		return nil, err
	}
	manuals, err := u.Records.ListManualTriggers(ctx, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]ExecutionEntry, 0, len(txs)+len(manuals))
	for _, t := range txs {
		entries = append(entries, ExecutionEntry{
			Type:        "transaction",
			Hash:        t.Hash,
			Timestamp:   t.Timestamp,
			BlockNumber: t.BlockNumber,
			GasUsed:     t.GasUsed,
			GasCostWei:  t.GasCostWei,
			TokenIDs:    t.TokenIDs,
		})
	}
	for _, m := range manuals {
		entries = append(entries, ExecutionEntry{
			Type:      "manual",
			ID:        m.ID,
			Timestamp: m.Timestamp,
			Message:   m.Message,
			Petted:    m.Petted,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp > entries[j].Timestamp
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (u UseCase) ByHash(ctx context.Context, hash string) (petting.Transaction, error) {
	return u.Records.TransactionByHash(ctx, hash)
}

// ClearExecutions wipes both record kinds backing the merged feed.
func (u UseCase) ClearExecutions(ctx context.Context) error {
	if err := u.Records.ClearTransactions(ctx); err != nil {
		return err
	}
	return u.Records.ClearManualTriggers(ctx)
}

func (u UseCase) Errors(ctx context.Context, limit int) ([]petting.ErrorLog, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	errs, err := u.Records.ListErrors(ctx, limit)
	if err != nil {
		return nil, err
	}
	if errs == nil {
		errs = []petting.ErrorLog{}
	}
	return errs, nil
}

func (u UseCase) ClearErrors(ctx context.Context) error {
	return u.Records.ClearErrors(ctx)
}

type Stats struct {
	Bot          BotStats   `json:"bot"`
	Transactions TxStats    `json:"transactions"`
	Errors       ErrorStats `json:"errors"`
	SuccessRate  int        `json:"successRate"`
}

type BotStats struct {
	Running   bool   `json:"running"`
	LastRun   int64  `json:"lastRun"`
	LastError string `json:"lastError"`
}

type TxStats struct {
	Total                  int     `json:"total"`
	Last24h                int     `json:"last24h"`
	Last7d                 int     `json:"last7d"`
	TotalAavegotchisPetted int     `json:"totalAavegotchisPetted"`
	TotalGasCostEth        float64 `json:"totalGasCostEth"`
}

type ErrorStats struct {
	Total   int `json:"total"`
	Last24h int `json:"last24h"`
}

// Stats summarizes the stored histories: per-window transaction and error
// counts, total gotchis petted, cumulative gas spend in ETH, and the
// success rate over everything still retained.
func (u UseCase) Stats(ctx context.Context) (Stats, error) {
	txs, err := u.Records.ListTransactions(ctx, statsWindow)
	if err != nil {
		return Stats{}, err
	}
	errsList, err := u.Records.ListErrors(ctx, statsWindow)
	if err != nil {
		return Stats{}, err
	}
	state, err := u.State.GetBotState(ctx)
	if err != nil {
		return Stats{}, err
	}

	now := time.Now()
	if u.Now != nil {
		now = u.Now()
	}
	cut24h := now.Add(-24 * time.Hour).UnixMilli()
	cut7d := now.Add(-7 * 24 * time.Hour).UnixMilli()

	stats := Stats{
		Bot: BotStats{
			Running:   state.Running,
			LastRun:   state.LastRun,
			LastError: state.LastError,
		},
		Transactions: TxStats{Total: len(txs)},
		Errors:       ErrorStats{Total: len(errsList)},
		SuccessRate:  100,
	}

	totalWei := new(big.Int)
	for _, tx := range txs {
		stats.Transactions.TotalAavegotchisPetted += len(tx.TokenIDs)
		if tx.Timestamp > cut24h {
			stats.Transactions.Last24h++
		}
		if tx.Timestamp > cut7d {
			stats.Transactions.Last7d++
		}
		if wei, ok := new(big.Int).SetString(tx.GasCostWei, 10); ok {
			totalWei.Add(totalWei, wei)
		}
	}
	eth, _ := new(big.Float).Quo(new(big.Float).SetInt(totalWei), big.NewFloat(1e18)).Float64()
	stats.Transactions.TotalGasCostEth = eth

	for _, e := range errsList {
		if e.Timestamp > cut24h {
			stats.Errors.Last24h++
		}
	}
	if total := len(txs) + len(errsList); total > 0 {
		stats.SuccessRate = int(math.Round(float64(len(txs)) / float64(total) * 100))
	}
	return stats, nil
}

func (u UseCase) WorkerLogs(ctx context.Context, limit int) ([]petting.WorkerLogEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	logs, err := u.Records.ListWorkerLogs(ctx, limit)
	if err != nil {
		return nil, err
	}
	if logs == nil {
		logs = []petting.WorkerLogEntry{}
	}
	return logs, nil
}
