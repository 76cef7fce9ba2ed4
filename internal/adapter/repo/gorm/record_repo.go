package gormrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"petkeeper/internal/adapter/repo/gorm/model"
	"petkeeper/internal/app/ports"
	"petkeeper/internal/domain/petting"

	"gorm.io/gorm"
)

type RecordRepo struct {
	db *gorm.DB
}

func NewRecordRepo(db *gorm.DB) RecordRepo {
	return RecordRepo{db: db}
}

func (r RecordRepo) AddTransaction(ctx context.Context, tx petting.Transaction) error {
	tokenIDs, err := json.Marshal(tx.TokenIDs)
	if err != nil {
		return fmt.Errorf("encode token ids: %w", err)
	}
	db := getDBFromCtx(ctx, r.db)
	m := model.Transaction{
		Hash:        tx.Hash,
		Timestamp:   tx.Timestamp,
		BlockNumber: tx.BlockNumber,
		GasUsed:     tx.GasUsed,
		GasCostWei:  tx.GasCostWei,
		TokenIDs:    tokenIDs,
	}
	if err := db.Create(&m).Error; err != nil {
		return err
	}
	return trimHistory(db, "transactions", petting.TransactionHistoryCap)
}

func (r RecordRepo) ListTransactions(ctx context.Context, limit int) ([]petting.Transaction, error) {
	var rows []model.Transaction
	if err := historyQuery(getDBFromCtx(ctx, r.db), limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]petting.Transaction, 0, len(rows))
	for _, row := range rows {
		out = append(out, transactionFromRow(row))
	}
	return out, nil
}

func (r RecordRepo) TransactionByHash(ctx context.Context, hash string) (petting.Transaction, error) {
	var row model.Transaction
	err := getDBFromCtx(ctx, r.db).Where("hash = ?", hash).Order("seq DESC").First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return petting.Transaction{}, ports.ErrNotFound
	}
	if err != nil {
		return petting.Transaction{}, err
	}
	return transactionFromRow(row), nil
}

func (r RecordRepo) ClearTransactions(ctx context.Context) error {
	return getDBFromCtx(ctx, r.db).Exec(`DELETE FROM transactions`).Error
}

func (r RecordRepo) AddError(ctx context.Context, e petting.ErrorLog) error {
	db := getDBFromCtx(ctx, r.db)
	m := model.ErrorLog{
		LogID:     e.ID,
		Timestamp: e.Timestamp,
		Message:   e.Message,
		Type:      e.Type,
	}
	if err := db.Create(&m).Error; err != nil {
		return err
	}
	return trimHistory(db, "error_logs", petting.ErrorHistoryCap)
}

func (r RecordRepo) ListErrors(ctx context.Context, limit int) ([]petting.ErrorLog, error) {
	var rows []model.ErrorLog
	if err := historyQuery(getDBFromCtx(ctx, r.db), limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]petting.ErrorLog, 0, len(rows))
	for _, row := range rows {
		out = append(out, petting.ErrorLog{
			ID:        row.LogID,
			Timestamp: row.Timestamp,
			Message:   row.Message,
			Type:      row.Type,
		})
	}
	return out, nil
}

func (r RecordRepo) ClearErrors(ctx context.Context) error {
	return getDBFromCtx(ctx, r.db).Exec(`DELETE FROM error_logs`).Error
}

func (r RecordRepo) AddManualTrigger(ctx context.Context, m petting.ManualTriggerLog) error {
	db := getDBFromCtx(ctx, r.db)
	row := model.ManualTrigger{
		TriggerID: m.ID,
		Timestamp: m.Timestamp,
		Message:   m.Message,
		Petted:    int32(m.Petted),
	}
	if err := db.Create(&row).Error; err != nil {
		return err
	}
	return trimHistory(db, "manual_triggers", petting.ManualTriggerHistoryCap)
}

func (r RecordRepo) ListManualTriggers(ctx context.Context, limit int) ([]petting.ManualTriggerLog, error) {
	var rows []model.ManualTrigger
	if err := historyQuery(getDBFromCtx(ctx, r.db), limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]petting.ManualTriggerLog, 0, len(rows))
	for _, row := range rows {
		out = append(out, petting.ManualTriggerLog{
			ID:        row.TriggerID,
			Timestamp: row.Timestamp,
			Message:   row.Message,
			Petted:    int(row.Petted),
		})
	}
	return out, nil
}

func (r RecordRepo) ClearManualTriggers(ctx context.Context) error {
	return getDBFromCtx(ctx, r.db).Exec(`DELETE FROM manual_triggers`).Error
}

func (r RecordRepo) AppendWorkerLogs(ctx context.Context, entries []petting.WorkerLogEntry) error {
	if len(entries) == 0 {
		return nil
	}
	db := getDBFromCtx(ctx, r.db)
	rows := make([]model.WorkerLog, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, model.WorkerLog{
			Timestamp: e.Timestamp,
			Level:     string(e.Level),
			Message:   e.Message,
		})
	}
	if err := db.Create(&rows).Error; err != nil {
		return err
	}
	return trimHistory(db, "worker_logs", petting.WorkerLogHistoryCap)
}

func (r RecordRepo) ListWorkerLogs(ctx context.Context, limit int) ([]petting.WorkerLogEntry, error) {
	var rows []model.WorkerLog
	if err := historyQuery(getDBFromCtx(ctx, r.db), limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]petting.WorkerLogEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, petting.WorkerLogEntry{
			Timestamp: row.Timestamp,
			Level:     petting.LogLevel(row.Level),
			Message:   row.Message,
		})
	}
	return out, nil
}

func transactionFromRow(row model.Transaction) petting.Transaction {
	var tokenIDs []string
	_ = json.Unmarshal(row.TokenIDs, &tokenIDs)
	return petting.Transaction{
		Hash:        row.Hash,
		Timestamp:   row.Timestamp,
		BlockNumber: row.BlockNumber,
		GasUsed:     row.GasUsed,
		GasCostWei:  row.GasCostWei,
		TokenIDs:    tokenIDs,
	}
}

func historyQuery(db *gorm.DB, limit int) *gorm.DB {
	q := db.Order("seq DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	return q
}

// trimHistory evicts the oldest rows once a history table exceeds its
// bound. Runs after every insert so tables never grow past capacity+1.
func trimHistory(db *gorm.DB, table string, capacity int) error {
	stmt := fmt.Sprintf(
		`DELETE FROM %s WHERE seq NOT IN (SELECT seq FROM %s ORDER BY seq DESC LIMIT %d)`,
		table, table, capacity,
	)
	return db.Exec(stmt).Error
}
