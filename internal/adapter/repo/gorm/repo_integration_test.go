package gormrepo

import (
	"context"
	"errors"
	"os"
	"testing"

	"petkeeper/internal/app/ports"
	"petkeeper/internal/domain/petting"
)

var _ ports.StateRepository = StateRepo{}
var _ ports.RecordRepository = RecordRepo{}
var _ ports.DelegationRepository = DelegationRepo{}
var _ ports.TxManager = TxManager{}

func requireDSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv("PETKEEPER_DB_DSN")
	if dsn == "" {
		t.Skip("PETKEEPER_DB_DSN is required for integration test")
	}
	return dsn
}

func TestStateRepo_RoundTrip(t *testing.T) {
	dsn := requireDSN(t)
	db, err := OpenPostgres(dsn)
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	ctx := context.Background()
	if err := ApplyMigrations(ctx, db, "../../../../migrations"); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	_ = db.Exec("DELETE FROM bot_state").Error
	_ = db.Exec("DELETE FROM settings").Error

	repo := NewStateRepo(db)
	got, err := repo.GetBotState(ctx)
	if err != nil {
		t.Fatalf("get default state: %v", err)
	}
	if got.Running {
		t.Fatalf("expected default stopped state")
	}

	want := petting.BotState{
		Running:        true,
		LastRun:        1_700_000_000_000,
		LastRunMessage: "Petted 3 Aavegotchi(s)",
	}
	if err := repo.SetBotState(ctx, want); err != nil {
		t.Fatalf("set state: %v", err)
	}
	got, err = repo.GetBotState(ctx)
	if err != nil {
		t.Fatalf("get state: %v", err)
	}
	if got != want {
		t.Fatalf("state mismatch: got=%+v want=%+v", got, want)
	}

	if err := repo.SetIntervalHours(ctx, 6); err != nil {
		t.Fatalf("set interval: %v", err)
	}
	hours, err := repo.GetIntervalHours(ctx)
	if err != nil {
		t.Fatalf("get interval: %v", err)
	}
	if hours != 6 {
		t.Fatalf("interval mismatch: got=%v want=6", hours)
	}
}

func TestRecordRepo_BoundedTransactions(t *testing.T) {
	dsn := requireDSN(t)
	db, err := OpenPostgres(dsn)
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	ctx := context.Background()
	if err := ApplyMigrations(ctx, db, "../../../../migrations"); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	_ = db.Exec("DELETE FROM transactions").Error

	repo := NewRecordRepo(db)
	for i := 0; i < petting.TransactionHistoryCap+5; i++ {
		tx := petting.Transaction{
			Hash:      "0x" + string(rune('a'+i%26)) + "tx",
			Timestamp: int64(i),
			TokenIDs:  []string{"1", "2"},
		}
		if err := repo.AddTransaction(ctx, tx); err != nil {
			t.Fatalf("add transaction %d: %v", i, err)
		}
	}
	txs, err := repo.ListTransactions(ctx, 0)
	if err != nil {
		t.Fatalf("list transactions: %v", err)
	}
	if len(txs) != petting.TransactionHistoryCap {
		t.Fatalf("expected %d transactions, got %d", petting.TransactionHistoryCap, len(txs))
	}
	if txs[0].Timestamp != int64(petting.TransactionHistoryCap+4) {
		t.Fatalf("expected newest first, got timestamp %d", txs[0].Timestamp)
	}
	if len(txs[0].TokenIDs) != 2 {
		t.Fatalf("token ids lost in roundtrip: %v", txs[0].TokenIDs)
	}
}

func TestDelegationRepo_RegisterCycle(t *testing.T) {
	dsn := requireDSN(t)
	db, err := OpenPostgres(dsn)
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	ctx := context.Background()
	if err := ApplyMigrations(ctx, db, "../../../../migrations"); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	_ = db.Exec("DELETE FROM delegated_owners").Error

	repo := NewDelegationRepo(db)
	const owner = "0x2127aa7265d573aa467f1d73554d17890b872e76"
	if err := repo.Add(ctx, owner); err != nil {
		t.Fatalf("add owner: %v", err)
	}
	if err := repo.Add(ctx, owner); err != nil {
		t.Fatalf("re-add owner: %v", err)
	}
	owners, err := repo.Owners(ctx)
	if err != nil {
		t.Fatalf("list owners: %v", err)
	}
	if len(owners) != 1 || owners[0] != owner {
		t.Fatalf("unexpected owners: %v", owners)
	}

	ok, err := repo.Contains(ctx, owner)
	if err != nil || !ok {
		t.Fatalf("expected owner to be registered, ok=%v err=%v", ok, err)
	}

	if err := repo.Remove(ctx, owner); err != nil {
		t.Fatalf("remove owner: %v", err)
	}
	if err := repo.Remove(ctx, owner); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second remove, got %v", err)
	}
}

func TestRecordRepo_WorkerLogLevelRoundTrip(t *testing.T) {
	dsn := requireDSN(t)
	db, err := OpenPostgres(dsn)
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	ctx := context.Background()
	if err := ApplyMigrations(ctx, db, "../../../../migrations"); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	_ = db.Exec("DELETE FROM worker_logs").Error

	repo := NewRecordRepo(db)
	entries := []petting.WorkerLogEntry{
		{Timestamp: 1, Level: petting.LogLevelInfo, Message: "starting run"},
		{Timestamp: 2, Level: petting.LogLevelWarn, Message: "chain timestamp read failed"},
		{Timestamp: 3, Level: petting.LogLevelError, Message: "transaction failed"},
	}
	if err := repo.AppendWorkerLogs(ctx, entries); err != nil {
		t.Fatalf("append worker logs: %v", err)
	}

	logs, err := repo.ListWorkerLogs(ctx, 0)
	if err != nil {
		t.Fatalf("list worker logs: %v", err)
	}
	if len(logs) != 3 {
		t.Fatalf("expected 3 logs, got %d", len(logs))
	}
	if logs[0].Level != petting.LogLevelError || logs[2].Level != petting.LogLevelInfo {
		t.Fatalf("levels lost in roundtrip: %+v", logs)
	}
}
