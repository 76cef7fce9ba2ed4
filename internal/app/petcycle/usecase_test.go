package petcycle

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	ledgermock "petkeeper/internal/adapter/ledger/mock"
	"petkeeper/internal/adapter/repo/memory"
	"petkeeper/internal/domain/petting"
)

const (
	walletAddr = "0x9a3e95f448f3dab367dd9213d4554444faa272f1"
	ownerAddr  = "0x2127aa7265d573aa467f1d73554d17890b872e76"
)

var testNow = time.Unix(1_700_000_000, 0).UTC()

func newTestOrchestrator(store *memory.Store, gw *ledgermock.Gateway) *Orchestrator {
	return &Orchestrator{
		State:         memory.NewStateRepo(store),
		Records:       memory.NewRecordRepo(store),
		Delegations:   memory.NewDelegationRepo(store),
		Ledger:        gw,
		WalletAddress: walletAddr,
		Now:           func() time.Time { return testNow },
	}
}

func hoursAgo(h int64) int64 { return testNow.Unix() - h*3600 }

func TestRunCycle_StoppedBotSkipsButHeartbeats(t *testing.T) {
	store := memory.NewStore()
	gw := &ledgermock.Gateway{}
	o := newTestOrchestrator(store, gw)

	res, err := o.RunCycle(context.Background(), false)
	if err != nil {
		t.Fatalf("RunCycle error: %v", err)
	}
	if !res.Success || res.Petted != 0 {
		t.Fatalf("expected success with 0 petted, got %+v", res)
	}
	if res.Message != "Bot stopped, skipped" {
		t.Fatalf("unexpected message: %q", res.Message)
	}

	state, _ := memory.NewStateRepo(store).GetBotState(context.Background())
	if state.LastRun != testNow.UnixMilli() {
		t.Fatalf("skipped cycle must still update LastRun, got %d", state.LastRun)
	}
	if state.LastRunMessage != "Bot stopped, skipped" {
		t.Fatalf("unexpected LastRunMessage: %q", state.LastRunMessage)
	}
	if len(gw.Submitted) != 0 {
		t.Fatal("stopped cycle must not submit")
	}
}

func TestRunCycle_NoOwnersNoGotchis(t *testing.T) {
	store := memory.NewStore()
	store.SeedState(petting.BotState{Running: true})
	gw := &ledgermock.Gateway{}
	o := newTestOrchestrator(store, gw)

	res, err := o.RunCycle(context.Background(), false)
	if err != nil {
		t.Fatalf("RunCycle error: %v", err)
	}
	if !res.Success || res.Petted != 0 {
		t.Fatalf("expected success with 0 petted, got %+v", res)
	}
	if res.Message != "No delegated owners or Aavegotchis found" {
		t.Fatalf("unexpected message: %q", res.Message)
	}
}

func TestRunCycle_NoGotchisForDelegatedOwners(t *testing.T) {
	store := memory.NewStore()
	store.SeedState(petting.BotState{Running: true})
	store.SeedOwners(ownerAddr)
	gw := &ledgermock.Gateway{}
	o := newTestOrchestrator(store, gw)

	res, err := o.RunCycle(context.Background(), false)
	if err != nil {
		t.Fatalf("RunCycle error: %v", err)
	}
	if res.Message != "No Aavegotchis found for delegated owners" {
		t.Fatalf("unexpected message: %q", res.Message)
	}
}

func TestRunCycle_OneOverdueGotchiPetsWholeBatch(t *testing.T) {
	store := memory.NewStore()
	store.SeedState(petting.BotState{Running: true, LastError: "old failure"})
	gw := &ledgermock.Gateway{
		TokensByOwner: map[string][]string{walletAddr: {"1", "2", "3"}},
		InteractedAt: map[string]int64{
			"1": hoursAgo(5),
			"2": hoursAgo(13),
			"3": hoursAgo(6),
		},
		ChainTime: testNow.Unix(),
		Receipt:   ledgermock.Receipt("0xabc", 1000, "120000", "240000000000"),
	}
	o := newTestOrchestrator(store, gw)

	res, err := o.RunCycle(context.Background(), false)
	if err != nil {
		t.Fatalf("RunCycle error: %v", err)
	}
	if !res.Success || res.Petted != 3 {
		t.Fatalf("expected 3 petted, got %+v", res)
	}
	if res.TransactionHash != "0xabc" || res.BlockNumber != 1000 {
		t.Fatalf("receipt fields missing from result: %+v", res)
	}
	if len(gw.Submitted) != 1 || !reflect.DeepEqual(gw.Submitted[0], []string{"1", "2", "3"}) {
		t.Fatalf("expected one batched submit of [1 2 3], got %v", gw.Submitted)
	}

	tx, err := memory.NewRecordRepo(store).TransactionByHash(context.Background(), "0xabc")
	if err != nil {
		t.Fatalf("transaction not retrievable by hash: %v", err)
	}
	if tx.BlockNumber != 1000 || !reflect.DeepEqual(tx.TokenIDs, []string{"1", "2", "3"}) {
		t.Fatalf("unexpected transaction record: %+v", tx)
	}

	state, _ := memory.NewStateRepo(store).GetBotState(context.Background())
	if state.LastError != "" {
		t.Fatalf("success must clear LastError, got %q", state.LastError)
	}
	if state.LastRunMessage != "Petted 3 Aavegotchi(s)" {
		t.Fatalf("unexpected LastRunMessage: %q", state.LastRunMessage)
	}
}

func TestRunCycle_NoneDueSubmitsNothing(t *testing.T) {
	store := memory.NewStore()
	store.SeedState(petting.BotState{Running: true})
	gw := &ledgermock.Gateway{
		TokensByOwner: map[string][]string{walletAddr: {"1", "2"}},
		InteractedAt: map[string]int64{
			"1": hoursAgo(5),
			"2": hoursAgo(11),
		},
		ChainTime: testNow.Unix(),
	}
	o := newTestOrchestrator(store, gw)

	res, err := o.RunCycle(context.Background(), false)
	if err != nil {
		t.Fatalf("RunCycle error: %v", err)
	}
	if res.Petted != 0 || len(gw.Submitted) != 0 {
		t.Fatalf("expected no submission, got %+v submits=%v", res, gw.Submitted)
	}
	if !strings.Contains(res.Message, "12h cooldown") || !strings.Contains(res.Message, "2 gotchis") {
		t.Fatalf("message must mention cooldown and checked count: %q", res.Message)
	}
}

func TestRunCycle_SubmitFailureRecordsAndPropagates(t *testing.T) {
	store := memory.NewStore()
	store.SeedState(petting.BotState{Running: true, LastRunMessage: "previous"})
	gw := &ledgermock.Gateway{
		TokensByOwner: map[string][]string{walletAddr: {"1"}},
		InteractedAt:  map[string]int64{"1": hoursAgo(13)},
		ChainTime:     testNow.Unix(),
		SubmitErr:     errors.New("insufficient funds for gas"),
	}
	o := newTestOrchestrator(store, gw)

	_, err := o.RunCycle(context.Background(), false)
	if err == nil || !strings.Contains(err.Error(), "insufficient funds") {
		t.Fatalf("expected submit error to propagate, got %v", err)
	}

	errs, _ := memory.NewRecordRepo(store).ListErrors(context.Background(), 10)
	if len(errs) != 1 {
		t.Fatalf("expected one error record, got %d", len(errs))
	}
	if errs[0].Type != petting.ErrorTypePetting {
		t.Fatalf("expected PettingError classification, got %q", errs[0].Type)
	}
	if !strings.Contains(errs[0].Message, "insufficient funds") {
		t.Fatalf("unexpected error message: %q", errs[0].Message)
	}

	state, _ := memory.NewStateRepo(store).GetBotState(context.Background())
	if !strings.Contains(state.LastError, "insufficient funds") {
		t.Fatalf("LastError not set: %q", state.LastError)
	}
	if state.LastRunMessage != "" {
		t.Fatalf("failure must clear LastRunMessage, got %q", state.LastRunMessage)
	}
}

func TestRunCycle_ForcePetsEverythingWithoutProbing(t *testing.T) {
	store := memory.NewStore()
	gw := &ledgermock.Gateway{
		TokensByOwner: map[string][]string{walletAddr: {"1", "2"}},
		// No InteractedAt or ChainTime seeded: force must not need them.
		Receipt: ledgermock.Receipt("0xdef", 42, "90000", ""),
	}
	o := newTestOrchestrator(store, gw)

	// Forced run bypasses the stopped check too.
	res, err := o.RunCycle(context.Background(), true)
	if err != nil {
		t.Fatalf("RunCycle error: %v", err)
	}
	if res.Petted != 2 {
		t.Fatalf("expected forced pet of all, got %+v", res)
	}
}

func TestRunCycle_ReadFailureFailsOpen(t *testing.T) {
	store := memory.NewStore()
	store.SeedState(petting.BotState{Running: true})
	gw := &ledgermock.Gateway{
		TokensByOwner: map[string][]string{walletAddr: {"1", "2"}},
		InteractedAt:  map[string]int64{"1": hoursAgo(1), "2": hoursAgo(1)},
		InteractedErr: map[string]error{"2": errors.New("rpc timeout")},
		ChainTime:     testNow.Unix(),
		Receipt:       ledgermock.Receipt("0x111", 7, "1", ""),
	}
	o := newTestOrchestrator(store, gw)

	res, err := o.RunCycle(context.Background(), false)
	if err != nil {
		t.Fatalf("RunCycle error: %v", err)
	}
	if res.Petted != 2 {
		t.Fatalf("read failure must make batch due, got %+v", res)
	}
}

func TestRunCycle_OwnerFetchFailureIsExcluded(t *testing.T) {
	store := memory.NewStore()
	store.SeedState(petting.BotState{Running: true})
	store.SeedOwners(ownerAddr)
	gw := &ledgermock.Gateway{
		TokensByOwner: map[string][]string{ownerAddr: {"9"}},
		TokensErr:     map[string]error{walletAddr: errors.New("rpc down")},
		InteractedAt:  map[string]int64{"9": hoursAgo(20)},
		ChainTime:     testNow.Unix(),
		Receipt:       ledgermock.Receipt("0x222", 8, "1", ""),
	}
	o := newTestOrchestrator(store, gw)

	res, err := o.RunCycle(context.Background(), false)
	if err != nil {
		t.Fatalf("a single owner fetch failure must not abort the cycle: %v", err)
	}
	if res.Petted != 1 || !reflect.DeepEqual(gw.Submitted, [][]string{{"9"}}) {
		t.Fatalf("expected only the delegated owner's gotchi, got %+v %v", res, gw.Submitted)
	}
}

func TestRunCycle_AtMostOneConcurrentCycle(t *testing.T) {
	store := memory.NewStore()
	store.SeedState(petting.BotState{Running: true})
	entered := make(chan struct{})
	release := make(chan struct{})
	var enteredOnce sync.Once
	gw := &ledgermock.Gateway{
		TokensByOwner: map[string][]string{walletAddr: {"1"}},
		InteractedAt:  map[string]int64{"1": hoursAgo(13)},
		ChainTime:     testNow.Unix(),
		Receipt:       ledgermock.Receipt("0x333", 9, "1", ""),
		SubmitHook: func(ctx context.Context, _ []string) error {
			enteredOnce.Do(func() { close(entered) })
			<-release
			return nil
		},
	}
	o := newTestOrchestrator(store, gw)

	done := make(chan error, 1)
	go func() {
		_, err := o.RunCycle(context.Background(), false)
		done <- err
	}()

	<-entered
	if _, err := o.RunCycle(context.Background(), false); !errors.Is(err, ErrCycleInProgress) {
		t.Fatalf("expected ErrCycleInProgress, got %v", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first cycle failed: %v", err)
	}
	if len(gw.Submitted) != 1 {
		t.Fatalf("expected exactly one submit, got %d", len(gw.Submitted))
	}

	// The flag clears once the cycle ends.
	if _, err := o.RunCycle(context.Background(), false); err != nil {
		t.Fatalf("cycle after completion should run: %v", err)
	}
}

func TestTrigger_AppendsManualRecordOnSuccessAndFailure(t *testing.T) {
	store := memory.NewStore()
	store.SeedState(petting.BotState{Running: true})
	gw := &ledgermock.Gateway{
		TokensByOwner: map[string][]string{walletAddr: {"1"}},
		InteractedAt:  map[string]int64{"1": hoursAgo(13)},
		ChainTime:     testNow.Unix(),
		Receipt:       ledgermock.Receipt("0x444", 10, "1", ""),
	}
	o := newTestOrchestrator(store, gw)

	if _, err := o.Trigger(context.Background(), true); err != nil {
		t.Fatalf("Trigger error: %v", err)
	}
	manuals, _ := memory.NewRecordRepo(store).ListManualTriggers(context.Background(), 10)
	if len(manuals) != 1 {
		t.Fatalf("expected one manual record, got %d", len(manuals))
	}
	if manuals[0].Petted != 1 || !strings.HasPrefix(manuals[0].ID, "manual-") {
		t.Fatalf("unexpected manual record: %+v", manuals[0])
	}

	gw.SubmitErr = errors.New("nonce too low")
	if _, err := o.Trigger(context.Background(), true); err == nil {
		t.Fatal("expected trigger failure to propagate")
	}
	manuals, _ = memory.NewRecordRepo(store).ListManualTriggers(context.Background(), 10)
	if len(manuals) != 2 {
		t.Fatalf("failed trigger must still append a record, got %d", len(manuals))
	}
	if !strings.Contains(manuals[0].Message, "nonce too low") {
		t.Fatalf("unexpected failure message: %q", manuals[0].Message)
	}
}

func TestRunCycle_WorkerLogsPersistedOnEveryBranch(t *testing.T) {
	store := memory.NewStore()
	gw := &ledgermock.Gateway{}
	o := newTestOrchestrator(store, gw)

	if _, err := o.RunCycle(context.Background(), false); err != nil {
		t.Fatalf("RunCycle error: %v", err)
	}
	logs, _ := memory.NewRecordRepo(store).ListWorkerLogs(context.Background(), 50)
	if len(logs) == 0 {
		t.Fatal("skipped cycle must still flush worker logs")
	}
}

type failingStateRepo struct {
	inner  memory.StateRepo
	getErr error
	sets   []petting.BotState
}

func (r *failingStateRepo) GetBotState(ctx context.Context) (petting.BotState, error) {
	if r.getErr != nil {
		return petting.BotState{}, r.getErr
	}
	return r.inner.GetBotState(ctx)
}

func (r *failingStateRepo) SetBotState(ctx context.Context, state petting.BotState) error {
	r.sets = append(r.sets, state)
	return r.inner.SetBotState(ctx, state)
}

func (r *failingStateRepo) GetIntervalHours(ctx context.Context) (float64, error) {
	return r.inner.GetIntervalHours(ctx)
}

func (r *failingStateRepo) SetIntervalHours(ctx context.Context, hours float64) error {
	return r.inner.SetIntervalHours(ctx, hours)
}

func TestRunCycle_StateLoadFailureDoesNotClobberRunningFlag(t *testing.T) {
	store := memory.NewStore()
	store.SeedState(petting.BotState{Running: true, LastRunMessage: "Petted 2 Aavegotchi(s)"})
	stateRepo := &failingStateRepo{
		inner:  memory.NewStateRepo(store),
		getErr: errors.New("transient store error"),
	}
	gw := &ledgermock.Gateway{}
	o := newTestOrchestrator(store, gw)
	o.State = stateRepo

	_, err := o.RunCycle(context.Background(), false)
	if err == nil || !strings.Contains(err.Error(), "transient store error") {
		t.Fatalf("expected load error to propagate, got %v", err)
	}
	if len(stateRepo.sets) != 0 {
		t.Fatalf("state must not be written on a load failure, got writes %+v", stateRepo.sets)
	}

	state, _ := memory.NewStateRepo(store).GetBotState(context.Background())
	if !state.Running {
		t.Fatal("Running flag clobbered by failed cycle")
	}
	if state.LastRunMessage != "Petted 2 Aavegotchi(s)" {
		t.Fatalf("stored state mutated: %+v", state)
	}

	errs, _ := memory.NewRecordRepo(store).ListErrors(context.Background(), 0)
	if len(errs) != 1 || errs[0].Type != petting.ErrorTypePetting {
		t.Fatalf("expected one recorded error, got %+v", errs)
	}
}
