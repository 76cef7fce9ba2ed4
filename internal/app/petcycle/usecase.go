package petcycle

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"petkeeper/internal/app/ports"
	"petkeeper/internal/domain/petting"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// ErrCycleInProgress is returned when a cycle is triggered while another is
// in flight. The caller logs and skips; cycles are never queued.
var ErrCycleInProgress = errors.New("petting cycle already in progress")

const DefaultConfirmTimeout = 2 * time.Minute

// Orchestrator runs the petting cycle: resolve owners, enumerate gotchis,
// evaluate cooldown eligibility, submit one batched interact call, persist
// the outcome. Construct one per process and share it between the HTTP
// adapter and the timer trigger.
type Orchestrator struct {
	State         ports.StateRepository
	Records       ports.RecordRepository
	Delegations   ports.DelegationRepository
	Ledger        ports.LedgerGateway
	WalletAddress string

	// ConfirmTimeout bounds the submit-and-confirm wait; expiry is treated
	// as a petting failure. Zero means DefaultConfirmTimeout.
	ConfirmTimeout time.Duration
	Now            func() time.Time

	inFlight atomic.Bool
}

func (o *Orchestrator) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// RunCycle executes one cycle. Every return path persists the collected
// worker logs; branches reached after the state snapshot loads also write
// a BotState update. The Running flag is only ever flipped by start/stop.
func (o *Orchestrator) RunCycle(ctx context.Context, force bool) (Result, error) {
	if !o.inFlight.CompareAndSwap(false, true) {
		return Result{}, ErrCycleInProgress
	}
	defer o.inFlight.Store(false)

	logs := &cycleLog{now: o.now}
	logs.infof("starting run (force=%v)", force)

	var state petting.BotState
	var intervalHours float64
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s, err := o.State.GetBotState(gctx)
		if err == nil {
			state = s
		}
		return err
	})
	g.Go(func() error {
		h, err := o.State.GetIntervalHours(gctx)
		if err == nil {
			intervalHours = h
		}
		return err
	})
	if err := g.Wait(); err != nil {
		return o.finishFatal(ctx, logs, fmt.Errorf("load bot state: %w", err))
	}
	logs.infof("petting interval: %gh", intervalHours)

	if !state.Running && !force {
		logs.infof("bot is stopped, skipping; start the bot to run on schedule")
		return o.finishIdle(ctx, logs, state, "Bot stopped, skipped")
	}

	delegated, err := o.Delegations.Owners(ctx)
	if err != nil {
		// Fail open: the keeper wallet's own gotchis must still be pettable.
		logs.warnf("list delegated owners: %v", err)
		delegated = nil
	}
	owners := petting.ResolveOwners(o.WalletAddress, delegated)
	logs.infof("checking %d owner(s) for gotchis", len(owners))

	allTokenIDs := o.collectTokenIDs(ctx, owners, logs)
	if len(allTokenIDs) == 0 {
		msg := "No delegated owners or Aavegotchis found"
		if len(delegated) > 0 {
			msg = "No Aavegotchis found for delegated owners"
		}
		logs.infof("%s", msg)
		return o.finishIdle(ctx, logs, state, msg)
	}

	readyToPet := allTokenIDs
	if !force {
		chainNow, err := retryWithBackoff(ctx, func() (int64, error) {
			return o.Ledger.CurrentTimestamp(ctx)
		})
		if err != nil {
			chainNow = o.now().Unix()
			logs.warnf("chain timestamp read failed, using local clock: %v", err)
		}
		items := o.probeItems(ctx, allTokenIDs, logs)
		readyToPet = petting.ReadyToPet(items, chainNow, intervalHours, false)
	}

	if len(readyToPet) == 0 {
		msg := fmt.Sprintf("No Aavegotchis ready for kinship (%gh cooldown). Checked %d gotchis.",
			intervalHours, len(allTokenIDs))
		logs.infof("%s", msg)
		return o.finishIdle(ctx, logs, state, msg)
	}

	logs.infof("petting %d gotchi(s)", len(readyToPet))

	confirmTimeout := o.ConfirmTimeout
	if confirmTimeout <= 0 {
		confirmTimeout = DefaultConfirmTimeout
	}
	subCtx, cancel := context.WithTimeout(ctx, confirmTimeout)
	defer cancel()

	// Submitted exactly once: a retry here could land the batch twice.
	receipt, err := o.Ledger.SubmitPet(subCtx, readyToPet)
	if err != nil {
		return o.finishPettingFailure(ctx, logs, state, err)
	}
	logs.infof("tx %s confirmed in block %d", receipt.Hash, receipt.BlockNumber)

	now := o.now().UnixMilli()
	tx := petting.Transaction{
		Hash:        receipt.Hash,
		Timestamp:   now,
		BlockNumber: receipt.BlockNumber,
		GasUsed:     receipt.GasUsed,
		GasCostWei:  receipt.GasCostWei,
		TokenIDs:    readyToPet,
	}
	if err := o.Records.AddTransaction(ctx, tx); err != nil {
		// The pet landed on-chain but the record did not persist; surface it
		// rather than leaving a silent gap in the log.
		return o.finishPettingFailure(ctx, logs, state, fmt.Errorf("record transaction %s: %w", receipt.Hash, err))
	}

	msg := fmt.Sprintf("Petted %d Aavegotchi(s)", len(readyToPet))
	_ = o.Records.AppendWorkerLogs(ctx, logs.entries)
	state.Running = true
	state.LastRun = now
	state.LastError = ""
	state.LastRunMessage = msg
	if err := o.State.SetBotState(ctx, state); err != nil {
		return o.finishPettingFailure(ctx, logs, state, fmt.Errorf("persist bot state: %w", err))
	}

	return Result{
		Success:         true,
		Message:         msg,
		Petted:          len(readyToPet),
		TransactionHash: receipt.Hash,
		BlockNumber:     receipt.BlockNumber,
	}, nil
}

// Trigger runs a cycle on behalf of an operator and appends a manual-trigger
// record regardless of outcome. The record write is best effort; its failure
// never fails the trigger itself.
func (o *Orchestrator) Trigger(ctx context.Context, force bool) (Result, error) {
	res, err := o.RunCycle(ctx, force)
	msg := res.Message
	if err != nil {
		msg = err.Error()
	}
	if msg == "" {
		msg = "Manual trigger completed"
	}
	_ = o.Records.AddManualTrigger(ctx, petting.ManualTriggerLog{
		ID:        "manual-" + uuid.NewString(),
		Timestamp: o.now().UnixMilli(),
		Message:   msg,
		Petted:    res.Petted,
	})
	return res, err
}

// collectTokenIDs fetches owned token ids per owner concurrently. A failed
// fetch excludes that owner from the aggregate and never aborts the cycle.
// Enumeration order is owner order, then ledger-returned order; duplicate
// ids across owners are kept.
func (o *Orchestrator) collectTokenIDs(ctx context.Context, owners []string, logs *cycleLog) []string {
	type fetched struct {
		ids []string
		err error
	}
	results := make([]fetched, len(owners))
	var wg sync.WaitGroup
	for i, owner := range owners {
		wg.Add(1)
		go func(i int, owner string) {
			defer wg.Done()
			ids, err := retryWithBackoff(ctx, func() ([]string, error) {
				return o.Ledger.TokenIDsOfOwner(ctx, owner)
			})
			results[i] = fetched{ids: ids, err: err}
		}(i, owner)
	}
	wg.Wait()

	var all []string
	for i, owner := range owners {
		if results[i].err != nil {
			logs.errorf("tokenIdsOfOwner(%s...): %v", shortAddr(owner), results[i].err)
			continue
		}
		logs.infof("owner %s...: %d gotchi(s)", shortAddr(owner), len(results[i].ids))
		all = append(all, results[i].ids...)
	}
	return all
}

// probeItems reads each gotchi's last interaction time concurrently. A read
// failure marks the item ReadFailed; the evaluator treats that as due.
func (o *Orchestrator) probeItems(ctx context.Context, tokenIDs []string, logs *cycleLog) []petting.ItemStatus {
	items := make([]petting.ItemStatus, len(tokenIDs))
	errs := make([]error, len(tokenIDs))
	var wg sync.WaitGroup
	for i, id := range tokenIDs {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			last, err := retryWithBackoff(ctx, func() (int64, error) {
				return o.Ledger.LastInteracted(ctx, id)
			})
			if err != nil {
				items[i] = petting.ItemStatus{TokenID: id, ReadFailed: true}
				errs[i] = err
				return
			}
			items[i] = petting.ItemStatus{TokenID: id, LastInteracted: last}
		}(i, id)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			logs.warnf("lastInteracted(%s): %v (treating as due)", tokenIDs[i], err)
		}
	}
	return items
}

func (o *Orchestrator) finishIdle(ctx context.Context, logs *cycleLog, state petting.BotState, msg string) (Result, error) {
	_ = o.Records.AppendWorkerLogs(ctx, logs.entries)
	state.LastRun = o.now().UnixMilli()
	state.LastRunMessage = msg
	if err := o.State.SetBotState(ctx, state); err != nil {
		return Result{}, fmt.Errorf("persist bot state: %w", err)
	}
	return Result{Success: true, Message: msg, Petted: 0}, nil
}

func (o *Orchestrator) finishPettingFailure(ctx context.Context, logs *cycleLog, state petting.BotState, err error) (Result, error) {
	logs.errorf("transaction failed: %v", err)
	_ = o.Records.AppendWorkerLogs(ctx, logs.entries)
	_ = o.Records.AddError(ctx, petting.ErrorLog{
		ID:        uuid.NewString(),
		Timestamp: o.now().UnixMilli(),
		Message:   err.Error(),
		Type:      petting.ErrorTypePetting,
	})
	state.LastError = err.Error()
	state.LastRunMessage = ""
	_ = o.State.SetBotState(ctx, state)
	return Result{}, err
}

// finishFatal handles failures before the cycle has a trustworthy state
// snapshot. It records the error but never writes BotState: persisting a
// zero-value snapshot here would flip Running off a started bot.
func (o *Orchestrator) finishFatal(ctx context.Context, logs *cycleLog, err error) (Result, error) {
	logs.errorf("%v", err)
	_ = o.Records.AppendWorkerLogs(ctx, logs.entries)
	_ = o.Records.AddError(ctx, petting.ErrorLog{
		ID:        uuid.NewString(),
		Timestamp: o.now().UnixMilli(),
		Message:   err.Error(),
		Type:      petting.ErrorTypePetting,
	})
	return Result{}, err
}

func shortAddr(a string) string {
	if len(a) > 10 {
		return a[:10]
	}
	return a
}
