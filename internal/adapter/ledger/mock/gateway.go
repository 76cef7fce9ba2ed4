package mock

import (
	"context"
	"sync"

	"petkeeper/internal/app/ports"
)

// Gateway is a seedable in-process stand-in for the Aavegotchi diamond.
// Zero value is usable: no gotchis, no approvals, empty receipt. Error
// fields, when set, are returned by the corresponding call.
type Gateway struct {
	mu sync.Mutex

	TokensByOwner  map[string][]string
	TokensErr      map[string]error
	InteractedAt   map[string]int64
	InteractedErr  map[string]error
	Operators      map[string]bool
	OperatorErr    error
	ChainTime      int64
	ChainTimeErr   error
	Receipt        ports.PetReceipt
	SubmitErr      error

	// SubmitHook, when set, runs inside SubmitPet before the receipt is
	// returned; tests use it to block or fail mid-submit.
	SubmitHook func(ctx context.Context, tokenIDs []string) error

	Submitted [][]string
}

func (g *Gateway) TokenIDsOfOwner(_ context.Context, owner string) ([]string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.TokensErr[owner]; err != nil {
		return nil, err
	}
	return append([]string{}, g.TokensByOwner[owner]...), nil
}

func (g *Gateway) LastInteracted(_ context.Context, tokenID string) (int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.InteractedErr[tokenID]; err != nil {
		return 0, err
	}
	return g.InteractedAt[tokenID], nil
}

func (g *Gateway) CurrentTimestamp(_ context.Context) (int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.ChainTimeErr != nil {
		return 0, g.ChainTimeErr
	}
	return g.ChainTime, nil
}

func (g *Gateway) SubmitPet(ctx context.Context, tokenIDs []string) (ports.PetReceipt, error) {
	g.mu.Lock()
	hook := g.SubmitHook
	g.mu.Unlock()
	if hook != nil {
		if err := hook(ctx, tokenIDs); err != nil {
			return ports.PetReceipt{}, err
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.SubmitErr != nil {
		return ports.PetReceipt{}, g.SubmitErr
	}
	g.Submitted = append(g.Submitted, append([]string{}, tokenIDs...))
	return g.Receipt, nil
}

func (g *Gateway) IsPetOperator(_ context.Context, owner string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.OperatorErr != nil {
		return false, g.OperatorErr
	}
	return g.Operators[owner], nil
}

// Receipt builds a PetReceipt literal; test convenience.
func Receipt(hash string, blockNumber int64, gasUsed, gasCostWei string) ports.PetReceipt {
	return ports.PetReceipt{
		Hash:        hash,
		BlockNumber: blockNumber,
		GasUsed:     gasUsed,
		GasCostWei:  gasCostWei,
	}
}

var _ ports.LedgerGateway = (*Gateway)(nil)
