package delegation

import (
	"context"
	"errors"
	"fmt"

	"petkeeper/internal/app/ports"
	"petkeeper/internal/domain/petting"
)

var (
	ErrInvalidAddress = errors.New("invalid owner address")
	ErrNotApproved    = errors.New("owner has not granted pet-operator approval to the keeper wallet")
	ErrNotRegistered  = errors.New("owner is not registered")
)

// UseCase manages the delegated-owner set. Registration checks on-chain
// operator approval before insertion; unregistration does not touch the
// chain. Approval is not re-verified after registration.
type UseCase struct {
	Owners ports.DelegationRepository
	Ledger ports.LedgerGateway
	Tx     ports.TxManager
}

func (u UseCase) Register(ctx context.Context, owner string) error {
	addr, ok := petting.NormalizeAddress(owner)
	if !ok {
		return ErrInvalidAddress
	}
	approved, err := u.Ledger.IsPetOperator(ctx, addr)
	if err != nil {
		return fmt.Errorf("check pet-operator approval: %w", err)
	}
	if !approved {
		return ErrNotApproved
	}
	return u.Tx.RunInTx(ctx, func(txCtx context.Context) error {
		registered, err := u.Owners.Contains(txCtx, addr)
		if err != nil {
			return err
		}
		if registered {
			return nil
		}
		return u.Owners.Add(txCtx, addr)
	})
}

func (u UseCase) Unregister(ctx context.Context, owner string) error {
	addr, ok := petting.NormalizeAddress(owner)
	if !ok {
		return ErrInvalidAddress
	}
	if err := u.Owners.Remove(ctx, addr); err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return ErrNotRegistered
		}
		return err
	}
	return nil
}

func (u UseCase) List(ctx context.Context) ([]string, error) {
	owners, err := u.Owners.Owners(ctx)
	if err != nil {
		return nil, err
	}
	if owners == nil {
		owners = []string{}
	}
	return owners, nil
}

func (u UseCase) IsRegistered(ctx context.Context, owner string) (bool, error) {
	addr, ok := petting.NormalizeAddress(owner)
	if !ok {
		return false, ErrInvalidAddress
	}
	return u.Owners.Contains(ctx, addr)
}

// ClearAll removes every registered owner and returns how many there were.
func (u UseCase) ClearAll(ctx context.Context) (int, error) {
	return u.Owners.Clear(ctx)
}
