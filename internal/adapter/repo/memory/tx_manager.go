package memory

import "context"

// TxManager is a passthrough: the store serializes individual operations
// with its own mutex and check-then-insert races are tolerated as
// last-write-wins, matching the single-key discipline of the other stores.
type TxManager struct{}

func (TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
