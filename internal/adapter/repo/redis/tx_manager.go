package redisrepo

import "context"

// TxManager is a passthrough: delegation writes already run under WATCH
// inside the repo, so there is no outer transaction to open.
type TxManager struct{}

func (TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
