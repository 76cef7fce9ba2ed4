package gormrepo

import (
	"context"

	"gorm.io/gorm"
)

// TxManager runs a function inside one database transaction. Registration
// uses it for its check-then-insert on the delegated-owner set.
type TxManager struct {
	db *gorm.DB
}

func NewTxManager(db *gorm.DB) TxManager {
	return TxManager{db: db}
}

func (t TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(withTx(ctx, tx))
	})
}
