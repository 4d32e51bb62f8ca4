package gormrepo

import (
	"context"
	"fmt"
	"time"

	"galaxytrade/internal/app/ports"

	"gorm.io/gorm"
)

type TxManager struct {
	db          *gorm.DB
	lockTimeout time.Duration
}

func NewTxManager(db *gorm.DB) TxManager {
	return TxManager{db: db}
}

// WithLockTimeout bounds every row-lock wait inside transactions started by
// the returned manager.
func (t TxManager) WithLockTimeout(d time.Duration) TxManager {
	t.lockTimeout = d
	return t
}

// RunInTx joins a transaction already carried by ctx through a savepoint, so
// an inner failure rolls back only the inner work.
func (t TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if tx, ok := txFromCtx(ctx); ok {
		hooks := ports.CommitHooksFrom(ctx)
		hookMark := 0
		if hooks != nil {
			hookMark = hooks.Mark()
		}
		err := tx.Transaction(func(inner *gorm.DB) error {
			return fn(withTx(ctx, inner))
		})
		if err != nil && hooks != nil {
			hooks.DiscardFrom(hookMark)
		}
		return translateError(err)
	}
	hookCtx, hooks := ports.WithCommitHooks(ctx)
	err := t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if ms := t.lockTimeout.Milliseconds(); ms > 0 {
			// SET LOCAL does not take bind parameters.
			if err := tx.Exec(fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", ms)).Error; err != nil {
				return fmt.Errorf("set lock_timeout: %w", err)
			}
		}
		return fn(withTx(hookCtx, tx))
	})
	if err != nil {
		return translateError(err)
	}
	hooks.Run()
	return nil
}
