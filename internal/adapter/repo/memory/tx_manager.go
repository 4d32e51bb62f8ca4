package memory

import (
	"context"

	"galaxytrade/internal/app/ports"
)

type txKeyType struct{}

var txKey = txKeyType{}

type txState struct {
	undo []func()
	held map[string]releaser
	// order keeps release deterministic.
	order []string
}

type releaser interface {
	Release(n int64)
}

func txFrom(ctx context.Context) *txState {
	if v := ctx.Value(txKey); v != nil {
		if tx, ok := v.(*txState); ok {
			return tx
		}
	}
	return nil
}

func (t *txState) holds(key string) bool {
	_, ok := t.held[key]
	return ok
}

func (t *txState) hold(key string, r releaser) {
	t.held[key] = r
	t.order = append(t.order, key)
}

func (t *txState) release() {
	for i := len(t.order) - 1; i >= 0; i-- {
		t.held[t.order[i]].Release(1)
	}
	t.held = nil
	t.order = nil
}

type TxManager struct {
	store *Store
}

func NewTxManager(store *Store) TxManager {
	return TxManager{store: store}
}

// RunInTx commits by doing nothing and rolls back by replaying the undo log.
// A nested call behaves like a savepoint: its failure undoes only its own
// writes, and row locks stay with the outer transaction.
func (t TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if tx := txFrom(ctx); tx != nil {
		mark := len(tx.undo)
		hooks := ports.CommitHooksFrom(ctx)
		hookMark := 0
		if hooks != nil {
			hookMark = hooks.Mark()
		}
		if err := fn(ctx); err != nil {
			t.store.rollbackTo(tx, mark)
			if hooks != nil {
				hooks.DiscardFrom(hookMark)
			}
			return err
		}
		return nil
	}

	tx := &txState{held: map[string]releaser{}}
	defer tx.release()
	defer func() {
		if r := recover(); r != nil {
			t.store.rollbackTo(tx, 0)
			panic(r)
		}
	}()
	txCtx, hooks := ports.WithCommitHooks(context.WithValue(ctx, txKey, tx))
	if err := fn(txCtx); err != nil {
		t.store.rollbackTo(tx, 0)
		return err
	}
	tx.release()
	hooks.Run()
	return nil
}

func (s *Store) rollbackTo(tx *txState, mark int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(tx.undo) - 1; i >= mark; i-- {
		tx.undo[i]()
	}
	tx.undo = tx.undo[:mark]
}
