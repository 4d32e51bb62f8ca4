package ports

import "context"

type commitHooksKey struct{}

// CommitHooks collects callbacks that must only run once the outermost
// transaction has committed. TxManager implementations own one per
// top-level transaction.
type CommitHooks struct {
	fns []func()
}

// WithCommitHooks returns ctx carrying a fresh hook list.
func WithCommitHooks(ctx context.Context) (context.Context, *CommitHooks) {
	h := &CommitHooks{}
	return context.WithValue(ctx, commitHooksKey{}, h), h
}

// AfterCommit defers fn until the transaction carried by ctx commits. With no
// transaction in ctx fn runs immediately.
func AfterCommit(ctx context.Context, fn func()) {
	if h := CommitHooksFrom(ctx); h != nil {
		h.fns = append(h.fns, fn)
		return
	}
	fn()
}

// Mark and DiscardFrom let a nested transaction drop the hooks it registered
// when it rolls back to its savepoint.
func (h *CommitHooks) Mark() int {
	return len(h.fns)
}

func (h *CommitHooks) DiscardFrom(mark int) {
	if mark < len(h.fns) {
		h.fns = h.fns[:mark]
	}
}

// Run fires the hooks in registration order.
func (h *CommitHooks) Run() {
	for _, fn := range h.fns {
		fn()
	}
	h.fns = nil
}

// CommitHooksFrom returns the hook list carried by ctx, or nil.
func CommitHooksFrom(ctx context.Context) *CommitHooks {
	h, _ := ctx.Value(commitHooksKey{}).(*CommitHooks)
	return h
}
