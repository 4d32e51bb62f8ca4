package ports

import "context"

// TxManager runs fn as one unit of work. Calling RunInTx with a context that
// already carries a transaction joins it, so a ledger transfer issued from an
// agreement execution commits or rolls back together with it.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
