package persistence

import (
	"context"
)

// UnitOfWork coordinates a durability scope covering both sides of the
// ledger store: every multi-step flow (balance write + transaction record)
// commits or rolls back as one.
type UnitOfWork interface {
	// Begin opens a new scope and returns a context carrying it
	Begin(ctx context.Context) (context.Context, error)

	// Commit commits the scope carried by the context
	Commit(ctx context.Context) error

	// Rollback discards the scope carried by the context. Rolling back a
	// scope that was already finalized is a no-op.
	Rollback(ctx context.Context) error

	// GetUserRepository returns a user repository bound to the scope in ctx
	GetUserRepository(ctx context.Context) UserRepository

	// GetTransactionRepository returns a transaction repository bound to the scope in ctx
	GetTransactionRepository(ctx context.Context) TransactionRepository
}
