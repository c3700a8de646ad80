package persistence

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pmotterani/flexipay/internal/domain/entity"
)

// StatusUpdate carries the optional fields of a status change. A nil
// pointer leaves the stored value untouched; only requested fields are
// ever written.
type StatusUpdate struct {
	ProcessorRef *string
	AdminNote    *string
}

// StatusOption mutates a StatusUpdate.
type StatusOption func(*StatusUpdate)

// WithProcessorRef sets the payment-processor reference id on the update.
func WithProcessorRef(ref string) StatusOption {
	return func(u *StatusUpdate) { u.ProcessorRef = &ref }
}

// WithAdminNote sets the administrative note on the update.
func WithAdminNote(note string) StatusOption {
	return func(u *StatusUpdate) { u.AdminNote = &note }
}

// TransactionRepository defines the transaction-record side of the ledger
// store. Records are immutable once created except for the defined status
// transitions; they are never deleted.
type TransactionRepository interface {
	// Create saves a new transaction and fills in its assigned id.
	//
	// Possible errors:
	// - ErrUserNotFound: If the referenced user does not exist
	// - ErrConstraintViolation: If the row violates a schema constraint
	// - ErrDatabaseConnection: If database connection fails
	Create(ctx context.Context, transaction *entity.Transaction) error

	// UpdateStatus moves a transaction to a new status, bumps updated_at
	// and applies any requested optional fields. The status machine is
	// enforced: an illegal transition fails without writing anything.
	//
	// Possible errors:
	// - ErrTransactionNotFound: If no transaction has the given id
	// - ErrInvalidStatusTransition: If the change breaks the status machine
	// - ErrDatabaseConnection: If database connection fails
	UpdateStatus(ctx context.Context, id int64, newStatus entity.TransactionStatus, opts ...StatusOption) error

	// GetByID retrieves a transaction by its id.
	//
	// Possible errors:
	// - ErrTransactionNotFound: If no transaction has the given id
	// - ErrDatabaseConnection: If database connection fails
	GetByID(ctx context.Context, id int64) (*entity.Transaction, error)

	// PendingWithdrawals lists every withdrawal currently under review,
	// oldest first. An empty queue is a typed empty result, not an error.
	PendingWithdrawals(ctx context.Context) ([]*entity.Transaction, error)

	// ProfitTotal sums the amounts of all completed FEE transactions.
	ProfitTotal(ctx context.Context) (decimal.Decimal, error)

	// FeeForWithdrawal resolves the FEE transaction paired with a
	// withdrawal via its admin note.
	//
	// Possible errors:
	// - ErrTransactionNotFound: If no paired fee record exists
	FeeForWithdrawal(ctx context.Context, withdrawalID int64) (*entity.Transaction, error)

	// LastActivity returns the most recent updated_at across a user's
	// transactions.
	//
	// Possible errors:
	// - ErrTransactionNotFound: If the user has no transactions
	LastActivity(ctx context.Context, userID int64) (time.Time, error)
}
