package persistence

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/pmotterani/flexipay/internal/domain/entity"
)

// UserRepository defines the balance side of the ledger store. All balance
// mutations in the system go through AdjustBalance or SetBalance; nothing
// else writes the balance column.
type UserRepository interface {
	// GetByID retrieves a user by ID
	//
	// Possible errors:
	// - ErrUserNotFound: If user with specified ID doesn't exist
	// - ErrDatabaseConnection: If database connection fails
	GetByID(ctx context.Context, id int64) (*entity.User, error)

	// Ensure creates the user if absent. A user that already exists is
	// left untouched; the call is idempotent.
	//
	// Possible errors:
	// - ErrInvalidUserID: If the id is not positive
	// - ErrDatabaseConnection: If database connection fails
	Ensure(ctx context.Context, id int64, username, firstName string) error

	// AdjustBalance applies a signed delta to the user's balance under an
	// exclusive row lock. Concurrent adjustments of the same user serialize;
	// different users proceed independently. Returns ok=false without
	// mutating anything when the delta would drive the balance negative.
	//
	// When the context carries a durability scope opened by the UnitOfWork,
	// the write joins that scope; otherwise the repository opens and
	// finalizes its own.
	//
	// Possible errors:
	// - ErrUserNotFound: If the user doesn't exist
	// - ErrContention: If the row lock could not be acquired in time
	// - ErrDatabaseConnection: If database connection fails
	AdjustBalance(ctx context.Context, id int64, delta decimal.Decimal) (bool, error)

	// SetBalance overwrites the user's balance. Used only by the admin
	// manual-adjustment flow, inside the same scope as its transaction
	// record.
	//
	// Possible errors:
	// - ErrUserNotFound: If the user doesn't exist
	// - ErrNegativeAmount: If the new balance is negative
	// - ErrDatabaseConnection: If database connection fails
	SetBalance(ctx context.Context, id int64, balance decimal.Decimal) error
}
