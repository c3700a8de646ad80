package ledger

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	errs "github.com/pmotterani/flexipay/internal/domain/error"
)

// EnsureUser creates the ledger account for an external identity if it
// does not exist yet. Called on every first interaction; safe to repeat.
func (s *Service) EnsureUser(ctx context.Context, id int64, username, firstName string) error {
	if id <= 0 {
		return errs.ErrInvalidUserID
	}

	users := s.uow.GetUserRepository(ctx)
	if err := users.Ensure(ctx, id, username, firstName); err != nil {
		s.logger.Error("Failed to ensure user", map[string]any{
			"user_id": id,
			"error":   err.Error(),
		})
		return err
	}

	return nil
}

// GetBalance returns a user's current balance. An absent user reads as a
// zero balance rather than an error.
func (s *Service) GetBalance(ctx context.Context, id int64) (decimal.Decimal, error) {
	if id <= 0 {
		return decimal.Zero, errs.ErrInvalidUserID
	}

	users := s.uow.GetUserRepository(ctx)
	user, err := users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, errs.ErrUserNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, err
	}

	return user.Balance, nil
}

// Adjust applies a signed delta to a user's balance. It reports ok=false
// when the delta would drive the balance negative; the balance is left
// untouched in that case. Exposed for collaborators that manage their own
// transaction records.
func (s *Service) Adjust(ctx context.Context, id int64, delta decimal.Decimal) (bool, error) {
	if id <= 0 {
		return false, errs.ErrInvalidUserID
	}

	users := s.uow.GetUserRepository(ctx)
	return users.AdjustBalance(ctx, id, delta)
}
