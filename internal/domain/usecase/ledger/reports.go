package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pmotterani/flexipay/internal/domain/entity"
	errs "github.com/pmotterani/flexipay/internal/domain/error"
)

// GetTransaction fetches a single transaction by id.
func (s *Service) GetTransaction(ctx context.Context, id int64) (*entity.Transaction, error) {
	return s.uow.GetTransactionRepository(ctx).GetByID(ctx, id)
}

// PendingWithdrawals lists the admin review queue, oldest first.
func (s *Service) PendingWithdrawals(ctx context.Context) ([]*entity.Transaction, error) {
	return s.uow.GetTransactionRepository(ctx).PendingWithdrawals(ctx)
}

// ProfitTotal sums every completed fee: the platform's take across
// settled deposits and approved withdrawals.
func (s *Service) ProfitTotal(ctx context.Context) (decimal.Decimal, error) {
	return s.uow.GetTransactionRepository(ctx).ProfitTotal(ctx)
}

// WithdrawalFee resolves the fee amount charged for a given withdrawal.
func (s *Service) WithdrawalFee(ctx context.Context, withdrawalID int64) (decimal.Decimal, error) {
	feeRecord, err := s.uow.GetTransactionRepository(ctx).FeeForWithdrawal(ctx, withdrawalID)
	if err != nil {
		return decimal.Zero, err
	}
	return feeRecord.Amount, nil
}

// LastActivity returns the most recent transaction update for a user, or
// the zero time when the user has no transactions.
func (s *Service) LastActivity(ctx context.Context, userID int64) (time.Time, error) {
	if userID <= 0 {
		return time.Time{}, errs.ErrInvalidUserID
	}

	when, err := s.uow.GetTransactionRepository(ctx).LastActivity(ctx, userID)
	if err != nil {
		if errs.IsNotFoundError(err) {
			return time.Time{}, nil
		}
		return time.Time{}, err
	}
	return when, nil
}
