package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/pmotterani/flexipay/internal/domain/entity"
	errs "github.com/pmotterani/flexipay/internal/domain/error"
	"github.com/pmotterani/flexipay/internal/domain/port/persistence"
)

// SetBalance overwrites a user's balance and records a MANUAL_ADJUSTMENT
// transaction carrying the new balance, both in one durability scope. If
// either write fails neither is retained.
func (s *Service) SetBalance(ctx context.Context, userID int64, newBalance decimal.Decimal) error {
	if userID <= 0 {
		return errs.ErrInvalidUserID
	}
	if newBalance.IsNegative() {
		return errs.ErrNegativeAmount
	}

	err := s.withinScope(ctx, func(txCtx context.Context) error {
		users := s.uow.GetUserRepository(txCtx)
		if err := users.SetBalance(txCtx, userID, newBalance); err != nil {
			return err
		}

		adjustment, err := entity.NewTransaction(entity.TransactionDraft{
			UserID:    userID,
			Type:      entity.TypeManualAdjustment,
			Amount:    newBalance,
			Status:    entity.StatusCompleted,
			AdminNote: "balance set manually",
		}, s.timeProvider)
		if err != nil {
			return err
		}
		return s.uow.GetTransactionRepository(txCtx).Create(txCtx, adjustment)
	})
	if err != nil {
		s.logger.Error("Manual balance adjustment failed", map[string]any{
			"user_id": userID,
			"balance": entity.FormatAmount(newBalance),
			"error":   err.Error(),
		})
		return err
	}

	s.logger.Info("Balance set manually", map[string]any{
		"user_id": userID,
		"balance": entity.FormatAmount(newBalance),
	})
	return nil
}

// StartWithdrawal moves a reviewed withdrawal to IN_PROGRESS while the
// payout is being executed.
func (s *Service) StartWithdrawal(ctx context.Context, withdrawalID int64) error {
	transactions := s.uow.GetTransactionRepository(ctx)
	return transactions.UpdateStatus(ctx, withdrawalID, entity.StatusInProgress)
}

// ApproveWithdrawal completes a withdrawal under review. The balance was
// already debited at request time; approval finalizes the withdrawal and
// its paired fee record.
func (s *Service) ApproveWithdrawal(ctx context.Context, withdrawalID int64) error {
	err := s.withinScope(ctx, func(txCtx context.Context) error {
		transactions := s.uow.GetTransactionRepository(txCtx)

		withdrawal, err := s.pendingWithdrawal(txCtx, withdrawalID)
		if err != nil {
			return err
		}

		if err := transactions.UpdateStatus(txCtx, withdrawal.ID, entity.StatusCompleted); err != nil {
			return err
		}

		feeRecord, err := transactions.FeeForWithdrawal(txCtx, withdrawal.ID)
		if err != nil {
			if errors.Is(err, errs.ErrTransactionNotFound) {
				s.logger.Warn("Withdrawal has no paired fee record", map[string]any{
					"withdrawal_id": withdrawal.ID,
				})
				return nil
			}
			return err
		}
		return transactions.UpdateStatus(txCtx, feeRecord.ID, entity.StatusCompleted)
	})
	if err != nil {
		return err
	}

	s.logger.Info("Withdrawal approved", map[string]any{
		"withdrawal_id": withdrawalID,
	})
	return nil
}

// RefuseWithdrawal declines a withdrawal under review and credits the
// reserved amount back: net to the withdrawal, fee to its paired record,
// all in the same scope as the status updates.
func (s *Service) RefuseWithdrawal(ctx context.Context, withdrawalID int64, note string) error {
	err := s.withinScope(ctx, func(txCtx context.Context) error {
		users := s.uow.GetUserRepository(txCtx)
		transactions := s.uow.GetTransactionRepository(txCtx)

		withdrawal, err := s.pendingWithdrawal(txCtx, withdrawalID)
		if err != nil {
			return err
		}

		opts := []persistence.StatusOption{}
		if note != "" {
			opts = append(opts, persistence.WithAdminNote(note))
		}
		if err := transactions.UpdateStatus(txCtx, withdrawal.ID, entity.StatusRefused, opts...); err != nil {
			return err
		}

		ok, err := users.AdjustBalance(txCtx, withdrawal.UserID, withdrawal.Amount)
		if err != nil {
			return err
		}
		if !ok {
			return errs.ErrInternalServer
		}

		feeRecord, err := transactions.FeeForWithdrawal(txCtx, withdrawal.ID)
		if err != nil {
			if errors.Is(err, errs.ErrTransactionNotFound) {
				s.logger.Warn("Withdrawal has no paired fee record", map[string]any{
					"withdrawal_id": withdrawal.ID,
				})
				return nil
			}
			return err
		}
		if err := transactions.UpdateStatus(txCtx, feeRecord.ID, entity.StatusRefused); err != nil {
			return err
		}

		ok, err = users.AdjustBalance(txCtx, withdrawal.UserID, feeRecord.Amount)
		if err != nil {
			return err
		}
		if !ok {
			return errs.ErrInternalServer
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Withdrawal refused, amount credited back", map[string]any{
		"withdrawal_id": withdrawalID,
	})
	return nil
}

// pendingWithdrawal loads a withdrawal that is still open for an admin
// decision.
func (s *Service) pendingWithdrawal(txCtx context.Context, withdrawalID int64) (*entity.Transaction, error) {
	transactions := s.uow.GetTransactionRepository(txCtx)

	withdrawal, err := transactions.GetByID(txCtx, withdrawalID)
	if err != nil {
		return nil, err
	}
	if withdrawal.Type != entity.TypeWithdrawal {
		return nil, fmt.Errorf("%w: transaction %d is not a withdrawal", errs.ErrInvalidRequest, withdrawalID)
	}
	if withdrawal.Status != entity.StatusUnderReview && withdrawal.Status != entity.StatusInProgress {
		return nil, errs.NewStatusTransitionError(withdrawalID, string(withdrawal.Status), string(entity.StatusCompleted))
	}
	return withdrawal, nil
}
