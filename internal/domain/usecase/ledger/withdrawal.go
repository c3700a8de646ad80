package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/pmotterani/flexipay/internal/domain/entity"
	errs "github.com/pmotterani/flexipay/internal/domain/error"
)

// errWithdrawalDeclined aborts the scope when a balance check fails. The
// user-facing error is built after rollback, once the balance is settled
// again.
var errWithdrawalDeclined = errors.New("withdrawal declined")

// WithdrawalReceipt is returned when a withdrawal request is accepted.
// Total = Net + Fee is what left the balance; Net is what the PIX payout
// will transfer.
type WithdrawalReceipt struct {
	WithdrawalID int64
	FeeID        int64
	Net          decimal.Decimal
	Fee          decimal.Decimal
	Total        decimal.Decimal
}

// RequestWithdrawal debits the full requested amount and queues the
// withdrawal for admin review. In one durability scope: the net amount is
// debited and recorded as a WITHDRAWAL under review, then the fee is
// debited and recorded as a FEE noted against the withdrawal. A balance
// that cannot cover net + fee declines the whole request and leaves no
// trace.
func (s *Service) RequestWithdrawal(ctx context.Context, userID int64, pixKey string, total decimal.Decimal) (*WithdrawalReceipt, error) {
	if userID <= 0 {
		return nil, errs.ErrInvalidUserID
	}
	if pixKey == "" {
		return nil, fmt.Errorf("%w: missing destination key", errs.ErrInvalidRequest)
	}

	withdrawalFee := s.fees.WithdrawalFee(total)
	net := total.Sub(withdrawalFee)
	if !net.IsPositive() {
		return nil, fmt.Errorf("%w: amount %s does not cover the fee %s",
			errs.ErrInvalidAmount, entity.FormatAmount(total), entity.FormatAmount(withdrawalFee))
	}

	receipt := &WithdrawalReceipt{Net: net, Fee: withdrawalFee, Total: total}

	err := s.withinScope(ctx, func(txCtx context.Context) error {
		users := s.uow.GetUserRepository(txCtx)
		transactions := s.uow.GetTransactionRepository(txCtx)

		ok, err := users.AdjustBalance(txCtx, userID, net.Neg())
		if err != nil {
			return err
		}
		if !ok {
			return errWithdrawalDeclined
		}

		withdrawal, err := entity.NewTransaction(entity.TransactionDraft{
			UserID: userID,
			Type:   entity.TypeWithdrawal,
			Amount: net,
			Status: entity.StatusUnderReview,
			PixKey: pixKey,
		}, s.timeProvider)
		if err != nil {
			return err
		}
		if err := transactions.Create(txCtx, withdrawal); err != nil {
			return err
		}

		ok, err = users.AdjustBalance(txCtx, userID, withdrawalFee.Neg())
		if err != nil {
			return err
		}
		if !ok {
			return errWithdrawalDeclined
		}

		feeRecord, err := entity.NewTransaction(entity.TransactionDraft{
			UserID:    userID,
			Type:      entity.TypeFee,
			Amount:    withdrawalFee,
			Status:    entity.StatusUnderReview,
			AdminNote: entity.FeeNoteForWithdrawal(withdrawal.ID),
		}, s.timeProvider)
		if err != nil {
			return err
		}
		if err := transactions.Create(txCtx, feeRecord); err != nil {
			return err
		}

		receipt.WithdrawalID = withdrawal.ID
		receipt.FeeID = feeRecord.ID
		return nil
	})
	if err != nil {
		if errors.Is(err, errWithdrawalDeclined) {
			return nil, s.declinedWithdrawal(ctx, userID, total)
		}
		return nil, err
	}

	s.logger.Info("Withdrawal queued for review", map[string]any{
		"user_id":       userID,
		"withdrawal_id": receipt.WithdrawalID,
		"net":           entity.FormatAmount(net),
		"fee":           entity.FormatAmount(withdrawalFee),
		"total":         entity.FormatAmount(total),
	})

	return receipt, nil
}

// declinedWithdrawal builds the insufficient-balance error. The balance is
// read outside the rolled-back scope, so the reported figure is what the
// user actually has rather than a partially-debited intermediate state.
func (s *Service) declinedWithdrawal(ctx context.Context, userID int64, total decimal.Decimal) error {
	balance := "0.00"
	if user, err := s.uow.GetUserRepository(ctx).GetByID(ctx, userID); err == nil {
		balance = user.FormattedBalance()
	}
	return errs.NewInsufficientBalanceError(userID, entity.FormatAmount(total), balance)
}
