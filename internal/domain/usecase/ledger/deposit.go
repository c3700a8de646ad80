package ledger

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/pmotterani/flexipay/internal/domain/entity"
	errs "github.com/pmotterani/flexipay/internal/domain/error"
	"github.com/pmotterani/flexipay/internal/domain/port/persistence"
)

// DepositQuote is returned when a deposit is requested. Payable is the
// gross amount the payment link charges: the credited amount plus the
// deposit fee.
type DepositQuote struct {
	TransactionID int64
	Amount        decimal.Decimal
	Fee           decimal.Decimal
	Payable       decimal.Decimal
}

// RequestDeposit opens a deposit for the given amount. The transaction is
// created AWAITING_PAYMENT; the balance is only credited when the payment
// processor confirms.
func (s *Service) RequestDeposit(ctx context.Context, userID int64, amount decimal.Decimal) (*DepositQuote, error) {
	if userID <= 0 {
		return nil, errs.ErrInvalidUserID
	}
	if amount.LessThan(s.limits.Min) {
		return nil, fmt.Errorf("%w: minimum is %s", errs.ErrDepositBelowMinimum, entity.FormatAmount(s.limits.Min))
	}
	if amount.GreaterThan(s.limits.Max) {
		return nil, fmt.Errorf("%w: maximum is %s", errs.ErrDepositAboveMaximum, entity.FormatAmount(s.limits.Max))
	}

	transaction, err := entity.NewTransaction(entity.TransactionDraft{
		UserID: userID,
		Type:   entity.TypeDeposit,
		Amount: amount,
		Status: entity.StatusAwaitingPayment,
	}, s.timeProvider)
	if err != nil {
		return nil, err
	}

	transactions := s.uow.GetTransactionRepository(ctx)
	if err := transactions.Create(ctx, transaction); err != nil {
		s.logger.Error("Failed to record deposit request", map[string]any{
			"user_id": userID,
			"amount":  entity.FormatAmount(amount),
			"error":   err.Error(),
		})
		return nil, err
	}

	depositFee := s.fees.DepositFee(amount)
	s.logger.Info("Deposit requested", map[string]any{
		"user_id":        userID,
		"transaction_id": transaction.ID,
		"amount":         entity.FormatAmount(amount),
		"fee":            entity.FormatAmount(depositFee),
	})

	return &DepositQuote{
		TransactionID: transaction.ID,
		Amount:        amount,
		Fee:           depositFee,
		Payable:       amount.Add(depositFee),
	}, nil
}

// ConfirmDeposit settles a deposit after the payment processor reports it
// paid. In one durability scope the user is credited, the deposit moves to
// PAID with the processor reference attached, and the collected fee is
// recorded. Confirming an already-paid deposit is a no-op, never a double
// credit.
func (s *Service) ConfirmDeposit(ctx context.Context, transactionID int64, processorRef string) error {
	return s.withinScope(ctx, func(txCtx context.Context) error {
		transactions := s.uow.GetTransactionRepository(txCtx)

		transaction, err := transactions.GetByID(txCtx, transactionID)
		if err != nil {
			return err
		}
		if transaction.Type != entity.TypeDeposit {
			return fmt.Errorf("%w: transaction %d is not a deposit", errs.ErrInvalidRequest, transactionID)
		}
		if transaction.Status == entity.StatusPaid {
			s.logger.Info("Deposit already settled, skipping", map[string]any{
				"transaction_id": transactionID,
			})
			return nil
		}
		if transaction.Status != entity.StatusAwaitingPayment {
			return errs.NewStatusTransitionError(transactionID, string(transaction.Status), string(entity.StatusPaid))
		}

		users := s.uow.GetUserRepository(txCtx)
		ok, err := users.AdjustBalance(txCtx, transaction.UserID, transaction.Amount)
		if err != nil {
			return err
		}
		if !ok {
			// A credit can never fail the non-negativity check.
			return errs.ErrInternalServer
		}

		if err := transactions.UpdateStatus(txCtx, transactionID, entity.StatusPaid,
			persistence.WithProcessorRef(processorRef)); err != nil {
			return err
		}

		depositFee := s.fees.DepositFee(transaction.Amount)
		if depositFee.IsPositive() {
			feeRecord, err := entity.NewTransaction(entity.TransactionDraft{
				UserID:    transaction.UserID,
				Type:      entity.TypeFee,
				Amount:    depositFee,
				Status:    entity.StatusCompleted,
				AdminNote: entity.FeeNoteForDeposit(transactionID),
			}, s.timeProvider)
			if err != nil {
				return err
			}
			if err := transactions.Create(txCtx, feeRecord); err != nil {
				return err
			}
		}

		s.logger.Info("Deposit settled", map[string]any{
			"transaction_id": transactionID,
			"user_id":        transaction.UserID,
			"amount":         transaction.FormattedAmount(),
			"processor_ref":  processorRef,
		})
		return nil
	})
}

// FailDeposit marks a pending deposit as failed after the processor
// reports the charge unsuccessful. The balance is untouched.
func (s *Service) FailDeposit(ctx context.Context, transactionID int64, processorRef string) error {
	transactions := s.uow.GetTransactionRepository(ctx)

	transaction, err := transactions.GetByID(ctx, transactionID)
	if err != nil {
		return err
	}
	if transaction.Type != entity.TypeDeposit {
		return fmt.Errorf("%w: transaction %d is not a deposit", errs.ErrInvalidRequest, transactionID)
	}

	opts := []persistence.StatusOption{}
	if processorRef != "" {
		opts = append(opts, persistence.WithProcessorRef(processorRef))
	}

	if err := transactions.UpdateStatus(ctx, transactionID, entity.StatusPaymentFailed, opts...); err != nil {
		return err
	}

	s.logger.Info("Deposit marked failed", map[string]any{
		"transaction_id": transactionID,
		"processor_ref":  processorRef,
	})
	return nil
}
