package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pmotterani/flexipay/internal/domain/entity"
	errs "github.com/pmotterani/flexipay/internal/domain/error"
)

func TestService_RequestWithdrawal(t *testing.T) {
	ctx := context.Background()

	t.Run("should debit net and fee and queue both records", func(t *testing.T) {
		// 50.00 total: fee = 50.00 x 0.025 + 3.50 = 4.75, net = 45.25
		f := newFixture(t)
		f.expectCommittedScope(ctx)

		f.users.On("AdjustBalance", ctx, int64(42), moneyArg("-45.25")).Return(true, nil).Once()
		f.transactions.On("Create", ctx,
			transactionArg(42, entity.TypeWithdrawal, "45.25", entity.StatusUnderReview)).
			Run(func(args mock.Arguments) {
				withdrawal := args.Get(1).(*entity.Transaction)
				assert.Equal(t, "chave@pix.br", withdrawal.PixKey)
				withdrawal.ID = 70
			}).
			Return(nil).Once()
		f.users.On("AdjustBalance", ctx, int64(42), moneyArg("-4.75")).Return(true, nil).Once()
		f.transactions.On("Create", ctx,
			transactionArg(42, entity.TypeFee, "4.75", entity.StatusUnderReview)).
			Run(func(args mock.Arguments) {
				record := args.Get(1).(*entity.Transaction)
				assert.Equal(t, entity.FeeNoteForWithdrawal(70), record.AdminNote)
				record.ID = 71
			}).
			Return(nil).Once()

		receipt, err := f.service.RequestWithdrawal(ctx, 42, "chave@pix.br", money("50.00"))

		require.NoError(t, err)
		assert.Equal(t, int64(70), receipt.WithdrawalID)
		assert.Equal(t, int64(71), receipt.FeeID)
		assert.Equal(t, "45.25", entity.FormatAmount(receipt.Net))
		assert.Equal(t, "4.75", entity.FormatAmount(receipt.Fee))
		assert.Equal(t, "50.00", entity.FormatAmount(receipt.Total))
		f.assertExpectations(t)
	})

	t.Run("should decline and leave no trace on insufficient balance", func(t *testing.T) {
		f := newFixture(t)
		f.expectRolledBackScope(ctx)

		f.users.On("AdjustBalance", ctx, int64(42), moneyArg("-45.25")).Return(false, nil).Once()
		f.users.On("GetByID", ctx, int64(42)).Return(&entity.User{
			ID:      42,
			Balance: money("30.00"),
		}, nil).Once()

		_, err := f.service.RequestWithdrawal(ctx, 42, "chave@pix.br", money("50.00"))

		assert.ErrorIs(t, err, errs.ErrInsufficientBalance)
		assert.Contains(t, err.Error(), "30.00")
		f.transactions.AssertNotCalled(t, "Create")
	})

	t.Run("should report the post-rollback balance when the fee debit is declined", func(t *testing.T) {
		f := newFixture(t)

		rolledBack := false
		f.uow.On("Begin", ctx).Return(ctx, nil).Once()
		f.uow.On("Rollback", ctx).Run(func(mock.Arguments) {
			rolledBack = true
		}).Return(nil).Once()

		f.users.On("AdjustBalance", ctx, int64(42), moneyArg("-45.25")).Return(true, nil).Once()
		f.transactions.On("Create", ctx, mock.Anything).Return(nil).Once()
		f.users.On("AdjustBalance", ctx, int64(42), moneyArg("-4.75")).Return(false, nil).Once()
		f.users.On("GetByID", ctx, int64(42)).Run(func(mock.Arguments) {
			assert.True(t, rolledBack, "balance must be read after the scope rolls back")
		}).Return(&entity.User{
			ID:      42,
			Balance: money("46.00"),
		}, nil).Once()

		_, err := f.service.RequestWithdrawal(ctx, 42, "chave@pix.br", money("50.00"))

		assert.ErrorIs(t, err, errs.ErrInsufficientBalance)
		assert.Contains(t, err.Error(), "46.00")
		f.assertExpectations(t)
	})

	t.Run("should reject an amount that does not cover the fee", func(t *testing.T) {
		// 3.00 total: fee = 3.58, net would be negative
		f := newFixture(t)

		_, err := f.service.RequestWithdrawal(ctx, 42, "chave@pix.br", money("3.00"))

		assert.ErrorIs(t, err, errs.ErrInvalidAmount)
		f.uow.AssertNotCalled(t, "Begin")
	})

	t.Run("should reject a missing destination key", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.service.RequestWithdrawal(ctx, 42, "", money("50.00"))

		assert.ErrorIs(t, err, errs.ErrInvalidRequest)
	})

	t.Run("should reject a non-positive user id", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.service.RequestWithdrawal(ctx, 0, "chave@pix.br", money("50.00"))

		assert.ErrorIs(t, err, errs.ErrInvalidUserID)
	})
}
