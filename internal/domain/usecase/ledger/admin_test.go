package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/pmotterani/flexipay/internal/domain/entity"
	errs "github.com/pmotterani/flexipay/internal/domain/error"
)

func pendingWithdrawalRecord(status entity.TransactionStatus) *entity.Transaction {
	return &entity.Transaction{
		ID:     70,
		UserID: 42,
		Type:   entity.TypeWithdrawal,
		Amount: money("45.25"),
		Status: status,
		PixKey: "chave@pix.br",
	}
}

func pairedFeeRecord() *entity.Transaction {
	return &entity.Transaction{
		ID:        71,
		UserID:    42,
		Type:      entity.TypeFee,
		Amount:    money("4.75"),
		Status:    entity.StatusUnderReview,
		AdminNote: entity.FeeNoteForWithdrawal(70),
	}
}

func TestService_SetBalance(t *testing.T) {
	ctx := context.Background()

	t.Run("should overwrite the balance and record the adjustment together", func(t *testing.T) {
		f := newFixture(t)
		f.expectCommittedScope(ctx)

		f.users.On("SetBalance", ctx, int64(42), moneyArg("200.00")).Return(nil).Once()
		f.transactions.On("Create", ctx,
			transactionArg(42, entity.TypeManualAdjustment, "200.00", entity.StatusCompleted)).
			Return(nil).Once()

		err := f.service.SetBalance(ctx, 42, money("200.00"))

		assert.NoError(t, err)
		f.assertExpectations(t)
	})

	t.Run("should reject a negative balance", func(t *testing.T) {
		f := newFixture(t)

		err := f.service.SetBalance(ctx, 42, money("-1.00"))

		assert.ErrorIs(t, err, errs.ErrNegativeAmount)
		f.uow.AssertNotCalled(t, "Begin")
	})

	t.Run("should retain neither write when the record fails", func(t *testing.T) {
		f := newFixture(t)
		f.expectRolledBackScope(ctx)

		f.users.On("SetBalance", ctx, int64(42), moneyArg("200.00")).Return(nil).Once()
		f.transactions.On("Create", ctx, mock.Anything).Return(errs.ErrDatabaseConnection).Once()

		err := f.service.SetBalance(ctx, 42, money("200.00"))

		assert.ErrorIs(t, err, errs.ErrDatabaseConnection)
		f.assertExpectations(t)
	})

	t.Run("should reject a non-positive user id", func(t *testing.T) {
		f := newFixture(t)

		err := f.service.SetBalance(ctx, 0, money("200.00"))

		assert.ErrorIs(t, err, errs.ErrInvalidUserID)
	})
}

func TestService_StartWithdrawal(t *testing.T) {
	ctx := context.Background()

	f := newFixture(t)
	f.transactions.On("UpdateStatus", ctx, int64(70), entity.StatusInProgress).Return(nil).Once()

	err := f.service.StartWithdrawal(ctx, 70)

	assert.NoError(t, err)
	f.assertExpectations(t)
}

func TestService_ApproveWithdrawal(t *testing.T) {
	ctx := context.Background()

	t.Run("should complete the withdrawal and its paired fee", func(t *testing.T) {
		f := newFixture(t)
		f.expectCommittedScope(ctx)

		f.transactions.On("GetByID", ctx, int64(70)).
			Return(pendingWithdrawalRecord(entity.StatusUnderReview), nil).Once()
		f.transactions.On("UpdateStatus", ctx, int64(70), entity.StatusCompleted).Return(nil).Once()
		f.transactions.On("FeeForWithdrawal", ctx, int64(70)).Return(pairedFeeRecord(), nil).Once()
		f.transactions.On("UpdateStatus", ctx, int64(71), entity.StatusCompleted).Return(nil).Once()

		err := f.service.ApproveWithdrawal(ctx, 70)

		assert.NoError(t, err)
		f.users.AssertNotCalled(t, "AdjustBalance")
		f.assertExpectations(t)
	})

	t.Run("should approve an in-progress withdrawal", func(t *testing.T) {
		f := newFixture(t)
		f.expectCommittedScope(ctx)

		f.transactions.On("GetByID", ctx, int64(70)).
			Return(pendingWithdrawalRecord(entity.StatusInProgress), nil).Once()
		f.transactions.On("UpdateStatus", ctx, int64(70), entity.StatusCompleted).Return(nil).Once()
		f.transactions.On("FeeForWithdrawal", ctx, int64(70)).Return(pairedFeeRecord(), nil).Once()
		f.transactions.On("UpdateStatus", ctx, int64(71), entity.StatusCompleted).Return(nil).Once()

		err := f.service.ApproveWithdrawal(ctx, 70)

		assert.NoError(t, err)
	})

	t.Run("should tolerate a missing fee record", func(t *testing.T) {
		f := newFixture(t)
		f.expectCommittedScope(ctx)

		f.transactions.On("GetByID", ctx, int64(70)).
			Return(pendingWithdrawalRecord(entity.StatusUnderReview), nil).Once()
		f.transactions.On("UpdateStatus", ctx, int64(70), entity.StatusCompleted).Return(nil).Once()
		f.transactions.On("FeeForWithdrawal", ctx, int64(70)).
			Return(nil, errs.ErrTransactionNotFound).Once()

		err := f.service.ApproveWithdrawal(ctx, 70)

		assert.NoError(t, err)
	})

	t.Run("should refuse to approve a settled withdrawal", func(t *testing.T) {
		f := newFixture(t)
		f.expectRolledBackScope(ctx)

		f.transactions.On("GetByID", ctx, int64(70)).
			Return(pendingWithdrawalRecord(entity.StatusCompleted), nil).Once()

		err := f.service.ApproveWithdrawal(ctx, 70)

		assert.ErrorIs(t, err, errs.ErrInvalidStatusTransition)
	})

	t.Run("should refuse to approve a non-withdrawal", func(t *testing.T) {
		f := newFixture(t)
		f.expectRolledBackScope(ctx)

		deposit := pendingWithdrawalRecord(entity.StatusUnderReview)
		deposit.Type = entity.TypeDeposit
		f.transactions.On("GetByID", ctx, int64(70)).Return(deposit, nil).Once()

		err := f.service.ApproveWithdrawal(ctx, 70)

		assert.ErrorIs(t, err, errs.ErrInvalidRequest)
	})
}

func TestService_RefuseWithdrawal(t *testing.T) {
	ctx := context.Background()

	t.Run("should refuse and credit net and fee back in one scope", func(t *testing.T) {
		f := newFixture(t)
		f.expectCommittedScope(ctx)

		f.transactions.On("GetByID", ctx, int64(70)).
			Return(pendingWithdrawalRecord(entity.StatusUnderReview), nil).Once()
		f.transactions.On("UpdateStatus", ctx, int64(70), entity.StatusRefused,
			mock.AnythingOfType(statusOptionArg)).Return(nil).Once()
		f.users.On("AdjustBalance", ctx, int64(42), moneyArg("45.25")).Return(true, nil).Once()
		f.transactions.On("FeeForWithdrawal", ctx, int64(70)).Return(pairedFeeRecord(), nil).Once()
		f.transactions.On("UpdateStatus", ctx, int64(71), entity.StatusRefused).Return(nil).Once()
		f.users.On("AdjustBalance", ctx, int64(42), moneyArg("4.75")).Return(true, nil).Once()

		err := f.service.RefuseWithdrawal(ctx, 70, "invalid destination key")

		assert.NoError(t, err)
		f.assertExpectations(t)
	})

	t.Run("should refuse without a note", func(t *testing.T) {
		f := newFixture(t)
		f.expectCommittedScope(ctx)

		f.transactions.On("GetByID", ctx, int64(70)).
			Return(pendingWithdrawalRecord(entity.StatusUnderReview), nil).Once()
		f.transactions.On("UpdateStatus", ctx, int64(70), entity.StatusRefused).Return(nil).Once()
		f.users.On("AdjustBalance", ctx, int64(42), moneyArg("45.25")).Return(true, nil).Once()
		f.transactions.On("FeeForWithdrawal", ctx, int64(70)).Return(pairedFeeRecord(), nil).Once()
		f.transactions.On("UpdateStatus", ctx, int64(71), entity.StatusRefused).Return(nil).Once()
		f.users.On("AdjustBalance", ctx, int64(42), moneyArg("4.75")).Return(true, nil).Once()

		err := f.service.RefuseWithdrawal(ctx, 70, "")

		assert.NoError(t, err)
	})

	t.Run("should roll back everything when the credit fails", func(t *testing.T) {
		f := newFixture(t)
		f.expectRolledBackScope(ctx)

		f.transactions.On("GetByID", ctx, int64(70)).
			Return(pendingWithdrawalRecord(entity.StatusUnderReview), nil).Once()
		f.transactions.On("UpdateStatus", ctx, int64(70), entity.StatusRefused,
			mock.AnythingOfType(statusOptionArg)).Return(nil).Once()
		f.users.On("AdjustBalance", ctx, int64(42), moneyArg("45.25")).
			Return(false, errs.ErrDatabaseConnection).Once()

		err := f.service.RefuseWithdrawal(ctx, 70, "invalid destination key")

		assert.ErrorIs(t, err, errs.ErrDatabaseConnection)
	})

	t.Run("should refuse to act on a settled withdrawal", func(t *testing.T) {
		f := newFixture(t)
		f.expectRolledBackScope(ctx)

		f.transactions.On("GetByID", ctx, int64(70)).
			Return(pendingWithdrawalRecord(entity.StatusRefused), nil).Once()

		err := f.service.RefuseWithdrawal(ctx, 70, "note")

		assert.ErrorIs(t, err, errs.ErrInvalidStatusTransition)
		f.users.AssertNotCalled(t, "AdjustBalance")
	})
}
