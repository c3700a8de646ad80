package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmotterani/flexipay/internal/domain/entity"
	errs "github.com/pmotterani/flexipay/internal/domain/error"
)

func TestService_ProfitTotal(t *testing.T) {
	ctx := context.Background()

	f := newFixture(t)
	f.transactions.On("ProfitTotal", ctx).Return(money("157.32"), nil).Once()

	total, err := f.service.ProfitTotal(ctx)

	require.NoError(t, err)
	assert.Equal(t, "157.32", entity.FormatAmount(total))
}

func TestService_WithdrawalFee(t *testing.T) {
	ctx := context.Background()

	t.Run("should resolve the paired fee amount", func(t *testing.T) {
		f := newFixture(t)
		f.transactions.On("FeeForWithdrawal", ctx, int64(70)).Return(&entity.Transaction{
			ID:        71,
			Type:      entity.TypeFee,
			Amount:    money("4.75"),
			AdminNote: entity.FeeNoteForWithdrawal(70),
		}, nil).Once()

		fee, err := f.service.WithdrawalFee(ctx, 70)

		require.NoError(t, err)
		assert.Equal(t, "4.75", entity.FormatAmount(fee))
	})

	t.Run("should surface a missing fee record", func(t *testing.T) {
		f := newFixture(t)
		f.transactions.On("FeeForWithdrawal", ctx, int64(70)).
			Return(nil, errs.ErrTransactionNotFound).Once()

		_, err := f.service.WithdrawalFee(ctx, 70)

		assert.ErrorIs(t, err, errs.ErrTransactionNotFound)
	})
}

func TestService_PendingWithdrawals(t *testing.T) {
	ctx := context.Background()

	f := newFixture(t)
	queue := []*entity.Transaction{
		pendingWithdrawalRecord(entity.StatusUnderReview),
	}
	f.transactions.On("PendingWithdrawals", ctx).Return(queue, nil).Once()

	withdrawals, err := f.service.PendingWithdrawals(ctx)

	require.NoError(t, err)
	assert.Len(t, withdrawals, 1)
	assert.Equal(t, int64(70), withdrawals[0].ID)
}

func TestService_LastActivity(t *testing.T) {
	ctx := context.Background()

	t.Run("should return the latest update time", func(t *testing.T) {
		f := newFixture(t)
		f.transactions.On("LastActivity", ctx, int64(42)).Return(fixedTime, nil).Once()

		when, err := f.service.LastActivity(ctx, 42)

		require.NoError(t, err)
		assert.Equal(t, fixedTime, when)
	})

	t.Run("should read no transactions as the zero time", func(t *testing.T) {
		f := newFixture(t)
		f.transactions.On("LastActivity", ctx, int64(42)).
			Return(time.Time{}, errs.ErrTransactionNotFound).Once()

		when, err := f.service.LastActivity(ctx, 42)

		require.NoError(t, err)
		assert.True(t, when.IsZero())
	})

	t.Run("should reject a non-positive user id", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.service.LastActivity(ctx, 0)

		assert.ErrorIs(t, err, errs.ErrInvalidUserID)
	})
}
