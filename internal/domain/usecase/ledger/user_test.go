package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmotterani/flexipay/internal/domain/entity"
	errs "github.com/pmotterani/flexipay/internal/domain/error"
)

func TestService_EnsureUser(t *testing.T) {
	ctx := context.Background()

	t.Run("should register a new user", func(t *testing.T) {
		f := newFixture(t)
		f.users.On("Ensure", ctx, int64(42), "maria", "Maria").Return(nil).Once()

		err := f.service.EnsureUser(ctx, 42, "maria", "Maria")

		assert.NoError(t, err)
		f.assertExpectations(t)
	})

	t.Run("should reject a non-positive user id", func(t *testing.T) {
		f := newFixture(t)

		err := f.service.EnsureUser(ctx, 0, "maria", "Maria")

		assert.ErrorIs(t, err, errs.ErrInvalidUserID)
		f.users.AssertNotCalled(t, "Ensure")
	})

	t.Run("should surface repository failures", func(t *testing.T) {
		f := newFixture(t)
		f.users.On("Ensure", ctx, int64(42), "maria", "Maria").Return(errs.ErrDatabaseConnection).Once()

		err := f.service.EnsureUser(ctx, 42, "maria", "Maria")

		assert.ErrorIs(t, err, errs.ErrDatabaseConnection)
	})
}

func TestService_GetBalance(t *testing.T) {
	ctx := context.Background()

	t.Run("should return the stored balance", func(t *testing.T) {
		f := newFixture(t)
		f.users.On("GetByID", ctx, int64(42)).Return(&entity.User{
			ID:      42,
			Balance: money("123.45"),
		}, nil).Once()

		balance, err := f.service.GetBalance(ctx, 42)

		require.NoError(t, err)
		assert.Equal(t, "123.45", entity.FormatAmount(balance))
	})

	t.Run("should read an absent user as zero", func(t *testing.T) {
		f := newFixture(t)
		f.users.On("GetByID", ctx, int64(42)).Return(nil, errs.ErrUserNotFound).Once()

		balance, err := f.service.GetBalance(ctx, 42)

		require.NoError(t, err)
		assert.True(t, balance.IsZero())
	})

	t.Run("should reject a non-positive user id", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.service.GetBalance(ctx, -5)

		assert.ErrorIs(t, err, errs.ErrInvalidUserID)
	})

	t.Run("should surface other repository failures", func(t *testing.T) {
		f := newFixture(t)
		f.users.On("GetByID", ctx, int64(42)).Return(nil, errs.ErrDatabaseConnection).Once()

		_, err := f.service.GetBalance(ctx, 42)

		assert.ErrorIs(t, err, errs.ErrDatabaseConnection)
	})
}

func TestService_Adjust(t *testing.T) {
	ctx := context.Background()

	t.Run("should apply an accepted delta", func(t *testing.T) {
		f := newFixture(t)
		f.users.On("AdjustBalance", ctx, int64(42), moneyArg("10.00")).Return(true, nil).Once()

		accepted, err := f.service.Adjust(ctx, 42, money("10.00"))

		require.NoError(t, err)
		assert.True(t, accepted)
	})

	t.Run("should report a declined debit without error", func(t *testing.T) {
		f := newFixture(t)
		f.users.On("AdjustBalance", ctx, int64(42), moneyArg("-10.00")).Return(false, nil).Once()

		accepted, err := f.service.Adjust(ctx, 42, money("-10.00"))

		require.NoError(t, err)
		assert.False(t, accepted)
	})

	t.Run("should reject a non-positive user id", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.service.Adjust(ctx, 0, money("10.00"))

		assert.ErrorIs(t, err, errs.ErrInvalidUserID)
	})

	t.Run("should surface repository failures", func(t *testing.T) {
		f := newFixture(t)
		dbErr := errors.New("connection reset")
		f.users.On("AdjustBalance", ctx, int64(42), moneyArg("10.00")).Return(false, dbErr).Once()

		_, err := f.service.Adjust(ctx, 42, money("10.00"))

		assert.ErrorIs(t, err, dbErr)
	})
}
