package repository_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pmotterani/flexipay/internal/domain/entity"
	"github.com/pmotterani/flexipay/internal/infrastructure/adapter/database"
	"github.com/pmotterani/flexipay/internal/infrastructure/adapter/repository"
)

// These tests run against a real postgres instance and are skipped unless
// TEST_DB_HOST is set.
func TestUserRepository_AdjustBalance_Database(t *testing.T) {
	tdb := database.NewTestDB(t)
	defer tdb.Close(t)
	tdb.SetupSchema(t)

	ctx := context.Background()
	repo := repository.NewUserRepository(tdb.Conn.DB, tdb.TimeProvider, tdb.Logger, 5*time.Second)

	t.Run("should decline a debit larger than the balance and leave it unchanged", func(t *testing.T) {
		tdb.CreateTestUser(t, 1, "30.00")

		accepted, err := repo.AdjustBalance(ctx, 1, decimal.RequireFromString("-50.00"))
		require.NoError(t, err)
		assert.False(t, accepted)

		user, err := repo.GetByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "30.00", entity.FormatAmount(user.Balance))
	})

	t.Run("should accept a debit down to exactly zero", func(t *testing.T) {
		tdb.CreateTestUser(t, 2, "30.00")

		accepted, err := repo.AdjustBalance(ctx, 2, decimal.RequireFromString("-30.00"))
		require.NoError(t, err)
		assert.True(t, accepted)

		user, err := repo.GetByID(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, "0.00", entity.FormatAmount(user.Balance))
	})

	t.Run("should serialize concurrent adjustments on one user", func(t *testing.T) {
		// 100.00 covers exactly 10 of the 20 attempted 10.00 debits.
		tdb.CreateTestUser(t, 3, "100.00")
		debit := decimal.RequireFromString("-10.00")

		var wg sync.WaitGroup
		var acceptedCount int32
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				accepted, err := repo.AdjustBalance(ctx, 3, debit)
				if err != nil {
					t.Errorf("concurrent adjustment failed: %v", err)
					return
				}
				if accepted {
					atomic.AddInt32(&acceptedCount, 1)
				}
			}()
		}
		wg.Wait()

		assert.EqualValues(t, 10, acceptedCount)

		user, err := repo.GetByID(ctx, 3)
		require.NoError(t, err)
		assert.Equal(t, "0.00", entity.FormatAmount(user.Balance))
	})

	t.Run("should not block adjustments on a different user", func(t *testing.T) {
		tdb.CreateTestUser(t, 4, "10.00")
		tdb.CreateTestUser(t, 5, "10.00")

		var wg sync.WaitGroup
		for _, id := range []int64{4, 5} {
			wg.Add(1)
			go func(id int64) {
				defer wg.Done()
				accepted, err := repo.AdjustBalance(ctx, id, decimal.RequireFromString("5.00"))
				if err != nil {
					t.Errorf("adjustment for user %d failed: %v", id, err)
					return
				}
				if !accepted {
					t.Errorf("credit for user %d was declined", id)
				}
			}(id)
		}
		wg.Wait()

		for _, id := range []int64{4, 5} {
			user, err := repo.GetByID(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, "15.00", entity.FormatAmount(user.Balance))
		}
	})
}
