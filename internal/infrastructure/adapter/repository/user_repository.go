package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pmotterani/flexipay/internal/domain/entity"
	errs "github.com/pmotterani/flexipay/internal/domain/error"
	coreport "github.com/pmotterani/flexipay/internal/domain/port/core"
	"github.com/pmotterani/flexipay/internal/infrastructure/adapter/model"
)

// getOperationType returns "credit" for positive or zero deltas and
// "debit" for negative ones.
func getOperationType(delta decimal.Decimal) string {
	if delta.IsNegative() {
		return "debit"
	}
	return "credit"
}

// UserRepository implements the balance side of the ledger store using
// GORM. Balance mutations serialize per user through a FOR UPDATE row
// lock; different users never block each other.
type UserRepository struct {
	db              *gorm.DB
	timeProvider    coreport.TimeProvider
	logger          coreport.Logger
	lockTimeout     time.Duration
	errorClassifier *ErrorClassifier
}

// NewUserRepository creates a new UserRepository instance. lockTimeout
// bounds how long an adjustment may wait on a competing lock before the
// call fails as retryable.
func NewUserRepository(db *gorm.DB, timeProvider coreport.TimeProvider, logger coreport.Logger, lockTimeout time.Duration) *UserRepository {
	return &UserRepository{
		db:              db,
		timeProvider:    timeProvider,
		logger:          logger,
		lockTimeout:     lockTimeout,
		errorClassifier: NewErrorClassifier(),
	}
}

// modelToEntity converts a user model to an entity
func (r *UserRepository) modelToEntity(userModel *model.User) *entity.User {
	return &entity.User{
		ID:        userModel.ID,
		Username:  userModel.Username,
		FirstName: userModel.FirstName,
		Balance:   userModel.Balance,
		CreatedAt: userModel.CreatedAt,
	}
}

// handleDatabaseError standardizes database error handling
func (r *UserRepository) handleDatabaseError(operation string, err error, userID int64) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		r.logger.Warn("User not found", map[string]any{
			"user_id": userID,
		})
		return errs.ErrUserNotFound
	}

	r.logger.Error(fmt.Sprintf("Database error when %s", operation), map[string]any{
		"user_id": userID,
		"error":   err.Error(),
	})

	if r.errorClassifier.IsLockError(err) {
		return fmt.Errorf("%w: %s", errs.ErrContention, err.Error())
	}
	if r.errorClassifier.IsConstraintError(err) {
		return fmt.Errorf("%w: %s", errs.ErrConstraintViolation, err.Error())
	}

	return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, err.Error())
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	var userModel model.User
	result := r.db.WithContext(ctx).First(&userModel, id)
	if result.Error != nil {
		return nil, r.handleDatabaseError("getting user", result.Error, id)
	}

	return r.modelToEntity(&userModel), nil
}

// Ensure creates the user if absent. The insert is conflict-tolerant, so
// repeated calls for the same id are cheap no-ops.
func (r *UserRepository) Ensure(ctx context.Context, id int64, username, firstName string) error {
	if id <= 0 {
		return errs.ErrInvalidUserID
	}

	userModel := model.User{
		ID:        id,
		Username:  username,
		FirstName: firstName,
		Balance:   decimal.Zero,
		CreatedAt: r.timeProvider.Now(),
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(&userModel)
	if result.Error != nil {
		return r.handleDatabaseError("ensuring user", result.Error, id)
	}

	if result.RowsAffected > 0 {
		r.logger.Info("User created", map[string]any{
			"user_id": id,
		})
	}
	return nil
}

// AdjustBalance applies a signed delta under an exclusive row lock. The
// read-modify-write runs in a database transaction; when the repository is
// already bound to a unit-of-work scope the transaction nests as a
// savepoint, so the adjustment joins the caller's durability scope.
func (r *UserRepository) AdjustBalance(ctx context.Context, id int64, delta decimal.Decimal) (bool, error) {
	lockCtx, cancel := r.timeProvider.WithTimeout(ctx, r.lockTimeout)
	defer cancel()

	accepted := false
	err := r.db.WithContext(lockCtx).Transaction(func(tx *gorm.DB) error {
		var userModel model.User
		result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&userModel, id)
		if result.Error != nil {
			return result.Error
		}

		newBalance := userModel.Balance.Add(delta)
		if newBalance.IsNegative() {
			r.logger.Warn("Adjustment would drive balance negative, declined", map[string]any{
				"user_id":         id,
				"current_balance": entity.FormatAmount(userModel.Balance),
				"delta":           entity.FormatAmount(delta.Abs()),
				"operation_type":  getOperationType(delta),
			})
			return nil
		}

		result = tx.Model(&model.User{}).
			Where("id = ?", id).
			Update("balance", newBalance)
		if result.Error != nil {
			return result.Error
		}

		r.logger.Debug("Balance adjusted", map[string]any{
			"user_id":        id,
			"old_balance":    entity.FormatAmount(userModel.Balance),
			"new_balance":    entity.FormatAmount(newBalance),
			"operation_type": getOperationType(delta),
		})

		accepted = true
		return nil
	})
	if err != nil {
		return false, r.handleDatabaseError("adjusting balance", err, id)
	}

	return accepted, nil
}

// SetBalance overwrites the user's balance.
func (r *UserRepository) SetBalance(ctx context.Context, id int64, balance decimal.Decimal) error {
	if balance.IsNegative() {
		return errs.ErrNegativeAmount
	}

	result := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Update("balance", balance)
	if result.Error != nil {
		return r.handleDatabaseError("setting balance", result.Error, id)
	}
	if result.RowsAffected == 0 {
		r.logger.Warn("User not found during balance overwrite", map[string]any{
			"user_id": id,
		})
		return errs.ErrUserNotFound
	}

	r.logger.Info("Balance overwritten", map[string]any{
		"user_id": id,
		"balance": entity.FormatAmount(balance),
	})
	return nil
}
