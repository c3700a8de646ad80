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
	"github.com/pmotterani/flexipay/internal/domain/port/persistence"
	"github.com/pmotterani/flexipay/internal/infrastructure/adapter/model"
)

// TransactionRepository implements the transaction-record side of the
// ledger store using GORM.
type TransactionRepository struct {
	db              *gorm.DB
	timeProvider    coreport.TimeProvider
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewTransactionRepository creates a new TransactionRepository instance
func NewTransactionRepository(db *gorm.DB, timeProvider coreport.TimeProvider, logger coreport.Logger) *TransactionRepository {
	return &TransactionRepository{
		db:              db,
		timeProvider:    timeProvider,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

// entityToModel converts a transaction entity to a database model
func entityToModel(transaction *entity.Transaction) model.Transaction {
	return model.Transaction{
		ID:           transaction.ID,
		UserID:       transaction.UserID,
		Type:         string(transaction.Type),
		Amount:       transaction.Amount,
		Status:       string(transaction.Status),
		PixKey:       optional(transaction.PixKey),
		ProcessorRef: optional(transaction.ProcessorRef),
		AdminNote:    optional(transaction.AdminNote),
		CreatedAt:    transaction.CreatedAt,
		UpdatedAt:    transaction.UpdatedAt,
	}
}

// modelToEntity converts a transaction model to an entity
func modelToEntity(transactionModel *model.Transaction) *entity.Transaction {
	return &entity.Transaction{
		ID:           transactionModel.ID,
		UserID:       transactionModel.UserID,
		Type:         entity.TransactionType(transactionModel.Type),
		Amount:       transactionModel.Amount,
		Status:       entity.TransactionStatus(transactionModel.Status),
		PixKey:       deref(transactionModel.PixKey),
		ProcessorRef: deref(transactionModel.ProcessorRef),
		AdminNote:    deref(transactionModel.AdminNote),
		CreatedAt:    transactionModel.CreatedAt,
		UpdatedAt:    transactionModel.UpdatedAt,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// handleDatabaseError standardizes database error handling
func (r *TransactionRepository) handleDatabaseError(operation string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.ErrTransactionNotFound
	}

	r.logger.Error(fmt.Sprintf("Database error when %s", operation), map[string]any{
		"error": err.Error(),
	})

	if r.errorClassifier.IsLockError(err) {
		return fmt.Errorf("%w: %s", errs.ErrContention, err.Error())
	}
	if r.errorClassifier.IsConstraintError(err) {
		return fmt.Errorf("%w: %s", errs.ErrConstraintViolation, err.Error())
	}

	return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, err.Error())
}

// Create saves a new transaction and fills in its assigned id.
func (r *TransactionRepository) Create(ctx context.Context, transaction *entity.Transaction) error {
	transactionModel := entityToModel(transaction)

	result := r.db.WithContext(ctx).Create(&transactionModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrForeignKeyViolated) {
			r.logger.Warn("Transaction references a missing user", map[string]any{
				"user_id": transaction.UserID,
			})
			return errs.ErrUserNotFound
		}
		return r.handleDatabaseError("creating transaction", result.Error)
	}

	transaction.ID = transactionModel.ID

	r.logger.Info("Transaction recorded", map[string]any{
		"transaction_id": transaction.ID,
		"user_id":        transaction.UserID,
		"type":           transaction.Type,
		"amount":         transaction.FormattedAmount(),
		"status":         transaction.Status,
	})
	return nil
}

// UpdateStatus moves a transaction to a new status under a row lock so a
// concurrent transition cannot slip between the check and the write. Only
// the requested optional fields are touched; updated_at always is.
func (r *TransactionRepository) UpdateStatus(
	ctx context.Context,
	id int64,
	newStatus entity.TransactionStatus,
	opts ...persistence.StatusOption,
) error {
	update := persistence.StatusUpdate{}
	for _, opt := range opts {
		opt(&update)
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current model.Transaction
		result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&current, id)
		if result.Error != nil {
			return result.Error
		}

		from := entity.TransactionStatus(current.Status)
		if !entity.CanTransition(from, newStatus) {
			return errs.NewStatusTransitionError(id, current.Status, string(newStatus))
		}

		fields := map[string]any{
			"status":     string(newStatus),
			"updated_at": r.timeProvider.Now(),
		}
		if update.ProcessorRef != nil {
			fields["processor_ref"] = *update.ProcessorRef
		}
		if update.AdminNote != nil {
			fields["admin_note"] = *update.AdminNote
		}

		return tx.Model(&model.Transaction{}).Where("id = ?", id).Updates(fields).Error
	})
	if err != nil {
		if errors.Is(err, errs.ErrInvalidStatusTransition) {
			r.logger.Warn("Illegal status transition rejected", map[string]any{
				"transaction_id": id,
				"new_status":     newStatus,
				"error":          err.Error(),
			})
			return err
		}
		return r.handleDatabaseError("updating transaction status", err)
	}

	r.logger.Info("Transaction status updated", map[string]any{
		"transaction_id": id,
		"new_status":     newStatus,
	})
	return nil
}

// GetByID retrieves a transaction by its id.
func (r *TransactionRepository) GetByID(ctx context.Context, id int64) (*entity.Transaction, error) {
	var transactionModel model.Transaction
	result := r.db.WithContext(ctx).First(&transactionModel, id)
	if result.Error != nil {
		return nil, r.handleDatabaseError("getting transaction", result.Error)
	}
	return modelToEntity(&transactionModel), nil
}

// PendingWithdrawals lists every withdrawal currently under review,
// oldest first.
func (r *TransactionRepository) PendingWithdrawals(ctx context.Context) ([]*entity.Transaction, error) {
	var rows []model.Transaction
	result := r.db.WithContext(ctx).
		Where("type = ? AND status = ?", string(entity.TypeWithdrawal), string(entity.StatusUnderReview)).
		Order("created_at ASC").
		Find(&rows)
	if result.Error != nil {
		return nil, r.handleDatabaseError("listing pending withdrawals", result.Error)
	}

	withdrawals := make([]*entity.Transaction, 0, len(rows))
	for i := range rows {
		withdrawals = append(withdrawals, modelToEntity(&rows[i]))
	}
	return withdrawals, nil
}

// ProfitTotal sums the amounts of all completed FEE transactions.
func (r *TransactionRepository) ProfitTotal(ctx context.Context) (decimal.Decimal, error) {
	var row struct {
		Total decimal.Decimal
	}
	result := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where("type = ? AND status = ?", string(entity.TypeFee), string(entity.StatusCompleted)).
		Scan(&row)
	if result.Error != nil {
		return decimal.Zero, r.handleDatabaseError("summing fees", result.Error)
	}
	return row.Total, nil
}

// FeeForWithdrawal resolves the FEE record paired with a withdrawal via
// its admin note.
func (r *TransactionRepository) FeeForWithdrawal(ctx context.Context, withdrawalID int64) (*entity.Transaction, error) {
	var transactionModel model.Transaction
	result := r.db.WithContext(ctx).
		Where("type = ? AND admin_note = ?", string(entity.TypeFee), entity.FeeNoteForWithdrawal(withdrawalID)).
		First(&transactionModel)
	if result.Error != nil {
		return nil, r.handleDatabaseError("resolving withdrawal fee", result.Error)
	}
	return modelToEntity(&transactionModel), nil
}

// LastActivity returns the most recent updated_at across a user's
// transactions.
func (r *TransactionRepository) LastActivity(ctx context.Context, userID int64) (time.Time, error) {
	var transactionModel model.Transaction
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		First(&transactionModel)
	if result.Error != nil {
		return time.Time{}, r.handleDatabaseError("finding last activity", result.Error)
	}
	return transactionModel.UpdatedAt, nil
}
