package error

import (
	"errors"
	"fmt"
)

// Error codes for standardized API responses
const (
	// 4xxx - Client errors
	CodeInsufficientBalance   = 4001
	CodeInvalidAmount         = 4002
	CodeInvalidUserID         = 4003
	CodeInvalidStatusChange   = 4004
	CodeConstraintViolation   = 4005
	CodeAmountOverflow        = 4006
	CodeDepositOutOfRange     = 4007
	CodeUserNotFound          = 4040
	CodeTransactionNotFound   = 4041
	CodeUnauthorized          = 4010
	CodeContention            = 4230

	// 5xxx - Server errors
	CodeInternalServer = 5000
)

// Base error types
var (
	// ErrInsufficientBalance signals a declined debit. It is an expected
	// outcome, not a fault; callers surface it as a refusal.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrInvalidAmount is returned when a monetary amount fails to parse
	ErrInvalidAmount = errors.New("invalid amount format")

	// ErrNegativeAmount is returned when a supplied amount is negative
	ErrNegativeAmount = errors.New("amount cannot be negative")

	// ErrAmountOverflow is returned when an amount does not fit the ledger precision
	ErrAmountOverflow = errors.New("amount is too large")

	// ErrInvalidUserID is returned when the user id is not a positive integer
	ErrInvalidUserID = errors.New("user ID must be positive")

	// ErrDepositBelowMinimum is returned when a deposit is under the configured floor
	ErrDepositBelowMinimum = errors.New("deposit amount below minimum")

	// ErrDepositAboveMaximum is returned when a deposit exceeds the configured ceiling
	ErrDepositAboveMaximum = errors.New("deposit amount above maximum")

	// ErrInvalidTransactionType is returned for an unknown transaction type
	ErrInvalidTransactionType = errors.New("invalid transaction type")

	// ErrInvalidStatus is returned for an unknown transaction status
	ErrInvalidStatus = errors.New("invalid transaction status")

	// ErrInvalidStatusTransition is returned when a status change does not
	// follow the one-directional status machine
	ErrInvalidStatusTransition = errors.New("invalid status transition")

	// ErrUserNotFound is returned when the requested user doesn't exist
	ErrUserNotFound = errors.New("user not found")

	// ErrTransactionNotFound is returned when the requested transaction doesn't exist
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrDuplicateUser is returned when creating a user that already exists
	ErrDuplicateUser = errors.New("user already exists")

	// ErrContention is returned when a row lock or serialization conflict
	// prevented the operation; the caller may retry
	ErrContention = errors.New("operation aborted by concurrent activity, retry")

	// ErrDatabaseConnection is returned when the ledger store is unreachable
	ErrDatabaseConnection = errors.New("database connection error")

	// ErrConstraintViolation is returned when a database constraint is violated
	ErrConstraintViolation = errors.New("database constraint violation")

	// ErrUnauthorized is returned for failed admin authentication
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidRequest is returned when the request format is invalid
	ErrInvalidRequest = errors.New("invalid request")

	// ErrInternalServer is returned for unexpected server-side errors
	ErrInternalServer = errors.New("internal server error")
)

// ErrorCode returns standardized error codes for known errors
func ErrorCode(err error) int {
	switch {
	case errors.Is(err, ErrInsufficientBalance):
		return CodeInsufficientBalance
	case errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrNegativeAmount):
		return CodeInvalidAmount
	case errors.Is(err, ErrAmountOverflow):
		return CodeAmountOverflow
	case errors.Is(err, ErrInvalidUserID):
		return CodeInvalidUserID
	case errors.Is(err, ErrDepositBelowMinimum), errors.Is(err, ErrDepositAboveMaximum):
		return CodeDepositOutOfRange
	case errors.Is(err, ErrInvalidStatusTransition):
		return CodeInvalidStatusChange
	case errors.Is(err, ErrUserNotFound):
		return CodeUserNotFound
	case errors.Is(err, ErrTransactionNotFound):
		return CodeTransactionNotFound
	case errors.Is(err, ErrContention):
		return CodeContention
	case errors.Is(err, ErrConstraintViolation):
		return CodeConstraintViolation
	case errors.Is(err, ErrUnauthorized):
		return CodeUnauthorized
	default:
		return CodeInternalServer
	}
}

// InsufficientBalanceError carries the balance context of a declined debit.
type InsufficientBalanceError struct {
	UserID      int64
	Amount      string
	CurrBalance string
}

// Error implements the error interface
func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance for user %d: required %s, available %s",
		e.UserID, e.Amount, e.CurrBalance)
}

// Is checks if the target error is an ErrInsufficientBalance
func (e *InsufficientBalanceError) Is(target error) bool {
	return target == ErrInsufficientBalance
}

// LogFields returns a map of fields for structured logging
func (e *InsufficientBalanceError) LogFields() map[string]any {
	return map[string]any{
		"error_type":      "insufficient_balance",
		"user_id":         e.UserID,
		"amount":          e.Amount,
		"current_balance": e.CurrBalance,
		"error_code":      CodeInsufficientBalance,
	}
}

// NewInsufficientBalanceError creates a new detailed insufficient balance error
func NewInsufficientBalanceError(userID int64, amount, currentBalance string) error {
	return &InsufficientBalanceError{
		UserID:      userID,
		Amount:      amount,
		CurrBalance: currentBalance,
	}
}

// StatusTransitionError reports an attempted illegal status change.
type StatusTransitionError struct {
	TransactionID int64
	From          string
	To            string
}

// Error implements the error interface
func (e *StatusTransitionError) Error() string {
	return fmt.Sprintf("transaction %d cannot move from %s to %s", e.TransactionID, e.From, e.To)
}

// Is checks if the target error is an ErrInvalidStatusTransition
func (e *StatusTransitionError) Is(target error) bool {
	return target == ErrInvalidStatusTransition
}

// NewStatusTransitionError creates a detailed status transition error
func NewStatusTransitionError(transactionID int64, from, to string) error {
	return &StatusTransitionError{TransactionID: transactionID, From: from, To: to}
}

// IsInsufficientBalanceError checks if the error is related to insufficient balance
func IsInsufficientBalanceError(err error) bool {
	return errors.Is(err, ErrInsufficientBalance)
}

// IsNotFoundError checks if the error is any "not found" type of error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrTransactionNotFound)
}

// IsContentionError checks if the error is a retryable lock/serialization conflict
func IsContentionError(err error) bool {
	return errors.Is(err, ErrContention)
}
