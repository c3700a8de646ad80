package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	errs "github.com/pmotterani/flexipay/internal/domain/error"
	coreport "github.com/pmotterani/flexipay/internal/domain/port/core"
)

// TransactionType classifies how a transaction relates to the balance.
type TransactionType string

// Transaction types. Deposits and manual adjustments may increase the
// balance; withdrawals and fees reduce it.
const (
	TypeDeposit          TransactionType = "DEPOSIT"
	TypeWithdrawal       TransactionType = "WITHDRAWAL"
	TypeFee              TransactionType = "FEE"
	TypeManualAdjustment TransactionType = "MANUAL_ADJUSTMENT"
)

// TransactionStatus is the lifecycle state of a transaction.
type TransactionStatus string

// Transaction statuses.
const (
	StatusAwaitingPayment  TransactionStatus = "AWAITING_PAYMENT"
	StatusPaid             TransactionStatus = "PAID"
	StatusUnderReview      TransactionStatus = "UNDER_REVIEW"
	StatusInProgress       TransactionStatus = "IN_PROGRESS"
	StatusCompleted        TransactionStatus = "COMPLETED"
	StatusRefused          TransactionStatus = "REFUSED"
	StatusPaymentFailed    TransactionStatus = "PAYMENT_FAILED"
	StatusManualAdjustment TransactionStatus = "MANUAL_ADJUSTMENT"
)

// statusTransitions enumerates every legal one-directional edge of the
// status machine. Deposits settle as PAID or PAYMENT_FAILED; withdrawals
// move through review to COMPLETED or REFUSED; manual adjustments are
// created terminal.
var statusTransitions = map[TransactionStatus][]TransactionStatus{
	StatusAwaitingPayment: {StatusPaid, StatusPaymentFailed, StatusUnderReview},
	StatusUnderReview:     {StatusInProgress, StatusCompleted, StatusRefused},
	StatusInProgress:      {StatusCompleted, StatusRefused},
}

// CanTransition reports whether a status change follows the machine.
// No transition ever re-enters a prior state.
func CanTransition(from, to TransactionStatus) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is allowed from s.
func (s TransactionStatus) IsTerminal() bool {
	return len(statusTransitions[s]) == 0
}

// Transaction is an immutable-once-created ledger record. The id and
// user id never change after creation; only the status and the optional
// fields move through UpdateStatus.
type Transaction struct {
	ID           int64
	UserID       int64
	Type         TransactionType
	Amount       decimal.Decimal
	Status       TransactionStatus
	PixKey       string
	ProcessorRef string
	AdminNote    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TransactionDraft enumerates every field of a new transaction record.
// UserID, Type, Amount and Status are required; the rest default to absent.
type TransactionDraft struct {
	UserID       int64
	Type         TransactionType
	Amount       decimal.Decimal
	Status       TransactionStatus
	PixKey       string
	ProcessorRef string
	AdminNote    string
}

// NewTransaction builds a transaction from a draft, stamping both
// timestamps to the current time.
func NewTransaction(draft TransactionDraft, timeProvider coreport.TimeProvider) (*Transaction, error) {
	if draft.UserID <= 0 {
		return nil, errs.ErrInvalidUserID
	}
	if !isValidType(draft.Type) {
		return nil, fmt.Errorf("%w: %s", errs.ErrInvalidTransactionType, draft.Type)
	}
	if !isValidStatus(draft.Status) {
		return nil, fmt.Errorf("%w: %s", errs.ErrInvalidStatus, draft.Status)
	}
	if draft.Amount.IsNegative() {
		return nil, errs.ErrNegativeAmount
	}

	now := timeProvider.Now()
	return &Transaction{
		UserID:       draft.UserID,
		Type:         draft.Type,
		Amount:       draft.Amount,
		Status:       draft.Status,
		PixKey:       draft.PixKey,
		ProcessorRef: draft.ProcessorRef,
		AdminNote:    draft.AdminNote,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// FormattedAmount returns the amount with two decimal places.
func (t *Transaction) FormattedAmount() string {
	return FormatAmount(t.Amount)
}

// FeeNoteForWithdrawal is the admin note stored on the FEE record paired
// with a withdrawal. The reporting read that resolves a withdrawal's fee
// matches on this exact string.
func FeeNoteForWithdrawal(withdrawalID int64) string {
	return fmt.Sprintf("fee for withdrawal %d", withdrawalID)
}

// FeeNoteForDeposit is the admin note stored on the FEE record written
// when a deposit settles.
func FeeNoteForDeposit(depositID int64) string {
	return fmt.Sprintf("fee for deposit %d", depositID)
}

func isValidType(t TransactionType) bool {
	switch t {
	case TypeDeposit, TypeWithdrawal, TypeFee, TypeManualAdjustment:
		return true
	}
	return false
}

func isValidStatus(s TransactionStatus) bool {
	switch s {
	case StatusAwaitingPayment, StatusPaid, StatusUnderReview, StatusInProgress,
		StatusCompleted, StatusRefused, StatusPaymentFailed, StatusManualAdjustment:
		return true
	}
	return false
}
