// Package ledger implements the balance-mutation and transaction-record
// flows: deposits, withdrawals, admin adjustments and the reporting reads.
// Every multi-step flow runs inside a unit-of-work scope so the balance
// write and its paired transaction record commit or roll back together.
package ledger

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/pmotterani/flexipay/internal/domain/fee"
	coreport "github.com/pmotterani/flexipay/internal/domain/port/core"
	"github.com/pmotterani/flexipay/internal/domain/port/persistence"
)

// DepositLimits bounds the accepted deposit amounts.
type DepositLimits struct {
	Min decimal.Decimal
	Max decimal.Decimal
}

// Service ties the ledger flows together.
type Service struct {
	uow          persistence.UnitOfWork
	fees         *fee.Calculator
	limits       DepositLimits
	timeProvider coreport.TimeProvider
	logger       coreport.Logger
}

// NewService creates the ledger service.
func NewService(
	uow persistence.UnitOfWork,
	fees *fee.Calculator,
	limits DepositLimits,
	timeProvider coreport.TimeProvider,
	logger coreport.Logger,
) *Service {
	return &Service{
		uow:          uow,
		fees:         fees,
		limits:       limits,
		timeProvider: timeProvider,
		logger:       logger,
	}
}

// Fees exposes the calculator for callers that only quote fees.
func (s *Service) Fees() *fee.Calculator {
	return s.fees
}

// withinScope runs fn inside a unit-of-work scope, committing on success
// and rolling back on any error. No partial state survives a failure.
func (s *Service) withinScope(ctx context.Context, fn func(txCtx context.Context) error) error {
	txCtx, err := s.uow.Begin(ctx)
	if err != nil {
		return err
	}

	if err := fn(txCtx); err != nil {
		if rbErr := s.uow.Rollback(txCtx); rbErr != nil {
			s.logger.Error("Failed to roll back scope", map[string]any{
				"error": rbErr.Error(),
			})
		}
		return err
	}

	return s.uow.Commit(txCtx)
}
