package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pmotterani/flexipay/internal/domain/entity"
	"github.com/pmotterani/flexipay/internal/domain/fee"
	mockcore "github.com/pmotterani/flexipay/mocks/port/core"
	mockpersistence "github.com/pmotterani/flexipay/mocks/port/persistence"
)

// fixedTime pins the clock for every ledger test.
var fixedTime = time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)

// fixture wires a Service to mocked ports. The repositories returned by
// the unit of work are always the same mocks regardless of scope.
type fixture struct {
	uow          *mockpersistence.MockUnitOfWork
	users        *mockpersistence.MockUserRepository
	transactions *mockpersistence.MockTransactionRepository
	timeProvider *mockcore.MockTimeProvider
	logger       *mockcore.MockLogger
	service      *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		uow:          new(mockpersistence.MockUnitOfWork),
		users:        new(mockpersistence.MockUserRepository),
		transactions: new(mockpersistence.MockTransactionRepository),
		timeProvider: new(mockcore.MockTimeProvider),
		logger:       new(mockcore.MockLogger),
	}

	f.timeProvider.On("Now").Return(fixedTime).Maybe()

	f.logger.On("Debug", mock.Anything, mock.Anything).Maybe()
	f.logger.On("Info", mock.Anything, mock.Anything).Maybe()
	f.logger.On("Warn", mock.Anything, mock.Anything).Maybe()
	f.logger.On("Error", mock.Anything, mock.Anything).Maybe()

	f.uow.On("GetUserRepository", mock.Anything).Return(f.users).Maybe()
	f.uow.On("GetTransactionRepository", mock.Anything).Return(f.transactions).Maybe()

	fees, err := fee.NewCalculator(fee.Rates{
		DepositRate:     "0.11",
		WithdrawalRate:  "0.025",
		WithdrawalFixed: "3.50",
	})
	require.NoError(t, err)

	f.service = NewService(f.uow, fees, DepositLimits{
		Min: money("7.50"),
		Max: money("1000.00"),
	}, f.timeProvider, f.logger)

	return f
}

// expectCommittedScope arranges one scope that ends in a commit
func (f *fixture) expectCommittedScope(ctx any) {
	f.uow.On("Begin", ctx).Return(ctx, nil).Once()
	f.uow.On("Commit", ctx).Return(nil).Once()
}

// expectRolledBackScope arranges one scope that ends in a rollback
func (f *fixture) expectRolledBackScope(ctx any) {
	f.uow.On("Begin", ctx).Return(ctx, nil).Once()
	f.uow.On("Rollback", ctx).Return(nil).Once()
}

func (f *fixture) assertExpectations(t *testing.T) {
	t.Helper()
	f.uow.AssertExpectations(t)
	f.users.AssertExpectations(t)
	f.transactions.AssertExpectations(t)
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// moneyArg matches a decimal argument by value rather than representation
func moneyArg(s string) any {
	expected := money(s)
	return mock.MatchedBy(func(v decimal.Decimal) bool {
		return v.Equal(expected)
	})
}

// statusOptionArg matches one variadic status option
const statusOptionArg = "persistence.StatusOption"

// transactionArg matches a created record by its identifying fields
func transactionArg(userID int64, txType entity.TransactionType, amount string, status entity.TransactionStatus) any {
	return mock.MatchedBy(func(tr *entity.Transaction) bool {
		return tr.UserID == userID &&
			tr.Type == txType &&
			tr.Amount.Equal(money(amount)) &&
			tr.Status == status
	})
}
