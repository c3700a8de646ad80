package entity

import (
	"time"

	"github.com/shopspring/decimal"

	errs "github.com/pmotterani/flexipay/internal/domain/error"
	coreport "github.com/pmotterani/flexipay/internal/domain/port/core"
)

// User represents a ledger account keyed by the messaging front-end's
// external identity (the Telegram user id). The display fields are
// informational only; the balance is the authoritative ledger value.
type User struct {
	ID        int64
	Username  string
	FirstName string
	Balance   decimal.Decimal
	CreatedAt time.Time
}

// NewUser creates a user with a zero balance. The id must be a positive
// external identity key.
func NewUser(id int64, username, firstName string, timeProvider coreport.TimeProvider) (*User, error) {
	if id <= 0 {
		return nil, errs.ErrInvalidUserID
	}

	return &User{
		ID:        id,
		Username:  username,
		FirstName: firstName,
		Balance:   decimal.Zero,
		CreatedAt: timeProvider.Now(),
	}, nil
}

// FormattedBalance returns the balance with two decimal places.
func (u *User) FormattedBalance() string {
	return FormatAmount(u.Balance)
}

// CanDebit reports whether the balance covers the given amount.
func (u *User) CanDebit(amount decimal.Decimal) bool {
	return u.Balance.GreaterThanOrEqual(amount)
}
