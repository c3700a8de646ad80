package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// User represents the database model for users. The primary key is the
// external identity supplied by the messaging front-end, not a generated
// id.
type User struct {
	ID        int64           `gorm:"primaryKey"`
	Username  string          `gorm:"size:255"`
	FirstName string          `gorm:"size:255"`
	Balance   decimal.Decimal `gorm:"type:numeric(10,2);not null;default:0.00"`
	CreatedAt time.Time       `gorm:"not null"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}
