package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents the database model for transactions.
type Transaction struct {
	ID           int64           `gorm:"primaryKey;autoIncrement"`
	UserID       int64           `gorm:"not null;index"`
	Type         string          `gorm:"not null;size:50;index:idx_transactions_type_status"`
	Amount       decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	Status       string          `gorm:"not null;size:50;index:idx_transactions_type_status;index"`
	PixKey       *string         `gorm:"size:255"`
	ProcessorRef *string         `gorm:"size:255"`
	AdminNote    *string         `gorm:"type:text;index"`
	CreatedAt    time.Time       `gorm:"not null"`
	UpdatedAt    time.Time       `gorm:"not null;index"`

	User User `gorm:"foreignKey:UserID;references:ID"`
}

// TableName specifies the table name for Transaction
func (Transaction) TableName() string {
	return "transactions"
}
