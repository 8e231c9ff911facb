package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction types
const (
	TransactionTypeDeposit      = "DEPOSIT"
	TransactionTypeWithdrawal   = "WITHDRAWAL"
	TransactionTypeIncome       = "INCOME"
	TransactionTypeResetDeposit = "RESET_DEPOSIT"
	TransactionTypeReferral     = "REFERRAL"
)

// Transaction statuses. Only COMPLETED rows contribute to wallet
// aggregates; PENDING and FAILED rows are inert until transitioned.
const (
	TransactionStatusPending   = "PENDING"
	TransactionStatusCompleted = "COMPLETED"
	TransactionStatusFailed    = "FAILED"
)

// Transaction is an append-only ledger row. Rows are never hard-deleted;
// adjustments happen by appending compensating rows (RESET_DEPOSIT
// carries a negative amount) or by flipping Status to FAILED.
type Transaction struct {
	ID          uint            `gorm:"primarykey"`
	WalletID    uint            `gorm:"index;not null"`
	Type        string          `gorm:"not null"`
	Amount      decimal.Decimal `gorm:"type:numeric(20,2);not null"`
	Status      string          `gorm:"not null;default:'PENDING'"`
	Description string
	Reference   string `gorm:"uniqueIndex"` // external reference ID
	Timestamp   time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
