package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Wallet holds the materialized aggregates derived from the transaction
// ledger. The ledger is the source of truth; these fields are a cache
// that every mutation path re-derives inside its own transaction scope.
type Wallet struct {
	ID              uint            `gorm:"primarykey"`
	UserID          uint            `gorm:"uniqueIndex;not null"`
	TotalDeposit    decimal.Decimal `gorm:"type:numeric(20,2);default:0"`
	ReferIncome     decimal.Decimal `gorm:"type:numeric(20,2);default:0"`
	TotalIncome     decimal.Decimal `gorm:"type:numeric(20,2);default:0"`
	TotalWithdrawal decimal.Decimal `gorm:"type:numeric(20,2);default:0"`
	WalletBalance   decimal.Decimal `gorm:"type:numeric(20,2);default:0"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (w *Wallet) BeforeCreate(tx *gorm.DB) error {
	// A new wallet starts with an empty ledger, so every aggregate is zero.
	w.TotalDeposit = decimal.Zero
	w.ReferIncome = decimal.Zero
	w.TotalIncome = decimal.Zero
	w.TotalWithdrawal = decimal.Zero
	w.WalletBalance = decimal.Zero
	return nil
}
