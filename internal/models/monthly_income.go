package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthlyIncome batch statuses
const (
	MonthlyIncomeStatusCompleted = "COMPLETED"
	MonthlyIncomeStatusFailed    = "FAILED"
)

// MonthlyIncome records one payout batch per (user, month). Creating a
// batch appends an INCOME transaction and a compensating RESET_DEPOSIT
// transaction in the same scope; the row keeps both transaction IDs so
// a reversal can flip them to FAILED.
type MonthlyIncome struct {
	ID                  uint            `gorm:"primarykey"`
	UserID              uint            `gorm:"not null;uniqueIndex:idx_monthly_income_user_month"`
	Month               string          `gorm:"not null;uniqueIndex:idx_monthly_income_user_month"` // "2006-01"
	MonthlyPayout       decimal.Decimal `gorm:"type:numeric(20,2);not null"`
	MonthlyIncome       decimal.Decimal `gorm:"type:numeric(20,2);not null"`
	TotalIncome         decimal.Decimal `gorm:"type:numeric(20,2);not null"`
	Status              string          `gorm:"not null;default:'COMPLETED'"`
	IncomeTransactionID uint
	ResetTransactionID  uint
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
