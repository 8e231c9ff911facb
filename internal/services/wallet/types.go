package wallet

import (
	"github.com/shopspring/decimal"
)

// Config holds configuration for wallet operations
type Config struct {
	ReferralBonus decimal.Decimal
}

// Snapshot is the set of derived wallet aggregates. WalletBalance only
// counts INCOME and REFERRAL credits minus withdrawals; raw deposits
// fund a separate program and are never withdrawable.
type Snapshot struct {
	TotalDeposit    decimal.Decimal `json:"total_deposit"`
	TotalIncome     decimal.Decimal `json:"total_income"`
	ReferIncome     decimal.Decimal `json:"refer_income"`
	TotalWithdrawal decimal.Decimal `json:"total_withdrawal"`
	WalletBalance   decimal.Decimal `json:"wallet_balance"`
}

// MetricsCollector defines the interface for collecting wallet metrics
type MetricsCollector interface {
	RecordTransaction(txType string, amount decimal.Decimal)
	RecordError(operation, errType string)
}
