package repositories

import (
	"sharkfund/internal/models"

	"github.com/shopspring/decimal"
)

// TypeTotal is one row of the per-type COMPLETED amount sums for a wallet.
type TypeTotal struct {
	Type  string
	Total decimal.Decimal
}

// WalletRepository is the data access contract for wallets, the
// transaction ledger and monthly income batches. The ForUpdate getters
// take a row-level lock and are only meaningful inside
// ExecuteInTransaction, which scopes one atomic ledger mutation.
type WalletRepository interface {
	GetByID(id uint) (*models.Wallet, error)
	GetByUserID(userID uint) (*models.Wallet, error)
	GetByIDForUpdate(id uint) (*models.Wallet, error)
	GetByUserIDForUpdate(userID uint) (*models.Wallet, error)
	Update(wallet *models.Wallet) error

	CreateTransaction(tx *models.Transaction) error
	GetTransactionByID(id uint) (*models.Transaction, error)
	UpdateTransaction(tx *models.Transaction) error
	GetCompletedTotals(walletID uint) ([]TypeTotal, error)
	GetTransactions(walletID uint, txType string, limit, offset int) ([]models.Transaction, error)

	CreateMonthlyIncome(batch *models.MonthlyIncome) error
	GetMonthlyIncomeByID(id uint) (*models.MonthlyIncome, error)
	GetMonthlyIncomeByUserAndMonth(userID uint, month string) (*models.MonthlyIncome, error)
	DeleteMonthlyIncome(id uint) error
	UpdateMonthlyIncomeStatus(id uint, status string) error
	ListMonthlyIncomes(userID uint) ([]models.MonthlyIncome, error)

	ExecuteInTransaction(fn func(WalletRepository) error) error
}
