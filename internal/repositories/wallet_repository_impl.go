package repositories

import (
	"errors"
	"fmt"

	"sharkfund/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type walletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) WalletRepository {
	return &walletRepository{
		db: db,
	}
}

func (r *walletRepository) GetByID(id uint) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := r.db.First(&wallet, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return &wallet, nil
}

func (r *walletRepository) GetByUserID(userID uint) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := r.db.Where("user_id = ?", userID).First(&wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return &wallet, nil
}

// GetByIDForUpdate reads the wallet row under SELECT ... FOR UPDATE so
// concurrent balance-affecting operations serialize on it.
func (r *walletRepository) GetByIDForUpdate(id uint) (*models.Wallet, error) {
	var wallet models.Wallet
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&wallet, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to lock wallet: %w", err)
	}
	return &wallet, nil
}

func (r *walletRepository) GetByUserIDForUpdate(userID uint) (*models.Wallet, error) {
	var wallet models.Wallet
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&wallet).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to lock wallet: %w", err)
	}
	return &wallet, nil
}

func (r *walletRepository) Update(wallet *models.Wallet) error {
	if err := r.db.Save(wallet).Error; err != nil {
		return fmt.Errorf("failed to update wallet: %w", err)
	}
	return nil
}

func (r *walletRepository) CreateTransaction(tx *models.Transaction) error {
	if err := r.db.Create(tx).Error; err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

func (r *walletRepository) GetTransactionByID(id uint) (*models.Transaction, error) {
	var tx models.Transaction
	if err := r.db.First(&tx, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &tx, nil
}

func (r *walletRepository) UpdateTransaction(tx *models.Transaction) error {
	if err := r.db.Save(tx).Error; err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	return nil
}

// GetCompletedTotals returns the sum of COMPLETED amounts per
// transaction type. Types with no rows are simply absent.
func (r *walletRepository) GetCompletedTotals(walletID uint) ([]TypeTotal, error) {
	var totals []TypeTotal
	err := r.db.Model(&models.Transaction{}).
		Select("type, COALESCE(SUM(amount), 0) AS total").
		Where("wallet_id = ? AND status = ?", walletID, models.TransactionStatusCompleted).
		Group("type").
		Scan(&totals).Error
	if err != nil {
		return nil, fmt.Errorf("failed to sum completed transactions: %w", err)
	}
	return totals, nil
}

func (r *walletRepository) GetTransactions(walletID uint, txType string, limit, offset int) ([]models.Transaction, error) {
	var txs []models.Transaction
	q := r.db.Where("wallet_id = ?", walletID)
	if txType != "" {
		q = q.Where("type = ?", txType)
	}
	err := q.Order("timestamp DESC").
		Limit(limit).
		Offset(offset).
		Find(&txs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get transactions: %w", err)
	}
	return txs, nil
}

func (r *walletRepository) CreateMonthlyIncome(batch *models.MonthlyIncome) error {
	err := r.db.Create(batch).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateMonth
		}
		return fmt.Errorf("failed to create monthly income batch: %w", err)
	}
	return nil
}

func (r *walletRepository) GetMonthlyIncomeByID(id uint) (*models.MonthlyIncome, error) {
	var batch models.MonthlyIncome
	if err := r.db.First(&batch, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMonthlyIncomeNotFound
		}
		return nil, fmt.Errorf("failed to get monthly income batch: %w", err)
	}
	return &batch, nil
}

func (r *walletRepository) GetMonthlyIncomeByUserAndMonth(userID uint, month string) (*models.MonthlyIncome, error) {
	var batch models.MonthlyIncome
	err := r.db.Where("user_id = ? AND month = ?", userID, month).First(&batch).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMonthlyIncomeNotFound
		}
		return nil, fmt.Errorf("failed to get monthly income batch: %w", err)
	}
	return &batch, nil
}

func (r *walletRepository) DeleteMonthlyIncome(id uint) error {
	result := r.db.Delete(&models.MonthlyIncome{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete monthly income batch: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrMonthlyIncomeNotFound
	}
	return nil
}

func (r *walletRepository) UpdateMonthlyIncomeStatus(id uint, status string) error {
	result := r.db.Model(&models.MonthlyIncome{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update monthly income status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrMonthlyIncomeNotFound
	}
	return nil
}

func (r *walletRepository) ListMonthlyIncomes(userID uint) ([]models.MonthlyIncome, error) {
	var batches []models.MonthlyIncome
	err := r.db.Where("user_id = ?", userID).Order("month DESC").Find(&batches).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list monthly income batches: %w", err)
	}
	return batches, nil
}

func (r *walletRepository) ExecuteInTransaction(fn func(WalletRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		txRepo := &walletRepository{db: tx}
		return fn(txRepo)
	})
}
