package income

import (
	"context"
	"testing"

	domainerrors "sharkfund/internal/errors"
	"sharkfund/internal/models"
	"sharkfund/internal/repositories"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockWalletRepo struct {
	mock.Mock
}

func (m *mockWalletRepo) GetByID(id uint) (*models.Wallet, error) {
	args := m.Called(id)
	if w := args.Get(0); w != nil {
		return w.(*models.Wallet), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockWalletRepo) GetByUserID(userID uint) (*models.Wallet, error) {
	args := m.Called(userID)
	if w := args.Get(0); w != nil {
		return w.(*models.Wallet), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockWalletRepo) GetByIDForUpdate(id uint) (*models.Wallet, error) {
	args := m.Called(id)
	if w := args.Get(0); w != nil {
		return w.(*models.Wallet), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockWalletRepo) GetByUserIDForUpdate(userID uint) (*models.Wallet, error) {
	args := m.Called(userID)
	if w := args.Get(0); w != nil {
		return w.(*models.Wallet), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockWalletRepo) Update(wallet *models.Wallet) error {
	args := m.Called(wallet)
	return args.Error(0)
}

func (m *mockWalletRepo) CreateTransaction(tx *models.Transaction) error {
	args := m.Called(tx)
	return args.Error(0)
}

func (m *mockWalletRepo) GetTransactionByID(id uint) (*models.Transaction, error) {
	args := m.Called(id)
	if tx := args.Get(0); tx != nil {
		return tx.(*models.Transaction), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockWalletRepo) UpdateTransaction(tx *models.Transaction) error {
	args := m.Called(tx)
	return args.Error(0)
}

func (m *mockWalletRepo) GetCompletedTotals(walletID uint) ([]repositories.TypeTotal, error) {
	args := m.Called(walletID)
	if totals := args.Get(0); totals != nil {
		return totals.([]repositories.TypeTotal), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockWalletRepo) GetTransactions(walletID uint, txType string, limit, offset int) ([]models.Transaction, error) {
	args := m.Called(walletID, txType, limit, offset)
	if txs := args.Get(0); txs != nil {
		return txs.([]models.Transaction), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockWalletRepo) CreateMonthlyIncome(batch *models.MonthlyIncome) error {
	args := m.Called(batch)
	return args.Error(0)
}

func (m *mockWalletRepo) GetMonthlyIncomeByID(id uint) (*models.MonthlyIncome, error) {
	args := m.Called(id)
	if b := args.Get(0); b != nil {
		return b.(*models.MonthlyIncome), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockWalletRepo) GetMonthlyIncomeByUserAndMonth(userID uint, month string) (*models.MonthlyIncome, error) {
	args := m.Called(userID, month)
	if b := args.Get(0); b != nil {
		return b.(*models.MonthlyIncome), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockWalletRepo) DeleteMonthlyIncome(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *mockWalletRepo) UpdateMonthlyIncomeStatus(id uint, status string) error {
	args := m.Called(id, status)
	return args.Error(0)
}

func (m *mockWalletRepo) ListMonthlyIncomes(userID uint) ([]models.MonthlyIncome, error) {
	args := m.Called(userID)
	if b := args.Get(0); b != nil {
		return b.([]models.MonthlyIncome), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockWalletRepo) ExecuteInTransaction(fn func(repositories.WalletRepository) error) error {
	return fn(m)
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestIncomeService_ApplyBatch(t *testing.T) {
	t.Run("appends income and deposit reset rows", func(t *testing.T) {
		repo := new(mockWalletRepo)
		repo.On("GetMonthlyIncomeByUserAndMonth", uint(1), "2026-08").
			Return(nil, repositories.ErrMonthlyIncomeNotFound)
		repo.On("GetByUserIDForUpdate", uint(1)).Return(&models.Wallet{ID: 10, UserID: 1}, nil)
		repo.On("GetCompletedTotals", uint(10)).Return([]repositories.TypeTotal{
			{Type: models.TransactionTypeDeposit, Total: d("500")},
		}, nil)
		repo.On("CreateTransaction", mock.MatchedBy(func(tx *models.Transaction) bool {
			return tx.Type == models.TransactionTypeIncome && tx.Amount.Equal(d("1000"))
		})).Return(nil)
		repo.On("CreateTransaction", mock.MatchedBy(func(tx *models.Transaction) bool {
			return tx.Type == models.TransactionTypeResetDeposit && tx.Amount.Equal(d("-500"))
		})).Return(nil)
		repo.On("CreateMonthlyIncome", mock.AnythingOfType("*models.MonthlyIncome")).Return(nil)
		repo.On("Update", mock.AnythingOfType("*models.Wallet")).Return(nil)

		s := NewService(repo, nil)
		batch, err := s.ApplyBatch(context.Background(), 1, "2026-08", d("1200"), d("1000"), d("3000"))

		assert.NoError(t, err)
		assert.NotNil(t, batch)
		assert.Equal(t, "2026-08", batch.Month)
		assert.Equal(t, models.MonthlyIncomeStatusCompleted, batch.Status)
		repo.AssertExpectations(t)
	})

	t.Run("duplicate month rejected", func(t *testing.T) {
		repo := new(mockWalletRepo)
		repo.On("GetMonthlyIncomeByUserAndMonth", uint(1), "2026-08").
			Return(&models.MonthlyIncome{ID: 5, UserID: 1, Month: "2026-08"}, nil)

		s := NewService(repo, nil)
		_, err := s.ApplyBatch(context.Background(), 1, "2026-08", d("1200"), d("1000"), d("3000"))

		assert.ErrorIs(t, err, domainerrors.ErrDuplicateMonth)
		repo.AssertNotCalled(t, "CreateTransaction", mock.Anything)
	})

	t.Run("duplicate caught by unique index inside transaction", func(t *testing.T) {
		repo := new(mockWalletRepo)
		repo.On("GetMonthlyIncomeByUserAndMonth", uint(1), "2026-08").
			Return(nil, repositories.ErrMonthlyIncomeNotFound)
		repo.On("GetByUserIDForUpdate", uint(1)).Return(&models.Wallet{ID: 10, UserID: 1}, nil)
		repo.On("GetCompletedTotals", uint(10)).Return([]repositories.TypeTotal{}, nil)
		repo.On("CreateTransaction", mock.AnythingOfType("*models.Transaction")).Return(nil)
		repo.On("CreateMonthlyIncome", mock.AnythingOfType("*models.MonthlyIncome")).
			Return(repositories.ErrDuplicateMonth)

		s := NewService(repo, nil)
		_, err := s.ApplyBatch(context.Background(), 1, "2026-08", d("1200"), d("1000"), d("3000"))

		assert.ErrorIs(t, err, domainerrors.ErrDuplicateMonth)
	})

	t.Run("income below minimum rejected", func(t *testing.T) {
		repo := new(mockWalletRepo)

		s := NewService(repo, nil)
		_, err := s.ApplyBatch(context.Background(), 1, "2026-08", d("1200"), d("0.001"), d("3000"))

		assert.ErrorIs(t, err, domainerrors.ErrInvalidAmount)
	})
}

func TestIncomeService_ReverseBatch(t *testing.T) {
	batch := func() *models.MonthlyIncome {
		return &models.MonthlyIncome{
			ID:                  5,
			UserID:              1,
			Month:               "2026-08",
			MonthlyIncome:       d("1000"),
			Status:              models.MonthlyIncomeStatusCompleted,
			IncomeTransactionID: 21,
			ResetTransactionID:  22,
		}
	}

	t.Run("flips ledger rows and removes batch", func(t *testing.T) {
		repo := new(mockWalletRepo)
		repo.On("GetMonthlyIncomeByID", uint(5)).Return(batch(), nil)
		repo.On("GetByUserIDForUpdate", uint(1)).Return(&models.Wallet{ID: 10, UserID: 1}, nil)
		repo.On("GetCompletedTotals", uint(10)).Return([]repositories.TypeTotal{
			{Type: models.TransactionTypeIncome, Total: d("1000")},
		}, nil)
		repo.On("GetTransactionByID", uint(21)).Return(&models.Transaction{
			ID: 21, WalletID: 10, Type: models.TransactionTypeIncome,
			Amount: d("1000"), Status: models.TransactionStatusCompleted,
		}, nil)
		repo.On("GetTransactionByID", uint(22)).Return(&models.Transaction{
			ID: 22, WalletID: 10, Type: models.TransactionTypeResetDeposit,
			Amount: d("-500"), Status: models.TransactionStatusCompleted,
		}, nil)
		repo.On("UpdateTransaction", mock.MatchedBy(func(tx *models.Transaction) bool {
			return tx.Status == models.TransactionStatusFailed
		})).Return(nil)
		repo.On("DeleteMonthlyIncome", uint(5)).Return(nil)
		repo.On("Update", mock.AnythingOfType("*models.Wallet")).Return(nil)

		s := NewService(repo, nil)
		err := s.ReverseBatch(context.Background(), 5)

		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("insufficient balance marks batch failed", func(t *testing.T) {
		repo := new(mockWalletRepo)
		repo.On("GetMonthlyIncomeByID", uint(5)).Return(batch(), nil)
		repo.On("GetByUserIDForUpdate", uint(1)).Return(&models.Wallet{ID: 10, UserID: 1}, nil)
		repo.On("GetCompletedTotals", uint(10)).Return([]repositories.TypeTotal{
			{Type: models.TransactionTypeIncome, Total: d("1000")},
			{Type: models.TransactionTypeWithdrawal, Total: d("800")},
		}, nil)
		repo.On("UpdateMonthlyIncomeStatus", uint(5), models.MonthlyIncomeStatusFailed).Return(nil)

		s := NewService(repo, nil)
		err := s.ReverseBatch(context.Background(), 5)

		assert.ErrorIs(t, err, domainerrors.ErrInsufficientBalanceForReversal)
		repo.AssertNotCalled(t, "DeleteMonthlyIncome", mock.Anything)
		repo.AssertNotCalled(t, "UpdateTransaction", mock.Anything)
		repo.AssertExpectations(t)
	})

	t.Run("already reversed batch rejected", func(t *testing.T) {
		repo := new(mockWalletRepo)
		failed := batch()
		failed.Status = models.MonthlyIncomeStatusFailed
		repo.On("GetMonthlyIncomeByID", uint(5)).Return(failed, nil)

		s := NewService(repo, nil)
		err := s.ReverseBatch(context.Background(), 5)

		assert.ErrorIs(t, err, ErrBatchReversed)
		repo.AssertNotCalled(t, "GetByUserIDForUpdate", mock.Anything)
	})

	t.Run("missing batch", func(t *testing.T) {
		repo := new(mockWalletRepo)
		repo.On("GetMonthlyIncomeByID", uint(5)).Return(nil, repositories.ErrMonthlyIncomeNotFound)

		s := NewService(repo, nil)
		err := s.ReverseBatch(context.Background(), 5)

		assert.ErrorIs(t, err, ErrBatchNotFound)
	})
}
