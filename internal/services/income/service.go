// Package income applies and reverses monthly payout batches. A batch
// appends an INCOME transaction plus a compensating RESET_DEPOSIT
// transaction that zeroes the accumulated deposit for the cycle, all
// under the recipient's wallet lock.
package income

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainerrors "sharkfund/internal/errors"
	"sharkfund/internal/models"
	"sharkfund/internal/repositories"
	"sharkfund/internal/repositories/cache"
	"sharkfund/internal/services/wallet"
	"sharkfund/internal/validation"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var (
	ErrBatchNotFound = errors.New("monthly income batch not found")
	ErrBatchReversed = errors.New("monthly income batch already reversed")
)

type Service interface {
	ApplyBatch(ctx context.Context, userID uint, month string, payout, monthlyIncome, totalIncome decimal.Decimal) (*models.MonthlyIncome, error)
	ReverseBatch(ctx context.Context, batchID uint) error
	ListByUser(ctx context.Context, userID uint) ([]models.MonthlyIncome, error)
}

type service struct {
	repo  repositories.WalletRepository
	cache *cache.CacheService
}

// NewService creates a monthly income service. The cache is optional.
func NewService(repo repositories.WalletRepository, cacheService *cache.CacheService) Service {
	return &service{repo: repo, cache: cacheService}
}

func (s *service) invalidateWallet(ctx context.Context, userID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateWallet(ctx, userID); err != nil {
		logrus.Warnf("failed to invalidate wallet cache for user %d: %v", userID, err)
	}
}

// ApplyBatch records one payout batch per (user, month). The INCOME row
// credits the payout; the RESET_DEPOSIT row carries the negated current
// total_deposit so the deposit aggregate nets to zero for the cycle.
func (s *service) ApplyBatch(ctx context.Context, userID uint, month string, payout, monthlyIncome, totalIncome decimal.Decimal) (*models.MonthlyIncome, error) {
	if err := validation.ValidateAmount(monthlyIncome); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetMonthlyIncomeByUserAndMonth(userID, month); err == nil {
		return nil, domainerrors.ErrDuplicateMonth
	} else if !errors.Is(err, repositories.ErrMonthlyIncomeNotFound) {
		return nil, err
	}

	var batch *models.MonthlyIncome
	err := s.repo.ExecuteInTransaction(func(tx repositories.WalletRepository) error {
		w, err := tx.GetByUserIDForUpdate(userID)
		if err != nil {
			return err
		}

		totals, err := tx.GetCompletedTotals(w.ID)
		if err != nil {
			return err
		}
		snap := wallet.ComputeSnapshot(totals)

		now := time.Now().UTC()
		incomeTx := &models.Transaction{
			WalletID:    w.ID,
			Type:        models.TransactionTypeIncome,
			Amount:      monthlyIncome,
			Status:      models.TransactionStatusCompleted,
			Description: fmt.Sprintf("Monthly income payout for %s", month),
			Reference:   uuid.NewString(),
			Timestamp:   now,
		}
		if err := tx.CreateTransaction(incomeTx); err != nil {
			return err
		}

		resetTx := &models.Transaction{
			WalletID:    w.ID,
			Type:        models.TransactionTypeResetDeposit,
			Amount:      snap.TotalDeposit.Neg(),
			Status:      models.TransactionStatusCompleted,
			Description: fmt.Sprintf("Deposit reset for %s payout cycle", month),
			Reference:   uuid.NewString(),
			Timestamp:   now,
		}
		if err := tx.CreateTransaction(resetTx); err != nil {
			return err
		}

		batch = &models.MonthlyIncome{
			UserID:              userID,
			Month:               month,
			MonthlyPayout:       payout,
			MonthlyIncome:       monthlyIncome,
			TotalIncome:         totalIncome,
			Status:              models.MonthlyIncomeStatusCompleted,
			IncomeTransactionID: incomeTx.ID,
			ResetTransactionID:  resetTx.ID,
		}
		if err := tx.CreateMonthlyIncome(batch); err != nil {
			if errors.Is(err, repositories.ErrDuplicateMonth) {
				return domainerrors.ErrDuplicateMonth
			}
			return err
		}

		return recomputeLocked(tx, w)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateWallet(ctx, userID)
	return batch, nil
}

// ReverseBatch undoes a batch by flipping its two ledger rows to FAILED
// and removing the batch record. Reversal is only admitted when the
// freshly computed balance still covers the batch income; otherwise the
// batch is marked FAILED and left in place.
func (s *service) ReverseBatch(ctx context.Context, batchID uint) error {
	batch, err := s.repo.GetMonthlyIncomeByID(batchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMonthlyIncomeNotFound) {
			return ErrBatchNotFound
		}
		return err
	}
	if batch.Status == models.MonthlyIncomeStatusFailed {
		return ErrBatchReversed
	}

	err = s.repo.ExecuteInTransaction(func(tx repositories.WalletRepository) error {
		w, err := tx.GetByUserIDForUpdate(batch.UserID)
		if err != nil {
			return err
		}

		totals, err := tx.GetCompletedTotals(w.ID)
		if err != nil {
			return err
		}
		balance := wallet.ComputeSnapshot(totals).WalletBalance
		if balance.LessThan(batch.MonthlyIncome) {
			return domainerrors.ErrInsufficientBalanceForReversal
		}

		for _, txID := range []uint{batch.IncomeTransactionID, batch.ResetTransactionID} {
			txn, err := tx.GetTransactionByID(txID)
			if err != nil {
				return err
			}
			txn.Status = models.TransactionStatusFailed
			if err := tx.UpdateTransaction(txn); err != nil {
				return err
			}
		}

		if err := tx.DeleteMonthlyIncome(batch.ID); err != nil {
			return err
		}
		return recomputeLocked(tx, w)
	})
	if errors.Is(err, domainerrors.ErrInsufficientBalanceForReversal) {
		// The batch stays, marked FAILED so it is not reversed again.
		if markErr := s.repo.UpdateMonthlyIncomeStatus(batch.ID, models.MonthlyIncomeStatusFailed); markErr != nil {
			logrus.Warnf("failed to mark batch %d as failed: %v", batch.ID, markErr)
		}
		return err
	}
	if err == nil {
		s.invalidateWallet(ctx, batch.UserID)
	}
	return err
}

func (s *service) ListByUser(ctx context.Context, userID uint) ([]models.MonthlyIncome, error) {
	return s.repo.ListMonthlyIncomes(userID)
}

func recomputeLocked(tx repositories.WalletRepository, w *models.Wallet) error {
	totals, err := tx.GetCompletedTotals(w.ID)
	if err != nil {
		return err
	}
	snap := wallet.ComputeSnapshot(totals)
	w.TotalDeposit = snap.TotalDeposit
	w.TotalIncome = snap.TotalIncome
	w.ReferIncome = snap.ReferIncome
	w.TotalWithdrawal = snap.TotalWithdrawal
	w.WalletBalance = snap.WalletBalance
	return tx.Update(w)
}
