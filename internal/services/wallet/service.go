package wallet

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainerrors "sharkfund/internal/errors"
	"sharkfund/internal/models"
	"sharkfund/internal/repositories"
	"sharkfund/internal/repositories/cache"
	"sharkfund/internal/validation"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type Service interface {
	GetWallet(ctx context.Context, userID uint) (*models.Wallet, error)
	GetSnapshot(ctx context.Context, userID uint) (Snapshot, error)
	Deposit(ctx context.Context, walletID uint, amount decimal.Decimal) (*models.Transaction, error)
	Withdraw(ctx context.Context, walletID uint, amount decimal.Decimal) (*models.Transaction, error)
	RecordIncome(ctx context.Context, walletID uint, amount decimal.Decimal, description string) (*models.Transaction, error)
	AddReferralBonus(ctx context.Context, referrerUserID uint, activatedUsername string) error
	SetTransactionStatus(ctx context.Context, transactionID uint, status string) error
	DeleteTransaction(ctx context.Context, transactionID uint) error
	CalculateBalance(walletID uint) (decimal.Decimal, error)
	Recompute(ctx context.Context, walletID uint) (Snapshot, error)
	GetTransactionHistory(ctx context.Context, walletID uint, txType string, limit, offset int) ([]models.Transaction, error)
}

type service struct {
	repo    repositories.WalletRepository
	cache   *cache.CacheService
	config  Config
	metrics MetricsCollector
}

// NewService creates a new wallet service. The cache is optional.
func NewService(repo repositories.WalletRepository, cacheService *cache.CacheService, config Config, metrics MetricsCollector) Service {
	if repo == nil {
		panic("repo is required")
	}
	if config.ReferralBonus.IsZero() {
		config.ReferralBonus = decimal.RequireFromString(DefaultReferralBonus)
	}
	if metrics == nil {
		metrics = &NoopMetricsCollector{}
	}
	return &service{
		repo:    repo,
		cache:   cacheService,
		config:  config,
		metrics: metrics,
	}
}

func (s *service) GetWallet(ctx context.Context, userID uint) (*models.Wallet, error) {
	if s.cache != nil {
		if wallet, err := s.cache.GetWallet(ctx, userID); err == nil {
			return wallet, nil
		}
	}

	wallet, err := s.repo.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrWalletNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.CacheWallet(ctx, wallet); err != nil {
			logrus.Warnf("failed to cache wallet for user %d: %v", userID, err)
		}
	}
	return wallet, nil
}

func (s *service) GetSnapshot(ctx context.Context, userID uint) (Snapshot, error) {
	wallet, err := s.GetWallet(ctx, userID)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		TotalDeposit:    wallet.TotalDeposit,
		TotalIncome:     wallet.TotalIncome,
		ReferIncome:     wallet.ReferIncome,
		TotalWithdrawal: wallet.TotalWithdrawal,
		WalletBalance:   wallet.WalletBalance,
	}, nil
}

func (s *service) Deposit(ctx context.Context, walletID uint, amount decimal.Decimal) (*models.Transaction, error) {
	if err := validation.ValidateAmount(amount); err != nil {
		s.metrics.RecordError("deposit", "invalid_amount")
		return nil, err
	}

	txn, err := s.append(ctx, walletID, models.TransactionTypeDeposit, amount, "Wallet deposit")
	if err != nil {
		s.metrics.RecordError("deposit", err.Error())
		return nil, err
	}

	s.metrics.RecordTransaction(models.TransactionTypeDeposit, amount)
	return txn, nil
}

// Withdraw admits a withdrawal only against a balance computed fresh
// from the ledger under the wallet row lock, never from the persisted
// snapshot. When funds are insufficient nothing is written.
func (s *service) Withdraw(ctx context.Context, walletID uint, amount decimal.Decimal) (*models.Transaction, error) {
	if err := validation.ValidateAmount(amount); err != nil {
		s.metrics.RecordError("withdraw", "invalid_amount")
		return nil, err
	}

	var created *models.Transaction
	var walletUserID uint
	err := s.repo.ExecuteInTransaction(func(tx repositories.WalletRepository) error {
		wallet, err := tx.GetByIDForUpdate(walletID)
		if err != nil {
			return err
		}
		walletUserID = wallet.UserID

		balance, err := calculateBalance(tx, wallet.ID)
		if err != nil {
			return err
		}
		if balance.LessThan(amount) {
			return domainerrors.ErrInsufficientFunds
		}

		txn := newTransaction(wallet.ID, models.TransactionTypeWithdrawal, amount, "Wallet withdrawal")
		if err := tx.CreateTransaction(txn); err != nil {
			return err
		}
		if err := s.recomputeLocked(tx, wallet); err != nil {
			return err
		}
		created = txn
		return nil
	})
	if err != nil {
		s.metrics.RecordError("withdraw", err.Error())
		return nil, err
	}

	s.invalidateUserWallet(ctx, walletUserID)
	s.metrics.RecordTransaction(models.TransactionTypeWithdrawal, amount)
	return created, nil
}

func (s *service) RecordIncome(ctx context.Context, walletID uint, amount decimal.Decimal, description string) (*models.Transaction, error) {
	if err := validation.ValidateAmount(amount); err != nil {
		s.metrics.RecordError("record_income", "invalid_amount")
		return nil, err
	}
	if description == "" {
		description = "Income credit"
	}

	txn, err := s.append(ctx, walletID, models.TransactionTypeIncome, amount, description)
	if err != nil {
		s.metrics.RecordError("record_income", err.Error())
		return nil, err
	}

	s.metrics.RecordTransaction(models.TransactionTypeIncome, amount)
	return txn, nil
}

// AddReferralBonus credits the configured one-time bonus into the
// referrer's wallet. A missing referrer wallet is logged and skipped;
// activation must not fail because of it.
func (s *service) AddReferralBonus(ctx context.Context, referrerUserID uint, activatedUsername string) error {
	var walletUserID uint
	err := s.repo.ExecuteInTransaction(func(tx repositories.WalletRepository) error {
		wallet, err := tx.GetByUserIDForUpdate(referrerUserID)
		if err != nil {
			return err
		}
		walletUserID = wallet.UserID

		txn := newTransaction(wallet.ID, models.TransactionTypeReferral, s.config.ReferralBonus,
			fmt.Sprintf("Referral bonus for activation of %s", activatedUsername))
		if err := tx.CreateTransaction(txn); err != nil {
			return err
		}
		return s.recomputeLocked(tx, wallet)
	})
	if err != nil {
		if errors.Is(err, repositories.ErrWalletNotFound) {
			logrus.Warnf("referrer %d has no wallet, skipping referral bonus", referrerUserID)
			return nil
		}
		s.metrics.RecordError("referral_bonus", err.Error())
		return err
	}

	s.invalidateUserWallet(ctx, walletUserID)
	s.metrics.RecordTransaction(models.TransactionTypeReferral, s.config.ReferralBonus)
	return nil
}

// SetTransactionStatus transitions a ledger row and re-aggregates the
// owning wallet in the same atomic scope. A WITHDRAWAL entering
// COMPLETED goes through the same admission check as a new withdrawal.
func (s *service) SetTransactionStatus(ctx context.Context, transactionID uint, status string) error {
	switch status {
	case models.TransactionStatusPending, models.TransactionStatusCompleted, models.TransactionStatusFailed:
	default:
		return ErrInvalidStatus
	}

	var walletUserID uint
	err := s.repo.ExecuteInTransaction(func(tx repositories.WalletRepository) error {
		txn, err := tx.GetTransactionByID(transactionID)
		if err != nil {
			if errors.Is(err, repositories.ErrTransactionNotFound) {
				return ErrTransactionNotFound
			}
			return err
		}
		if txn.Status == status {
			return nil
		}

		wallet, err := tx.GetByIDForUpdate(txn.WalletID)
		if err != nil {
			return err
		}
		walletUserID = wallet.UserID

		if txn.Type == models.TransactionTypeWithdrawal && status == models.TransactionStatusCompleted {
			balance, err := calculateBalance(tx, wallet.ID)
			if err != nil {
				return err
			}
			if balance.LessThan(txn.Amount) {
				return domainerrors.ErrInsufficientFunds
			}
		}

		txn.Status = status
		if err := tx.UpdateTransaction(txn); err != nil {
			return err
		}
		return s.recomputeLocked(tx, wallet)
	})
	if err != nil {
		s.metrics.RecordError("set_status", err.Error())
		return err
	}

	s.invalidateUserWallet(ctx, walletUserID)
	return nil
}

// DeleteTransaction intentionally never removes a ledger row. The
// attempt is logged and reported as success; history stays immutable
// and adjustments happen through compensating rows or status flips.
func (s *service) DeleteTransaction(ctx context.Context, transactionID uint) error {
	logrus.WithField("transaction_id", transactionID).
		Warn("transaction delete requested; ledger rows are immutable, ignoring")
	return nil
}

// CalculateBalance computes the withdrawable balance fresh from the
// ledger, bypassing the persisted snapshot.
func (s *service) CalculateBalance(walletID uint) (decimal.Decimal, error) {
	return calculateBalance(s.repo, walletID)
}

// Recompute re-derives the wallet aggregates from the ledger and
// persists them. Idempotent: with no intervening ledger change it
// always yields the same snapshot.
func (s *service) Recompute(ctx context.Context, walletID uint) (Snapshot, error) {
	var snap Snapshot
	var walletUserID uint
	err := s.repo.ExecuteInTransaction(func(tx repositories.WalletRepository) error {
		wallet, err := tx.GetByIDForUpdate(walletID)
		if err != nil {
			return err
		}
		walletUserID = wallet.UserID
		if err := s.recomputeLocked(tx, wallet); err != nil {
			return err
		}
		snap = Snapshot{
			TotalDeposit:    wallet.TotalDeposit,
			TotalIncome:     wallet.TotalIncome,
			ReferIncome:     wallet.ReferIncome,
			TotalWithdrawal: wallet.TotalWithdrawal,
			WalletBalance:   wallet.WalletBalance,
		}
		return nil
	})
	if err != nil {
		return Snapshot{}, err
	}

	s.invalidateUserWallet(ctx, walletUserID)
	return snap, nil
}

func (s *service) GetTransactionHistory(ctx context.Context, walletID uint, txType string, limit, offset int) ([]models.Transaction, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	txs, err := s.repo.GetTransactions(walletID, txType, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction history: %w", err)
	}
	return txs, nil
}

// append writes one COMPLETED credit row under the wallet lock and
// re-aggregates in the same scope.
func (s *service) append(ctx context.Context, walletID uint, txType string, amount decimal.Decimal, description string) (*models.Transaction, error) {
	var created *models.Transaction
	var walletUserID uint
	err := s.repo.ExecuteInTransaction(func(tx repositories.WalletRepository) error {
		wallet, err := tx.GetByIDForUpdate(walletID)
		if err != nil {
			return err
		}
		walletUserID = wallet.UserID

		txn := newTransaction(wallet.ID, txType, amount, description)
		if err := tx.CreateTransaction(txn); err != nil {
			return err
		}
		if err := s.recomputeLocked(tx, wallet); err != nil {
			return err
		}
		created = txn
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateUserWallet(ctx, walletUserID)
	return created, nil
}

// recomputeLocked must run with the wallet row already locked.
func (s *service) recomputeLocked(tx repositories.WalletRepository, wallet *models.Wallet) error {
	totals, err := tx.GetCompletedTotals(wallet.ID)
	if err != nil {
		return err
	}
	snap := ComputeSnapshot(totals)
	wallet.TotalDeposit = snap.TotalDeposit
	wallet.TotalIncome = snap.TotalIncome
	wallet.ReferIncome = snap.ReferIncome
	wallet.TotalWithdrawal = snap.TotalWithdrawal
	wallet.WalletBalance = snap.WalletBalance
	return tx.Update(wallet)
}

func (s *service) invalidateUserWallet(ctx context.Context, userID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateWallet(ctx, userID); err != nil {
		logrus.Warnf("failed to invalidate wallet cache for user %d: %v", userID, err)
	}
}

func calculateBalance(repo repositories.WalletRepository, walletID uint) (decimal.Decimal, error) {
	totals, err := repo.GetCompletedTotals(walletID)
	if err != nil {
		return decimal.Zero, err
	}
	return ComputeSnapshot(totals).WalletBalance, nil
}

func newTransaction(walletID uint, txType string, amount decimal.Decimal, description string) *models.Transaction {
	return &models.Transaction{
		WalletID:    walletID,
		Type:        txType,
		Amount:      amount,
		Status:      models.TransactionStatusCompleted,
		Description: description,
		Reference:   uuid.NewString(),
		Timestamp:   time.Now().UTC(),
	}
}
