package repositories

import (
	"context"
	"errors"
	"fmt"

	"sharkfund/internal/models"
	"sharkfund/internal/repositories/cache"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type userRepository struct {
	db    *gorm.DB
	cache *cache.CacheService
}

// NewUserRepository creates a new instance of UserRepository
func NewUserRepository(db *gorm.DB, cache *cache.CacheService) UserRepository {
	return &userRepository{
		db:    db,
		cache: cache,
	}
}

func (r *userRepository) CreateWithWallet(user *models.User) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return fmt.Errorf("failed to create user: %w", err)
		}
		wallet := &models.Wallet{UserID: user.ID}
		if err := tx.Create(wallet).Error; err != nil {
			return fmt.Errorf("failed to create wallet: %w", err)
		}
		user.Wallet = wallet
		return nil
	})
}

func (r *userRepository) GetByID(id uint) (*models.User, error) {
	if r.cache != nil {
		key := r.cache.GenerateKey("user", "id", id)
		if user, err := r.cache.GetUser(context.Background(), key); err == nil {
			return user, nil
		}
	}

	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if r.cache != nil {
		if err := r.cache.CacheUser(context.Background(), &user); err != nil {
			logrus.Warnf("failed to cache user %d: %v", user.ID, err)
		}
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return &user, nil
}

func (r *userRepository) Update(user *models.User) error {
	if err := r.db.Save(user).Error; err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	r.invalidate(user.ID)
	return nil
}

// UpdateStatusIf flips the status only when the persisted row still has
// the expected prior status. Returns false when no row changed, which
// is how activation detects an already-Active account.
func (r *userRepository) UpdateStatusIf(userID uint, from, to string) (bool, error) {
	result := r.db.Model(&models.User{}).
		Where("id = ? AND status = ?", userID, from).
		Update("status", to)
	if result.Error != nil {
		return false, fmt.Errorf("failed to update user status: %w", result.Error)
	}
	if result.RowsAffected > 0 {
		r.invalidate(userID)
	}
	return result.RowsAffected > 0, nil
}

func (r *userRepository) UpdatePassword(userID uint, hashedPassword string) error {
	result := r.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("password", hashedPassword)
	if result.Error != nil {
		return fmt.Errorf("failed to update password: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	r.invalidate(userID)
	return nil
}

func (r *userRepository) IncrementTokenVersion(userID uint) error {
	err := r.db.Model(&models.User{}).Where("id = ?", userID).
		UpdateColumn("token_version", gorm.Expr("token_version + 1")).Error
	if err != nil {
		return fmt.Errorf("failed to increment token version: %w", err)
	}
	r.invalidate(userID)
	return nil
}

// LatestUsername returns the highest generated username with the given
// prefix, e.g. "ugr_2026_" -> "ugr_2026_41". Empty string when none
// exist yet. Locks the row so concurrent registrations don't race on
// the sequence number.
func (r *userRepository) LatestUsername(prefix string) (string, error) {
	var user models.User
	err := r.db.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("username LIKE ?", prefix+"%").
		Order("length(username) DESC, username DESC").
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get latest username: %w", err)
	}
	return user.Username, nil
}

func (r *userRepository) GetReferrals(userID uint) ([]*models.User, error) {
	var users []*models.User
	if err := r.db.Where("referred_by_id = ?", userID).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to get referrals: %w", err)
	}
	return users, nil
}

func (r *userRepository) List(offset, limit int) ([]*models.User, int64, error) {
	var users []*models.User
	var total int64

	if err := r.db.Model(&models.User{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}
	if err := r.db.Offset(offset).Limit(limit).Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

func (r *userRepository) SavePaymentDetail(detail *models.PaymentDetail) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		UpdateAll: true,
	}).Create(detail).Error
	if err != nil {
		return fmt.Errorf("failed to save payment detail: %w", err)
	}
	return nil
}

func (r *userRepository) GetPaymentDetail(userID uint) (*models.PaymentDetail, error) {
	var detail models.PaymentDetail
	if err := r.db.Where("user_id = ?", userID).First(&detail).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPaymentDetailNotFound
		}
		return nil, fmt.Errorf("failed to get payment detail: %w", err)
	}
	return &detail, nil
}

func (r *userRepository) invalidate(userID uint) {
	if r.cache == nil {
		return
	}
	if err := r.cache.InvalidateUser(context.Background(), userID); err != nil {
		logrus.Warnf("failed to invalidate user cache %d: %v", userID, err)
	}
}
