package user

import (
	"context"
	"fmt"
	"testing"
	"time"

	"sharkfund/internal/models"
	"sharkfund/internal/repositories"
	"sharkfund/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) CreateWithWallet(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *mockUserRepo) GetByID(id uint) (*models.User, error) {
	args := m.Called(id)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) GetByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) GetByUsername(username string) (*models.User, error) {
	args := m.Called(username)
	if u := args.Get(0); u != nil {
		return u.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) Update(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *mockUserRepo) UpdateStatusIf(userID uint, from, to string) (bool, error) {
	args := m.Called(userID, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepo) UpdatePassword(userID uint, hashedPassword string) error {
	args := m.Called(userID, hashedPassword)
	return args.Error(0)
}

func (m *mockUserRepo) IncrementTokenVersion(userID uint) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *mockUserRepo) LatestUsername(prefix string) (string, error) {
	args := m.Called(prefix)
	return args.String(0), args.Error(1)
}

func (m *mockUserRepo) GetReferrals(userID uint) ([]*models.User, error) {
	args := m.Called(userID)
	if u := args.Get(0); u != nil {
		return u.([]*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) List(offset, limit int) ([]*models.User, int64, error) {
	args := m.Called(offset, limit)
	if u := args.Get(0); u != nil {
		return u.([]*models.User), args.Get(1).(int64), args.Error(2)
	}
	return nil, 0, args.Error(2)
}

func (m *mockUserRepo) SavePaymentDetail(detail *models.PaymentDetail) error {
	args := m.Called(detail)
	return args.Error(0)
}

func (m *mockUserRepo) GetPaymentDetail(userID uint) (*models.PaymentDetail, error) {
	args := m.Called(userID)
	if d := args.Get(0); d != nil {
		return d.(*models.PaymentDetail), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockBonusIssuer struct {
	mock.Mock
}

func (m *mockBonusIssuer) AddReferralBonus(ctx context.Context, referrerUserID uint, activatedUsername string) error {
	args := m.Called(ctx, referrerUserID, activatedUsername)
	return args.Error(0)
}

func yearPrefix() string {
	return fmt.Sprintf("ugr_%d_", time.Now().UTC().Year())
}

func TestUserService_Register(t *testing.T) {
	t.Run("first user of the year", func(t *testing.T) {
		repo := new(mockUserRepo)
		repo.On("GetByEmail", "new@example.com").Return(nil, repositories.ErrUserNotFound)
		repo.On("LatestUsername", yearPrefix()).Return("", nil)
		repo.On("CreateWithWallet", mock.AnythingOfType("*models.User")).Return(nil)

		s := NewService(repo, new(mockBonusIssuer))
		created, err := s.Register(context.Background(), &RegisterInput{
			Email:           "New@Example.com",
			Password:        "password123",
			ConfirmPassword: "password123",
		})

		assert.NoError(t, err)
		assert.Equal(t, yearPrefix()+"1", created.Username)
		assert.Equal(t, "new@example.com", created.Email)
		assert.Equal(t, models.UserStatusInActive, created.Status)
		assert.NotEqual(t, "password123", created.Password)
		repo.AssertExpectations(t)
	})

	t.Run("username sequence increments", func(t *testing.T) {
		repo := new(mockUserRepo)
		repo.On("GetByEmail", "next@example.com").Return(nil, repositories.ErrUserNotFound)
		repo.On("LatestUsername", yearPrefix()).Return(yearPrefix()+"7", nil)
		repo.On("CreateWithWallet", mock.AnythingOfType("*models.User")).Return(nil)

		s := NewService(repo, new(mockBonusIssuer))
		created, err := s.Register(context.Background(), &RegisterInput{
			Email:           "next@example.com",
			Password:        "password123",
			ConfirmPassword: "password123",
		})

		assert.NoError(t, err)
		assert.Equal(t, yearPrefix()+"8", created.Username)
	})

	t.Run("referral code links referrer", func(t *testing.T) {
		repo := new(mockUserRepo)
		referrer := &models.User{ID: 9, Username: yearPrefix() + "2"}
		repo.On("GetByEmail", "ref@example.com").Return(nil, repositories.ErrUserNotFound)
		repo.On("GetByUsername", referrer.Username).Return(referrer, nil)
		repo.On("LatestUsername", yearPrefix()).Return(yearPrefix()+"2", nil)
		repo.On("CreateWithWallet", mock.AnythingOfType("*models.User")).Return(nil)

		s := NewService(repo, new(mockBonusIssuer))
		created, err := s.Register(context.Background(), &RegisterInput{
			Email:           "ref@example.com",
			Password:        "password123",
			ConfirmPassword: "password123",
			ReferralCode:    referrer.Username,
		})

		assert.NoError(t, err)
		assert.NotNil(t, created.ReferredByID)
		assert.Equal(t, uint(9), *created.ReferredByID)
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		repo := new(mockUserRepo)
		repo.On("GetByEmail", "taken@example.com").Return(&models.User{ID: 1}, nil)

		s := NewService(repo, new(mockBonusIssuer))
		_, err := s.Register(context.Background(), &RegisterInput{
			Email:           "taken@example.com",
			Password:        "password123",
			ConfirmPassword: "password123",
		})

		assert.ErrorIs(t, err, ErrEmailTaken)
		repo.AssertNotCalled(t, "CreateWithWallet", mock.Anything)
	})

	t.Run("password mismatch rejected", func(t *testing.T) {
		repo := new(mockUserRepo)

		s := NewService(repo, new(mockBonusIssuer))
		_, err := s.Register(context.Background(), &RegisterInput{
			Email:           "x@example.com",
			Password:        "password123",
			ConfirmPassword: "password456",
		})

		assert.ErrorIs(t, err, validation.ErrPasswordMismatch)
	})

	t.Run("short password rejected", func(t *testing.T) {
		repo := new(mockUserRepo)

		s := NewService(repo, new(mockBonusIssuer))
		_, err := s.Register(context.Background(), &RegisterInput{
			Email:           "x@example.com",
			Password:        "short",
			ConfirmPassword: "short",
		})

		assert.ErrorIs(t, err, validation.ErrPasswordTooShort)
	})

	t.Run("invalid mobile number rejected", func(t *testing.T) {
		repo := new(mockUserRepo)

		s := NewService(repo, new(mockBonusIssuer))
		_, err := s.Register(context.Background(), &RegisterInput{
			Email:           "x@example.com",
			Password:        "password123",
			ConfirmPassword: "password123",
			MobileNumber:    "not-a-number",
		})

		assert.ErrorIs(t, err, validation.ErrInvalidMobileNumber)
	})
}

func TestUserService_Activate(t *testing.T) {
	referrerID := uint(9)

	t.Run("first activation credits referrer once", func(t *testing.T) {
		repo := new(mockUserRepo)
		bonus := new(mockBonusIssuer)
		repo.On("GetByID", uint(3)).Return(&models.User{
			ID: 3, Username: "ugr_2026_3", Status: models.UserStatusInActive, ReferredByID: &referrerID,
		}, nil)
		repo.On("UpdateStatusIf", uint(3), models.UserStatusInActive, models.UserStatusActive).
			Return(true, nil)
		bonus.On("AddReferralBonus", mock.Anything, referrerID, "ugr_2026_3").Return(nil)

		s := NewService(repo, bonus)
		err := s.Activate(context.Background(), 3)

		assert.NoError(t, err)
		bonus.AssertNumberOfCalls(t, "AddReferralBonus", 1)
	})

	t.Run("repeated activation is a no-op", func(t *testing.T) {
		repo := new(mockUserRepo)
		bonus := new(mockBonusIssuer)
		repo.On("GetByID", uint(3)).Return(&models.User{
			ID: 3, Username: "ugr_2026_3", Status: models.UserStatusActive, ReferredByID: &referrerID,
		}, nil)
		repo.On("UpdateStatusIf", uint(3), models.UserStatusInActive, models.UserStatusActive).
			Return(false, nil)

		s := NewService(repo, bonus)
		err := s.Activate(context.Background(), 3)

		assert.NoError(t, err)
		bonus.AssertNotCalled(t, "AddReferralBonus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("activation without referrer skips bonus", func(t *testing.T) {
		repo := new(mockUserRepo)
		bonus := new(mockBonusIssuer)
		repo.On("GetByID", uint(3)).Return(&models.User{
			ID: 3, Username: "ugr_2026_3", Status: models.UserStatusInActive,
		}, nil)
		repo.On("UpdateStatusIf", uint(3), models.UserStatusInActive, models.UserStatusActive).
			Return(true, nil)

		s := NewService(repo, bonus)
		err := s.Activate(context.Background(), 3)

		assert.NoError(t, err)
		bonus.AssertNotCalled(t, "AddReferralBonus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("deactivation never issues bonus", func(t *testing.T) {
		repo := new(mockUserRepo)
		bonus := new(mockBonusIssuer)
		repo.On("UpdateStatusIf", uint(3), models.UserStatusActive, models.UserStatusInActive).
			Return(true, nil)

		s := NewService(repo, bonus)
		err := s.Deactivate(context.Background(), 3)

		assert.NoError(t, err)
		bonus.AssertNotCalled(t, "AddReferralBonus", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestUserService_SavePaymentDetail(t *testing.T) {
	t.Run("partial bank group rejected", func(t *testing.T) {
		repo := new(mockUserRepo)

		s := NewService(repo, new(mockBonusIssuer))
		err := s.SavePaymentDetail(context.Background(), 1, &models.PaymentDetail{
			AccountName:   "Jo",
			AccountNumber: "12345678",
		})

		assert.ErrorIs(t, err, validation.ErrPartialBankDetail)
		repo.AssertNotCalled(t, "SavePaymentDetail", mock.Anything)
	})

	t.Run("upi alone is a complete method", func(t *testing.T) {
		repo := new(mockUserRepo)
		repo.On("SavePaymentDetail", mock.MatchedBy(func(d *models.PaymentDetail) bool {
			return d.UserID == 1 && d.UPIID == "jo@upi"
		})).Return(nil)

		s := NewService(repo, new(mockBonusIssuer))
		err := s.SavePaymentDetail(context.Background(), 1, &models.PaymentDetail{UPIID: "jo@upi"})

		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("no method at all rejected", func(t *testing.T) {
		repo := new(mockUserRepo)

		s := NewService(repo, new(mockBonusIssuer))
		err := s.SavePaymentDetail(context.Background(), 1, &models.PaymentDetail{})

		assert.ErrorIs(t, err, validation.ErrIncompletePaymentDetail)
	})
}
