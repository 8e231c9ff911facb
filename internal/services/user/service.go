package user

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"sharkfund/internal/models"
	"sharkfund/internal/repositories"
	"sharkfund/internal/utils"
	"sharkfund/internal/validation"

	"github.com/sirupsen/logrus"
)

var (
	ErrEmailTaken   = errors.New("user with this email already exists")
	ErrUserNotFound = errors.New("user not found")
)

// RegisterInput carries the registration form fields.
type RegisterInput struct {
	Email           string
	Password        string
	ConfirmPassword string
	Address         string
	MobileNumber    string
	ReferralCode    string // referrer's username, optional
}

// BonusIssuer emits the one-time referral bonus into a referrer's
// wallet. Satisfied by the wallet service.
type BonusIssuer interface {
	AddReferralBonus(ctx context.Context, referrerUserID uint, activatedUsername string) error
}

type Service interface {
	Register(ctx context.Context, input *RegisterInput) (*models.User, error)
	GetByID(id uint) (*models.User, error)
	Activate(ctx context.Context, userID uint) error
	Deactivate(ctx context.Context, userID uint) error
	SavePaymentDetail(ctx context.Context, userID uint, detail *models.PaymentDetail) error
	GetPaymentDetail(ctx context.Context, userID uint) (*models.PaymentDetail, error)
}

type service struct {
	repo  repositories.UserRepository
	bonus BonusIssuer
}

func NewService(repo repositories.UserRepository, bonus BonusIssuer) Service {
	return &service{
		repo:  repo,
		bonus: bonus,
	}
}

// Register creates the user and their wallet in one transaction. New
// accounts start InActive; the referral bonus only fires on activation.
func (s *service) Register(ctx context.Context, input *RegisterInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, errors.New("email is required")
	}
	if err := validation.ValidatePassword(input.Password, input.ConfirmPassword); err != nil {
		return nil, err
	}
	if err := validation.ValidateMobileNumber(input.MobileNumber); err != nil {
		return nil, err
	}

	if existing, _ := s.repo.GetByEmail(email); existing != nil {
		return nil, ErrEmailTaken
	}

	var referredByID *uint
	if input.ReferralCode != "" {
		referrer, err := s.repo.GetByUsername(input.ReferralCode)
		if err != nil {
			return nil, fmt.Errorf("invalid referral code: %w", err)
		}
		referredByID = &referrer.ID
	}

	username, err := s.nextUsername()
	if err != nil {
		return nil, err
	}

	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		Password:     hashedPassword,
		Address:      input.Address,
		MobileNumber: input.MobileNumber,
		Status:       models.UserStatusInActive,
		ReferredByID: referredByID,
		JoinDate:     time.Now().UTC(),
		Role:         "user",
	}

	if err := s.repo.CreateWithWallet(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *service) GetByID(id uint) (*models.User, error) {
	user, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// Activate transitions InActive -> Active and, when the user was
// referred, credits the referrer's wallet exactly once. The compare-
// and-set against the persisted prior status is what makes a repeated
// activation a no-op.
func (s *service) Activate(ctx context.Context, userID uint) error {
	user, err := s.GetByID(userID)
	if err != nil {
		return err
	}

	changed, err := s.repo.UpdateStatusIf(userID, models.UserStatusInActive, models.UserStatusActive)
	if err != nil {
		return err
	}
	if !changed {
		logrus.Debugf("user %d already active, skipping activation", userID)
		return nil
	}

	if user.ReferredByID != nil {
		if err := s.bonus.AddReferralBonus(ctx, *user.ReferredByID, user.Username); err != nil {
			return fmt.Errorf("failed to credit referral bonus: %w", err)
		}
	}
	return nil
}

// Deactivate is the unmonitored reverse transition; no side effects.
func (s *service) Deactivate(ctx context.Context, userID uint) error {
	_, err := s.repo.UpdateStatusIf(userID, models.UserStatusActive, models.UserStatusInActive)
	return err
}

func (s *service) SavePaymentDetail(ctx context.Context, userID uint, detail *models.PaymentDetail) error {
	detail.UserID = userID
	if err := validation.ValidatePaymentDetail(detail); err != nil {
		return err
	}
	return s.repo.SavePaymentDetail(detail)
}

func (s *service) GetPaymentDetail(ctx context.Context, userID uint) (*models.PaymentDetail, error) {
	return s.repo.GetPaymentDetail(userID)
}

// nextUsername generates ugr_<year>_<n> with a per-year sequence.
func (s *service) nextUsername() (string, error) {
	prefix := fmt.Sprintf("ugr_%d_", time.Now().UTC().Year())
	latest, err := s.repo.LatestUsername(prefix)
	if err != nil {
		return "", err
	}

	next := 1
	if latest != "" {
		parts := strings.Split(latest, "_")
		if n, err := strconv.Atoi(parts[len(parts)-1]); err == nil {
			next = n + 1
		}
	}
	return prefix + strconv.Itoa(next), nil
}
