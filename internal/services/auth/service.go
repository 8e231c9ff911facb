package auth

import (
	"errors"
	"strings"

	"sharkfund/internal/models"
	"sharkfund/internal/repositories"
	"sharkfund/internal/utils"
	"sharkfund/internal/validation"

	"github.com/sirupsen/logrus"
)

var ErrInvalidCredentials = errors.New("invalid email/username or password")

type Service interface {
	Login(login, password string) (*models.User, string, string, error)
	RefreshTokens(refreshToken string) (string, string, error)
	Logout(userID uint) error
	ChangePassword(userID uint, oldPassword, newPassword string) error
	GetUserTokenVersion(userID uint) (int, error)
}

type service struct {
	userRepo repositories.UserRepository
}

func NewService(userRepo repositories.UserRepository) Service {
	return &service{
		userRepo: userRepo,
	}
}

// Login authenticates by email or generated username.
func (s *service) Login(login, password string) (*models.User, string, string, error) {
	user, err := s.getUserByIdentifier(strings.ToLower(strings.TrimSpace(login)))
	if err != nil {
		logrus.Debugf("login failed: no user for identifier %q", login)
		return nil, "", "", ErrInvalidCredentials
	}

	if !utils.CheckPassword(user.Password, password) {
		logrus.Debugf("login failed: bad password for user %d", user.ID)
		return nil, "", "", ErrInvalidCredentials
	}

	accessToken, refreshToken, err := utils.GenerateTokens(&models.UserClaims{
		UserID:       user.ID,
		Email:        user.Email,
		Role:         user.Role,
		TokenVersion: user.TokenVersion,
	})
	if err != nil {
		return nil, "", "", errors.New("error generating tokens")
	}

	return user, accessToken, refreshToken, nil
}

func (s *service) RefreshTokens(refreshToken string) (string, string, error) {
	_, claims, err := utils.ParseToken(refreshToken)
	if err != nil {
		return "", "", errors.New("invalid refresh token")
	}

	user, err := s.userRepo.GetByID(claims.UserID)
	if err != nil {
		return "", "", errors.New("user not found")
	}

	if user.TokenVersion != claims.TokenVersion {
		return "", "", errors.New("token version mismatch")
	}

	return utils.GenerateTokens(&models.UserClaims{
		UserID:       user.ID,
		Email:        user.Email,
		Role:         user.Role,
		TokenVersion: user.TokenVersion,
	})
}

func (s *service) Logout(userID uint) error {
	return s.userRepo.IncrementTokenVersion(userID)
}

func (s *service) ChangePassword(userID uint, oldPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return errors.New("failed to get user")
	}

	if !utils.CheckPassword(user.Password, oldPassword) {
		return errors.New("invalid old password")
	}

	if err := validation.ValidatePassword(newPassword, newPassword); err != nil {
		return err
	}

	hashedPassword, err := utils.HashPassword(newPassword)
	if err != nil {
		return errors.New("failed to hash password")
	}

	if err := s.userRepo.UpdatePassword(userID, hashedPassword); err != nil {
		return errors.New("failed to update password")
	}
	// Invalidate existing tokens
	return s.userRepo.IncrementTokenVersion(userID)
}

func (s *service) GetUserTokenVersion(userID uint) (int, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return 0, err
	}
	return user.TokenVersion, nil
}

func (s *service) getUserByIdentifier(login string) (*models.User, error) {
	if strings.Contains(login, "@") {
		return s.userRepo.GetByEmail(login)
	}
	return s.userRepo.GetByUsername(login)
}
