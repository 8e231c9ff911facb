package repositories

import "sharkfund/internal/models"

// UserRepository is the data access contract for users, referral edges
// and payout details. CreateWithWallet creates the user and their
// wallet in one transaction; a user never exists without a wallet.
type UserRepository interface {
	CreateWithWallet(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	Update(user *models.User) error
	UpdateStatusIf(userID uint, from, to string) (bool, error)
	UpdatePassword(userID uint, hashedPassword string) error
	IncrementTokenVersion(userID uint) error
	LatestUsername(prefix string) (string, error)
	GetReferrals(userID uint) ([]*models.User, error)
	List(offset, limit int) ([]*models.User, int64, error)

	SavePaymentDetail(detail *models.PaymentDetail) error
	GetPaymentDetail(userID uint) (*models.PaymentDetail, error)
}
