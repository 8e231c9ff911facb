package models

import "time"

// User account statuses
const (
	UserStatusActive   = "Active"
	UserStatusInActive = "InActive"
)

type User struct {
	ID           uint   `gorm:"primarykey"`
	Username     string `gorm:"uniqueIndex;not null"` // generated, ugr_<year>_<n>
	Email        string `gorm:"uniqueIndex;not null"` // stored lowercase
	Password     string `gorm:"not null"`
	Address      string
	MobileNumber string
	Status       string `gorm:"default:'InActive'"`
	ReferredByID *uint  `gorm:"index"` // nil for root users; edges must stay acyclic
	ReferredBy   *User  `gorm:"foreignKey:ReferredByID"`
	JoinDate     time.Time
	Role         string `gorm:"default:'user'"`
	TokenVersion int    `gorm:"default:1"`
	Wallet       *Wallet
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsActive reports whether the account has been activated.
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}
