package models

import "time"

// PaymentDetail is the one-to-one payout destination for a user. A bank
// group is all-or-nothing; UPI and card are single-field methods.
type PaymentDetail struct {
	ID            uint `gorm:"primarykey"`
	UserID        uint `gorm:"uniqueIndex;not null"`
	AccountName   string
	AccountNumber string
	IFSCCode      string
	BankName      string
	UPIID         string
	CardNumber    string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// HasBankGroup reports whether every bank field is filled.
func (p *PaymentDetail) HasBankGroup() bool {
	return p.AccountName != "" && p.AccountNumber != "" && p.IFSCCode != "" && p.BankName != ""
}

// HasPartialBankGroup reports whether some but not all bank fields are filled.
func (p *PaymentDetail) HasPartialBankGroup() bool {
	any := p.AccountName != "" || p.AccountNumber != "" || p.IFSCCode != "" || p.BankName != ""
	return any && !p.HasBankGroup()
}

// HasCompleteMethod reports whether at least one payout method is usable.
func (p *PaymentDetail) HasCompleteMethod() bool {
	return p.HasBankGroup() || p.UPIID != "" || p.CardNumber != ""
}
