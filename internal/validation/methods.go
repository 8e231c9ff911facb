package validation

import (
	"errors"
	"regexp"

	"sharkfund/internal/models"
)

var (
	ErrInvalidMobileNumber     = errors.New("mobile number must contain only digits and an optional '+' prefix")
	ErrIncompletePaymentDetail = errors.New("at least one complete payment method is required")
	ErrPartialBankDetail       = errors.New("bank details must be complete or empty")
)

var mobileNumberPattern = regexp.MustCompile(`^\+?[0-9]{6,15}$`)

// ValidateMobileNumber accepts an empty value; the field is optional.
func ValidateMobileNumber(mobile string) error {
	if mobile == "" {
		return nil
	}
	if !mobileNumberPattern.MatchString(mobile) {
		return ErrInvalidMobileNumber
	}
	return nil
}

// ValidatePaymentDetail rejects partially filled bank groups and
// requires at least one complete payout method.
func ValidatePaymentDetail(detail *models.PaymentDetail) error {
	if detail.HasPartialBankGroup() {
		return ErrPartialBankDetail
	}
	if !detail.HasCompleteMethod() {
		return ErrIncompletePaymentDetail
	}
	return nil
}
