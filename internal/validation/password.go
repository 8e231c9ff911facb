package validation

import "errors"

var (
	ErrPasswordTooShort = errors.New("password must be at least 8 characters long")
	ErrPasswordMismatch = errors.New("passwords do not match")
)

// ValidatePassword enforces the registration password rules.
func ValidatePassword(password, confirm string) error {
	if len(password) < 8 {
		return ErrPasswordTooShort
	}
	if password != confirm {
		return ErrPasswordMismatch
	}
	return nil
}
