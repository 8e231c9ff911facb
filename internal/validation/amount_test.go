package validation

import (
	"testing"

	domainerrors "sharkfund/internal/errors"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestValidateAmount(t *testing.T) {
	tests := []struct {
		name    string
		amount  string
		wantErr bool
	}{
		{"minimum accepted", "0.01", false},
		{"above minimum", "500", false},
		{"below minimum", "0.009", true},
		{"zero", "0", true},
		{"negative", "-10", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAmount(decimal.RequireFromString(tt.amount))
			if tt.wantErr {
				assert.ErrorIs(t, err, domainerrors.ErrInvalidAmount)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateMobileNumber(t *testing.T) {
	assert.NoError(t, ValidateMobileNumber(""))
	assert.NoError(t, ValidateMobileNumber("+919876543210"))
	assert.NoError(t, ValidateMobileNumber("987654"))
	assert.ErrorIs(t, ValidateMobileNumber("12345"), ErrInvalidMobileNumber)
	assert.ErrorIs(t, ValidateMobileNumber("98-76-54"), ErrInvalidMobileNumber)
	assert.ErrorIs(t, ValidateMobileNumber("+"), ErrInvalidMobileNumber)
}
