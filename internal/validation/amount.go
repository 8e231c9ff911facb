package validation

import (
	"sharkfund/internal/errors"

	"github.com/shopspring/decimal"
)

// MinTransactionAmount is the smallest amount accepted by any ledger
// mutation. The bound is applied uniformly before anything is written.
var MinTransactionAmount = decimal.RequireFromString("0.01")

// ValidateAmount rejects amounts below the minimum.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThan(MinTransactionAmount) {
		return errors.ErrInvalidAmount
	}
	return nil
}
