// Package errors defines the domain error values surfaced by the
// ledger core. Errors carry a stable code plus a human message so the
// transport layer can map them without string matching.
package errors

import "fmt"

type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

var (
	ErrInvalidAmount = &DomainError{
		Code:    "INVALID_AMOUNT",
		Message: "amount must be at least 0.01",
	}
	ErrInsufficientFunds = &DomainError{
		Code:    "INSUFFICIENT_FUNDS",
		Message: "insufficient wallet balance",
	}
	ErrDuplicateMonth = &DomainError{
		Code:    "DUPLICATE_MONTH",
		Message: "monthly income batch already exists for this month",
	}
	ErrInsufficientBalanceForReversal = &DomainError{
		Code:    "INSUFFICIENT_BALANCE_FOR_REVERSAL",
		Message: "wallet balance too low to reverse this batch",
	}
	ErrCycleDetected = &DomainError{
		Code:    "CYCLE_DETECTED",
		Message: "referral graph contains a cycle",
	}
	ErrWalletNotFound = &DomainError{
		Code:    "WALLET_NOT_FOUND",
		Message: "wallet not found",
	}
)
