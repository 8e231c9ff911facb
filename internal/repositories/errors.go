package repositories

import "errors"

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrWalletNotFound        = errors.New("wallet not found")
	ErrTransactionNotFound   = errors.New("transaction not found")
	ErrMonthlyIncomeNotFound = errors.New("monthly income batch not found")
	ErrDuplicateMonth        = errors.New("monthly income batch already exists")
	ErrPaymentDetailNotFound = errors.New("payment detail not found")
	ErrDatabaseOperation     = errors.New("database operation failed")
)
