package handlers

import (
	"context"
	"errors"

	domainerrors "sharkfund/internal/errors"
	"sharkfund/internal/models"
	"sharkfund/internal/services/wallet"
	"sharkfund/internal/utils"
	"sharkfund/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// PayoutDetailReader resolves a user's payout destination. Satisfied by
// the user service.
type PayoutDetailReader interface {
	GetPaymentDetail(ctx context.Context, userID uint) (*models.PaymentDetail, error)
}

type WalletHandler struct {
	walletService wallet.Service
	payoutDetails PayoutDetailReader
}

func NewWalletHandler(walletService wallet.Service, payoutDetails PayoutDetailReader) *WalletHandler {
	return &WalletHandler{
		walletService: walletService,
		payoutDetails: payoutDetails,
	}
}

func (h *WalletHandler) GetWallet(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	snapshot, err := h.walletService.GetSnapshot(c.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, wallet.ErrWalletNotFound) {
			return utils.NotFound(c, err.Error())
		}
		return utils.InternalError(c, "Failed to get wallet")
	}

	return utils.Success(c, fiber.Map{
		"wallet": snapshot,
	})
}

func (h *WalletHandler) Deposit(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input struct {
		Amount decimal.Decimal `json:"amount"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}

	w, err := h.walletService.GetWallet(c.Context(), claims.UserID)
	if err != nil {
		return utils.NotFound(c, "Wallet not found")
	}

	txn, err := h.walletService.Deposit(c.Context(), w.ID, input.Amount)
	if err != nil {
		return walletError(c, err)
	}

	return utils.Success(c, fiber.Map{
		"message":     "Deposit recorded",
		"transaction": txn,
	})
}

func (h *WalletHandler) Withdraw(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input struct {
		Amount decimal.Decimal `json:"amount"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}

	// A withdrawal needs somewhere to go.
	detail, err := h.payoutDetails.GetPaymentDetail(c.Context(), claims.UserID)
	if err != nil || !detail.HasCompleteMethod() {
		return utils.BadRequest(c, "A complete payment method is required before withdrawing")
	}

	w, err := h.walletService.GetWallet(c.Context(), claims.UserID)
	if err != nil {
		return utils.NotFound(c, "Wallet not found")
	}

	txn, err := h.walletService.Withdraw(c.Context(), w.ID, input.Amount)
	if err != nil {
		return walletError(c, err)
	}

	return utils.Success(c, fiber.Map{
		"message":     "Withdrawal recorded",
		"transaction": txn,
	})
}

func (h *WalletHandler) GetTransactionHistory(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	w, err := h.walletService.GetWallet(c.Context(), claims.UserID)
	if err != nil {
		return utils.NotFound(c, "Wallet not found")
	}

	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)
	txType := c.Query("type")

	txs, err := h.walletService.GetTransactionHistory(c.Context(), w.ID, txType, limit, offset)
	if err != nil {
		return utils.InternalError(c, "Failed to get transaction history")
	}

	return utils.Success(c, fiber.Map{
		"transactions": txs,
		"limit":        limit,
		"offset":       offset,
	})
}

// RecordIncome credits an ad-hoc income transaction into a user's
// wallet (admin only).
func (h *WalletHandler) RecordIncome(c *fiber.Ctx) error {
	var input struct {
		UserID      uint            `json:"user_id" validate:"required"`
		Amount      decimal.Decimal `json:"amount"`
		Description string          `json:"description"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}
	if err := validation.Validate.Struct(input); err != nil {
		return utils.BadRequest(c, err.Error())
	}

	w, err := h.walletService.GetWallet(c.Context(), input.UserID)
	if err != nil {
		return utils.NotFound(c, "Wallet not found")
	}

	txn, err := h.walletService.RecordIncome(c.Context(), w.ID, input.Amount, input.Description)
	if err != nil {
		return walletError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"transaction": txn,
		},
	})
}

// SetTransactionStatus is the admin transition endpoint for ledger rows.
func (h *WalletHandler) SetTransactionStatus(c *fiber.Ctx) error {
	txID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid transaction id")
	}

	var input struct {
		Status string `json:"status" validate:"required"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}
	if err := validation.Validate.Struct(input); err != nil {
		return utils.BadRequest(c, err.Error())
	}

	if err := h.walletService.SetTransactionStatus(c.Context(), txID, input.Status); err != nil {
		if errors.Is(err, wallet.ErrInvalidStatus) {
			return utils.BadRequest(c, err.Error())
		}
		if errors.Is(err, wallet.ErrTransactionNotFound) {
			return utils.NotFound(c, err.Error())
		}
		return walletError(c, err)
	}

	return utils.Success(c, fiber.Map{
		"message": "Transaction status updated",
	})
}

// DeleteTransaction always reports success; ledger rows are immutable
// and the attempt is only logged.
func (h *WalletHandler) DeleteTransaction(c *fiber.Ctx) error {
	txID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid transaction id")
	}

	if err := h.walletService.DeleteTransaction(c.Context(), txID); err != nil {
		return utils.InternalError(c, err.Error())
	}

	return utils.Success(c, fiber.Map{
		"message": "Transaction delete recorded as no-op",
	})
}

// Recompute re-derives a wallet's aggregates from its ledger.
func (h *WalletHandler) Recompute(c *fiber.Ctx) error {
	walletID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid wallet id")
	}

	snapshot, err := h.walletService.Recompute(c.Context(), walletID)
	if err != nil {
		return walletError(c, err)
	}

	return utils.Success(c, fiber.Map{
		"wallet": snapshot,
	})
}

func walletError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domainerrors.ErrInvalidAmount):
		return utils.BadRequest(c, err.Error())
	case errors.Is(err, domainerrors.ErrInsufficientFunds):
		return utils.BadRequest(c, err.Error())
	case errors.Is(err, domainerrors.ErrWalletNotFound), errors.Is(err, wallet.ErrWalletNotFound):
		return utils.NotFound(c, err.Error())
	default:
		return utils.InternalError(c, err.Error())
	}
}
