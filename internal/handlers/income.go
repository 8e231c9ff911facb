package handlers

import (
	"errors"

	domainerrors "sharkfund/internal/errors"
	"sharkfund/internal/services/income"
	"sharkfund/internal/utils"
	"sharkfund/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type IncomeHandler struct {
	incomeService income.Service
}

func NewIncomeHandler(incomeService income.Service) *IncomeHandler {
	return &IncomeHandler{
		incomeService: incomeService,
	}
}

// ApplyBatch records one monthly payout batch for a user (admin only).
func (h *IncomeHandler) ApplyBatch(c *fiber.Ctx) error {
	var input struct {
		UserID        uint            `json:"user_id" validate:"required"`
		Month         string          `json:"month" validate:"required,len=7"`
		MonthlyPayout decimal.Decimal `json:"monthly_payout"`
		MonthlyIncome decimal.Decimal `json:"monthly_income"`
		TotalIncome   decimal.Decimal `json:"total_income"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}
	if err := validation.Validate.Struct(input); err != nil {
		return utils.BadRequest(c, err.Error())
	}

	batch, err := h.incomeService.ApplyBatch(c.Context(), input.UserID, input.Month,
		input.MonthlyPayout, input.MonthlyIncome, input.TotalIncome)
	if err != nil {
		switch {
		case errors.Is(err, domainerrors.ErrDuplicateMonth):
			return utils.Conflict(c, err.Error())
		case errors.Is(err, domainerrors.ErrInvalidAmount):
			return utils.BadRequest(c, err.Error())
		default:
			return utils.InternalError(c, err.Error())
		}
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"batch": batch,
		},
	})
}

// ReverseBatch undoes a previously applied batch (admin only).
func (h *IncomeHandler) ReverseBatch(c *fiber.Ctx) error {
	batchID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid batch id")
	}

	if err := h.incomeService.ReverseBatch(c.Context(), batchID); err != nil {
		switch {
		case errors.Is(err, income.ErrBatchNotFound):
			return utils.NotFound(c, err.Error())
		case errors.Is(err, income.ErrBatchReversed):
			return utils.Conflict(c, err.Error())
		case errors.Is(err, domainerrors.ErrInsufficientBalanceForReversal):
			return utils.BadRequest(c, err.Error())
		default:
			return utils.InternalError(c, err.Error())
		}
	}

	return utils.Success(c, fiber.Map{
		"message": "Batch reversed",
	})
}

// ListMine returns the caller's payout batch history.
func (h *IncomeHandler) ListMine(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	batches, err := h.incomeService.ListByUser(c.Context(), claims.UserID)
	if err != nil {
		return utils.InternalError(c, "Failed to list income batches")
	}

	return utils.Success(c, fiber.Map{
		"batches": batches,
	})
}
