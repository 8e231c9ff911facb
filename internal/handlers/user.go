package handlers

import (
	"errors"
	"strconv"

	domainerrors "sharkfund/internal/errors"
	"sharkfund/internal/models"
	"sharkfund/internal/services/referral"
	"sharkfund/internal/services/user"
	"sharkfund/internal/utils"
	"sharkfund/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService     user.Service
	referralService referral.Service
}

func NewUserHandler(userService user.Service, referralService referral.Service) *UserHandler {
	return &UserHandler{
		userService:     userService,
		referralService: referralService,
	}
}

func (h *UserHandler) Register(c *fiber.Ctx) error {
	var input struct {
		Email           string `json:"email" validate:"required,email"`
		Password        string `json:"password" validate:"required,min=8"`
		ConfirmPassword string `json:"confirm_password" validate:"required"`
		Address         string `json:"address"`
		MobileNumber    string `json:"mobile_number"`
		ReferralCode    string `json:"referral_code"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}
	if err := validation.Validate.Struct(input); err != nil {
		return utils.BadRequest(c, err.Error())
	}

	created, err := h.userService.Register(c.Context(), &user.RegisterInput{
		Email:           input.Email,
		Password:        input.Password,
		ConfirmPassword: input.ConfirmPassword,
		Address:         input.Address,
		MobileNumber:    input.MobileNumber,
		ReferralCode:    input.ReferralCode,
	})
	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			return utils.Conflict(c, err.Error())
		}
		return utils.BadRequest(c, err.Error())
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"id":       created.ID,
			"username": created.Username,
			"email":    created.Email,
			"status":   created.Status,
		},
	})
}

func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	u, err := h.userService.GetByID(claims.UserID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return utils.NotFound(c, err.Error())
		}
		return utils.InternalError(c, "Failed to get profile")
	}

	return utils.Success(c, fiber.Map{
		"id":            u.ID,
		"username":      u.Username,
		"email":         u.Email,
		"address":       u.Address,
		"mobile_number": u.MobileNumber,
		"status":        u.Status,
		"join_date":     u.JoinDate,
	})
}

func (h *UserHandler) Activate(c *fiber.Ctx) error {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid user id")
	}

	if err := h.userService.Activate(c.Context(), userID); err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return utils.NotFound(c, err.Error())
		}
		return utils.InternalError(c, err.Error())
	}

	return utils.Success(c, fiber.Map{
		"message": "User activated",
	})
}

func (h *UserHandler) Deactivate(c *fiber.Ctx) error {
	userID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.BadRequest(c, "Invalid user id")
	}

	if err := h.userService.Deactivate(c.Context(), userID); err != nil {
		return utils.InternalError(c, err.Error())
	}

	return utils.Success(c, fiber.Map{
		"message": "User deactivated",
	})
}

func (h *UserHandler) ReferralStats(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	stats, err := h.referralService.Stats(c.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrCycleDetected) {
			return utils.Error(c, fiber.StatusConflict, err.Error())
		}
		return utils.InternalError(c, "Failed to compute referral stats")
	}

	return utils.Success(c, stats)
}

func (h *UserHandler) SavePaymentDetail(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var detail models.PaymentDetail
	if err := c.BodyParser(&detail); err != nil {
		return utils.BadRequest(c, "Invalid request format")
	}

	if err := h.userService.SavePaymentDetail(c.Context(), claims.UserID, &detail); err != nil {
		return utils.BadRequest(c, err.Error())
	}

	return utils.Success(c, fiber.Map{
		"message": "Payment detail saved",
	})
}

func (h *UserHandler) GetPaymentDetail(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	detail, err := h.userService.GetPaymentDetail(c.Context(), claims.UserID)
	if err != nil {
		return utils.NotFound(c, "Payment detail not found")
	}

	return utils.Success(c, detail)
}

func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
