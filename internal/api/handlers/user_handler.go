package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/contentflow/internal/policy"
	"github.com/maheshrc27/contentflow/internal/service"
	"github.com/maheshrc27/contentflow/internal/transfer"
)

type UserHandler struct {
	s service.UserService
}

func NewUserHandler(service service.UserService) *UserHandler {
	return &UserHandler{s: service}
}

// GetUserInfo returns the caller with the capabilities the UI gates on.
func (h *UserHandler) GetUserInfo(c *fiber.Ctx) error {
	userInfo, err := h.s.GetUserInfo(c.Context(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}

	role := userInfo.Role
	return c.JSON(fiber.Map{
		"user":      userInfo,
		"roleLabel": policy.Label(role),
		"permissions": fiber.Map{
			"canEdit":        policy.CanEdit(role),
			"canApprove":     policy.CanApprove(role),
			"canDelete":      policy.CanDelete(role),
			"canManageTeam":  policy.CanManageTeam(role),
			"canViewFinance": policy.CanViewFinance(role),
			"isInternal":     policy.IsInternal(role),
		},
	})
}

func (h *UserHandler) ListTeam(c *fiber.Ctx) error {
	users, err := h.s.ListTeam(c.Context(), GetActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(users)
}

func (h *UserHandler) CreateMember(c *fiber.Ctx) error {
	var req transfer.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	user, err := h.s.CreateMember(c.Context(), req, GetActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

func (h *UserHandler) UpdateMember(c *fiber.Ctx) error {
	var req transfer.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	user, err := h.s.UpdateMember(c.Context(), c.Params("id"), req, GetActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

func (h *UserHandler) RemoveMember(c *fiber.Ctx) error {
	if err := h.s.RemoveUser(c.Context(), c.Params("id"), GetActor(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
