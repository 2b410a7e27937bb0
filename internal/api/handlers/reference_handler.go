package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/contentflow/internal/models"
	"github.com/maheshrc27/contentflow/internal/service"
)

type ReferenceHandler struct {
	s service.ReferenceService
}

func NewReferenceHandler(service service.ReferenceService) *ReferenceHandler {
	return &ReferenceHandler{s: service}
}

func (h *ReferenceHandler) ListClients(c *fiber.Ctx) error {
	clients, err := h.s.ListClients(c.Context(), GetActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(clients)
}

func (h *ReferenceHandler) CreateClient(c *fiber.Ctx) error {
	var req models.Client
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	client, err := h.s.CreateClient(c.Context(), req, GetActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(client)
}

func (h *ReferenceHandler) UpdateClient(c *fiber.Ctx) error {
	var req models.Client
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	req.ID = c.Params("id")
	if err := h.s.UpdateClient(c.Context(), req, GetActor(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(req)
}

func (h *ReferenceHandler) RemoveClient(c *fiber.Ctx) error {
	if err := h.s.RemoveClient(c.Context(), c.Params("id"), GetActor(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ReferenceHandler) ListCampaigns(c *fiber.Ctx) error {
	campaigns, err := h.s.ListCampaigns(c.Context(), c.Query("client"), GetActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(campaigns)
}

func (h *ReferenceHandler) CreateCampaign(c *fiber.Ctx) error {
	var req models.Campaign
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	campaign, err := h.s.CreateCampaign(c.Context(), req, GetActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(campaign)
}

func (h *ReferenceHandler) RemoveCampaign(c *fiber.Ctx) error {
	if err := h.s.RemoveCampaign(c.Context(), c.Params("id"), GetActor(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ReferenceHandler) ListTemplates(c *fiber.Ctx) error {
	templates, err := h.s.ListTemplates(c.Context(), GetActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(templates)
}

func (h *ReferenceHandler) CreateTemplate(c *fiber.Ctx) error {
	var req models.Template
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	template, err := h.s.CreateTemplate(c.Context(), req, GetActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(template)
}

func (h *ReferenceHandler) RemoveTemplate(c *fiber.Ctx) error {
	if err := h.s.RemoveTemplate(c.Context(), c.Params("id"), GetActor(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ReferenceHandler) ListSnippets(c *fiber.Ctx) error {
	snippets, err := h.s.ListSnippets(c.Context(), GetActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(snippets)
}

func (h *ReferenceHandler) CreateSnippet(c *fiber.Ctx) error {
	var req models.Snippet
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	snippet, err := h.s.CreateSnippet(c.Context(), req, GetActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(snippet)
}

func (h *ReferenceHandler) RemoveSnippet(c *fiber.Ctx) error {
	if err := h.s.RemoveSnippet(c.Context(), c.Params("id"), GetActor(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
