package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/contentflow/internal/models"
	"github.com/maheshrc27/contentflow/internal/service"
)

type FinanceHandler struct {
	s service.FinanceService
}

func NewFinanceHandler(service service.FinanceService) *FinanceHandler {
	return &FinanceHandler{s: service}
}

func (h *FinanceHandler) ListServices(c *fiber.Ctx) error {
	items, err := h.s.ListServices(c.Context(), GetActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(items)
}

func (h *FinanceHandler) SaveService(c *fiber.Ctx) error {
	var req models.ServiceItem
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	req.ID = c.Params("id")

	item, err := h.s.SaveService(c.Context(), req, GetActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(item)
}

func (h *FinanceHandler) RemoveService(c *fiber.Ctx) error {
	if err := h.s.RemoveService(c.Context(), c.Params("id"), GetActor(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *FinanceHandler) ListInvoices(c *fiber.Ctx) error {
	invoices, err := h.s.ListInvoices(c.Context(), c.Query("client"), GetActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(invoices)
}

func (h *FinanceHandler) GetInvoice(c *fiber.Ctx) error {
	inv, err := h.s.GetInvoice(c.Context(), c.Params("id"), GetActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"invoice": inv,
		"total":   inv.Total(),
	})
}

func (h *FinanceHandler) SaveInvoice(c *fiber.Ctx) error {
	var req models.Invoice
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	req.ID = c.Params("id")

	inv, err := h.s.SaveInvoice(c.Context(), req, GetActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(inv)
}

func (h *FinanceHandler) RemoveInvoice(c *fiber.Ctx) error {
	if err := h.s.RemoveInvoice(c.Context(), c.Params("id"), GetActor(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
