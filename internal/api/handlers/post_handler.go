package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/contentflow/internal/projection"
	"github.com/maheshrc27/contentflow/internal/service"
	"github.com/maheshrc27/contentflow/internal/transfer"
)

type PostHandler struct {
	s      service.PostService
	window time.Duration
	now    func() time.Time
}

func NewPostHandler(service service.PostService, notificationWindow time.Duration) *PostHandler {
	return &PostHandler{s: service, window: notificationWindow, now: time.Now}
}

func (h *PostHandler) SavePost(c *fiber.Ctx) error {
	var req transfer.SavePostRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	posts, err := h.s.Save(c.Context(), req.PostDraft, req.Platforms, req.EditingIDs, GetActor(c))
	if err != nil {
		return respondError(c, err)
	}

	status := fiber.StatusCreated
	if len(req.EditingIDs) > 0 {
		status = fiber.StatusOK
	}
	return c.Status(status).JSON(posts)
}

func (h *PostHandler) UpdatePosts(c *fiber.Ctx) error {
	var req transfer.UpdatePostsRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if len(req.IDs) == 0 {
		return badRequest(c, "No posts selected")
	}

	if err := h.s.Update(c.Context(), req.IDs, req.Fields, GetActor(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *PostHandler) TransitionPosts(c *fiber.Ctx) error {
	var req transfer.TransitionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if len(req.IDs) == 0 {
		return badRequest(c, "No posts selected")
	}

	if err := h.s.Transition(c.Context(), req.IDs, req.Status, GetActor(c), req.Feedback); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *PostHandler) AddComment(c *fiber.Ctx) error {
	var req transfer.CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	comment, err := h.s.AddComment(c.Context(), c.Params("id"), GetActor(c), req.Text, req.IsInternal)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

func (h *PostHandler) GetPost(c *fiber.Ctx) error {
	post, err := h.s.Get(c.Context(), c.Params("id"), GetActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(post)
}

func (h *PostHandler) ListPosts(c *fiber.Ctx) error {
	posts, err := h.s.List(c.Context(), GetActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(posts)
}

// GroupedPosts serves the dashboard board: one card per cross-platform group
// plus the campaign names available to the filter.
func (h *PostHandler) GroupedPosts(c *fiber.Ctx) error {
	actor := GetActor(c)
	posts, err := h.s.List(c.Context(), actor)
	if err != nil {
		return respondError(c, err)
	}

	filter := projection.Filter{
		Search:    c.Query("search"),
		Status:    c.Query("status", projection.All),
		Client:    c.Query("client", projection.All),
		Campaign:  c.Query("campaign", projection.All),
		TrashView: c.QueryBool("trash", false),
	}
	return c.JSON(fiber.Map{
		"groups":    projection.Group(posts, filter, actor),
		"campaigns": projection.Campaigns(posts, actor),
	})
}

func (h *PostHandler) Notifications(c *fiber.Ctx) error {
	actor := GetActor(c)
	posts, err := h.s.List(c.Context(), actor)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(projection.Notifications(posts, actor, h.now(), h.window))
}

func (h *PostHandler) WipePosts(c *fiber.Ctx) error {
	trashedOnly := c.QueryBool("trashedOnly", true)

	deleted, err := h.s.Wipe(c.Context(), GetActor(c), trashedOnly)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(transfer.WipeResponse{Deleted: deleted})
}
