package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/contentflow/internal/api/middleware"
	"github.com/maheshrc27/contentflow/internal/models"
	"github.com/maheshrc27/contentflow/internal/service"
	"github.com/maheshrc27/contentflow/pkg/logging"
	"go.uber.org/zap"
)

func GetUserID(c *fiber.Ctx) string {
	userID, _ := c.Locals(middleware.LocalUserID).(string)
	return userID
}

func GetActor(c *fiber.Ctx) models.Actor {
	actor, _ := c.Locals(middleware.LocalActor).(models.Actor)
	return actor
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": message,
	})
}

// respondError maps service errors onto HTTP statuses. Store failures are
// logged and reported without detail.
func respondError(c *fiber.Ctx, err error) error {
	var (
		ve *service.ValidationError
		be *service.BatchError
	)
	switch {
	case errors.As(err, &ve):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": ve.Message,
			"field": ve.Field,
		})
	case errors.As(err, &be):
		if status, sentinel := uniformFailure(be); sentinel != nil {
			return c.Status(status).JSON(fiber.Map{"error": sentinel.Error()})
		}
		failures := make(map[string]string, len(be.Failures))
		for id, ferr := range be.Failures {
			failures[id] = publicMessage(ferr)
		}
		return c.Status(fiber.StatusMultiStatus).JSON(fiber.Map{
			"error":    "some posts could not be updated",
			"failures": failures,
		})
	case errors.Is(err, service.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	}

	logging.WithComponent("http").Error("request failed",
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
		zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "something went wrong",
	})
}

// uniformFailure reports the status for a batch in which every id was
// refused for the same reason.
func uniformFailure(be *service.BatchError) (int, error) {
	if len(be.Failures) == 0 {
		return 0, nil
	}
	for _, sentinel := range []struct {
		err    error
		status int
	}{
		{service.ErrForbidden, fiber.StatusForbidden},
		{service.ErrNotFound, fiber.StatusNotFound},
	} {
		all := true
		for _, ferr := range be.Failures {
			if !errors.Is(ferr, sentinel.err) {
				all = false
				break
			}
		}
		if all {
			return sentinel.status, sentinel.err
		}
	}
	return 0, nil
}

func publicMessage(err error) string {
	var ve *service.ValidationError
	var pe *service.PersistenceError
	switch {
	case errors.As(err, &ve):
		return ve.Message
	case errors.As(err, &pe):
		logging.WithComponent("http").Error("batch item failed", zap.Error(err))
		return "something went wrong"
	case errors.Is(err, service.ErrForbidden), errors.Is(err, service.ErrNotFound):
		return err.Error()
	}
	return "something went wrong"
}
