package handlers

import (
	"bufio"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/contentflow/internal/realtime"
	"github.com/maheshrc27/contentflow/pkg/logging"
	"go.uber.org/zap"
)

const liveHeartbeat = 25 * time.Second

type LiveHandler struct {
	hub *realtime.Hub
	log *zap.Logger
}

func NewLiveHandler(hub *realtime.Hub) *LiveHandler {
	return &LiveHandler{hub: hub, log: logging.WithComponent("live")}
}

// Stream is a Server-Sent Events feed. Every committed change produces a
// payload-less "refresh" event; viewers re-read what they need.
func (h *LiveHandler) Stream(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	signals, leave := h.hub.Join()
	userID := GetUserID(c)

	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer leave()
		ticker := time.NewTicker(liveHeartbeat)
		defer ticker.Stop()

		if _, err := w.WriteString("retry: 3000\n\n"); err != nil || w.Flush() != nil {
			return
		}
		for {
			var frame string
			select {
			case <-h.hub.Done():
				return
			case <-signals:
				frame = "event: refresh\ndata: {}\n\n"
			case <-ticker.C:
				frame = ": ping\n\n"
			}
			if _, err := w.WriteString(frame); err != nil {
				return
			}
			if err := w.Flush(); err != nil {
				h.log.Debug("viewer disconnected", zap.String("user_id", userID))
				return
			}
		}
	})
	return nil
}
