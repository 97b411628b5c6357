package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"example.com/finwise/backend/internal/events"
)

type EventHandler struct {
	Hub *events.Hub
}

// NewEventHandler создает SSE-обработчик ленты активности.
func NewEventHandler(hub *events.Hub) *EventHandler {
	return &EventHandler{Hub: hub}
}

// Stream открывает SSE-поток событий активности.
func (h *EventHandler) Stream(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderContentType, "text/event-stream")
	c.Response().Header().Set(echo.HeaderCacheControl, "no-cache")
	c.Response().Header().Set(echo.HeaderConnection, "keep-alive")
	c.Response().WriteHeader(http.StatusOK)

	flusher, ok := c.Response().Writer.(http.Flusher)
	if !ok {
		return serverError(c)
	}

	ch, unsubscribe := h.Hub.Subscribe()
	defer unsubscribe()

	_ = writeSSE(c, events.Event{Type: "connected"})
	flusher.Flush()

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-ch:
			if !ok {
				return nil
			}
			if err := writeSSE(c, event); err != nil {
				return nil
			}
			flusher.Flush()
		}
	}
}
