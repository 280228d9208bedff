package handlers

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/lumacrm/backend/internal/infrastructure/events"
	"github.com/lumacrm/backend/internal/infrastructure/logger"
)

// RealtimeHandler relays task.created events from the tasks channel to
// connected websocket clients.
type RealtimeHandler struct {
	events *events.Client
	logger *logger.Logger
}

func NewRealtimeHandler(events *events.Client, logger *logger.Logger) *RealtimeHandler {
	return &RealtimeHandler{events: events, logger: logger}
}

func (h *RealtimeHandler) Handle(c *websocket.Conn) {
	defer c.Close()

	// Buffered so a slow client drops events instead of blocking the
	// publisher side.
	msgs := make(chan []byte, 16)
	sub, err := h.events.SubscribeTaskCreated(func(data []byte) {
		select {
		case msgs <- data:
		default:
			h.logger.Warnw("realtime_client_slow_dropping")
		}
	})
	if err != nil {
		h.logger.Errorw("realtime_subscribe_failed", "error", err)
		return
	}
	defer sub.Unsubscribe()

	h.logger.Infow("realtime_client_connected")

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			h.logger.Infow("realtime_client_disconnected")
			return
		case data := <-msgs:
			if err := c.WriteMessage(websocket.TextMessage, data); err != nil {
				h.logger.Warnw("realtime_write_failed", "error", err)
				return
			}
		}
	}
}
