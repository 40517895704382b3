package handler

import (
	"prompt-library-be/internal/pkg/logger"
	internalWS "prompt-library-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// FeedHandler exposes the live library feed over websocket.
type FeedHandler struct {
	hub    *internalWS.Hub
	logger logger.ILogger
}

func NewFeedHandler(hub *internalWS.Hub, log logger.ILogger) *FeedHandler {
	return &FeedHandler{hub: hub, logger: log}
}

func (h *FeedHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/ws", h.ServeWs)
	r.Get("/ws/status", h.Status)
}

// ServeWs upgrades the request and streams every library event to the peer.
func (h *FeedHandler) ServeWs(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	sessionID := uuid.NewString()
	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Info("FeedHandler", "Starting WebSocket session", logger.Fields{"session_id": sessionID})
		internalWS.ServeWs(h.hub, conn)
		h.logger.Info("FeedHandler", "WebSocket session ended", logger.Fields{"session_id": sessionID})
	})(c)
}

// Status reports how many feed clients this instance holds.
func (h *FeedHandler) Status(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"clients": h.hub.ClientCount()})
}
