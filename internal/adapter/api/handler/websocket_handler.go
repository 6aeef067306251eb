package handler

import (
	"net/http"

	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	ws "github.com/rohit30san/thapar-olx/internal/infrastructure/websocket"
	"github.com/rohit30san/thapar-olx/pkg/errors"
	"github.com/rohit30san/thapar-olx/pkg/logger"
	"github.com/rohit30san/thapar-olx/pkg/response"
)

type WebSocketHandler struct {
	wsManager      *ws.Manager
	messageHandler *ws.MessageHandler
	upgrader       gorillaws.Upgrader
}

func NewWebSocketHandler(wsManager *ws.Manager, messageHandler *ws.MessageHandler) *WebSocketHandler {
	return &WebSocketHandler{
		wsManager:      wsManager,
		messageHandler: messageHandler,
		upgrader: gorillaws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// HandleWebSocket upgrades an authenticated request into a feed connection.
func (h *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	actor := actorOf(c)
	if actor == nil {
		return response.Error(c, errors.Unauthorized("Authentication required", nil))
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logger.Error("WebSocket upgrade failed for %s: %v", actor.ID, err)
		return nil
	}

	client := ws.NewClient(actor, conn)
	h.wsManager.Register <- client

	go client.WritePump()
	go client.ReadPump(h.wsManager, h.messageHandler.HandleClientMessage)

	return nil
}
