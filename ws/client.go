package ws

import (
	"encoding/json"

	"photoflow_backend/internal/logger"

	"github.com/gorilla/websocket"
)

type IncomingWSMessage struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data"`
}

type Client struct {
	UserID string
	Conn   *websocket.Conn
	Send   chan OutgoingWSMessage

	Manager *WebSocketManager
}

func (c *Client) readPump() {
	defer func() {
		c.Manager.unregister <- c
		c.Conn.Close()
	}()

	for {
		_, msgBytes, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.WithError(err).Warn("WebSocket read error", "user_id", c.UserID)
			}
			break
		}

		var msg IncomingWSMessage
		if err := json.Unmarshal(msgBytes, &msg); err != nil {
			logger.WithError(err).Warn("Failed to parse ws message", "user_id", c.UserID)
			continue
		}

		c.handleMessage(msg)
	}
}

func (c *Client) writePump() {
	for msg := range c.Send {
		if err := c.Conn.WriteJSON(msg); err != nil {
			logger.WithError(err).Warn("WebSocket write error", "user_id", c.UserID)
			break
		}
	}
}

// Централизованный обработчик
func (c *Client) handleMessage(msg IncomingWSMessage) {
	switch msg.Action {

	case "refresh":
		// Клиент может явно запросить свежий снимок
		c.Manager.sendSnapshot(c)

	default:
		logger.Debug("Unhandled ws action", "action", msg.Action, "user_id", c.UserID)
	}
}
