package websocket

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleWebSocket upgrades an admin dashboard connection and keeps it
// registered until the peer goes away. JWT auth already ran in middleware,
// so every accepted socket gets the event stream.
func HandleWebSocket(c echo.Context, hub *Hub) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	client := NewClient(conn)
	hub.register <- client

	conn.WriteJSON(Event{
		Type:    "connected",
		Message: "WebSocket connection established",
	})

	go func() {
		defer func() {
			hub.unregister <- client
		}()

		for {
			// Drain control and ping traffic; clients never send data.
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()

	return nil
}
