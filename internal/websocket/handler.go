package websocket

import (
	"github.com/gofiber/websocket/v2"
)

// ServeWs registers the connection and blocks until the client goes away.
func ServeWs(hub *Hub, c *websocket.Conn) {
	client := newClient(hub, c)
	if !hub.join(client) {
		c.Close()
		return
	}

	go client.writePump()
	client.readPump()
}
