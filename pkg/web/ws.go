package web

import (
	"github.com/gofiber/websocket/v2"
)

// echoGreeting is sent to every client right after the upgrade.
const echoGreeting = "👋 Connected to WebSocket echo server. Send me something!"

// handleEchoWS greets the client, then echoes every text frame back
// prefixed with "Echo: " until the peer goes away.
func (s *Server) handleEchoWS(c *websocket.Conn) {
	s.logger.Info("websocket client connected", "remote", c.RemoteAddr().String())

	if err := c.WriteMessage(websocket.TextMessage, []byte(echoGreeting)); err != nil {
		s.logger.Warn("websocket greeting failed", "error", err)
		return
	}

	for {
		mt, msg, err := c.ReadMessage()
		if err != nil {
			s.logger.Info("websocket client disconnected", "remote", c.RemoteAddr().String())
			return
		}
		if mt != websocket.TextMessage {
			continue
		}
		if err := c.WriteMessage(websocket.TextMessage, []byte("Echo: "+string(msg))); err != nil {
			s.logger.Warn("websocket write failed", "error", err)
			return
		}
	}
}
