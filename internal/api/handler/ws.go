package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// dev backend: any origin may subscribe
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWebSocket upgrades an authenticated request and streams bus events to it.
func (h *Handler) ServeWebSocket(c *gin.Context) {
	if h.Hub == nil {
		fail(c, http.StatusServiceUnavailable, "Event stream unavailable")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WARNING: websocket upgrade failed for %s: %v", claimsFrom(c).Subject, err)
		return
	}
	h.Hub.Serve(conn)
}
