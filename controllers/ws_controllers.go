package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/imprimerie/print-shop-app/events"
	"github.com/imprimerie/print-shop-app/utils"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Cross-origin policy is enforced by the CORS middleware upstream.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type WSController struct {
	Hub *events.Hub
}

func NewWSController(hub *events.Hub) *WSController {
	return &WSController{Hub: hub}
}

// Serve upgrades the request and parks the connection on the hub. The read
// loop only drains control frames; all traffic is server to client.
func (wc *WSController) Serve(c *gin.Context) {
	userID, role := currentUser(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.ErrorLogger.Printf("Websocket upgrade failed for user %d: %v", userID, err)
		return
	}

	wc.Hub.RegisterClient(conn, userID, role)
	utils.InfoLogger.Printf("Websocket connected: user %d (%s)", userID, role)

	go func() {
		defer wc.Hub.UnregisterClient(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
