package events

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/imprimerie/print-shop-app/models"
	"github.com/imprimerie/print-shop-app/utils"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

type client struct {
	userID uint
	role   string
}

// Hub tracks connected websocket clients by user and role and fans events out
// to them. It is constructed once in main and handed to the services that
// emit events; nothing reaches for it as a package global.
type Hub struct {
	clients map[*websocket.Conn]client
	mutex   sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]client),
	}
}

// RegisterClient adds a connection for the given user.
func (h *Hub) RegisterClient(conn *websocket.Conn, userID uint, role string) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	h.clients[conn] = client{userID: userID, role: role}
}

// UnregisterClient drops a connection and closes it.
func (h *Hub) UnregisterClient(conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	delete(h.clients, conn)
	conn.Close()
}

// EmitToUser sends an event to every connection of one user.
func (h *Hub) EmitToUser(userID uint, event string, payload interface{}) {
	h.send(Message{Event: event, Data: payload}, func(c client) bool {
		return c.userID == userID
	})
}

// EmitToAdmins sends an event to every connected administrator.
func (h *Hub) EmitToAdmins(event string, payload interface{}) {
	h.send(Message{Event: event, Data: payload}, func(c client) bool {
		return c.role == models.RoleAdmin
	})
}

// Broadcast sends an event to every connected client.
func (h *Hub) Broadcast(event string, payload interface{}) {
	h.send(Message{Event: event, Data: payload}, func(client) bool { return true })
}

func (h *Hub) send(msg Message, match func(client) bool) {
	data, err := json.Marshal(msg)
	if err != nil {
		if utils.ErrorLogger != nil {
			utils.ErrorLogger.Printf("error marshaling %s event: %v", msg.Event, err)
		}
		return
	}

	h.mutex.Lock()
	defer h.mutex.Unlock()

	for conn, c := range h.clients {
		if !match(c) {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			// Dead connections are reaped by the read loop; just skip.
			if utils.ErrorLogger != nil {
				utils.ErrorLogger.Printf("error sending %s to user %d: %v", msg.Event, c.userID, err)
			}
		}
	}
}
