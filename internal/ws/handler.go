package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in development
	},
}

// Client represents a connected WebSocket client on a board session.
type Client struct {
	conn         *websocket.Conn
	clientID     string
	sessionToken string
	send         chan []byte
}

// Hub maintains the set of active clients grouped by board session.
type Hub struct {
	clients    map[string]*Client            // clientID -> Client
	boardRooms map[string]map[string]*Client // sessionToken -> clientID -> Client
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a new Hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		boardRooms: make(map[string]map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// BroadcastToSession sends a message to every client on a board session.
func (h *Hub) BroadcastToSession(sessionToken string, message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return
	}
	h.BroadcastRaw(sessionToken, data, "")
}

// BroadcastRaw sends pre-encoded bytes to a session's clients, optionally
// excluding one client (used for verbatim relay back to everyone else).
func (h *Hub) BroadcastRaw(sessionToken string, data []byte, excludeClientID string) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if room, exists := h.boardRooms[sessionToken]; exists {
		for id, client := range room {
			if excludeClientID != "" && id == excludeClientID {
				continue
			}
			select {
			case client.send <- data:
			default:
				// Client's buffer is full
				log.Printf("Client send buffer full for %s on session %s, dropping message", id, sessionToken)
			}
		}
	}
}

// SendToClient sends a message to one client.
func (h *Hub) SendToClient(clientID string, message interface{}) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if client, exists := h.clients[clientID]; exists {
		select {
		case client.send <- data:
			// sent
		default:
			log.Printf("[WS] SendToClient dropped message for %s (buffer full)", clientID)
		}
	} else {
		log.Printf("[WS] SendToClient no client %s", clientID)
	}
}

// RoomSize reports how many clients a session currently has.
func (h *Hub) RoomSize(sessionToken string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.boardRooms[sessionToken])
}

// WSMessage is the envelope for all board messages.
type WSMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// writePump writes messages to the WebSocket connection
func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				// Channel closed — connection is being cleaned up.
				// Best-effort close frame; ignore errors (conn may already be closed).
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("WebSocket write error for client %s: %v", c.clientID, err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Printf("WebSocket ping error for client %s: %v", c.clientID, err)
				return
			}
		}
	}
}

// sendError sends an error message to the client
func (c *Client) sendError(message string) {
	data, _ := json.Marshal(map[string]interface{}{
		"type":    "error",
		"message": message,
	})
	select {
	case c.send <- data:
	default:
	}
}
