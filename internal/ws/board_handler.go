package ws

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/ruckboard/backend/internal/engine"
)

// Board message payloads
type PointerData struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type SpawnData struct {
	Team  int `json:"team"`
	Count int `json:"count"`
}

type RemoveData struct {
	Team int `json:"team"`
	Keep int `json:"keep"`
}

type TeamData struct {
	Team int `json:"team"`
}

type NumberData struct {
	ID     string `json:"id"`
	Number int    `json:"number"`
}

type SpeedData struct {
	Speed float64 `json:"speed"`
}

type LoadPlayData struct {
	PlayID int `json:"play_id"`
}

// BoardHub is the single hub for all board sessions.
var BoardHub *Hub

func init() {
	BoardHub = NewHub()
	go runBoardHub(BoardHub)
}

// boardSink broadcasts engine snapshots to every client on the session.
// Installed once per session; the engine invokes it synchronously after
// every mutating operation.
type boardSink struct {
	sessionToken string
}

func (s *boardSink) RenderBoard(snap engine.BoardSnapshot) {
	BoardHub.BroadcastToSession(s.sessionToken, map[string]interface{}{
		"type":  "board_state",
		"board": snap,
	})
}

func generateClientID() string {
	b := make([]byte, 6)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// HandleBoardWebSocket upgrades a connection onto a board session.
func HandleBoardWebSocket(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session token required"})
		return
	}

	session, err := engine.Manager.GetSessionByToken(token)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WS] Upgrade error: %v", err)
		return
	}

	client := &Client{
		conn:         conn,
		clientID:     generateClientID(),
		sessionToken: token,
		send:         make(chan []byte, 256),
	}

	// The sink is shared by every client of the session; installing it again
	// on reconnect is harmless.
	session.Engine.SetSink(&boardSink{sessionToken: token})

	BoardHub.register <- client

	go client.writePump()
	go client.readPump()
}

// runBoardHub tracks clients joining and leaving board rooms.
func runBoardHub(h *Hub) {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.clientID] = client
			if _, exists := h.boardRooms[client.sessionToken]; !exists {
				h.boardRooms[client.sessionToken] = make(map[string]*Client)
			}
			h.boardRooms[client.sessionToken][client.clientID] = client
			h.mu.Unlock()

			log.Printf("[WS] Client %s joined session %s", client.clientID, client.sessionToken)

			// New viewers get the current state immediately.
			if session, err := engine.Manager.GetSessionByToken(client.sessionToken); err == nil {
				h.SendToClient(client.clientID, map[string]interface{}{
					"type":  "board_state",
					"board": session.Engine.Snapshot(),
				})
			}

		case client := <-h.unregister:
			h.mu.Lock()
			if cur, ok := h.clients[client.clientID]; ok && cur == client {
				delete(h.clients, client.clientID)
				if room, exists := h.boardRooms[client.sessionToken]; exists {
					delete(room, client.clientID)
					if len(room) == 0 {
						delete(h.boardRooms, client.sessionToken)
					}
				}
				log.Printf("[WS] Client %s left session %s", client.clientID, client.sessionToken)

				select {
				case <-client.send:
				default:
					close(client.send)
				}
			}
			h.mu.Unlock()
		}
	}
}

// readPump reads board messages from one client.
func (c *Client) readPump() {
	defer func() {
		BoardHub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(1 << 20) // stored plays can run long
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error (unexpected) for client %s: %v", c.clientID, err)
			} else {
				log.Printf("WebSocket read error for client %s: %v", c.clientID, err)
			}
			break
		}

		var msg WSMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}

		c.handleMessage(message, msg)
	}
}

// handleMessage dispatches one board command. PLAY_START and PLAY_UPDATE are
// live-viewing relay messages: the hub rebroadcasts the raw bytes verbatim
// to the rest of the room without inspecting the payload.
func (c *Client) handleMessage(raw []byte, msg WSMessage) {
	session, err := engine.Manager.GetSessionByToken(c.sessionToken)
	if err != nil {
		c.sendError("Session not found")
		return
	}
	eng := session.Engine
	engine.Manager.Touch(c.sessionToken)

	switch msg.Type {
	case "pointer_down":
		var data PointerData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("Invalid pointer data")
			return
		}
		eng.PointerDown(data.X, data.Y)

	case "pointer_move":
		var data PointerData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("Invalid pointer data")
			return
		}
		eng.PointerMove(data.X, data.Y)

	case "pointer_up":
		eng.PointerUp()

	case "pointer_leave":
		eng.PointerLeave()

	case "spawn_tokens":
		var data SpawnData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("Invalid spawn data")
			return
		}
		// Clamp rather than reject; the cap is a policy, not an error.
		if data.Count < 1 {
			data.Count = 1
		}
		if data.Count > engine.MaxTeamSize {
			data.Count = engine.MaxTeamSize
		}
		eng.SpawnTokens(data.Team, data.Count)

	case "remove_players":
		var data RemoveData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("Invalid remove data")
			return
		}
		eng.RemovePlayersFromTeam(data.Team, data.Keep)

	case "default_positions":
		var data TeamData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("Invalid team data")
			return
		}
		eng.SetDefaultPositions(data.Team)

	case "set_player_number":
		var data NumberData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("Invalid number data")
			return
		}
		eng.SetPlayerNumber(data.ID, data.Number)

	case "toggle_recording":
		recording := eng.ToggleRecording()
		BoardHub.BroadcastToSession(c.sessionToken, map[string]interface{}{
			"type":      "recording_state",
			"recording": recording,
		})

	case "take_snapshot":
		if eng.TakeSnapshot() {
			BoardHub.BroadcastToSession(c.sessionToken, map[string]interface{}{
				"type":           "snapshot_taken",
				"keyframe_count": len(eng.RecordedKeyFrames()),
			})
		}

	case "increment_touch":
		count := eng.IncrementTouch()
		BoardHub.BroadcastToSession(c.sessionToken, map[string]interface{}{
			"type":        "touch_count",
			"touch_count": count,
		})

	case "load_play":
		var data LoadPlayData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("Invalid play data")
			return
		}
		c.handleLoadPlay(eng, data.PlayID)

	case "start_playback":
		eng.StartPlayback()
		c.sendPlaybackState(eng)

	case "pause_playback":
		eng.PausePlayback()
		c.sendPlaybackState(eng)

	case "reset_playback":
		eng.ResetPlayback()
		c.sendPlaybackState(eng)

	case "set_playback_speed":
		var data SpeedData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("Invalid speed data")
			return
		}
		eng.SetPlaybackSpeed(data.Speed)
		c.sendPlaybackState(eng)

	case "get_state":
		BoardHub.SendToClient(c.clientID, map[string]interface{}{
			"type":  "board_state",
			"board": eng.Snapshot(),
		})

	case "PLAY_START", "PLAY_UPDATE":
		BoardHub.BroadcastRaw(c.sessionToken, raw, c.clientID)

	default:
		c.sendError("Unknown message type")
	}
}

// handleLoadPlay fetches a stored play and hydrates the session from it.
func (c *Client) handleLoadPlay(eng *engine.Engine, playID int) {
	db := engine.Manager.DB()
	if db == nil {
		c.sendError("Persistence unavailable")
		return
	}

	var raw []byte
	if err := db.Get(&raw, `SELECT keyframes FROM plays WHERE id=$1`, playID); err != nil {
		log.Printf("[WS] load_play %d failed: %v", playID, err)
		c.sendError("Play not found")
		return
	}

	var keyframes []engine.KeyFrame
	if err := json.Unmarshal(raw, &keyframes); err != nil {
		log.Printf("[WS] load_play %d: bad keyframes payload: %v", playID, err)
		c.sendError("Play is corrupted")
		return
	}

	if err := eng.LoadPlay(keyframes); err != nil {
		c.sendError(err.Error())
		return
	}

	BoardHub.BroadcastToSession(c.sessionToken, map[string]interface{}{
		"type":           "play_loaded",
		"play_id":        playID,
		"keyframe_count": len(keyframes),
	})
}

func (c *Client) sendPlaybackState(eng *engine.Engine) {
	BoardHub.BroadcastToSession(c.sessionToken, map[string]interface{}{
		"type":   "playback_state",
		"active": eng.IsPlaybackActive(),
		"cursor": eng.PlaybackCursor(),
		"speed":  eng.PlaybackSpeed(),
	})
}
