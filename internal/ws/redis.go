package ws

import (
	"context"
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/ruckboard/backend/internal/config"
)

var rdbClient *redis.Client
var wsConfig *config.Config

func SetRedisClient(r *redis.Client, cfg *config.Config) {
	rdbClient = r
	wsConfig = cfg
}

// StartBoardEventSubscriber subscribes to the board_events channel and
// rebroadcasts incoming events into the matching board room. Events arrive
// from background workers (session expiry) and from other instances.
func StartBoardEventSubscriber(ctx context.Context) {
	if rdbClient == nil {
		log.Println("[WS] Redis client not set; board event subscriber not started")
		return
	}

	pubsub := rdbClient.Subscribe(ctx, "board_events")
	ch := pubsub.Channel()
	go func() {
		log.Println("[WS] board_events subscriber started")
		for msg := range ch {
			var payload map[string]interface{}
			if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
				log.Printf("[WS] invalid board event payload: %v", err)
				continue
			}

			typeStr, _ := payload["type"].(string)
			sessionToken, _ := payload["session_token"].(string)
			if sessionToken == "" {
				log.Printf("[WS] board event missing session_token: type=%s", typeStr)
				continue
			}

			switch typeStr {
			case "session_expired":
				BoardHub.mu.RLock()
				if room, exists := BoardHub.boardRooms[sessionToken]; !exists {
					log.Printf("[WS] no room for session %s; expiry will not be broadcast", sessionToken)
				} else {
					log.Printf("[WS] broadcasting session_expired to %s (room_size=%d)", sessionToken, len(room))
				}
				BoardHub.mu.RUnlock()
				BoardHub.BroadcastToSession(sessionToken, map[string]interface{}{
					"type":    "session_expired",
					"message": payload["message"],
				})

			default:
				log.Printf("[WS] unknown board event type: %s", typeStr)
			}
		}
	}()
}
