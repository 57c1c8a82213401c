package engine

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/ruckboard/backend/internal/config"
)

// BoardSession is one live design board: an engine plus activity bookkeeping
// used by the expiry worker.
type BoardSession struct {
	Token        string
	Engine       *Engine
	CreatedAt    time.Time
	LastActivity time.Time
}

// BoardManager owns all active board sessions.
type BoardManager struct {
	sessions map[string]*BoardSession // keyed by session token
	rdb      *redis.Client
	db       *sqlx.DB
	config   *config.Config
	mu       sync.RWMutex
}

// Manager is the global board manager instance.
var Manager *BoardManager

// InitializeManager initializes the global board manager with DB, Redis and
// config, and starts the session expiry checker.
func InitializeManager(db *sqlx.DB, rdb *redis.Client, cfg *config.Config) {
	Manager = NewBoardManager(db, rdb, cfg)
	go Manager.StartExpiryChecker()
}

// NewBoardManager creates a new board manager.
func NewBoardManager(db *sqlx.DB, rdb *redis.Client, cfg *config.Config) *BoardManager {
	return &BoardManager{
		sessions: make(map[string]*BoardSession),
		rdb:      rdb,
		db:       db,
		config:   cfg,
	}
}

// generateToken generates a secure random token.
func generateToken(length int) string {
	bytes := make([]byte, length)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}

// GetConfig exposes the manager's config to collaborators.
func (bm *BoardManager) GetConfig() *config.Config {
	return bm.config
}

// DB exposes the manager's database handle.
func (bm *BoardManager) DB() *sqlx.DB {
	return bm.db
}

// CreateSession opens a new board session for a canvas size.
func (bm *BoardManager) CreateSession(width, height float64) *BoardSession {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	now := time.Now()
	s := &BoardSession{
		Token:        generateToken(8),
		Engine:       NewEngine(width, height),
		CreatedAt:    now,
		LastActivity: now,
	}
	bm.sessions[s.Token] = s

	log.Printf("[BOARD] Session %s created (canvas %.0fx%.0f)", s.Token, width, height)
	return s
}

// GetSessionByToken resolves a session, falling back to Redis when this
// instance does not hold it in memory (restart recovery).
func (bm *BoardManager) GetSessionByToken(token string) (*BoardSession, error) {
	bm.mu.RLock()
	s, ok := bm.sessions[token]
	bm.mu.RUnlock()
	if ok {
		return s, nil
	}

	s, err := bm.loadSessionFromRedis(token)
	if err != nil {
		return nil, errors.New("session not found")
	}

	bm.mu.Lock()
	bm.sessions[token] = s
	bm.mu.Unlock()
	log.Printf("[BOARD] Session %s restored from Redis", token)
	return s, nil
}

// Touch records activity on a session and refreshes its Redis copy.
func (bm *BoardManager) Touch(token string) {
	bm.mu.Lock()
	s, ok := bm.sessions[token]
	if ok {
		s.LastActivity = time.Now()
	}
	bm.mu.Unlock()

	if ok {
		if err := bm.saveSessionToRedis(s); err != nil {
			log.Printf("[BOARD] Failed to save session %s to Redis: %v", token, err)
		}
	}
}

// RemoveSession drops a session, stopping any playback loop it owns.
func (bm *BoardManager) RemoveSession(token string) {
	bm.mu.Lock()
	s, ok := bm.sessions[token]
	if ok {
		delete(bm.sessions, token)
	}
	bm.mu.Unlock()

	if ok {
		s.Engine.PausePlayback()
		if bm.rdb != nil {
			bm.rdb.Del(context.Background(), "board:"+token+":state")
		}
		log.Printf("[BOARD] Session %s removed", token)
	}
}

// ActiveSessionCount returns the number of live sessions.
func (bm *BoardManager) ActiveSessionCount() int {
	bm.mu.RLock()
	defer bm.mu.RUnlock()
	return len(bm.sessions)
}

// sessionRecord is the Redis-serialized form of a board session. Only the
// durable parts are kept: geometry, the recorded timeline and the counters.
// Drag state and playback timers are transient and never persisted.
type sessionRecord struct {
	Token        string     `json:"token"`
	CanvasWidth  float64    `json:"canvas_width"`
	CanvasHeight float64    `json:"canvas_height"`
	KeyFrames    []KeyFrame `json:"keyframes"`
	TouchCount   int        `json:"touch_count"`
	CreatedAt    time.Time  `json:"created_at"`
}

func (bm *BoardManager) saveSessionToRedis(s *BoardSession) error {
	if bm.rdb == nil {
		return nil // No Redis client, skip
	}

	f := s.Engine.Field()
	rec := sessionRecord{
		Token:        s.Token,
		CanvasWidth:  f.Width,
		CanvasHeight: f.Height,
		KeyFrames:    s.Engine.RecordedKeyFrames(),
		TouchCount:   s.Engine.TouchCount(),
		CreatedAt:    s.CreatedAt,
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	ctx := context.Background()
	key := "board:" + s.Token + ":state"
	return bm.rdb.SetEx(ctx, key, data, time.Hour).Err()
}

func (bm *BoardManager) loadSessionFromRedis(token string) (*BoardSession, error) {
	if bm.rdb == nil {
		return nil, errors.New("no redis client")
	}

	ctx := context.Background()
	data, err := bm.rdb.Get(ctx, "board:"+token+":state").Result()
	if err == redis.Nil {
		return nil, errors.New("session not found in redis")
	}
	if err != nil {
		return nil, err
	}

	var rec sessionRecord
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, err
	}

	eng := NewEngine(rec.CanvasWidth, rec.CanvasHeight)
	if len(rec.KeyFrames) > 0 {
		if err := eng.LoadPlay(rec.KeyFrames); err != nil {
			return nil, err
		}
	}

	return &BoardSession{
		Token:        rec.Token,
		Engine:       eng,
		CreatedAt:    rec.CreatedAt,
		LastActivity: time.Now(),
	}, nil
}

// StartExpiryChecker periodically drops sessions idle past the configured
// expiry and publishes a board_events notice so connected viewers learn
// about it.
func (bm *BoardManager) StartExpiryChecker() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		bm.checkExpiredSessions()
	}
}

func (bm *BoardManager) checkExpiredSessions() {
	expiry := 120
	if bm.config != nil && bm.config.SessionExpiryMinutes > 0 {
		expiry = bm.config.SessionExpiryMinutes
	}
	cutoff := time.Now().Add(-time.Duration(expiry) * time.Minute)

	bm.mu.Lock()
	var expired []*BoardSession
	for token, s := range bm.sessions {
		if s.LastActivity.Before(cutoff) {
			expired = append(expired, s)
			delete(bm.sessions, token)
		}
	}
	bm.mu.Unlock()

	for _, s := range expired {
		s.Engine.PausePlayback()
		log.Printf("[BOARD] Session %s expired (idle since %s)", s.Token, s.LastActivity.Format(time.RFC3339))

		if bm.rdb != nil {
			payload, _ := json.Marshal(map[string]interface{}{
				"type":          "session_expired",
				"session_token": s.Token,
				"message":       "Board session expired due to inactivity",
			})
			if err := bm.rdb.Publish(context.Background(), "board_events", payload).Err(); err != nil {
				log.Printf("[BOARD] Failed to publish expiry event for %s: %v", s.Token, err)
			}
		}
	}
}
