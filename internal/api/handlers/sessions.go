package handlers

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/ruckboard/backend/internal/config"
	"github.com/ruckboard/backend/internal/engine"
)

// CreateSession opens a new board session. Canvas dimensions default from
// config when the client omits them.
func CreateSession(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			CanvasWidth  float64 `json:"canvas_width"`
			CanvasHeight float64 `json:"canvas_height"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			// Body is optional.
			req.CanvasWidth = 0
			req.CanvasHeight = 0
		}

		if req.CanvasWidth <= 0 {
			req.CanvasWidth = float64(cfg.DefaultCanvasWidth)
		}
		if req.CanvasHeight <= 0 {
			req.CanvasHeight = float64(cfg.DefaultCanvasHeight)
		}

		session := engine.Manager.CreateSession(req.CanvasWidth, req.CanvasHeight)

		c.JSON(http.StatusOK, gin.H{
			"session_token": session.Token,
			"canvas_width":  req.CanvasWidth,
			"canvas_height": req.CanvasHeight,
			"created_at":    session.CreatedAt,
		})
	}
}

// GetSession returns the current board snapshot for a session.
func GetSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Param("token")
		session, err := engine.Manager.GetSessionByToken(token)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"session_token": session.Token,
			"board":         session.Engine.Snapshot(),
			"created_at":    session.CreatedAt,
		})
	}
}

// SaveSessionPlay persists the session's recorded keyframes as a named play.
// This is the hand-off point between the recording engine and storage.
func SaveSessionPlay(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Param("token")
		session, err := engine.Manager.GetSessionByToken(token)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}

		var req struct {
			Name     string `json:"name" binding:"required"`
			Category string `json:"category"`
			FolderID *int   `json:"folder_id"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name required"})
			return
		}

		name := strings.TrimSpace(req.Name)
		if name == "" || len(name) > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid play name"})
			return
		}

		keyframes := session.Engine.RecordedKeyFrames()
		if len(keyframes) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "session has no recorded keyframes"})
			return
		}

		data, err := json.Marshal(keyframes)
		if err != nil {
			log.Printf("[BOARD] Failed to marshal keyframes for session %s: %v", token, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save play"})
			return
		}

		folderID := sql.NullInt64{}
		if req.FolderID != nil {
			folderID = sql.NullInt64{Int64: int64(*req.FolderID), Valid: true}
		}

		var id int
		err = db.QueryRowx(`
			INSERT INTO plays (name, category, folder_id, keyframes, created_at, updated_at)
			VALUES ($1, $2, $3, $4, NOW(), NOW()) RETURNING id
		`, name, req.Category, folderID, data).Scan(&id)
		if err != nil {
			log.Printf("[BOARD] Failed to save play for session %s: %v", token, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save play"})
			return
		}

		log.Printf("[BOARD] Session %s saved play %d (%d keyframes)", token, id, len(keyframes))
		c.JSON(http.StatusOK, gin.H{
			"id":             id,
			"name":           name,
			"keyframe_count": len(keyframes),
		})
	}
}
