package handlers

import (
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/ruckboard/backend/internal/models"
)

// CreatePlay stores a named keyframe sequence. The keyframes payload is
// persisted verbatim; the API only checks that it is a JSON array.
func CreatePlay(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Name      string          `json:"name" binding:"required"`
			Category  string          `json:"category"`
			FolderID  *int            `json:"folder_id"`
			KeyFrames json.RawMessage `json:"keyframes" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name and keyframes required"})
			return
		}

		name := strings.TrimSpace(req.Name)
		if name == "" || len(name) > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid play name"})
			return
		}

		var probe []json.RawMessage
		if err := json.Unmarshal(req.KeyFrames, &probe); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "keyframes must be a JSON array"})
			return
		}

		folderID := sql.NullInt64{}
		if req.FolderID != nil {
			folderID = sql.NullInt64{Int64: int64(*req.FolderID), Valid: true}
		}

		var id int
		err := db.QueryRowx(`
			INSERT INTO plays (name, category, folder_id, keyframes, created_at, updated_at)
			VALUES ($1, $2, $3, $4, NOW(), NOW()) RETURNING id
		`, name, req.Category, folderID, []byte(req.KeyFrames)).Scan(&id)
		if err != nil {
			log.Printf("[PLAYS] Failed to insert play %q: %v", name, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save play"})
			return
		}

		log.Printf("[PLAYS] Play %d created (%d keyframes)", id, len(probe))
		c.JSON(http.StatusOK, gin.H{
			"id":             id,
			"name":           name,
			"keyframe_count": len(probe),
		})
	}
}

// ListPlays returns play metadata, optionally filtered by folder.
func ListPlays(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var plays []models.Play
		var err error

		if folderStr := c.Query("folder_id"); folderStr != "" {
			folderID, convErr := strconv.Atoi(folderStr)
			if convErr != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid folder_id"})
				return
			}
			err = db.Select(&plays, `
				SELECT id, name, category, folder_id, created_at, updated_at
				FROM plays WHERE folder_id=$1 ORDER BY created_at DESC
			`, folderID)
		} else {
			err = db.Select(&plays, `
				SELECT id, name, category, folder_id, created_at, updated_at
				FROM plays ORDER BY created_at DESC
			`)
		}

		if err != nil {
			log.Printf("[PLAYS] Failed to list plays: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list plays"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"plays": plays})
	}
}

// GetPlay returns one play including its keyframes.
func GetPlay(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid play id"})
			return
		}

		var play models.Play
		err = db.Get(&play, `
			SELECT id, name, category, folder_id, keyframes, created_at, updated_at
			FROM plays WHERE id=$1
		`, id)
		if err != nil {
			if err == sql.ErrNoRows {
				c.JSON(http.StatusNotFound, gin.H{"error": "play not found"})
				return
			}
			log.Printf("[PLAYS] Failed to get play %d: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get play"})
			return
		}

		c.JSON(http.StatusOK, play)
	}
}

// DeletePlay removes a play.
func DeletePlay(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid play id"})
			return
		}

		res, err := db.Exec(`DELETE FROM plays WHERE id=$1`, id)
		if err != nil {
			log.Printf("[PLAYS] Failed to delete play %d: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete play"})
			return
		}
		if n, _ := res.RowsAffected(); n == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "play not found"})
			return
		}

		log.Printf("[PLAYS] Play %d deleted", id)
		c.JSON(http.StatusOK, gin.H{"deleted": true})
	}
}

// MovePlay reassigns a play to a folder; a null folder_id detaches it.
func MovePlay(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid play id"})
			return
		}

		var req struct {
			FolderID *int `json:"folder_id"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}

		folderID := sql.NullInt64{}
		if req.FolderID != nil {
			folderID = sql.NullInt64{Int64: int64(*req.FolderID), Valid: true}
		}

		res, err := db.Exec(`UPDATE plays SET folder_id=$1, updated_at=NOW() WHERE id=$2`, folderID, id)
		if err != nil {
			log.Printf("[PLAYS] Failed to move play %d: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to move play"})
			return
		}
		if n, _ := res.RowsAffected(); n == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "play not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"moved": true})
	}
}
