package handlers

import (
	"database/sql"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/ruckboard/backend/internal/models"
)

// CreateFolder adds a named container for plays.
func CreateFolder(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Name string `json:"name" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name required"})
			return
		}

		name := strings.TrimSpace(req.Name)
		if name == "" || len(name) > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid folder name"})
			return
		}

		var id int
		err := db.QueryRowx(`
			INSERT INTO folders (name, created_at, updated_at)
			VALUES ($1, NOW(), NOW()) RETURNING id
		`, name).Scan(&id)
		if err != nil {
			log.Printf("[FOLDERS] Failed to create folder %q: %v", name, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create folder"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"id": id, "name": name})
	}
}

// ListFolders returns all folders with their play counts.
func ListFolders(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var folders []models.Folder
		err := db.Select(&folders, `
			SELECT f.id, f.name, f.created_at, f.updated_at, COUNT(p.id) AS play_count
			FROM folders f
			LEFT JOIN plays p ON p.folder_id = f.id
			GROUP BY f.id
			ORDER BY f.name
		`)
		if err != nil {
			log.Printf("[FOLDERS] Failed to list folders: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list folders"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"folders": folders})
	}
}

// RenameFolder updates a folder's name.
func RenameFolder(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid folder id"})
			return
		}

		var req struct {
			Name string `json:"name" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "name required"})
			return
		}

		name := strings.TrimSpace(req.Name)
		if name == "" || len(name) > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid folder name"})
			return
		}

		res, err := db.Exec(`UPDATE folders SET name=$1, updated_at=NOW() WHERE id=$2`, name, id)
		if err != nil {
			log.Printf("[FOLDERS] Failed to rename folder %d: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to rename folder"})
			return
		}
		if n, _ := res.RowsAffected(); n == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "folder not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"renamed": true})
	}
}

// DeleteFolder removes a folder. Its plays are detached (folder_id set to
// NULL), never deleted.
func DeleteFolder(db *sqlx.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid folder id"})
			return
		}

		tx, err := db.Beginx()
		if err != nil {
			log.Printf("[FOLDERS] Failed to begin tx for folder %d delete: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete folder"})
			return
		}

		if _, err := tx.Exec(`UPDATE plays SET folder_id=NULL, updated_at=NOW() WHERE folder_id=$1`, id); err != nil {
			tx.Rollback()
			log.Printf("[FOLDERS] Failed to detach plays from folder %d: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete folder"})
			return
		}

		var res sql.Result
		if res, err = tx.Exec(`DELETE FROM folders WHERE id=$1`, id); err != nil {
			tx.Rollback()
			log.Printf("[FOLDERS] Failed to delete folder %d: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete folder"})
			return
		}
		if n, _ := res.RowsAffected(); n == 0 {
			tx.Rollback()
			c.JSON(http.StatusNotFound, gin.H{"error": "folder not found"})
			return
		}

		if err := tx.Commit(); err != nil {
			log.Printf("[FOLDERS] Commit failed for folder %d delete: %v", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete folder"})
			return
		}

		log.Printf("[FOLDERS] Folder %d deleted (plays detached)", id)
		c.JSON(http.StatusOK, gin.H{"deleted": true})
	}
}
