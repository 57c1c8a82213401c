package api

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/ruckboard/backend/internal/api/handlers"
	"github.com/ruckboard/backend/internal/config"
	"github.com/ruckboard/backend/internal/middleware"
	"github.com/ruckboard/backend/internal/ws"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, db *sqlx.DB, rdb *redis.Client, cfg *config.Config) {
	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.WebSocketCORSCheck(cfg))

	// CRITICAL: No-cache middleware MUST be first in development
	if cfg.Environment != "production" {
		router.Use(func(c *gin.Context) {
			// Aggressive no-cache for development
			c.Header("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
			c.Header("Pragma", "no-cache")
			c.Header("Expires", "0")
			c.Next()
		})
		log.Println("[DEV MODE] Aggressive no-cache headers enabled for all routes")
	}

	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Health check (also available at /api/v1/health)
		v1.GET("/health", handlers.HealthCheck)

		// Coach authentication
		v1.POST("/auth/login", handlers.Login(db, cfg))

		// Board sessions
		session := v1.Group("/sessions")
		{
			session.POST("", handlers.CreateSession(cfg))
			session.GET("/:token", handlers.GetSession())
			session.POST("/:token/save", handlers.SaveSessionPlay(db))
			session.GET("/:token/ws", ws.HandleBoardWebSocket)
		}

		// Play library (coach only)
		plays := v1.Group("/plays")
		plays.Use(handlers.RequireCoach(cfg))
		{
			plays.POST("", handlers.CreatePlay(db))
			plays.GET("", handlers.ListPlays(db))
			plays.GET("/:id", handlers.GetPlay(db))
			plays.DELETE("/:id", handlers.DeletePlay(db))
			plays.PUT("/:id/move", handlers.MovePlay(db))
		}

		// Folders (coach only)
		folders := v1.Group("/folders")
		folders.Use(handlers.RequireCoach(cfg))
		{
			folders.POST("", handlers.CreateFolder(db))
			folders.GET("", handlers.ListFolders(db))
			folders.PUT("/:id", handlers.RenameFolder(db))
			folders.DELETE("/:id", handlers.DeleteFolder(db))
		}
	}
}
