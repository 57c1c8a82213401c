package handlers

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"github.com/ruckboard/backend/internal/config"
	"github.com/ruckboard/backend/internal/models"
)

// Login verifies a coach's credentials and issues a JWT.
func Login(db *sqlx.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email    string `json:"email" binding:"required"`
			Password string `json:"password" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email and password required"})
			return
		}

		email := strings.ToLower(strings.TrimSpace(req.Email))

		var coach models.Coach
		err := db.Get(&coach, `SELECT id, email, display_name, password_hash, created_at, updated_at FROM coaches WHERE email=$1`, email)
		if err != nil {
			if err == sql.ErrNoRows {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
				return
			}
			log.Printf("[AUTH] Login lookup failed for %s: %v", email, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		if bcrypt.CompareHashAndPassword([]byte(coach.PasswordHash), []byte(req.Password)) != nil {
			log.Printf("[AUTH] Password verification failed for %s", email)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}

		exp := time.Now().Add(time.Duration(cfg.TokenTTLMinutes) * time.Minute)
		claims := jwt.MapClaims{
			"coach_id": coach.ID,
			"email":    coach.Email,
			"exp":      exp.Unix(),
		}
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		signed, err := token.SignedString([]byte(cfg.JWTSecret))
		if err != nil {
			log.Printf("[AUTH] Failed to sign token for %s: %v", email, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		log.Printf("[AUTH] Coach %d logged in", coach.ID)
		c.JSON(http.StatusOK, gin.H{
			"token":        signed,
			"expires_at":   exp,
			"coach_id":     coach.ID,
			"display_name": coach.DisplayName,
		})
	}
}

// RequireCoach validates the Authorization bearer token and stores the
// coach id in the request context.
func RequireCoach(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}
		tokenStr := strings.TrimPrefix(header, "Bearer ")

		parsed, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
			if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !parsed.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		claims, ok := parsed.Claims.(jwt.MapClaims)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		coachID, ok := claims["coach_id"].(float64)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set("coach_id", int(coachID))
		c.Next()
	}
}

// CreateCoachAccount creates or updates a coach account with a bcrypt-hashed
// password. Used by the seed command.
func CreateCoachAccount(db *sqlx.DB, email, displayName, plainPassword string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plainPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO coaches (email, display_name, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (email) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			password_hash = EXCLUDED.password_hash,
			updated_at = NOW()
	`, strings.ToLower(strings.TrimSpace(email)), displayName, string(hashed))

	return err
}
