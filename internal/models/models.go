package models

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx/types"
)

// Coach represents an account that can manage plays and folders
type Coach struct {
	ID           int       `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	DisplayName  string    `db:"display_name" json:"display_name"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Folder is a named container for plays
type Folder struct {
	ID        int       `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
	PlayCount int       `db:"play_count" json:"play_count"`
}

// Play is a persisted keyframe sequence with metadata.
// KeyFrames is stored verbatim as JSONB; the API never rewrites the payload.
type Play struct {
	ID        int            `db:"id" json:"id"`
	Name      string         `db:"name" json:"name"`
	Category  string         `db:"category" json:"category"`
	FolderID  sql.NullInt64  `db:"folder_id" json:"folder_id,omitempty"`
	KeyFrames types.JSONText `db:"keyframes" json:"keyframes,omitempty"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt time.Time      `db:"updated_at" json:"updated_at"`
}
