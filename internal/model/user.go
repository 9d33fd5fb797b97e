package model

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	DisplayName  string    `json:"display_name"`
	AvatarPath   string    `json:"avatar_path"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
