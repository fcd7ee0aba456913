package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered person. Users are immutable after registration.
// Email is stored lowercased and is unique.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
