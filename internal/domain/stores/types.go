package stores

import (
	"time"

	"github.com/google/uuid"
)

// Store is a tenant of the back office, owned by one identity-provider user.
type Store struct {
	ID        uuid.UUID `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
