package domain

import "time"

// Session is the persisted server-side anchor for a token pair. Tokens
// stay bearer-shaped; revoking the session is what actually ends them.
type Session struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"ownerId"`
	UserAgent *string   `json:"userAgent,omitempty"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
