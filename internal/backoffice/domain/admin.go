package domain

import "time"

type Admin struct {
	ID           string    `json:"id"`
	Firstname    string    `json:"firstname"`
	Lastname     string    `json:"lastname"`
	Nickname     string    `json:"nickname,omitempty"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // bcrypt encoded, never serialized
	Role         Role      `json:"role"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
