package domain

import "time"

type Experience struct {
	ID           string     `json:"id"`
	Position     string     `json:"position"`
	Company      string     `json:"company"`
	City         string     `json:"city"`
	Country      string     `json:"country"`
	From         time.Time  `json:"from"`
	To           *time.Time `json:"to,omitempty"` // nil while the position is current
	Tasks        string     `json:"tasks"`
	Technologies []string   `json:"technologies"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}
