package domain

import "time"

type Team struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DisplayName prefers Name and falls back to ID.
func (t *Team) DisplayName() string {
	if t.Name != "" {
		return t.Name
	}
	return t.ID
}
