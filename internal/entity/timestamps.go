// Package entity holds value components embedded by the domain entities.
package entity

import "time"

// Timestamps is embedded by value in every persisted entity.
type Timestamps struct {
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Touch stamps UpdatedAt, and CreatedAt when it was never set.
func (t *Timestamps) Touch(now time.Time) {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	t.UpdatedAt = now
}
