// Package domain holds the collection and card records shared by every layer.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Collection is a named group of cards.
type Collection struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewCollection creates a collection with a fresh ID.
func NewCollection(title string, now time.Time) Collection {
	return Collection{
		ID:        uuid.New(),
		Title:     title,
		CreatedAt: now,
	}
}
