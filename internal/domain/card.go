package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DeferInterval is how far a new card's due date sits past its creation, and
// how far DeferCard pushes it.
const DeferInterval = 24 * time.Hour

// Card is a single front/back entry belonging to a collection.
// IsDone and DueAt are persisted but no scheduler reads them.
type Card struct {
	ID           uuid.UUID `json:"id"`
	CollectionID uuid.UUID `json:"collectionId"`
	Front        string    `json:"front"`
	Back         string    `json:"back"`
	IsDone       bool      `json:"isDone"`
	DueAt        time.Time `json:"dueAt"`
}

// NewCard creates a card for the given collection with a fresh ID.
func NewCard(collectionID uuid.UUID, front, back string, now time.Time) Card {
	return Card{
		ID:           uuid.New(),
		CollectionID: collectionID,
		Front:        front,
		Back:         back,
		DueAt:        now.Add(DeferInterval),
	}
}

// Pair is user-submitted card content before it becomes a Card.
type Pair struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// Trimmed returns the pair with surrounding whitespace removed from both sides
// and reports whether both sides are still non-empty.
func (p Pair) Trimmed() (Pair, bool) {
	t := Pair{
		Front: strings.TrimSpace(p.Front),
		Back:  strings.TrimSpace(p.Back),
	}
	return t, t.Front != "" && t.Back != ""
}
