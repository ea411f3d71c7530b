package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestPairTrimmed(t *testing.T) {
	testCases := []struct {
		name       string
		pair       Pair
		expected   Pair
		expectedOK bool
	}{
		{"both sides", Pair{" hola ", "hello\n"}, Pair{"hola", "hello"}, true},
		{"empty front", Pair{"", "world"}, Pair{"", "world"}, false},
		{"whitespace back", Pair{"q", " \t "}, Pair{"q", ""}, false},
		{"both empty", Pair{}, Pair{}, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := tc.pair.Trimmed()
			if ok != tc.expectedOK {
				t.Errorf("Expected ok to be %v, but got %v", tc.expectedOK, ok)
			}
			if got != tc.expected {
				t.Errorf("Expected pair %+v, but got %+v", tc.expected, got)
			}
		})
	}
}

func TestNewCard(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	collectionID := uuid.New()

	card := NewCard(collectionID, "front", "back", now)

	if card.ID == uuid.Nil {
		t.Error("Expected a generated ID, but got uuid.Nil")
	}
	if card.CollectionID != collectionID {
		t.Errorf("Expected collection ID %s, but got %s", collectionID, card.CollectionID)
	}
	if card.IsDone {
		t.Error("Expected a new card not to be done")
	}
	if !card.DueAt.Equal(now.Add(24 * time.Hour)) {
		t.Errorf("Expected due date one day after creation, but got %v", card.DueAt)
	}
}
