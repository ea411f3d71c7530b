// Package study runs a sequential flip-card review over a snapshot of cards.
package study

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/conorfennell/cardb/internal/domain"
)

// Session walks a deck front side first, one card at a time.
// A Session is not safe for concurrent use.
type Session struct {
	deck      []domain.Card
	index     int
	backShown bool
	finished  bool
}

// NewSession snapshots cards. Later store changes do not affect the deck.
// An empty deck starts finished.
func NewSession(cards []domain.Card) *Session {
	return &Session{
		deck:     slices.Clone(cards),
		finished: len(cards) == 0,
	}
}

// Current returns the card under review.
func (s *Session) Current() (domain.Card, bool) {
	if s.index < 0 || s.index >= len(s.deck) {
		return domain.Card{}, false
	}
	return s.deck[s.index], true
}

// BackShown reports whether the current card is flipped.
func (s *Session) BackShown() bool { return s.backShown }

// Finished reports whether the session has run past its last card.
func (s *Session) Finished() bool { return s.finished }

// Len is the number of cards left in the deck.
func (s *Session) Len() int { return len(s.deck) }

// Index is the zero-based position of the current card.
func (s *Session) Index() int { return s.index }

// Progress renders the position as "i/n", or "0/0" for an empty deck.
func (s *Session) Progress() string {
	if len(s.deck) == 0 {
		return "0/0"
	}
	return fmt.Sprintf("%d/%d", s.index+1, len(s.deck))
}

// Advance shows the back of the current card, or, when it is already shown,
// moves on to the front of the next card. Advancing past the last card
// finishes the session.
func (s *Session) Advance() {
	if s.finished {
		return
	}
	if !s.backShown {
		s.backShown = true
		return
	}
	s.backShown = false
	if s.index+1 < len(s.deck) {
		s.index++
		return
	}
	s.finished = true
}

// DeleteCurrent drops the current card from the deck and passes its ID to
// remove, which typically deletes it from the store. The session finishes when
// the deck runs empty.
func (s *Session) DeleteCurrent(remove func(uuid.UUID)) {
	cur, ok := s.Current()
	if !ok {
		return
	}
	if remove != nil {
		remove(cur.ID)
	}
	s.deck = slices.DeleteFunc(s.deck, func(c domain.Card) bool { return c.ID == cur.ID })
	s.backShown = false
	if len(s.deck) == 0 {
		s.index = 0
		s.finished = true
		return
	}
	if s.index >= len(s.deck) {
		s.index = len(s.deck) - 1
	}
}

// Restart returns to the front of the first card.
func (s *Session) Restart() {
	s.index = 0
	s.backShown = false
	s.finished = len(s.deck) == 0
}
