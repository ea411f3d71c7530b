// Package store is the single source of truth for collections and cards.
//
// Every mutating operation updates the in-memory lists and then writes the
// full affected list to its durable slot before returning. Operations never
// report errors: invalid input and unknown IDs are silent no-ops, and storage
// failures are logged and swallowed. The in-memory state stays authoritative
// and the next successful write reconciles storage.
package store

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/conorfennell/cardb/internal/domain"
)

const defaultWriteTimeout = 5 * time.Second

// Store owns the collection and card lists.
type Store struct {
	mu          sync.Mutex
	collections []domain.Collection
	cards       []domain.Card

	collectionSlot slot[domain.Collection]
	cardSlot       slot[domain.Card]

	subMu       sync.Mutex
	subscribers []subscriber
	nextSubID   int

	logger       *slog.Logger
	clock        func() time.Time
	writeTimeout time.Duration
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for persistence failures and change traces.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithClock overrides the time source used for createdAt and dueAt.
func WithClock(clock func() time.Time) Option {
	return func(s *Store) { s.clock = clock }
}

// WithWriteTimeout bounds each durable write.
func WithWriteTimeout(d time.Duration) Option {
	return func(s *Store) { s.writeTimeout = d }
}

// New loads both lists from kv and returns a ready store. A slot that is
// missing or cannot be decoded starts out empty.
func New(ctx context.Context, kv KV, opts ...Option) *Store {
	s := &Store{
		collectionSlot: slot[domain.Collection]{kv: kv, key: CollectionsKey},
		cardSlot:       slot[domain.Card]{kv: kv, key: CardsKey},
		logger:         slog.Default(),
		clock:          time.Now,
		writeTimeout:   defaultWriteTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With("component", "store")

	var err error
	if s.collections, err = s.collectionSlot.load(ctx); err != nil {
		s.logger.Warn("Starting with no collections", "error", err)
	}
	if s.cards, err = s.cardSlot.load(ctx); err != nil {
		s.logger.Warn("Starting with no cards", "error", err)
	}
	s.logger.Info("Store loaded", "collections", len(s.collections), "cards", len(s.cards))
	return s
}

func (s *Store) now() time.Time {
	return s.clock().UTC().Round(0)
}

// saveCollections and saveCards must be called with s.mu held.
func (s *Store) saveCollections() {
	ctx, cancel := context.WithTimeout(context.Background(), s.writeTimeout)
	defer cancel()
	if err := s.collectionSlot.save(ctx, s.collections); err != nil {
		s.logger.Warn("Failed to persist collections", "error", err)
	}
}

func (s *Store) saveCards() {
	ctx, cancel := context.WithTimeout(context.Background(), s.writeTimeout)
	defer cancel()
	if err := s.cardSlot.save(ctx, s.cards); err != nil {
		s.logger.Warn("Failed to persist cards", "error", err)
	}
}

// Collections returns a copy of the collection list in insertion order.
func (s *Store) Collections() []domain.Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.collections)
}

// Collection looks up a collection by ID.
func (s *Store) Collection(id uuid.UUID) (domain.Collection, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.collectionIndex(id)
	if i < 0 {
		return domain.Collection{}, false
	}
	return s.collections[i], true
}

// AllCards returns a copy of the global card list.
func (s *Store) AllCards() []domain.Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.cards)
}

// Card looks up a card by ID.
func (s *Store) Card(id uuid.UUID) (domain.Card, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.cardIndex(id)
	if i < 0 {
		return domain.Card{}, false
	}
	return s.cards[i], true
}

// Cards returns the cards of one collection in their current order.
func (s *Store) Cards(collectionID uuid.UUID) []domain.Card {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Card
	for _, c := range s.cards {
		if c.CollectionID == collectionID {
			out = append(out, c)
		}
	}
	return out
}

// CardCount reports how many cards belong to a collection.
func (s *Store) CardCount(collectionID uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.cards {
		if c.CollectionID == collectionID {
			n++
		}
	}
	return n
}

// AddCollections appends one collection per title that is non-empty after
// trimming, in input order, and returns them. Nothing is written when no title
// survives.
func (s *Store) AddCollections(titles []string) []domain.Collection {
	now := s.now()
	var created []domain.Collection
	for _, title := range titles {
		t := strings.TrimSpace(title)
		if t == "" {
			continue
		}
		created = append(created, domain.NewCollection(t, now))
	}
	if len(created) == 0 {
		return nil
	}

	s.mu.Lock()
	s.collections = append(s.collections, created...)
	s.saveCollections()
	s.mu.Unlock()

	ids := make([]uuid.UUID, len(created))
	for i, c := range created {
		ids[i] = c.ID
	}
	s.notify(Event{Kind: CollectionsAdded, IDs: ids})
	return created
}

// EditCollectionTitle renames a collection. Unknown IDs, titles that are
// empty after trimming and unchanged titles are no-ops.
func (s *Store) EditCollectionTitle(id uuid.UUID, newTitle string) {
	title := strings.TrimSpace(newTitle)
	if title == "" {
		return
	}

	s.mu.Lock()
	i := s.collectionIndex(id)
	if i < 0 || s.collections[i].Title == title {
		s.mu.Unlock()
		return
	}
	s.collections[i].Title = title
	s.saveCollections()
	s.mu.Unlock()

	s.notify(Event{Kind: CollectionEdited, CollectionID: id, IDs: []uuid.UUID{id}})
}

// DeleteCollection removes a collection together with all of its cards as a
// single change.
func (s *Store) DeleteCollection(id uuid.UUID) {
	s.mu.Lock()
	i := s.collectionIndex(id)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	s.collections = slices.Delete(s.collections, i, i+1)

	var removed []uuid.UUID
	s.cards = slices.DeleteFunc(s.cards, func(c domain.Card) bool {
		if c.CollectionID == id {
			removed = append(removed, c.ID)
			return true
		}
		return false
	})
	s.saveCollections()
	if len(removed) > 0 {
		s.saveCards()
	}
	s.mu.Unlock()

	s.notify(Event{Kind: CollectionDeleted, CollectionID: id, IDs: removed})
}

// AddCards appends a card for every pair whose front and back are both
// non-empty after trimming, and returns the created cards. The collection ID
// is not checked against the collection list. Nothing is written when no pair
// survives.
func (s *Store) AddCards(collectionID uuid.UUID, pairs []domain.Pair) []domain.Card {
	now := s.now()
	var created []domain.Card
	for _, p := range pairs {
		t, ok := p.Trimmed()
		if !ok {
			continue
		}
		created = append(created, domain.NewCard(collectionID, t.Front, t.Back, now))
	}
	if len(created) == 0 {
		return nil
	}

	s.mu.Lock()
	s.cards = append(s.cards, created...)
	s.saveCards()
	s.mu.Unlock()

	ids := make([]uuid.UUID, len(created))
	for i, c := range created {
		ids[i] = c.ID
	}
	s.notify(Event{Kind: CardsAdded, CollectionID: collectionID, IDs: ids})
	return created
}

// EditCard replaces a card's front and back. Unknown IDs, content with an
// empty side after trimming and unchanged content are no-ops.
func (s *Store) EditCard(id uuid.UUID, newFront, newBack string) {
	p, ok := domain.Pair{Front: newFront, Back: newBack}.Trimmed()
	if !ok {
		return
	}

	s.mu.Lock()
	i := s.cardIndex(id)
	if i < 0 || (s.cards[i].Front == p.Front && s.cards[i].Back == p.Back) {
		s.mu.Unlock()
		return
	}
	s.cards[i].Front = p.Front
	s.cards[i].Back = p.Back
	collectionID := s.cards[i].CollectionID
	s.saveCards()
	s.mu.Unlock()

	s.notify(Event{Kind: CardEdited, CollectionID: collectionID, IDs: []uuid.UUID{id}})
}

// DeleteCard removes a card.
func (s *Store) DeleteCard(id uuid.UUID) {
	s.mu.Lock()
	i := s.cardIndex(id)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	collectionID := s.cards[i].CollectionID
	s.cards = slices.Delete(s.cards, i, i+1)
	s.saveCards()
	s.mu.Unlock()

	s.notify(Event{Kind: CardDeleted, CollectionID: collectionID, IDs: []uuid.UUID{id}})
}

// ToggleCardDone flips a card's done flag.
func (s *Store) ToggleCardDone(id uuid.UUID) {
	s.mu.Lock()
	i := s.cardIndex(id)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	s.cards[i].IsDone = !s.cards[i].IsDone
	collectionID := s.cards[i].CollectionID
	s.saveCards()
	s.mu.Unlock()

	s.notify(Event{Kind: CardToggled, CollectionID: collectionID, IDs: []uuid.UUID{id}})
}

// DeferCard pushes a card's due date back by domain.DeferInterval.
func (s *Store) DeferCard(id uuid.UUID) {
	s.mu.Lock()
	i := s.cardIndex(id)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	s.cards[i].DueAt = s.cards[i].DueAt.Add(domain.DeferInterval)
	collectionID := s.cards[i].CollectionID
	s.saveCards()
	s.mu.Unlock()

	s.notify(Event{Kind: CardDeferred, CollectionID: collectionID, IDs: []uuid.UUID{id}})
}

// MoveCards reorders the cards of one collection. from and to are positions
// within that collection's cards, not the global list; to is where the moved
// cards start in the result. Cards of other collections keep their global
// positions. Out-of-range positions make the call a no-op.
func (s *Store) MoveCards(collectionID uuid.UUID, from []int, to int) {
	s.mu.Lock()
	var positions []int
	for i, c := range s.cards {
		if c.CollectionID == collectionID {
			positions = append(positions, i)
		}
	}

	order, ok := reorder(len(positions), from, to)
	if !ok {
		s.mu.Unlock()
		return
	}

	reordered := make([]domain.Card, len(order))
	for i, p := range order {
		reordered[i] = s.cards[positions[p]]
	}
	ids := make([]uuid.UUID, len(reordered))
	for i, pos := range positions {
		s.cards[pos] = reordered[i]
		ids[i] = reordered[i].ID
	}
	s.saveCards()
	s.mu.Unlock()

	s.notify(Event{Kind: CardsMoved, CollectionID: collectionID, IDs: ids})
}

func (s *Store) collectionIndex(id uuid.UUID) int {
	return slices.IndexFunc(s.collections, func(c domain.Collection) bool { return c.ID == id })
}

func (s *Store) cardIndex(id uuid.UUID) int {
	return slices.IndexFunc(s.cards, func(c domain.Card) bool { return c.ID == id })
}
