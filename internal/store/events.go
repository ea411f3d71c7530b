package store

import "github.com/google/uuid"

// EventKind names the kind of change a store mutation made.
type EventKind int

const (
	CollectionsAdded EventKind = iota + 1
	CollectionEdited
	CollectionDeleted
	CardsAdded
	CardEdited
	CardDeleted
	CardsMoved
	CardToggled
	CardDeferred
)

var eventKindNames = map[EventKind]string{
	CollectionsAdded:  "collections_added",
	CollectionEdited:  "collection_edited",
	CollectionDeleted: "collection_deleted",
	CardsAdded:        "cards_added",
	CardEdited:        "card_edited",
	CardDeleted:       "card_deleted",
	CardsMoved:        "cards_moved",
	CardToggled:       "card_toggled",
	CardDeferred:      "card_deferred",
}

func (k EventKind) String() string {
	if name, ok := eventKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Event describes one observable state transition.
// CollectionID is set for every event that concerns a single collection.
// IDs lists the created, changed or removed records; for CollectionDeleted it
// holds the IDs of the cards removed with the collection.
type Event struct {
	Kind         EventKind
	CollectionID uuid.UUID
	IDs          []uuid.UUID
}

type subscriber struct {
	id int
	fn func(Event)
}

// Subscribe registers fn to be called after every mutation, in registration
// order. Calls happen after the store lock is released, so fn may read from
// the store. The returned func removes the subscription.
func (s *Store) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	s.nextSubID++
	id := s.nextSubID
	s.subscribers = append(s.subscribers, subscriber{id: id, fn: fn})

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		for i, sub := range s.subscribers {
			if sub.id == id {
				s.subscribers = append(s.subscribers[:i:i], s.subscribers[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) notify(e Event) {
	s.subMu.Lock()
	subs := make([]subscriber, len(s.subscribers))
	copy(subs, s.subscribers)
	s.subMu.Unlock()

	s.logger.Debug("store changed", "kind", e.Kind.String(), "collection_id", e.CollectionID, "count", len(e.IDs))
	for _, sub := range subs {
		sub.fn(e)
	}
}
