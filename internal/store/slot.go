package store

import (
	"context"
	"encoding/json"
	"fmt"
)

// Slot keys. The version suffix changes whenever the record shape does.
const (
	CollectionsKey = "saved_collections_v1"
	CardsKey       = "saved_cards_v1"
)

// KV is the durable key-value storage the store persists its lists to.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}

// slot is one durable record holding a full serialized list.
type slot[T any] struct {
	kv  KV
	key string
}

// load always returns a usable list. Missing data yields an empty list with
// no error; read or decode failures yield an empty list and the cause.
func (s slot[T]) load(ctx context.Context) ([]T, error) {
	data, err := s.kv.Get(ctx, s.key)
	if err != nil {
		return []T{}, fmt.Errorf("failed to read %s: %w", s.key, err)
	}
	if data == nil {
		return []T{}, nil
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		return []T{}, fmt.Errorf("failed to decode %s: %w", s.key, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// save serializes the whole list and overwrites the slot.
func (s slot[T]) save(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", s.key, err)
	}
	if err := s.kv.Put(ctx, s.key, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.key, err)
	}
	return nil
}
