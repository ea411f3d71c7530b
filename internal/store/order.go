package store

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/conorfennell/cardb/internal/domain"
)

// SortOrder selects how SortedCollections orders its result.
type SortOrder int

const (
	NewestFirst SortOrder = iota
	OldestFirst
	TitleAscending
	TitleDescending
)

// ParseSortOrder maps the names used by the HTTP layer to a SortOrder.
// The empty string means NewestFirst.
func ParseSortOrder(s string) (SortOrder, error) {
	switch strings.ToLower(s) {
	case "", "newest":
		return NewestFirst, nil
	case "oldest":
		return OldestFirst, nil
	case "az":
		return TitleAscending, nil
	case "za":
		return TitleDescending, nil
	}
	return 0, fmt.Errorf("unknown sort order %q", s)
}

// SortedCollections returns a copy of the collection list in the given order.
// Title ordering ignores case. Ties keep insertion order.
func (s *Store) SortedCollections(order SortOrder) []domain.Collection {
	items := s.Collections()

	byTitle := func(a, b domain.Collection) int {
		return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
	}

	switch order {
	case OldestFirst:
		slices.SortStableFunc(items, func(a, b domain.Collection) int {
			return a.CreatedAt.Compare(b.CreatedAt)
		})
	case TitleAscending:
		slices.SortStableFunc(items, byTitle)
	case TitleDescending:
		slices.SortStableFunc(items, func(a, b domain.Collection) int {
			return cmp.Compare(0, byTitle(a, b))
		})
	default:
		slices.SortStableFunc(items, func(a, b domain.Collection) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		})
	}
	return items
}
