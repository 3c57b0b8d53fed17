package mergepdf

import (
	"fmt"
	"slices"
	"sync"
)

// OrderedInputSet is a capacity-bounded, order-significant collection of
// sources keyed by ID. It is safe for concurrent use; the assembler only
// ever sees copies taken with Snapshot.
type OrderedInputSet struct {
	mu    sync.RWMutex
	max   int
	items []SourceItem
}

// NewOrderedInputSet creates an empty set holding at most limit items.
// A limit below 1 selects DefaultMaxSources.
func NewOrderedInputSet(limit int) *OrderedInputSet {
	if limit < 1 {
		limit = DefaultMaxSources
	}
	return &OrderedInputSet{max: limit, items: make([]SourceItem, 0, limit)}
}

// Add classifies a file and appends it to the set.
// Checks run in order: media type, capacity, duplicate ID.
// A rejected file never enters the set and an existing entry is never replaced.
func (s *OrderedInputSet) Add(id, mediaType string, data []byte) (SourceItem, error) {
	item, err := NewSourceItem(id, mediaType, data)
	if err != nil {
		return SourceItem{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.items) >= s.max {
		return SourceItem{}, fmt.Errorf("%w: %s (limit %d)", ErrCapacityExceeded, id, s.max)
	}
	if s.indexLocked(id) >= 0 {
		return SourceItem{}, fmt.Errorf("%w: %s", ErrDuplicateSource, id)
	}
	s.items = append(s.items, item)
	return item, nil
}

// Remove deletes the item with the given ID, keeping the order of the rest.
func (s *OrderedInputSet) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrSourceNotFound, id)
	}
	s.items = slices.Delete(s.items, i, i+1)
	return nil
}

// Move places the item with the given ID at index to, shifting the others.
func (s *OrderedInputSet) Move(id string, to int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	from := s.indexLocked(id)
	if from < 0 {
		return fmt.Errorf("%w: %s", ErrSourceNotFound, id)
	}
	if to < 0 || to >= len(s.items) {
		return fmt.Errorf("%w: index %d out of range [0,%d)", ErrInvalidOrder, to, len(s.items))
	}
	item := s.items[from]
	s.items = slices.Delete(s.items, from, from+1)
	s.items = slices.Insert(s.items, to, item)
	return nil
}

// Reorder replaces the order with ids, which must be a permutation of the
// current IDs. On error the set is unchanged.
func (s *OrderedInputSet) Reorder(ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(ids) != len(s.items) {
		return fmt.Errorf("%w: got %d ids, set holds %d", ErrInvalidOrder, len(ids), len(s.items))
	}
	reordered := make([]SourceItem, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return fmt.Errorf("%w: %s listed twice", ErrInvalidOrder, id)
		}
		seen[id] = true
		i := s.indexLocked(id)
		if i < 0 {
			return fmt.Errorf("%w: %w: %s", ErrInvalidOrder, ErrSourceNotFound, id)
		}
		reordered = append(reordered, s.items[i])
	}
	s.items = reordered
	return nil
}

// Snapshot returns a copy of the items in order.
// Data slices are shared; neither the set nor the assembler writes to them.
func (s *OrderedInputSet) Snapshot() []SourceItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.items)
}

// IDs returns the item IDs in order.
func (s *OrderedInputSet) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, len(s.items))
	for i, it := range s.items {
		ids[i] = it.ID
	}
	return ids
}

// Len returns the number of items.
func (s *OrderedInputSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Cap returns the maximum number of items.
func (s *OrderedInputSet) Cap() int {
	return s.max
}

func (s *OrderedInputSet) indexLocked(id string) int {
	return slices.IndexFunc(s.items, func(it SourceItem) bool { return it.ID == id })
}
