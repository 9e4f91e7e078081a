package domain

import "errors"

var ErrOutOfStock = errors.New("out of stock")

// InventoryItem is a catalog item with its remaining count for the current
// event.
type InventoryItem struct {
	CatalogItem
	Remaining int `json:"remaining"`
}

// InventoryStore holds the mutable remaining counts for one event, in
// catalog order. It is mutated only by the event service.
type InventoryStore struct {
	items []InventoryItem
	index map[string]int
}

// NewInventoryStore builds a store from the catalog and operator-supplied
// initial counts. Items missing from counts start at zero.
func NewInventoryStore(catalog Catalog, counts map[string]int) *InventoryStore {
	items := make([]InventoryItem, 0, len(catalog))
	for _, ci := range catalog {
		items = append(items, InventoryItem{CatalogItem: ci, Remaining: counts[ci.ID]})
	}
	return RestoreInventory(items)
}

// RestoreInventory rebuilds a store from a persisted snapshot.
func RestoreInventory(items []InventoryItem) *InventoryStore {
	s := &InventoryStore{
		items: make([]InventoryItem, len(items)),
		index: make(map[string]int, len(items)),
	}
	copy(s.items, items)
	for i, item := range s.items {
		s.index[item.ID] = i
	}
	return s
}

// Decrement consumes one unit of the item. ErrOutOfStock when none remain.
func (s *InventoryStore) Decrement(itemID string) error {
	i, ok := s.index[itemID]
	if !ok {
		return ErrUnknownItem
	}
	if s.items[i].Remaining == 0 {
		return ErrOutOfStock
	}
	s.items[i].Remaining--
	return nil
}

// Increment restores one unit. Used only by undo, which is trusted to be
// called at most once per completed sale, so no upper bound is checked.
func (s *InventoryStore) Increment(itemID string) error {
	i, ok := s.index[itemID]
	if !ok {
		return ErrUnknownItem
	}
	s.items[i].Remaining++
	return nil
}

func (s *InventoryStore) Remaining(itemID string) (int, bool) {
	i, ok := s.index[itemID]
	if !ok {
		return 0, false
	}
	return s.items[i].Remaining, true
}

// Snapshot returns a copy safe to hand to reporting and persistence.
func (s *InventoryStore) Snapshot() []InventoryItem {
	out := make([]InventoryItem, len(s.items))
	copy(out, s.items)
	return out
}
