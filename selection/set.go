// Package selection implements the shopping list: a session-owned set of
// chosen (product, store) pairs with quantities and derived totals.
package selection

import (
	"github.com/shopspring/decimal"

	"github.com/superprecos/go-compara-precos/models"
)

// Set maps selection keys to entries while remembering insertion order. It
// is owned by exactly one session and mutated only by that session's
// sequential event handling, so it does no locking of its own.
//
// Every operation is total: unknown keys are no-ops, never errors.
type Set struct {
	entries map[models.SelectionKey]*models.SelectionEntry
	order   []models.SelectionKey
}

// NewSet returns an empty selection set.
func NewSet() *Set {
	return &Set{entries: make(map[models.SelectionKey]*models.SelectionEntry)}
}

// Toggle selects or de-selects a catalog row. Selecting an already-selected
// row changes nothing (quantity stays as it was); de-selecting an absent row
// is a no-op. A newly selected row starts at quantity 1 with the row's price
// snapshotted, and a re-selected row starts over at quantity 1.
func (s *Set) Toggle(row models.CatalogRow, selected bool) {
	key := models.SelectionKeyFor(row)
	if !selected {
		s.Remove(key)
		return
	}
	if _, ok := s.entries[key]; ok {
		return
	}
	s.entries[key] = &models.SelectionEntry{
		Key:       key,
		UnitPrice: row.Valor,
		Quantity:  1,
	}
	s.order = append(s.order, key)
}

// Increment raises the quantity for key by one.
func (s *Set) Increment(key models.SelectionKey) {
	if entry, ok := s.entries[key]; ok {
		entry.Quantity++
	}
}

// Decrement lowers the quantity for key by one, floored at 1. It never
// removes the entry; removal is explicit only.
func (s *Set) Decrement(key models.SelectionKey) {
	if entry, ok := s.entries[key]; ok && entry.Quantity > 1 {
		entry.Quantity--
	}
}

// Remove deletes the entry for key, if present.
func (s *Set) Remove(key models.SelectionKey) {
	if _, ok := s.entries[key]; !ok {
		return
	}
	delete(s.entries, key)
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Contains reports whether key is currently selected.
func (s *Set) Contains(key models.SelectionKey) bool {
	_, ok := s.entries[key]
	return ok
}

// Len returns the number of entries.
func (s *Set) Len() int {
	return len(s.entries)
}

// Entries returns a snapshot of all entries in selection order.
func (s *Set) Entries() []models.SelectionEntry {
	out := make([]models.SelectionEntry, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, *s.entries[key])
	}
	return out
}

// GrandTotal sums unit price times quantity over all entries. The total is
// always derived from the entries, so it cannot drift from the per-entry
// subtotals.
func (s *Set) GrandTotal() decimal.Decimal {
	total := decimal.Zero
	for _, key := range s.order {
		total = total.Add(s.entries[key].Subtotal())
	}
	return total
}

// StoreGroup is the slice of entries selected from one store, with its
// subtotal.
type StoreGroup struct {
	Mercado  string
	Entries  []models.SelectionEntry
	Subtotal decimal.Decimal
}

// GroupByStore partitions the current entries by store. Groups appear in the
// order their store was first seen among current selections; entries within
// a group keep selection order.
func (s *Set) GroupByStore() []StoreGroup {
	index := make(map[string]int)
	var groups []StoreGroup
	for _, key := range s.order {
		entry := *s.entries[key]
		i, ok := index[key.Mercado]
		if !ok {
			i = len(groups)
			index[key.Mercado] = i
			groups = append(groups, StoreGroup{Mercado: key.Mercado, Subtotal: decimal.Zero})
		}
		groups[i].Entries = append(groups[i].Entries, entry)
		groups[i].Subtotal = groups[i].Subtotal.Add(entry.Subtotal())
	}
	return groups
}
