// Package store holds the in-memory stock state shared by handlers and
// scheduled jobs.
package store

import (
	"sort"
	"sync"

	"github.com/mamadbah2/stockroom/internal/domain/models"
)

// Store is a mutex-guarded map of item name to quantity plus the movement
// journal appended after each successful mutation.
type Store struct {
	mu      sync.RWMutex
	stock   map[string]int
	journal []models.Movement
}

// New creates a Store seeded with the provided stock. A nil map starts empty.
func New(initial map[string]int) *Store {
	stock := make(map[string]int, len(initial))
	for name, qty := range initial {
		stock[name] = qty
	}
	return &Store{stock: stock}
}

// Quantity returns the current quantity of an item, 0 when absent.
func (s *Store) Quantity(item string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stock[item]
}

// Add accumulates qty onto the item entry and returns the new quantity.
func (s *Store) Add(item string, qty int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stock[item] += qty
	return s.stock[item]
}

// Remove decrements the item quantity. When the result drops to 0 or below
// the entry is deleted and remaining is reported as 0. found is false when
// the item was never in stock.
func (s *Store) Remove(item string, qty int) (remaining int, deleted bool, found bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.stock[item]
	if !ok {
		return 0, false, false
	}

	current -= qty
	if current <= 0 {
		delete(s.stock, item)
		return 0, true, true
	}

	s.stock[item] = current
	return current, false, true
}

// Snapshot returns a copy of the stock map safe for persistence.
func (s *Store) Snapshot() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]int, len(s.stock))
	for name, qty := range s.stock {
		out[name] = qty
	}
	return out
}

// Replace swaps the whole stock map, used when loading a snapshot file.
func (s *Store) Replace(stock map[string]int) {
	next := make(map[string]int, len(stock))
	for name, qty := range stock {
		next[name] = qty
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.stock = next
}

// Items lists all stocked items sorted by name.
func (s *Store) Items() []models.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]models.Item, 0, len(s.stock))
	for name, qty := range s.stock {
		items = append(items, models.Item{Name: name, Quantity: qty})
	}

	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	return items
}

// LowStock returns names of items with quantity at or below threshold,
// sorted by name.
func (s *Store) LowStock(threshold int) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]string, 0)
	for name, qty := range s.stock {
		if qty <= threshold {
			result = append(result, name)
		}
	}

	sort.Strings(result)
	return result
}

// Record appends a movement to the journal.
func (s *Store) Record(mv models.Movement) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.journal = append(s.journal, mv)
}

// Movements returns up to limit of the most recent journal entries, oldest
// first. limit <= 0 returns the full journal.
func (s *Store) Movements(limit int) []models.Movement {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start := 0
	if limit > 0 && len(s.journal) > limit {
		start = len(s.journal) - limit
	}

	out := make([]models.Movement, len(s.journal)-start)
	copy(out, s.journal[start:])
	return out
}
