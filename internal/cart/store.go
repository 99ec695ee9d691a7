// Package cart holds the in-memory order-in-progress for one terminal
// session: the line items, their derived totals, and the availability
// arithmetic the product views use to avoid offering stock the cart has
// already claimed.
package cart

import (
	"sync"

	"github.com/opencounter/pos/internal/domain"
	"github.com/shopspring/decimal"
)

// Store is the client-side cart: one per running process, created empty at
// startup and cleared only after an order submission succeeds. It holds no
// authoritative stock; stock figures are handed in by callers and only read.
//
// The POS flow is single-writer (one cashier), but the HTTP surface makes
// concurrent reads possible, so access is serialized with a mutex.
type Store struct {
	mu    sync.RWMutex
	items []domain.LineItem // insertion order, preserved for display
	index map[string]int    // identity -> position in items
}

// NewStore creates an empty cart store.
func NewStore() *Store {
	return &Store{
		index: make(map[string]int),
	}
}

// Add puts qty units of the entry into the cart. If a line item with the
// same identity already exists its quantity increases; a duplicate row is
// never created. Stock checking is the caller's responsibility (see
// AvailableToAdd); Add itself has no insufficient-stock path.
func (s *Store) Add(entry domain.CartEntry, qty int) error {
	if entry.Identity == "" {
		return domain.ErrMissingIdentity
	}
	if qty < 1 {
		return domain.ErrInvalidQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if i, ok := s.index[entry.Identity]; ok {
		s.items[i].Quantity += qty
		return nil
	}

	s.index[entry.Identity] = len(s.items)
	s.items = append(s.items, domain.LineItem{CartEntry: entry, Quantity: qty})
	return nil
}

// Remove deletes the line item with the given identity.
// Removing an absent identity is a no-op, not an error.
func (s *Store) Remove(identity string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.remove(identity)
}

// remove deletes a row and reindexes. Caller must hold the write lock.
func (s *Store) remove(identity string) {
	i, ok := s.index[identity]
	if !ok {
		return
	}

	s.items = append(s.items[:i], s.items[i+1:]...)
	delete(s.index, identity)
	for j := i; j < len(s.items); j++ {
		s.index[s.items[j].Identity] = j
	}
}

// SetQuantity sets the line item's quantity to exactly qty (absolute, not a
// delta). A qty <= 0 removes the item. Setting quantity on an absent
// identity is a silent no-op, matching Remove's permissiveness; callers that
// need to distinguish absence should check Get first.
func (s *Store) SetQuantity(identity string, qty int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if qty <= 0 {
		s.remove(identity)
		return
	}

	if i, ok := s.index[identity]; ok {
		s.items[i].Quantity = qty
	}
}

// Clear removes all line items. Idempotent; called once after a successful
// order submission and never before the submission resolves.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.index = make(map[string]int)
}

// Get returns the line item for an identity, if present.
func (s *Store) Get(identity string) (domain.LineItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i, ok := s.index[identity]; ok {
		return s.items[i], true
	}
	return domain.LineItem{}, false
}

// Items returns a snapshot copy of the line items in insertion order.
// Mutating the returned slice does not affect the store.
func (s *Store) Items() []domain.LineItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make([]domain.LineItem, len(s.items))
	copy(snapshot, s.items)
	return snapshot
}

// Total returns the cart subtotal: sum of unit price times quantity over all
// line items. Prices were normalized at insertion, so a zero-value price
// simply contributes nothing; derivations never fail.
func (s *Store) Total() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := decimal.Zero
	for _, item := range s.items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// Count returns the total unit count across all line items, for the cart
// badge display.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, item := range s.items {
		count += item.Quantity
	}
	return count
}

// Reserved returns the quantity of the given identity currently in the cart,
// zero if absent.
func (s *Store) Reserved(identity string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i, ok := s.index[identity]; ok {
		return s.items[i].Quantity
	}
	return 0
}

// AvailableToAdd returns how many more units of an identity may be offered
// for sale: the server-reported stock minus what the cart already reserves,
// floored at zero. This is a display guard only; it cannot prevent a true
// race against other buyers, and authoritative enforcement stays with the
// backend at order submission.
func (s *Store) AvailableToAdd(serverStock int, identity string) int {
	if serverStock < 0 {
		serverStock = 0
	}

	available := serverStock - s.Reserved(identity)
	if available < 0 {
		return 0
	}
	return available
}
