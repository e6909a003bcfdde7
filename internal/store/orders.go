package store

import (
	"errors"

	"github.com/groupcart/order-collector/internal/domain"
)

var (
	// ErrCollectionOpen rejects mark-done while intake is still running.
	ErrCollectionOpen = errors.New("collection is open")
	// ErrOrderNotFound reports a missing (owner, product) line.
	ErrOrderNotFound = errors.New("order not found")
)

// AddOrIncrement merges a submission into the current partition. An existing
// (user, product) line has its quantity increased, never replaced, so a
// duplicated submission can only grow a prior order. Otherwise a fresh
// not-done line is appended. The read-modify-write runs in one critical
// section and the updated line is returned.
func (s *Store) AddOrIncrement(userID, productID int64, quantity int) domain.Order {
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.orders {
		if s.orders[i].UserID == userID && s.orders[i].ProductID == productID {
			s.orders[i].Quantity += quantity
			s.markDirty()
			return s.orders[i]
		}
	}
	order := domain.Order{UserID: userID, ProductID: productID, Quantity: quantity}
	s.orders = append(s.orders, order)
	s.markDirty()
	return order
}

// Orders returns the user's lines from the given partition in stable
// insertion order.
func (s *Store) Orders(userID int64, partition domain.Partition) []domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Order
	for _, o := range s.partition(partition) {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out
}

// Order returns one (owner, product) line from the given partition.
func (s *Store) Order(userID, productID int64, partition domain.Partition) (domain.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, o := range s.partition(partition) {
		if o.UserID == userID && o.ProductID == productID {
			return o, true
		}
	}
	return domain.Order{}, false
}

// SetQuantity replaces the quantity of a current, not-yet-done line. It
// refuses quantities below one (callers delete instead of zeroing) and any
// touch of a completed line. Reports whether the write happened.
func (s *Store) SetQuantity(userID, productID int64, quantity int) bool {
	if quantity < 1 {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.orders {
		if s.orders[i].UserID == userID && s.orders[i].ProductID == productID {
			if s.orders[i].Done {
				return false
			}
			if s.orders[i].Quantity != quantity {
				s.orders[i].Quantity = quantity
				s.markDirty()
			}
			return true
		}
	}
	return false
}

// Remove deletes one line from the given partition, reporting whether it
// existed.
func (s *Store) Remove(userID, productID int64, partition domain.Partition) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	orders := s.partition(partition)
	for i := range orders {
		if orders[i].UserID == userID && orders[i].ProductID == productID {
			trimmed := append(orders[:i], orders[i+1:]...)
			s.setPartition(partition, trimmed)
			s.markDirty()
			return true
		}
	}
	return false
}

// MarkDone completes a current line. Work is only marked done after intake
// has stopped, so the call fails with ErrCollectionOpen while the gate is
// open.
func (s *Store) MarkDone(userID, productID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.collectionOpen {
		return ErrCollectionOpen
	}
	for i := range s.orders {
		if s.orders[i].UserID == userID && s.orders[i].ProductID == productID {
			if !s.orders[i].Done {
				s.orders[i].Done = true
				s.markDirty()
			}
			return nil
		}
	}
	return ErrOrderNotFound
}

// MarkAllDoneForProduct atomically completes every outstanding current line
// for a product and returns how many changed; already-done lines are not
// double-counted. Same closed-gate precondition as MarkDone.
func (s *Store) MarkAllDoneForProduct(productID int64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.collectionOpen {
		return 0, ErrCollectionOpen
	}
	changed := 0
	for i := range s.orders {
		if s.orders[i].ProductID == productID && !s.orders[i].Done {
			s.orders[i].Done = true
			changed++
		}
	}
	if changed > 0 {
		s.markDirty()
	}
	return changed, nil
}

// RolloverToArchive replaces the archived partition with the current one and
// empties current, all inside a single critical section. A reader never
// sees current emptied without archived populated, nor the reverse.
func (s *Store) RolloverToArchive() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.orders) == 0 {
		return
	}
	s.archived = make([]domain.Order, len(s.orders))
	copy(s.archived, s.orders)
	s.orders = s.orders[:0]
	s.markDirty()
}

// GroupByProduct aggregates the current partition per product, preserving
// insertion order inside each group.
func (s *Store) GroupByProduct() map[int64][]domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	grouped := make(map[int64][]domain.Order)
	for _, o := range s.orders {
		grouped[o.ProductID] = append(grouped[o.ProductID], o)
	}
	return grouped
}

// GroupByUser aggregates the current partition per owner, preserving
// insertion order inside each group.
func (s *Store) GroupByUser() map[int64][]domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	grouped := make(map[int64][]domain.Order)
	for _, o := range s.orders {
		grouped[o.UserID] = append(grouped[o.UserID], o)
	}
	return grouped
}

// OrdersTotal sums price * quantity over the given lines, resolving prices
// from the catalog; dangling product references count as zero.
func (s *Store) OrdersTotal(orders []domain.Order) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total int64
	for _, o := range orders {
		if p, ok := s.productLocked(o.ProductID); ok {
			total += p.Price * int64(o.Quantity)
		}
	}
	return total
}

func (s *Store) partition(p domain.Partition) []domain.Order {
	if p == domain.PartitionArchived {
		return s.archived
	}
	return s.orders
}

func (s *Store) setPartition(p domain.Partition, orders []domain.Order) {
	if p == domain.PartitionArchived {
		s.archived = orders
		return
	}
	s.orders = orders
}
