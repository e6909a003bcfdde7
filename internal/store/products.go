package store

import "github.com/groupcart/order-collector/internal/domain"

// UpsertProduct inserts or replaces a catalog entry by id, last-write-wins on
// title, price and link. Orders referencing the product are untouched.
func (s *Store) UpsertProduct(p domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.products {
		if s.products[i].ID == p.ID {
			if s.products[i] == p {
				return
			}
			s.products[i] = p
			s.markDirty()
			return
		}
	}
	s.products = append(s.products, p)
	s.markDirty()
}

// Product returns the catalog entry for id.
func (s *Store) Product(id int64) (domain.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.productLocked(id)
}

func (s *Store) productLocked(id int64) (domain.Product, bool) {
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}

// ResolveProduct is Product with a synthetic placeholder for dangling
// references: removing a product referenced by existing orders is legal, and
// those orders keep rendering with price 0 and a "Product #<id>" title.
func (s *Store) ResolveProduct(id int64) domain.Product {
	if p, ok := s.Product(id); ok {
		return p
	}
	return domain.PlaceholderProduct(id)
}

// RemoveProduct deletes a catalog entry, reporting whether it existed.
func (s *Store) RemoveProduct(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.products {
		if s.products[i].ID == id {
			s.products = append(s.products[:i], s.products[i+1:]...)
			s.markDirty()
			return true
		}
	}
	return false
}

// Products returns the catalog in insertion order.
func (s *Store) Products() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Product, len(s.products))
	copy(out, s.products)
	return out
}
