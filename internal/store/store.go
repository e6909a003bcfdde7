package store

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/groupcart/order-collector/internal/domain"
)

// Backend persists the serialized store document. Load returns (nil, nil)
// when no document exists yet.
type Backend interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}

// Store owns all order-collection state: the user directory, the product
// catalog, both order partitions, registration records and the collection
// gate. One instance is shared by every handler; a single mutex keeps each
// mutation an uninterrupted unit, which is what makes the multi-step
// operations (quantity merge, rollover, cascade delete, bulk mark-done)
// safe against interleaving.
type Store struct {
	mu sync.RWMutex

	users         []domain.User
	products      []domain.Product
	orders        []domain.Order
	archived      []domain.Order
	registrations []domain.Registration

	collectionOpen bool
	password       *string

	dirty atomic.Bool
}

// New returns an empty store.
func New() *Store {
	return &Store{}
}

// Load reads the persisted document from backend. A missing document yields
// an empty store; unparseable content is logged and likewise replaced with an
// empty store; startup never fails on corrupt data.
func Load(ctx context.Context, backend Backend, logger *zap.Logger) (*Store, error) {
	s := New()
	data, err := backend.Load(ctx)
	if err != nil {
		return nil, err
	}
	if data == nil {
		logger.Info("no existing store document; starting empty")
		return s, nil
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		logger.Warn("store document unparseable; starting empty", zap.Error(err))
		return New(), nil
	}
	s.applyDocument(doc)
	logger.Info("store loaded",
		zap.Int("users", len(s.users)),
		zap.Int("products", len(s.products)),
		zap.Int("orders", len(s.orders)),
		zap.Int("archived_orders", len(s.archived)))
	return s, nil
}

// markDirty records that in-memory state diverged from the persisted
// document. Callers hold the write lock.
func (s *Store) markDirty() {
	s.dirty.Store(true)
}

// Dirty reports whether there are unflushed mutations.
func (s *Store) Dirty() bool {
	return s.dirty.Load()
}

// Snapshot serializes the whole store into its document form.
func (s *Store) Snapshot() ([]byte, error) {
	s.mu.RLock()
	doc := s.document()
	s.mu.RUnlock()
	return json.MarshalIndent(doc, "", "  ")
}

// Flush writes the store through the backend when dirty. On write failure the
// dirty flag is restored so the next flush retries.
func (s *Store) Flush(ctx context.Context, backend Backend) error {
	if !s.dirty.CompareAndSwap(true, false) {
		return nil
	}
	data, err := s.Snapshot()
	if err != nil {
		s.dirty.Store(true)
		return err
	}
	if err := backend.Save(ctx, data); err != nil {
		s.dirty.Store(true)
		return err
	}
	return nil
}
