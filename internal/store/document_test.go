package store

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/groupcart/order-collector/internal/domain"
)

type memBackend struct {
	data  []byte
	saves int
	fail  error
}

func (m *memBackend) Load(context.Context) ([]byte, error) {
	return m.data, nil
}

func (m *memBackend) Save(_ context.Context, data []byte) error {
	if m.fail != nil {
		return m.fail
	}
	m.data = append([]byte(nil), data...)
	m.saves++
	return nil
}

func populated(t *testing.T) *Store {
	t.Helper()
	s := New()
	s.UpsertUser(domain.User{ID: 1, Name: "Alice", IsAdmin: true})
	s.UpsertUser(domain.User{ID: 2, Name: "Bob"})
	s.UpsertProduct(domain.Product{ID: 10, Title: "Coffee", Price: 500, Link: "https://shop.example/10"})
	s.AddOrIncrement(2, 10, 3)
	s.RolloverToArchive()
	s.AddOrIncrement(1, 10, 1)
	s.IncrementAttempts(5)
	s.SetBlacklisted(5, true)
	s.SetOpen(true)
	s.SetPassword("orange")
	return s
}

func TestSnapshotRoundTrip(t *testing.T) {
	logger := zap.NewNop()
	s := populated(t)

	backend := &memBackend{}
	require.NoError(t, s.Flush(context.Background(), backend))

	loaded, err := Load(context.Background(), backend, logger)
	require.NoError(t, err)

	assert.Equal(t, s.Users(), loaded.Users())
	assert.Equal(t, s.Products(), loaded.Products())
	assert.Equal(t, s.Orders(1, domain.PartitionCurrent), loaded.Orders(1, domain.PartitionCurrent))
	assert.Equal(t, s.Orders(2, domain.PartitionArchived), loaded.Orders(2, domain.PartitionArchived))
	assert.Equal(t, s.Blacklist(), loaded.Blacklist())
	assert.True(t, loaded.IsOpen())

	pwd, ok := loaded.Password()
	require.True(t, ok)
	assert.Equal(t, "orange", pwd)
}

func TestSnapshotIsHumanReadable(t *testing.T) {
	s := populated(t)
	data, err := s.Snapshot()
	require.NoError(t, err)

	assert.Contains(t, string(data), "\n  \"users\"", "document is indented")

	var doc Document
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, schemaVersion, doc.Meta.SchemaVersion)
}

func TestLoadMissingDocument(t *testing.T) {
	loaded, err := Load(context.Background(), &memBackend{}, zap.NewNop())
	require.NoError(t, err)
	assert.Empty(t, loaded.Users())
	assert.False(t, loaded.IsOpen())
	_, ok := loaded.Password()
	assert.False(t, ok)
}

func TestLoadCorruptDocumentStartsEmpty(t *testing.T) {
	backend := &memBackend{data: []byte("{not json")}
	loaded, err := Load(context.Background(), backend, zap.NewNop())
	require.NoError(t, err)
	assert.Empty(t, loaded.Users())
}

func TestLoadSkipsBrokenRecords(t *testing.T) {
	doc := Document{
		Users:  []UserRecord{{UserID: 0, Name: "ghost"}, {UserID: 1, Name: "Alice"}},
		Orders: []OrderRecord{{UserID: 1, ProductID: 10, Count: 0}, {UserID: 1, ProductID: 11, Count: 2}},
	}
	data, err := json.Marshal(doc)
	require.NoError(t, err)

	loaded, err := Load(context.Background(), &memBackend{data: data}, zap.NewNop())
	require.NoError(t, err)
	assert.Len(t, loaded.Users(), 1)
	assert.Len(t, loaded.Orders(1, domain.PartitionCurrent), 1)
}

func TestFlushOnlyWhenDirty(t *testing.T) {
	s := populated(t)
	backend := &memBackend{}

	require.NoError(t, s.Flush(context.Background(), backend))
	require.NoError(t, s.Flush(context.Background(), backend))
	assert.Equal(t, 1, backend.saves, "clean store skips the write")

	s.SetOpen(false)
	require.NoError(t, s.Flush(context.Background(), backend))
	assert.Equal(t, 2, backend.saves)
}

func TestFlushFailureKeepsDirty(t *testing.T) {
	s := populated(t)
	backend := &memBackend{fail: assert.AnError}

	require.Error(t, s.Flush(context.Background(), backend))
	assert.True(t, s.Dirty(), "failed flush stays retryable")

	backend.fail = nil
	require.NoError(t, s.Flush(context.Background(), backend))
	assert.False(t, s.Dirty())
}
