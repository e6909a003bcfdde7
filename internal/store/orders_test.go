package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groupcart/order-collector/internal/domain"
)

func TestAddOrIncrementMergesExistingLine(t *testing.T) {
	s := New()

	first := s.AddOrIncrement(1, 10, 2)
	assert.Equal(t, 2, first.Quantity)

	second := s.AddOrIncrement(1, 10, 3)
	assert.Equal(t, 5, second.Quantity)

	orders := s.Orders(1, domain.PartitionCurrent)
	require.Len(t, orders, 1)
	assert.Equal(t, 5, orders[0].Quantity)
}

func TestAddOrIncrementClampsQuantityToOne(t *testing.T) {
	s := New()

	order := s.AddOrIncrement(1, 10, 0)
	assert.Equal(t, 1, order.Quantity)

	order = s.AddOrIncrement(2, 10, -5)
	assert.Equal(t, 1, order.Quantity)
}

func TestAddOrIncrementKeepsSeparateOwners(t *testing.T) {
	s := New()

	s.AddOrIncrement(1, 10, 1)
	s.AddOrIncrement(2, 10, 1)

	assert.Len(t, s.Orders(1, domain.PartitionCurrent), 1)
	assert.Len(t, s.Orders(2, domain.PartitionCurrent), 1)
}

func TestSetQuantity(t *testing.T) {
	s := New()
	s.AddOrIncrement(1, 10, 2)

	assert.True(t, s.SetQuantity(1, 10, 7))
	order, ok := s.Order(1, 10, domain.PartitionCurrent)
	require.True(t, ok)
	assert.Equal(t, 7, order.Quantity)

	assert.False(t, s.SetQuantity(1, 10, 0), "quantities below one are refused")
	assert.False(t, s.SetQuantity(1, 99, 3), "missing line")
}

func TestSetQuantityRefusesDoneLine(t *testing.T) {
	s := New()
	s.AddOrIncrement(1, 10, 2)
	s.SetOpen(false)
	require.NoError(t, s.MarkDone(1, 10))

	assert.False(t, s.SetQuantity(1, 10, 5))
}

func TestRemove(t *testing.T) {
	s := New()
	s.AddOrIncrement(1, 10, 1)
	s.AddOrIncrement(1, 11, 1)

	assert.True(t, s.Remove(1, 10, domain.PartitionCurrent))
	assert.False(t, s.Remove(1, 10, domain.PartitionCurrent))
	assert.Len(t, s.Orders(1, domain.PartitionCurrent), 1)
}

func TestMarkDoneRequiresClosedCollection(t *testing.T) {
	s := New()
	s.SetOpen(true)
	s.AddOrIncrement(1, 10, 1)

	err := s.MarkDone(1, 10)
	assert.ErrorIs(t, err, ErrCollectionOpen)

	s.SetOpen(false)
	require.NoError(t, s.MarkDone(1, 10))

	order, ok := s.Order(1, 10, domain.PartitionCurrent)
	require.True(t, ok)
	assert.True(t, order.Done)
}

func TestMarkDoneUnknownOrder(t *testing.T) {
	s := New()
	assert.ErrorIs(t, s.MarkDone(1, 10), ErrOrderNotFound)
}

func TestMarkAllDoneForProduct(t *testing.T) {
	s := New()
	s.AddOrIncrement(1, 10, 1)
	s.AddOrIncrement(2, 10, 1)
	s.AddOrIncrement(3, 11, 1)
	s.SetOpen(false)
	require.NoError(t, s.MarkDone(1, 10))

	changed, err := s.MarkAllDoneForProduct(10)
	require.NoError(t, err)
	assert.Equal(t, 1, changed, "already-done lines are not recounted")

	for _, userID := range []int64{1, 2} {
		order, ok := s.Order(userID, 10, domain.PartitionCurrent)
		require.True(t, ok)
		assert.True(t, order.Done)
	}
	other, ok := s.Order(3, 11, domain.PartitionCurrent)
	require.True(t, ok)
	assert.False(t, other.Done)
}

func TestMarkAllDoneForProductWhileOpen(t *testing.T) {
	s := New()
	s.SetOpen(true)
	s.AddOrIncrement(1, 10, 1)

	_, err := s.MarkAllDoneForProduct(10)
	assert.ErrorIs(t, err, ErrCollectionOpen)
}

func TestRolloverToArchive(t *testing.T) {
	s := New()
	s.AddOrIncrement(1, 10, 2)
	s.AddOrIncrement(2, 11, 1)

	s.RolloverToArchive()

	assert.Empty(t, s.Orders(1, domain.PartitionCurrent))
	assert.Empty(t, s.Orders(2, domain.PartitionCurrent))
	assert.Len(t, s.Orders(1, domain.PartitionArchived), 1)
	assert.Len(t, s.Orders(2, domain.PartitionArchived), 1)
}

func TestRolloverReplacesPreviousArchive(t *testing.T) {
	s := New()
	s.AddOrIncrement(1, 10, 1)
	s.RolloverToArchive()

	s.AddOrIncrement(2, 11, 1)
	s.RolloverToArchive()

	assert.Empty(t, s.Orders(1, domain.PartitionArchived), "previous archive is discarded")
	assert.Len(t, s.Orders(2, domain.PartitionArchived), 1)
}

func TestRolloverWithEmptyCurrentIsNoop(t *testing.T) {
	s := New()
	s.AddOrIncrement(1, 10, 1)
	s.RolloverToArchive()

	// Current is now empty; a second rollover must not wipe the archive.
	s.RolloverToArchive()
	assert.Len(t, s.Orders(1, domain.PartitionArchived), 1)
}

func TestGroupByProductAndUser(t *testing.T) {
	s := New()
	s.AddOrIncrement(1, 10, 1)
	s.AddOrIncrement(2, 10, 2)
	s.AddOrIncrement(1, 11, 3)

	byProduct := s.GroupByProduct()
	require.Len(t, byProduct, 2)
	assert.Len(t, byProduct[10], 2)
	assert.Len(t, byProduct[11], 1)

	byUser := s.GroupByUser()
	require.Len(t, byUser, 2)
	assert.Len(t, byUser[1], 2)
	assert.Len(t, byUser[2], 1)
}

func TestOrdersTotal(t *testing.T) {
	s := New()
	s.UpsertProduct(domain.Product{ID: 10, Title: "Coffee", Price: 500})
	s.UpsertProduct(domain.Product{ID: 11, Title: "Tea", Price: 300})
	s.AddOrIncrement(1, 10, 2)
	s.AddOrIncrement(1, 11, 1)
	s.AddOrIncrement(1, 99, 4) // no catalog entry

	total := s.OrdersTotal(s.Orders(1, domain.PartitionCurrent))
	assert.Equal(t, int64(1300), total, "dangling product references count as zero")
}
