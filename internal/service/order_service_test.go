package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groupcart/order-collector/internal/domain"
	"github.com/groupcart/order-collector/internal/events"
	"github.com/groupcart/order-collector/internal/store"
	apperrors "github.com/groupcart/order-collector/pkg/util"
)

func newOrderService(t *testing.T) (*OrderService, *store.Store) {
	t.Helper()
	st := store.New()
	svc := NewOrderService(OrderDependencies{
		Store:      st,
		Dispatcher: events.NewInMemoryDispatcher(),
	})
	return svc, st
}

func registerUser(st *store.Store, id int64, name string) {
	st.AddUserIfAbsent(id, name)
}

func assertDomainCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	domainErr := apperrors.ToDomainError(err)
	assert.Equal(t, code, domainErr.Code)
}

func TestSubmitOrders(t *testing.T) {
	svc, st := newOrderService(t)
	registerUser(st, 1, "Alice")
	st.SetOpen(true)

	lines, err := svc.SubmitOrders(context.Background(), 1, []OrderItemInput{
		{ProductID: 10, Title: "Coffee", Price: 500, Quantity: 2},
		{ProductID: 11, Title: "Tea", Price: 300, Quantity: 1},
	})
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, "Coffee", lines[0].Product.Title)
	assert.Equal(t, 2, lines[0].Order.Quantity)

	// The submitted metadata landed in the catalog.
	product, ok := st.Product(10)
	require.True(t, ok)
	assert.Equal(t, int64(500), product.Price)
}

func TestSubmitOrdersMergesRepeatSubmission(t *testing.T) {
	svc, st := newOrderService(t)
	registerUser(st, 1, "Alice")
	st.SetOpen(true)

	_, err := svc.SubmitOrders(context.Background(), 1, []OrderItemInput{{ProductID: 10, Title: "Coffee", Quantity: 2}})
	require.NoError(t, err)
	lines, err := svc.SubmitOrders(context.Background(), 1, []OrderItemInput{{ProductID: 10, Title: "Coffee", Quantity: 1}})
	require.NoError(t, err)

	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Order.Quantity)
}

func TestSubmitOrdersGates(t *testing.T) {
	svc, st := newOrderService(t)
	items := []OrderItemInput{{ProductID: 10, Title: "Coffee", Quantity: 1}}

	_, err := svc.SubmitOrders(context.Background(), 1, items)
	assertDomainCode(t, err, "FORBIDDEN") // not registered

	registerUser(st, 1, "Alice")
	_, err = svc.SubmitOrders(context.Background(), 1, items)
	assertDomainCode(t, err, "PRECONDITION_FAILED") // collection closed

	st.SetOpen(true)
	_, err = svc.SubmitOrders(context.Background(), 1, nil)
	assertDomainCode(t, err, "VALIDATION_FAILED")
}

func TestAdjustQuantity(t *testing.T) {
	svc, st := newOrderService(t)
	registerUser(st, 1, "Alice")
	st.SetOpen(true)
	st.AddOrIncrement(1, 10, 2)

	order, err := svc.AdjustQuantity(context.Background(), 1, 1, 10, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, order.Quantity)

	order, err = svc.AdjustQuantity(context.Background(), 1, 1, 10, -1)
	require.NoError(t, err)
	assert.Equal(t, 2, order.Quantity)
}

func TestAdjustQuantityRefusesDropBelowOne(t *testing.T) {
	svc, st := newOrderService(t)
	registerUser(st, 1, "Alice")
	st.SetOpen(true)
	st.AddOrIncrement(1, 10, 1)

	_, err := svc.AdjustQuantity(context.Background(), 1, 1, 10, -1)
	assertDomainCode(t, err, "PRECONDITION_FAILED")

	order, ok := st.Order(1, 10, domain.PartitionCurrent)
	require.True(t, ok)
	assert.Equal(t, 1, order.Quantity, "line survives untouched")
}

func TestAdjustQuantityRequiresOpenCollection(t *testing.T) {
	svc, st := newOrderService(t)
	registerUser(st, 1, "Alice")
	st.SetOpen(true)
	st.AddOrIncrement(1, 10, 2)
	st.SetOpen(false)

	_, err := svc.AdjustQuantity(context.Background(), 1, 1, 10, 1)
	assertDomainCode(t, err, "PRECONDITION_FAILED")
}

func TestAdjustQuantityOwnerOnly(t *testing.T) {
	svc, st := newOrderService(t)
	registerUser(st, 1, "Alice")
	st.SetOpen(true)
	st.AddOrIncrement(1, 10, 2)

	_, err := svc.AdjustQuantity(context.Background(), 2, 1, 10, 1)
	assertDomainCode(t, err, "FORBIDDEN")
}

func TestCancelOrderOwnerAndAdmin(t *testing.T) {
	svc, st := newOrderService(t)
	registerUser(st, 1, "Alice")
	st.UpsertUser(domain.User{ID: 9, Name: "Root", IsAdmin: true})
	st.AddOrIncrement(1, 10, 1)
	st.AddOrIncrement(1, 11, 1)

	require.NoError(t, svc.CancelOrder(context.Background(), 1, 1, 10))

	err := svc.CancelOrder(context.Background(), 2, 1, 11)
	assertDomainCode(t, err, "FORBIDDEN")

	require.NoError(t, svc.CancelOrder(context.Background(), 9, 1, 11), "admin override")
	assert.Empty(t, st.Orders(1, domain.PartitionCurrent))
}

func TestDeleteArchivedOwnerOnly(t *testing.T) {
	svc, st := newOrderService(t)
	registerUser(st, 1, "Alice")
	st.UpsertUser(domain.User{ID: 9, Name: "Root", IsAdmin: true})
	st.AddOrIncrement(1, 10, 1)
	st.RolloverToArchive()

	err := svc.DeleteArchived(context.Background(), 9, 1, 10)
	assertDomainCode(t, err, "FORBIDDEN")

	require.NoError(t, svc.DeleteArchived(context.Background(), 1, 1, 10))
	assert.Empty(t, st.Orders(1, domain.PartitionArchived))
}

func TestMarkDoneMapsStoreErrors(t *testing.T) {
	svc, st := newOrderService(t)
	st.SetOpen(true)
	st.AddOrIncrement(1, 10, 1)

	err := svc.MarkDone(context.Background(), 1, 10)
	assertDomainCode(t, err, "PRECONDITION_FAILED")

	st.SetOpen(false)
	require.NoError(t, svc.MarkDone(context.Background(), 1, 10))

	err = svc.MarkDone(context.Background(), 1, 99)
	assertDomainCode(t, err, "NOT_FOUND")
}

func TestNewCollectionArchivesAndOpens(t *testing.T) {
	svc, st := newOrderService(t)
	st.AddOrIncrement(1, 10, 1)

	svc.NewCollection(context.Background(), 9)

	assert.True(t, st.IsOpen())
	assert.Empty(t, st.Orders(1, domain.PartitionCurrent))
	assert.Len(t, st.Orders(1, domain.PartitionArchived), 1)
}

func TestOpenCollectionKeepsCurrentOrders(t *testing.T) {
	svc, st := newOrderService(t)
	st.SetOpen(true)
	st.AddOrIncrement(1, 10, 1)
	svc.CloseCollection(context.Background(), 9)

	svc.OpenCollection(context.Background(), 9)

	assert.True(t, st.IsOpen())
	assert.Len(t, st.Orders(1, domain.PartitionCurrent), 1, "reopen never archives")
	assert.Empty(t, st.Orders(1, domain.PartitionArchived))
}

func TestOrdersByProductResolvesPlaceholders(t *testing.T) {
	svc, st := newOrderService(t)
	st.UpsertProduct(domain.Product{ID: 10, Title: "Coffee", Price: 500})
	st.AddOrIncrement(1, 10, 2)
	st.AddOrIncrement(1, 99, 1)

	groups := svc.OrdersByProduct()
	require.Len(t, groups, 2)
	assert.Equal(t, "Coffee", groups[0].Product.Title)
	assert.Equal(t, 2, groups[0].Count)
	assert.False(t, groups[0].AllDone)
	assert.Equal(t, int64(1000), groups[0].Total)
	assert.Equal(t, "Product #99", groups[1].Product.Title)
	assert.Zero(t, groups[1].Total)
}

func TestUsersWithoutOrders(t *testing.T) {
	svc, st := newOrderService(t)
	registerUser(st, 1, "Alice")
	registerUser(st, 2, "Bob")
	st.AddOrIncrement(1, 10, 1)

	users := svc.UsersWithoutOrders()
	require.Len(t, users, 1)
	assert.Equal(t, int64(2), users[0].ID)
}

func TestExportProductIDs(t *testing.T) {
	svc, st := newOrderService(t)
	st.AddOrIncrement(1, 10, 2)
	st.AddOrIncrement(2, 10, 1)
	st.AddOrIncrement(1, 11, 1)

	assert.Equal(t, "10,10,10,11", svc.ExportProductIDs())
}

func TestExportProductIDsEmpty(t *testing.T) {
	svc, _ := newOrderService(t)
	assert.Empty(t, svc.ExportProductIDs())
}
