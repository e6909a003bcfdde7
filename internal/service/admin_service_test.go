package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/groupcart/order-collector/internal/domain"
	"github.com/groupcart/order-collector/internal/events"
	"github.com/groupcart/order-collector/internal/store"
)

func newAdminService(t *testing.T) (*AdminService, *store.Store) {
	t.Helper()
	st := store.New()
	svc := NewAdminService(AdminDependencies{
		Store:      st,
		Dispatcher: events.NewInMemoryDispatcher(),
		Logger:     zap.NewNop(),
	})
	return svc, st
}

func TestEnsureInitialAdmins(t *testing.T) {
	svc, st := newAdminService(t)
	st.AddUserIfAbsent(1, "Alice")

	svc.EnsureInitialAdmins([]int64{1, 2, 0})

	assert.True(t, st.IsAdmin(1))
	assert.Equal(t, "Alice", st.UserName(1), "existing name kept")
	assert.True(t, st.IsAdmin(2))
	assert.False(t, st.UserExists(0))
}

func TestSetAdminSelfDemotionRefused(t *testing.T) {
	svc, st := newAdminService(t)
	st.UpsertUser(domain.User{ID: 9, Name: "Root", IsAdmin: true})

	err := svc.SetAdmin(context.Background(), 9, 9, false)
	assertDomainCode(t, err, "FORBIDDEN")
	assert.True(t, st.IsAdmin(9))

	require.NoError(t, svc.SetAdmin(context.Background(), 9, 9, true), "re-granting self is harmless")
}

func TestRemoveUserSelfRefused(t *testing.T) {
	svc, st := newAdminService(t)
	st.UpsertUser(domain.User{ID: 9, Name: "Root", IsAdmin: true})
	st.AddUserIfAbsent(1, "Alice")

	err := svc.RemoveUser(context.Background(), 9, 9)
	assertDomainCode(t, err, "FORBIDDEN")

	require.NoError(t, svc.RemoveUser(context.Background(), 9, 1))
	assert.False(t, st.UserExists(1))
}

func TestBlacklistManagement(t *testing.T) {
	svc, st := newAdminService(t)

	require.NoError(t, svc.BlacklistUser(context.Background(), 9, 5))
	assert.True(t, st.IsBlacklisted(5))

	err := svc.BlacklistUser(context.Background(), 9, 9)
	assertDomainCode(t, err, "FORBIDDEN")

	require.NoError(t, svc.UnblacklistUser(context.Background(), 5))
	assert.False(t, st.IsBlacklisted(5))
	rec, ok := st.Registration(5)
	require.True(t, ok)
	assert.Zero(t, rec.Attempts, "lifting the ban clears burned attempts")
}

func TestUnblacklistUnknown(t *testing.T) {
	svc, _ := newAdminService(t)
	err := svc.UnblacklistUser(context.Background(), 404)
	assertDomainCode(t, err, "NOT_FOUND")
}

func TestSharedPasswordManagement(t *testing.T) {
	svc, st := newAdminService(t)

	_, set := svc.SharedPassword()
	assert.False(t, set)

	require.NoError(t, svc.SetSharedPassword(context.Background(), "orange"))
	pwd, set := svc.SharedPassword()
	assert.True(t, set)
	assert.Equal(t, "orange", pwd)

	err := svc.SetSharedPassword(context.Background(), "  ")
	assertDomainCode(t, err, "VALIDATION_FAILED")

	svc.ClearSharedPassword(context.Background())
	_, set = st.Password()
	assert.False(t, set)
}

func TestRemoveProductKeepsOrders(t *testing.T) {
	svc, st := newAdminService(t)
	st.UpsertProduct(domain.Product{ID: 10, Title: "Coffee", Price: 500})
	st.AddOrIncrement(1, 10, 2)

	require.NoError(t, svc.RemoveProduct(context.Background(), 10))
	assert.Len(t, st.Orders(1, domain.PartitionCurrent), 1)
	assert.Equal(t, "Product #10", st.ResolveProduct(10).Title)

	err := svc.RemoveProduct(context.Background(), 10)
	assertDomainCode(t, err, "NOT_FOUND")
}
