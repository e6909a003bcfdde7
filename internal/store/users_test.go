package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groupcart/order-collector/internal/domain"
)

func TestAddUserIfAbsent(t *testing.T) {
	s := New()

	assert.True(t, s.AddUserIfAbsent(1, "Alice"))
	assert.False(t, s.AddUserIfAbsent(1, "Imposter"))
	assert.Equal(t, "Alice", s.UserName(1))
}

func TestUpsertUserReplacesEntry(t *testing.T) {
	s := New()
	s.UpsertUser(domain.User{ID: 1, Name: "Alice"})
	s.UpsertUser(domain.User{ID: 1, Name: "Alice B", IsAdmin: true})

	user, ok := s.User(1)
	require.True(t, ok)
	assert.Equal(t, "Alice B", user.Name)
	assert.True(t, user.IsAdmin)
	assert.Len(t, s.Users(), 1)
}

func TestSetAdmin(t *testing.T) {
	s := New()
	s.AddUserIfAbsent(1, "Alice")

	assert.True(t, s.SetAdmin(1, true))
	assert.True(t, s.IsAdmin(1))
	assert.False(t, s.SetAdmin(42, true), "unknown user")
}

func TestRemoveUserCascades(t *testing.T) {
	s := New()
	s.AddUserIfAbsent(1, "Alice")
	s.AddUserIfAbsent(2, "Bob")
	s.AddOrIncrement(1, 10, 2)
	s.AddOrIncrement(2, 10, 1)
	s.RolloverToArchive()
	s.AddOrIncrement(1, 11, 1)
	s.IncrementAttempts(1)

	require.True(t, s.RemoveUser(1))

	assert.False(t, s.UserExists(1))
	assert.Empty(t, s.Orders(1, domain.PartitionCurrent))
	assert.Empty(t, s.Orders(1, domain.PartitionArchived))
	_, hasRegistration := s.Registration(1)
	assert.False(t, hasRegistration)

	// Other users are untouched.
	assert.True(t, s.UserExists(2))
	assert.Len(t, s.Orders(2, domain.PartitionArchived), 1)
}

func TestRemoveUserUnknown(t *testing.T) {
	s := New()
	assert.False(t, s.RemoveUser(404))
}
