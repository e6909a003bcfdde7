package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/groupcart/order-collector/internal/auth"
	"github.com/groupcart/order-collector/internal/domain"
	"github.com/groupcart/order-collector/internal/events"
	"github.com/groupcart/order-collector/internal/store"
)

func newRegistrationService(t *testing.T, adminHash string) (*RegistrationService, *store.Store) {
	t.Helper()
	st := store.New()
	svc := NewRegistrationService(RegistrationDependencies{
		Store:             st,
		Tokens:            auth.NewTokenManager("test-secret", 60),
		Dispatcher:        events.NewInMemoryDispatcher(),
		AdminPasswordHash: adminHash,
		Logger:            zap.NewNop(),
	})
	return svc, st
}

func TestRegisterHappyPath(t *testing.T) {
	svc, st := newRegistrationService(t, "")
	st.SetPassword("orange")

	user, err := svc.Register(context.Background(), 1, "Alice", "orange")
	require.NoError(t, err)
	assert.Equal(t, "Alice", user.Name)
	assert.False(t, user.IsAdmin)
	assert.True(t, st.UserExists(1))
}

func TestRegisterWithoutSharedPassword(t *testing.T) {
	svc, _ := newRegistrationService(t, "")

	_, err := svc.Register(context.Background(), 1, "Alice", "anything")
	assertDomainCode(t, err, "PRECONDITION_FAILED")
}

func TestRegisterThreeStrikesBlacklists(t *testing.T) {
	svc, st := newRegistrationService(t, "")
	st.SetPassword("orange")

	for i := 0; i < 2; i++ {
		_, err := svc.Register(context.Background(), 1, "Alice", "wrong")
		assertDomainCode(t, err, "UNAUTHORIZED")
	}
	_, err := svc.Register(context.Background(), 1, "Alice", "wrong")
	assertDomainCode(t, err, "FORBIDDEN")
	assert.True(t, st.IsBlacklisted(1))

	// The right password no longer helps.
	_, err = svc.Register(context.Background(), 1, "Alice", "orange")
	assertDomainCode(t, err, "FORBIDDEN")
}

func TestRegisterSuccessResetsAttempts(t *testing.T) {
	svc, st := newRegistrationService(t, "")
	st.SetPassword("orange")

	_, err := svc.Register(context.Background(), 1, "Alice", "wrong")
	assertDomainCode(t, err, "UNAUTHORIZED")

	_, err = svc.Register(context.Background(), 1, "Alice", "orange")
	require.NoError(t, err)

	rec, ok := st.Registration(1)
	require.True(t, ok)
	assert.Zero(t, rec.Attempts)
}

func TestRegisterIdempotentForKnownUser(t *testing.T) {
	svc, st := newRegistrationService(t, "")
	st.AddUserIfAbsent(1, "Alice")

	// No shared password configured, yet the known user passes through.
	user, err := svc.Register(context.Background(), 1, "Alice B", "")
	require.NoError(t, err)
	assert.Equal(t, "Alice B", user.Name)
}

func TestLoginUserWithSharedPassword(t *testing.T) {
	svc, st := newRegistrationService(t, "")
	st.SetPassword("orange")
	st.AddUserIfAbsent(1, "Alice")

	token, exp, err := svc.Login(context.Background(), 1, "orange")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.False(t, exp.IsZero())

	_, _, err = svc.Login(context.Background(), 1, "wrong")
	assertDomainCode(t, err, "UNAUTHORIZED")
}

func TestLoginAdminUsesOperatorPassword(t *testing.T) {
	hash, err := auth.HashPassword("operator-secret", 10)
	require.NoError(t, err)

	svc, st := newRegistrationService(t, hash)
	st.SetPassword("orange")
	st.UpsertUser(domain.User{ID: 9, Name: "Root", IsAdmin: true})

	token, _, err := svc.Login(context.Background(), 9, "operator-secret")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	// The shared password does not open the admin account.
	_, _, err = svc.Login(context.Background(), 9, "orange")
	assertDomainCode(t, err, "UNAUTHORIZED")
}

func TestLoginUnknownOrBlacklisted(t *testing.T) {
	svc, st := newRegistrationService(t, "")
	st.SetPassword("orange")

	_, _, err := svc.Login(context.Background(), 404, "orange")
	assertDomainCode(t, err, "UNAUTHORIZED")

	st.AddUserIfAbsent(1, "Alice")
	st.SetBlacklisted(1, true)
	_, _, err = svc.Login(context.Background(), 1, "orange")
	assertDomainCode(t, err, "FORBIDDEN")
}
