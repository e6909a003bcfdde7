package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/groupcart/order-collector/internal/domain"
	"github.com/groupcart/order-collector/internal/store"
	apperrors "github.com/groupcart/order-collector/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller. The user record is loaded
// fresh from the directory on every request, so a demoted or deleted user
// loses access as soon as the directory changes, not at token expiry.
type Principal struct {
	User domain.User
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens *TokenManager
	store  *store.Store
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, st *store.Store) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, store: st}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	user, ok := m.store.User(claims.UserID)
	if !ok {
		return apperrors.NewUnauthorized("user not found")
	}
	if m.store.IsBlacklisted(user.ID) {
		return apperrors.NewForbidden("user is blacklisted")
	}

	c.Locals(principalKey, &Principal{User: user})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
