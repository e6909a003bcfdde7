package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/groupcart/order-collector/pkg/util"
)

// RequireAdmin rejects requests whose principal is not an admin.
func RequireAdmin(c *fiber.Ctx) error {
	principal, ok := PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if !principal.User.IsAdmin {
		return apperrors.NewForbidden("admin access required")
	}
	return c.Next()
}

// RequireUser rejects unauthenticated requests.
func RequireUser(c *fiber.Ctx) error {
	if _, ok := PrincipalFromContext(c); !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	return c.Next()
}
