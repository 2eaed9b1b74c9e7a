package devapi

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"stridecart/internal/domain"
	applog "stridecart/internal/log"
)

// RequireUser resolves the bearer token and stores the account under
// Locals("user").
func RequireUser(auth *AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		h := c.Get(fiber.HeaderAuthorization)
		tok, ok := strings.CutPrefix(h, "Bearer ")
		if !ok || tok == "" {
			return ErrUnauthorized
		}
		u, err := auth.Authenticate(tok)
		if err != nil {
			applog.Security(c, "auth.token.reject", map[string]any{"err": err.Error()})
			return ErrUnauthorized
		}
		c.Locals("user", u)
		return c.Next()
	}
}

// RequireManager must run after RequireUser.
func RequireManager() fiber.Handler {
	return func(c *fiber.Ctx) error {
		u, _ := c.Locals("user").(*domain.User)
		if !u.IsManager() {
			applog.Security(c, "access.denied.manager", nil)
			return ErrForbidden
		}
		return c.Next()
	}
}

func currentUser(c *fiber.Ctx) *domain.User {
	u, _ := c.Locals("user").(*domain.User)
	return u
}
