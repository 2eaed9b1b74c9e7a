package handlers

import (
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	applog "stridecart/internal/log"
	"stridecart/internal/services"
)

const sidCookie = "sid"

// ensureSID returns the visitor's session key, issuing a fresh one when the
// cookie is missing or not one we could have issued.
func ensureSID(c *fiber.Ctx) string {
	sid := c.Cookies(sidCookie)
	if _, err := uuid.Parse(sid); err == nil {
		return sid
	}
	sid = uuid.NewString()
	c.Cookie(&fiber.Cookie{
		Name:     sidCookie,
		Value:    sid,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   false,
		Expires:  time.Now().Add(30 * 24 * time.Hour),
	})
	return sid
}

// Visitors attaches the caller's Visitor under Locals("visitor") and the
// signed-in user, if any, under Locals("user").
func Visitors(reg *services.Registry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		v, err := reg.Get(c.UserContext(), ensureSID(c))
		if err != nil {
			return err
		}
		c.Locals("visitor", v)
		if u := v.Session.User(); u != nil {
			c.Locals("user", u)
		}
		return c.Next()
	}
}

func visitor(c *fiber.Ctx) *services.Visitor {
	v, _ := c.Locals("visitor").(*services.Visitor)
	return v
}

// RequireUser sends anonymous visitors to the login page.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if visitor(c).Session.User() == nil {
			return c.Redirect("/login?next=" + url.QueryEscape(c.OriginalURL()))
		}
		return c.Next()
	}
}

// RequireManager lets managers through; anonymous visitors go to login and
// everyone else gets a 403 page.
func RequireManager() fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := visitor(c).Session.User()
		if u == nil {
			return c.Redirect("/login")
		}
		if !u.IsManager() {
			applog.Security(c, "access.denied.manager", nil)
			return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{"Message": "Access denied"}, layout)
		}
		return c.Next()
	}
}
