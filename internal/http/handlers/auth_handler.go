package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"stridecart/internal/domain"
	applog "stridecart/internal/log"
)

type AuthHandler struct{}

// safeNext keeps post-login redirects on this site.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, "\\") {
		return "/"
	}
	return next
}

// GET /login
func (h *AuthHandler) LoginForm(c *fiber.Ctx) error {
	visitor(c).Auth.ClearError()
	return render(c, "login", fiber.Map{"Next": safeNext(c.Query("next"))})
}

// POST /login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	v := visitor(c)
	email := strings.TrimSpace(c.FormValue("email"))
	next := safeNext(c.FormValue("next"))
	if err := v.Auth.Login(c.UserContext(), domain.Credentials{Email: email, Password: c.FormValue("password")}); err != nil {
		applog.Security(c, "auth.login.fail", map[string]any{"email": email})
		c.Status(fiber.StatusUnauthorized)
		return render(c, "login", fiber.Map{
			"Err":   v.Store.Auth.Snapshot().Err,
			"Email": email,
			"Next":  next,
		})
	}
	c.Locals("user", v.Session.User())
	applog.Audit(c, "auth.login.success", map[string]any{"email": email})
	_ = v.Cart.Fetch(c.UserContext())
	return c.Redirect(next)
}

// GET /register
func (h *AuthHandler) RegisterForm(c *fiber.Ctx) error {
	visitor(c).Auth.ClearError()
	return render(c, "register", nil)
}

// POST /register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	v := visitor(c)
	reg := domain.Registration{
		Name:     strings.TrimSpace(c.FormValue("name")),
		Email:    strings.TrimSpace(c.FormValue("email")),
		Password: c.FormValue("password"),
	}
	if err := v.Auth.Register(c.UserContext(), reg, c.FormValue("confirm")); err != nil {
		applog.Security(c, "auth.register.fail", map[string]any{"email": reg.Email})
		c.Status(fiber.StatusBadRequest)
		return render(c, "register", fiber.Map{
			"Err":   v.Store.Auth.Snapshot().Err,
			"Name":  reg.Name,
			"Email": reg.Email,
		})
	}
	c.Locals("user", v.Session.User())
	applog.Audit(c, "auth.register.success", map[string]any{"email": reg.Email})
	return c.Redirect("/")
}

// POST /logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	v := visitor(c)
	if err := v.Auth.Logout(c.UserContext()); err != nil {
		applog.Error(c, "auth.logout.fail", err, nil)
	}
	applog.Audit(c, "auth.logout", nil)
	return c.Redirect("/")
}
