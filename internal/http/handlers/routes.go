package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	applog "stridecart/internal/log"
	"stridecart/internal/services"
)

type Deps struct {
	ShopHandler     *ShopHandler
	CartHandler     *CartHandler
	CheckoutHandler *CheckoutHandler
	AuthHandler     *AuthHandler
	ManagerHandler  *ManagerHandler
	ChatHandler     *ChatHandler
}

func NewDeps() *Deps {
	return &Deps{
		ShopHandler:     &ShopHandler{},
		CartHandler:     &CartHandler{},
		CheckoutHandler: &CheckoutHandler{},
		AuthHandler:     &AuthHandler{},
		ManagerHandler:  &ManagerHandler{},
		ChatHandler:     &ChatHandler{},
	}
}

type RouteOptions struct {
	// LoginLimit caps login posts per client per minute; 0 disables it.
	LoginLimit int
}

// Routes installs the visitor middleware and every storefront page on app.
func Routes(app fiber.Router, reg *services.Registry, d *Deps, opts RouteOptions) {
	app.Use(Visitors(reg))

	// Public pages
	app.Get("/", d.ShopHandler.Home)
	app.Get("/products", d.ShopHandler.Products)
	app.Get("/products/:id", d.ShopHandler.Product)
	app.Get("/chat", d.ChatHandler.View)
	app.Post("/chat", d.ChatHandler.Send)

	// Auth routes (login throttled)
	login := []fiber.Handler{}
	if opts.LoginLimit > 0 {
		login = append(login, limiter.New(limiter.Config{
			Max:        opts.LoginLimit,
			Expiration: time.Minute,
			LimitReached: func(c *fiber.Ctx) error {
				applog.Security(c, "rate.login.hit", nil)
				c.Status(fiber.StatusTooManyRequests)
				return render(c, "login", fiber.Map{"Err": "Too many attempts. Please try again later."})
			},
		}))
	}
	app.Get("/login", d.AuthHandler.LoginForm)
	app.Post("/login", append(login, d.AuthHandler.Login)...)
	app.Get("/register", d.AuthHandler.RegisterForm)
	app.Post("/register", d.AuthHandler.Register)
	app.Post("/logout", d.AuthHandler.Logout)

	// Cart & checkout
	signedIn := RequireUser()
	app.Get("/cart", signedIn, d.CartHandler.View)
	app.Post("/cart/add", signedIn, d.CartHandler.Add)
	app.Post("/cart/:itemId/update", signedIn, d.CartHandler.Update)
	app.Post("/cart/:itemId/remove", signedIn, d.CartHandler.Remove)
	app.Get("/checkout", signedIn, d.CheckoutHandler.Form)
	app.Post("/checkout", signedIn, d.CheckoutHandler.Pay)

	// Manager
	mgr := app.Group("/manager", RequireManager())
	mgr.Get("/", d.ManagerHandler.Dashboard)
	mgr.Post("/products", d.ManagerHandler.SaveProduct)
	mgr.Post("/products/import", d.ManagerHandler.Import)
	mgr.Get("/products.xlsx", d.ManagerHandler.Export)
	mgr.Post("/products/:id/delete", d.ManagerHandler.DeleteProduct)
	mgr.Get("/customers", d.ManagerHandler.Customers)
	mgr.Post("/customers/:id", d.ManagerHandler.UpdateCustomer)
	mgr.Post("/customers/:id/delete", d.ManagerHandler.DeleteCustomer)
}

// CSRF guards every form post. Pages read the token from
// Locals("CSRFToken") and post it back in the "csrf" field.
func CSRF() fiber.Handler {
	return csrf.New(csrf.Config{
		KeyLookup:      "form:csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   false, // set true behind HTTPS
		ContextKey:     "CSRFToken",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "csrf.fail", map[string]any{"path": c.Path()})
			return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{"Message": "Security check failed. Please refresh and try again."}, layout)
		},
	})
}

// ErrorHandler logs the error and shows a friendly page without details.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "Something went wrong. Please try again."
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code < 500 {
		code, msg = fe.Code, fe.Message
	} else {
		applog.Error(c, "server.error", err, nil)
	}
	if rerr := c.Status(code).Render("notfound", fiber.Map{"Message": msg}, layout); rerr != nil {
		return c.Status(code).SendString(msg)
	}
	return nil
}
