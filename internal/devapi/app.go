// Package devapi is the REST backend the storefront talks to during
// development: products, carts, accounts and a canned shopping assistant
// over SQLite.
package devapi

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jmoiron/sqlx"

	"stridecart/internal/devapi/repos"
	applog "stridecart/internal/log"
)

type Options struct {
	JWTSecret string
	TokenTTL  time.Duration
	MediaDir  string

	// LoginLimit caps login attempts per client per LoginWindow; 0 disables it.
	LoginLimit  int
	LoginWindow time.Duration
	AccessLog   bool
}

// NewApp wires repositories, services and handlers into a Fiber app. Every
// route lives under /api except /uploads and /healthz.
func NewApp(db *sqlx.DB, opts Options) (*fiber.App, error) {
	if opts.TokenTTL == 0 {
		opts.TokenTTL = 7 * 24 * time.Hour
	}
	media, err := NewMedia(opts.MediaDir)
	if err != nil {
		return nil, err
	}

	userRepo := repos.NewUserRepo(db)
	prodRepo := repos.NewProductRepo(db)
	cartRepo := repos.NewCartRepo(db)

	authSvc := &AuthService{Users: userRepo, Tokens: NewTokens(opts.JWTSecret, opts.TokenTTL)}
	authH := &AuthHandler{Auth: authSvc}
	prodH := &ProductHandler{Catalog: NewCatalogService(prodRepo), Media: media}
	cartH := &CartHandler{Cart: &CartService{Carts: cartRepo, Products: prodRepo}}
	userH := &UserHandler{Users: &UserService{Users: userRepo}}
	chatH := &ChatHandler{Assistant: &Assistant{Products: prodRepo}}

	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler,
		BodyLimit:    10 << 20, // product images
	})

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	if opts.AccessLog {
		app.Use(logger.New())
	}
	// uploads are embedded by the storefront, which runs on another origin
	app.Use(helmet.New(helmet.Config{CrossOriginResourcePolicy: "cross-origin"}))

	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Get("/uploads/*", prodH.Upload)

	api := app.Group("/api")

	// Auth (login throttled)
	login := []fiber.Handler{}
	if opts.LoginLimit > 0 {
		login = append(login, limiter.New(limiter.Config{
			Max:        opts.LoginLimit,
			Expiration: opts.LoginWindow,
			LimitReached: func(c *fiber.Ctx) error {
				applog.Security(c, "rate.login.hit", nil)
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"message": "Too many attempts. Please try again later."})
			},
		}))
	}
	api.Post("/auth/login", append(login, authH.Login)...)
	api.Post("/auth/register", authH.Register)

	// Catalog
	signedIn := RequireUser(authSvc)
	manager := RequireManager()
	api.Get("/products", prodH.List)
	api.Get("/products/:id", prodH.Get)
	api.Post("/products", signedIn, manager, prodH.Create)
	api.Put("/products/:id", signedIn, manager, prodH.Update)
	api.Delete("/products/:id", signedIn, manager, prodH.Delete)

	// Cart
	cart := api.Group("/cart", signedIn)
	cart.Get("/", cartH.View)
	cart.Post("/add", cartH.Add)
	cart.Put("/update/:itemId", cartH.Update)
	cart.Delete("/remove/:itemId", cartH.Remove)

	// Customers
	users := api.Group("/users", signedIn, manager)
	users.Get("/", userH.List)
	users.Put("/:id", userH.Update)
	users.Delete("/:id", userH.Delete)

	api.Post("/chat", chatH.Send)

	app.Use(func(c *fiber.Ctx) error { return ErrNotFound })
	return app, nil
}
