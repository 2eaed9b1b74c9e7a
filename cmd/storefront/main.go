package main

import (
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"stridecart/internal/apiclient"
	"stridecart/internal/config"
	"stridecart/internal/http/handlers"
	"stridecart/internal/metrics"
	"stridecart/internal/services"
	"stridecart/internal/session"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			log.SetOutput(io.MultiWriter(os.Stdout, f))
		}
	}

	store, err := openSessions(cfg)
	if err != nil {
		log.Fatal(err)
	}

	opts := []apiclient.Option{apiclient.WithTimeout(cfg.APITimeout)}
	if cfg.APIBreaker {
		opts = append(opts, apiclient.WithBreaker(5, 30*time.Second))
	}
	client := apiclient.New(cfg.APIURL, nil, opts...)

	m := metrics.New(prometheus.DefaultRegisterer)
	reg := services.NewRegistry(client, store, m, cfg.CheckoutDelay)
	go func() {
		for range time.Tick(10 * time.Minute) {
			if n := reg.Sweep(time.Hour); n > 0 {
				log.Printf("[visitors] swept %d idle, %d active", n, reg.Len())
			}
		}
	}()

	// Templates & app
	engine := handlers.NewEngine("./web/templates", cfg.BaseURL)
	engine.Reload(true)

	app := fiber.New(fiber.Config{
		Views:        engine,
		ErrorHandler: handlers.ErrorHandler,
		// product images go through multipart forms
		BodyLimit: 10 << 20,
	})

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			p := string(c.Request().URI().Path())
			return strings.HasPrefix(p, "/static/") || p == "/metrics" || p == "/healthz"
		},
	}))
	app.Use(handlers.CSRF())

	app.Static("/static", "./web/static")
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	handlers.Routes(app, reg, handlers.NewDeps(), handlers.RouteOptions{LoginLimit: 5})

	// 404
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(404).Render("notfound", fiber.Map{"Message": "Page not found"}, "layouts/main")
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}

// openSessions picks the persisted-session backend named by SESSION_STORE.
func openSessions(cfg config.Config) (session.Store, error) {
	if cfg.SessionStore == "redis" {
		log.Printf("[session] redis at %s", cfg.RedisAddr)
		return session.NewRedisStore(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})), nil
	}
	log.Printf("[session] sqlite at %s", cfg.SessionDSN)
	st, err := session.OpenSQLStore(cfg.SessionDSN)
	if err != nil {
		return nil, err
	}
	return st, nil
}
