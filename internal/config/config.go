package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port    string
	APIURL  string // REST backend, e.g. http://localhost:5000/api
	BaseURL string // origin used to resolve relative image paths
	LogFile string

	SessionStore string // sqlite | redis
	SessionDSN   string
	RedisAddr    string

	APITimeout    time.Duration
	APIBreaker    bool
	CheckoutDelay time.Duration

	DevAPIPort string
	DevAPIDSN  string
	JWTSecret  string
	MediaDir   string
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func duration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("[config] bad %s=%q, using %s", key, v, def)
		return def
	}
	return d
}

// Load reads an optional .env file and then the process environment.
func Load() Config {
	_ = godotenv.Load()

	breaker, _ := strconv.ParseBool(os.Getenv("API_BREAKER"))
	cfg := Config{
		Port:          getenv("PORT", "3000"),
		APIURL:        strings.TrimRight(getenv("API_URL", "http://localhost:5000/api"), "/"),
		BaseURL:       getenv("BASE_URL", "http://localhost:5000"),
		LogFile:       getenv("LOG_FILE", "./stridecart.log"),
		SessionStore:  strings.ToLower(getenv("SESSION_STORE", "sqlite")),
		SessionDSN:    getenv("SESSION_DSN", "stridecart-session.db"),
		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		APITimeout:    duration("API_TIMEOUT", 15*time.Second),
		APIBreaker:    breaker,
		CheckoutDelay: duration("CHECKOUT_DELAY", 2*time.Second),
		DevAPIPort:    getenv("DEVAPI_PORT", "5000"),
		DevAPIDSN:     getenv("DEVAPI_DSN", "stridecart-devapi.db"),
		JWTSecret:     getenv("JWT_SECRET", "dev-secret-change-me"),
		MediaDir:      getenv("MEDIA_DIR", "./web/uploads"),
	}
	log.Printf("[config] PORT=%s API_URL=%s BASE_URL=%s SESSION_STORE=%s LOG_FILE=%s",
		cfg.Port, cfg.APIURL, cfg.BaseURL, cfg.SessionStore, cfg.LogFile)
	return cfg
}
