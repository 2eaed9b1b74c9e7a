package main

import (
	"io"
	"log"
	"os"
	"time"

	"stridecart/internal/config"
	"stridecart/internal/devapi"
	"stridecart/internal/devapi/repos"
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

	db, err := repos.OpenDB(cfg.DevAPIDSN)
	if err != nil {
		log.Fatal(err)
	}

	app, err := devapi.NewApp(db, devapi.Options{
		JWTSecret:   cfg.JWTSecret,
		MediaDir:    cfg.MediaDir,
		LoginLimit:  5,
		LoginWindow: 10 * time.Minute,
		AccessLog:   true,
	})
	if err != nil {
		log.Fatal(err)
	}

	log.Printf("[devapi] listening on :%s (media %s)", cfg.DevAPIPort, cfg.MediaDir)
	log.Fatal(app.Listen(":" + cfg.DevAPIPort))
}
