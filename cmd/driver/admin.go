package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/marksb/aeron/internal/admin"
	"github.com/marksb/aeron/internal/config"
	"github.com/marksb/aeron/internal/conductor"
)

// startAdmin serves the admin surface in the background if cfg.AdminAddr
// is set, returning a func that shuts it down cleanly. It never blocks
// runDriver: a failed listen is logged, not fatal, since the admin
// surface is diagnostic-only.
func startAdmin(cfg config.Config, c *conductor.Conductor) func() {
	if cfg.AdminAddr == "" {
		return func() {}
	}

	srv := &http.Server{
		Addr:              cfg.AdminAddr,
		Handler:           admin.New(c).Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("aeron-driver: admin server: %v", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
