package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/ryosukesatoh/letter-insight/internal/catalog"
	"github.com/ryosukesatoh/letter-insight/internal/config"
	"github.com/ryosukesatoh/letter-insight/internal/history"
	"github.com/ryosukesatoh/letter-insight/internal/insight"
	"github.com/ryosukesatoh/letter-insight/internal/source"
	"github.com/ryosukesatoh/letter-insight/internal/web"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	refreshOnStart := flag.Bool("refresh-on-start", false, "scrape the listing before serving")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	src, err := source.New(cfg)
	if err != nil {
		log.Fatalf("Failed to build source: %v", err)
	}

	insighter, err := insight.New(cfg)
	if err != nil {
		log.Fatalf("Failed to build insighter: %v", err)
	}

	cache := catalog.NewCache(src)
	store := history.New(cfg.Cache.HistoryLimit)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if *refreshOnStart || cfg.Cache.RefreshOnStart {
		log.Println("Running initial catalog refresh...")
		if _, err := cache.Refresh(ctx); err != nil {
			// Serve anyway; the first list request retries the fetch.
			log.Printf("Initial refresh failed: %v", err)
		}
	}

	server := web.NewServer(cfg.Server.Addr, &web.Handlers{
		Cache:     cache,
		Insighter: insighter,
		History:   store,
	})
	if err := server.Start(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	// Optional background refresh; the catalog has no automatic expiry, so
	// without a schedule it only changes on explicit refresh calls.
	var c *cron.Cron
	if cfg.Cache.RefreshSchedule != "" {
		c = cron.New()
		_, err := c.AddFunc(cfg.Cache.RefreshSchedule, func() {
			log.Println("Cron triggered, refreshing catalog...")
			if _, err := cache.Refresh(ctx); err != nil {
				log.Printf("Scheduled refresh failed: %v", err)
			}
		})
		if err != nil {
			log.Fatalf("Failed to set up cron schedule %q: %v", cfg.Cache.RefreshSchedule, err)
		}
		c.Start()
		log.Printf("Scheduled catalog refresh with cron expression: %s", cfg.Cache.RefreshSchedule)
	}

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Printf("Received signal %v, shutting down...", sig)

	// Graceful shutdown
	cancel()
	if c != nil {
		c.Stop()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Shutdown complete")
}
