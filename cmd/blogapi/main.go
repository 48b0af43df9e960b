package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"

	"github.com/eringen/blogapi"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	cmd := "serve"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "serve":
		if err := runServe(); err != nil {
			log.Fatalf("blogapi: %v", err)
		}
	case "version":
		fmt.Printf("blogapi %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func runServe() error {
	// A missing .env file is fine; the environment may already be set.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warnf("load .env: %v", err)
	}

	cfg, err := blogapi.LoadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := blogapi.OpenStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.StoreDriver, err)
	}
	log.Infof("connected to %s store", cfg.StoreDriver)

	app, err := blogapi.New(cfg, st)
	if err != nil {
		st.Close(context.Background())
		return err
	}

	errCh := make(chan error, 1)
	go func() { errCh <- app.Start() }()

	select {
	case err := <-errCh:
		st.Close(context.Background())
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return app.Shutdown(shutdownCtx)
}

func printUsage() {
	fmt.Println(`blogapi - JSON backend for a blogging site

Usage:
  blogapi [command]

Commands:
  serve      Start the HTTP server (default)
  version    Print the blogapi version
  help       Show this help message

Configuration is read from the environment and an optional .env file.
ACCESS_TOKEN_SECRET is required. STORE_DRIVER selects mongo (default,
needs MONGODB_URI or DB_USER/DB_PASS) or sqlite (SQLITE_PATH).`)
}
