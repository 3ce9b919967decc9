package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"tastebook/internal/config"
	"tastebook/internal/db"
	"tastebook/internal/handlers"
	applog "tastebook/internal/log"
	"tastebook/internal/server"
	"tastebook/internal/storage"
	"tastebook/internal/token"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	if err := applog.SetLevel(cfg.LogLevel); err != nil {
		log.Fatalf("invalid log level: %v", err)
	}

	database, err := db.Configure(cfg.Database)
	if err != nil {
		log.Fatalf("database setup failed: %v", err)
	}

	images, err := storage.New(cfg.Uploads.Dir, cfg.Uploads.BaseURL)
	if err != nil {
		log.Fatalf("uploads directory setup failed: %v", err)
	}

	tokens, err := token.NewManager(cfg.Auth.Secret, cfg.Auth.TokenTTL)
	if err != nil {
		log.Fatalf("token manager setup failed: %v", err)
	}

	api := handlers.New(database, tokens, images)

	srv, err := server.New(server.Config{
		Addr:       cfg.Server.Addr,
		API:        api,
		UploadsDir: cfg.Uploads.Dir,
	})
	if err != nil {
		log.Fatalf("server setup failed: %v", err)
	}

	go func() {
		applog.Info(context.Background(), "starting http server", "addr", cfg.Server.Addr)
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server encountered an error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	<-sigCh

	applog.Info(context.Background(), "shutting down http server")
	if err := srv.Stop(); err != nil {
		log.Fatalf("graceful shutdown failed: %v", err)
	}
}
