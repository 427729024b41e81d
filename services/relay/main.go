package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/zerotwo/vakula/services/relay/config"
	httpserver "github.com/zerotwo/vakula/services/relay/http"
)

func main() {
	log.SetPrefix("[TELEGRAM] ")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	srv := httpserver.New(cfg)
	log.Printf("telegram relay listening on %s", cfg.ListenAddr())

	if err := srv.Run(ctx); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
