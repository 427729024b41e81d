package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/zerotwo/vakula/services/gateway/config"
	httpserver "github.com/zerotwo/vakula/services/gateway/http"
	"github.com/zerotwo/vakula/services/gateway/registry"
)

func main() {
	log.SetPrefix("[GATEWAY] ")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	srv := httpserver.New(cfg, registry.New())
	log.Printf("gateway listening on %s", cfg.ListenAddr())

	if err := srv.Run(ctx); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
