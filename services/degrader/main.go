package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/zerotwo/vakula/services/degrader/config"
	"github.com/zerotwo/vakula/services/degrader/wear"
)

func main() {
	log.SetPrefix("[DEGRADER] ")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Printf("degrading fleet via %s every %s", cfg.GatewayURL, cfg.Tick)

	d := wear.New(cfg.GatewayURL, cfg.RequestTimeout)
	d.Run(ctx, cfg.Tick)
}
