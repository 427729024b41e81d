package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/zerotwo/vakula/services/broker/config"
	"github.com/zerotwo/vakula/services/broker/fleet"
	httpserver "github.com/zerotwo/vakula/services/broker/http"
)

func main() {
	log.SetPrefix("[BROKER] ")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	meta := fleet.LoadStationMeta(cfg.MetaPath)
	notifier := fleet.NewRelayNotifier(cfg.RelayURL, cfg.NotifyTimeout)
	agg := fleet.NewAggregator(cfg.StaleAfter, meta, notifier, fleet.NewHub())

	go agg.Run(ctx, cfg.SweepInterval)

	srv := httpserver.New(cfg, agg)
	log.Printf("broker listening on %s", cfg.ListenAddr())

	if err := srv.Run(ctx); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
