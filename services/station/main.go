package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/zerotwo/vakula/services/station/config"
	httpserver "github.com/zerotwo/vakula/services/station/http"
	"github.com/zerotwo/vakula/services/station/report"
	"github.com/zerotwo/vakula/services/station/sim"
)

func main() {
	log.SetPrefix("[STATION] ")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	station := sim.New(cfg.StationID, cfg.Name, cfg.Lat, cfg.Lon)
	reporter := report.New(cfg, station)

	go reporter.Run(ctx)

	srv := httpserver.New(cfg, station, reporter)
	log.Printf("station %s#%d listening on %s", cfg.Name, cfg.StationID, cfg.ListenAddr())

	if err := srv.Run(ctx); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
