// Package main provides the relay binary: a dumb websocket broadcast hub
// that forwards frames between the clients of a room without parsing them.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/riftforge/arena/internal/config"
	"github.com/riftforge/arena/internal/observability"
	"github.com/riftforge/arena/internal/relay"
	"github.com/riftforge/arena/internal/server"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/arena.yaml", "path to configuration file")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	hub := relay.NewHub(logger)
	srv := relay.NewServer(cfg.Relay.Addr(), hub, logger)

	lifecycle := server.NewLifecycle(logger)
	lifecycle.Add("relay", &server.FuncService{
		StartFn: srv.ListenAndServe,
		StopFn:  srv.Stop,
	})

	logger.Info("relay initialized",
		zap.String("addr", cfg.Relay.Addr()),
		zap.Duration("startup", time.Since(start)),
	)

	if err := lifecycle.Run(ctx); err != nil {
		logger.Fatal("relay error", zap.Error(err))
	}
}
