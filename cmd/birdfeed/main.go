package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"birdfeed/internal/app"
	"birdfeed/pkg/config"
	"birdfeed/pkg/logger"
)

// build metadata - set via ldflags during build/release
var version = "dev"

func main() {
	flags := config.ParseFlags()
	eff, err := config.LoadEffective(flags)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger.InitWithLevel(eff.Config.Logging.Level)

	a, err := app.New(eff, version)
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := a.Run(ctx); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
