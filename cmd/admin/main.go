package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"

	"accredapi/internal/config"
	"accredapi/internal/logging"
)

func main() {
	cfg := config.Load()
	log := logging.New(os.Stderr, cfg.Location(), cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCommand(cfg, log).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
