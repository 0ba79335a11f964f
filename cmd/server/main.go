// Package main runs the campus platform API server.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/campuslink/platform/internal/app/runtime"
	"github.com/campuslink/platform/internal/config"
	"github.com/campuslink/platform/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	log := logger.NewDefault("server")

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("load configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := runtime.New(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("initialise application")
	}

	if err := application.Run(ctx); err != nil {
		log.WithError(err).Fatal("server exited")
	}
}
