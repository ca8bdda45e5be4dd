package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/GoArmGo/TravelAlbum/internal/di"
)

func main() {
	// bootstrap-логгер (используется только на этапе инициализации т.к еще не создан slogger)
	bootstrapLogger := slog.New(
		slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
	)
	bootstrapLogger.Info("starting application")

	ctx := context.Background()

	app, err := di.BuildApp(ctx)
	if err != nil {
		bootstrapLogger.Error("failed to build app", "error", err)
		os.Exit(1)
	}

	bootstrapLogger.Info("application initialized successfully")

	log := app.LoggerIns()
	if log == nil {
		bootstrapLogger.Error("main logger is nil — app.LoggerIns() returned nil")
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		log.Error("application run failed", "error", err)
		os.Exit(1)
	}

	log.Info("application stopped gracefully")
}
