package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"path"
	"syscall"

	"github.com/eskrenkovic/game-night/internal/config"
	"github.com/eskrenkovic/game-night/internal/server"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if len(os.Args) > 1 {
		rootPath := os.Args[1]
		if rootPath == "" {
			log.Fatal("root directoy path is empty")
		}

		if err := godotenv.Load(path.Join(rootPath, "config.env")); err != nil {
			log.Fatal(err)
		}
	}

	config, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = config.Logger.Sync() }()

	server, err := server.NewHTTPServer(config)
	if err != nil {
		config.Logger.Fatal("failed to create server", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() { serverErr <- server.Start() }()

	select {
	case err := <-serverErr:
		if err != nil {
			config.Logger.Fatal("server stopped unexpectedly", zap.Error(err))
		}
		return
	case <-ctx.Done():
	}

	config.Logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()

	if err := server.Stop(shutdownCtx); err != nil {
		config.Logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
