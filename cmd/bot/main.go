package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"hr-intake-bot/internal/bootstrap"
	"hr-intake-bot/internal/config"
	"hr-intake-bot/internal/server"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Bootstrap Dependencies (Container)
	container, err := bootstrap.NewContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Bootstrap failed: %v", err)
	}
	defer container.Logger.Sync()

	// 3. Start the event dispatcher, then the transport poller
	if err := container.Dispatcher.Run(ctx); err != nil {
		log.Fatalf("Dispatcher failed to start: %v", err)
	}
	go func() {
		if err := container.Transport.Run(ctx); err != nil && ctx.Err() == nil {
			log.Printf("Transport stopped: %v", err)
		}
	}()

	// 4. Run the ops server in the foreground
	srv := server.New(cfg, container.Catalog)
	go func() {
		<-ctx.Done()
		_ = srv.GetApp().Shutdown()
	}()
	if err := srv.Run(); err != nil {
		log.Printf("Ops server stopped: %v", err)
	}
}
