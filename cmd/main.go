package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/yungbote/code-explainer-backend/internal/app"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init app: %v\n", err)
		os.Exit(1)
	}
	a.Start()

	errCh := make(chan error, 1)
	go func() { errCh <- a.Run() }()

	select {
	case err := <-errCh:
		if err != nil {
			a.Log.Error("HTTP server failed", "error", err)
		}
	case <-ctx.Done():
		a.Log.Info("Shutting down...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	a.Close(shutdownCtx)
}
