package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"

	"github.com/vidgrab/vidgrab/internal/config"
	"github.com/vidgrab/vidgrab/internal/download"
	"github.com/vidgrab/vidgrab/internal/engine"
	"github.com/vidgrab/vidgrab/internal/httpapi"
	"github.com/vidgrab/vidgrab/internal/hub"
	"github.com/vidgrab/vidgrab/internal/resolve"
)

func main() {
	// Optional .env; real environment wins
	godotenv.Load()

	cfg := config.LoadServerConfig()
	SetupLogger(cfg.LogLevel)

	eng := engine.New(cfg.YTDLPPath)
	resolver := resolve.New(eng)
	orchestrator := download.NewOrchestrator(eng, eng)

	progressHub := hub.New()
	go progressHub.Run()

	handlers := httpapi.NewHandlers(resolver, orchestrator, progressHub)
	r := httpapi.NewRouter(handlers)

	server := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	done := make(chan bool, 1)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		slog.Info("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server forced to shutdown")
		}
		done <- true
	}()

	slog.Info("Server starting", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("Failed to start server", "error", err)
	}
	<-done
	slog.Info("Server exited")
}

func SetupLogger(level slog.Level) {
	handler := tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: "2006-01-02 15:04:05",
		AddSource:  true,
	})

	slog.SetDefault(slog.New(handler))
}
