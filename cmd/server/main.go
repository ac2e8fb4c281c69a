package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"scanform/internal/config"
	"scanform/internal/extractor"
	"scanform/internal/handler"
	"scanform/internal/router"
	"scanform/internal/service"
	"scanform/internal/verifier"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// External service clients
	extractClient := extractor.NewClient(&cfg.Extractor)
	verifyClient := verifier.NewClient(&cfg.Verifier)

	// Services
	sessionSvc := service.NewSessionService(&cfg.Upload)
	extractionSvc := service.NewExtractionService(sessionSvc, extractClient)
	verificationSvc := service.NewVerificationService(sessionSvc, verifyClient)

	// Handlers
	sessionH := handler.NewSessionHandler(sessionSvc, extractionSvc, verificationSvc)
	healthH := handler.NewHealthHandler()

	r := router.Setup(sessionH, healthH, cfg.CORS.AllowedOrigins)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Session janitor
	janitor := service.NewSessionJanitor(sessionSvc, service.JanitorConfig{
		TTL:           time.Duration(cfg.Session.TTLMinutes) * time.Minute,
		SweepInterval: time.Duration(cfg.Session.SweepIntervalSecs) * time.Second,
	})
	go janitor.Start(ctx)

	srv := &http.Server{
		Addr:    cfg.Server.Port,
		Handler: r,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	log.Printf("Server stopped")
	return nil
}
