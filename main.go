package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"waitlist-api/pkg/clients/llm"
	"waitlist-api/pkg/clients/mail"
	"waitlist-api/pkg/clients/sheets"
	"waitlist-api/pkg/config"
	"waitlist-api/services/subscription"
)

// newCORSHandler restricts origins to the configured list while letting
// browsers send any method or header the frontend needs.
func newCORSHandler(allowedOrigins []string, next http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}).Handler(next)
}

func main() {
	ctx := context.Background()
	logHandler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})
	slog.SetDefault(slog.New(logHandler))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		return
	}

	store, err := sheets.NewClient(ctx, sheets.Config{
		SheetID:   cfg.SheetID,
		CredsFile: cfg.CredsFile,
		CredsJSON: cfg.CredsJSON,
	})
	if err != nil {
		slog.Error("Failed to create sheet client", "error", err)
		return
	}

	generator := llm.NewOpenRouterClient(llm.Config{
		APIKey:         cfg.OpenRouterAPIKey,
		Model:          cfg.OpenRouterModel,
		AppName:        cfg.AppName,
		SiteURL:        cfg.SiteURL,
		UnsubscribeURL: cfg.UnsubscribeURL,
	}, nil)

	mailer := mail.NewBrevoClient(mail.Config{
		APIKey:      cfg.BrevoAPIKey,
		SenderEmail: cfg.SenderEmail,
		SenderName:  cfg.SenderName,
		AppName:     cfg.AppName,
	}, nil)

	service, err := subscription.NewService(store, generator, mailer)
	if err != nil {
		slog.Error("Failed to create subscription service", "error", err)
		return
	}

	mainRouter := mux.NewRouter()
	service.LoadRoutes(mainRouter)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: newCORSHandler(cfg.AllowedOrigins, mainRouter),
	}

	serverErrors := make(chan error, 1)

	go func() {
		slog.Info("Starting server", "port", cfg.Port)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		slog.Error("Server error", "error", err)

	case sig := <-shutdown:
		slog.Info("Shutdown signal received", "signal", sig)

		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			slog.Error("Could not stop server gracefully", "error", err)
			srv.Close()
		}
	}
}
