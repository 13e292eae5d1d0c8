package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"channelchat/internal/app/assistant"
	"channelchat/internal/app/auth"
	"channelchat/internal/app/chat"
	"channelchat/internal/app/db"
	"channelchat/internal/app/metrics"
	"channelchat/internal/configs"
	"channelchat/internal/handler"
	"channelchat/internal/pkg/logx"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(load func() (*configs.AppConfig, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and WebSocket server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(parent context.Context, cfg *configs.AppConfig) error {
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Int("history_limit", cfg.HistoryLimit).
		Bool("assistant", cfg.AIServiceURL != "").
		Int64("chatbot_user_id", cfg.ChatbotUserID).
		Msg("Configuration loaded successfully")

	if parent == nil {
		parent = context.Background()
	}
	// Create a context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(cfg.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	store := db.NewChatStore(pool)
	registry := chat.NewRegistry()
	authService := auth.NewService(cfg, store.Queries(), registry)

	var assistantService chat.Assistant
	svc, err := assistant.NewService(assistant.ServiceConfig{
		BaseURL: cfg.AIServiceURL,
		Timeout: cfg.AIServiceTimeout,
	})
	switch {
	case err == nil:
		assistantService = svc
	case errors.Is(err, assistant.ErrNotConfigured):
		logx.Warn("AI_SERVICE_URL not set, summaries and chatbot replies use fallback texts.")
	default:
		return fmt.Errorf("failed to initialize assistant client: %w", err)
	}

	manager := chat.NewManager(cfg, registry, authService, store, store, assistantService)
	appMetrics := metrics.New(registry)
	manager.SetRecorder(appMetrics)

	router := handler.Router(&handler.AppDeps{
		Config:  cfg,
		DB:      store.Queries(),
		DMs:     store,
		Auth:    authService,
		Manager: manager,
		Metrics: appMetrics,
	})

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:              serverAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logx.Info(fmt.Sprintf("channelchat server starting on http://localhost%s", serverAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		logx.Info("Received shutdown signal. Starting graceful shutdown...")
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	// Hijacked WebSocket connections are not tracked by http.Server, so the Manager
	// closes them itself.
	if err := manager.Shutdown(shutdownCtx); err != nil {
		logx.Error(err, "Realtime sessions did not finish before the deadline")
	}

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logx.Info("Server gracefully stopped.")
	return nil
}
