package assistant

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"channelchat/internal/app/chat"
)

// ErrNotConfigured is returned by NewService when no service URL is set.
var ErrNotConfigured = errors.New("assistant service URL is not configured")

// ServiceConfig holds the configuration required to reach the text-processing service.
type ServiceConfig struct {
	// BaseURL is the service root, e.g. http://127.0.0.1:8001.
	BaseURL string

	// Timeout bounds a single call when the caller's context carries no deadline.
	Timeout time.Duration

	// HTTPClient overrides the default client, mainly for tests.
	HTTPClient *http.Client
}

// Service is the external text-processing service used by the chat commands.
type Service interface {
	chat.Assistant
}

// NewService is the factory function for Service. It returns ErrNotConfigured when
// cfg.BaseURL is empty so callers can run without an assistant.
func NewService(cfg ServiceConfig) (Service, error) {
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		return nil, ErrNotConfigured
	}

	return newHTTPClient(cfg), nil
}

// Summarize and Reply keep the call bounded even when ctx has no deadline.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok || timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
