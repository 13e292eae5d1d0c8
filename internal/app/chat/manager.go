package chat

// The Manager is the entry point of the realtime layer. It owns the Registry, holds the
// collaborators every Session needs, and tracks running sessions for graceful shutdown.

import (
	"context"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"channelchat/internal/configs"
	"channelchat/internal/pkg/logx"
)

// Manager struct is responsible for coordinating all realtime sessions.
type Manager struct {
	registry  *Registry
	verifier  IdentityVerifier
	directory Directory
	store     MessageStore

	// assistant is optional; nil selects the fallback texts.
	assistant Assistant

	// recorder observes session outcomes; never nil.
	recorder Recorder

	// config holds the application's read-only configuration settings.
	config *configs.AppConfig

	// ctx is cancelled by Shutdown and ends every running session.
	ctx    context.Context
	cancel context.CancelFunc

	// mu guards closed and the wg.Add calls racing with Shutdown.
	mu     sync.Mutex
	closed bool

	// wg counts running sessions.
	wg sync.WaitGroup

	// structured logger with Manager context.
	logger zerolog.Logger
}

// NewManager constructs and returns a new Manager instance.
func NewManager(
	cfg *configs.AppConfig,
	registry *Registry,
	verifier IdentityVerifier,
	directory Directory,
	store MessageStore,
	assistant Assistant,
) *Manager {
	ctx, cancel := context.WithCancel(context.Background())

	return &Manager{
		registry:  registry,
		verifier:  verifier,
		directory: directory,
		store:     store,
		assistant: assistant,
		recorder:  nopRecorder{},
		config:    cfg,
		ctx:       ctx,
		cancel:    cancel,
		logger:    logx.Component("Manager"),
	}
}

// Registry returns the presence registry shared by all sessions.
func (m *Manager) Registry() *Registry {
	return m.registry
}

// SetRecorder installs r to observe session outcomes. Call it before serving.
func (m *Manager) SetRecorder(r Recorder) {
	if r == nil {
		r = nopRecorder{}
	}
	m.recorder = r
}

// Directory returns the channel directory used to authorize sessions.
func (m *Manager) Directory() Directory {
	return m.directory
}

// Serve runs a Session for socket until the connection ends or the Manager shuts down.
// token is the client's credential and rawChannelID the requested channel.
func (m *Manager) Serve(ctx context.Context, socket Socket, token, rawChannelID string) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		socket.Close(websocket.CloseGoingAway, "server shutting down")
		return
	}
	m.wg.Add(1)
	m.mu.Unlock()
	defer m.wg.Done()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stop := context.AfterFunc(m.ctx, func() {
		cancel()
		socket.Close(websocket.CloseGoingAway, "server shutting down")
	})
	defer stop()

	s := &Session{
		manager: m,
		socket:  socket,
		conn:    &joiningConn{Socket: socket},
		state:   StateConnecting,
		logger:  m.logger.With().Str("component", "Session").Str("conn_id", string(socket.ID())).Logger(),
	}

	s.Run(ctx, token, rawChannelID)
}

// Shutdown gracefully closes every session and waits for them to deregister, or for
// ctx to expire.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.logger.Info().Msg("Shutting down Manager...")

	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()

	m.cancel()
	m.registry.Shutdown()

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		m.logger.Info().Msg("Manager shutdown complete.")
		return nil
	case <-ctx.Done():
		m.logger.Warn().Err(ctx.Err()).Msg("Manager shutdown timed out with sessions still running.")
		return ctx.Err()
	}
}
