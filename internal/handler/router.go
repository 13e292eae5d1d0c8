/*
Package handler provides the HTTP handlers and routing setup for the channelchat server.

This file defines the main Router, applying middleware for logging, CORS and panic
recovery before delegating requests to the REST, WebSocket and metrics handlers.
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"

	"channelchat/internal/pkg/logx"
	"channelchat/internal/pkg/resp"
)

// NewUpgrader builds the WebSocket upgrader. Outside development only the configured
// origins may connect.
func NewUpgrader(deps *AppDeps) websocket.Upgrader {
	allowedOrigins := make(map[string]struct{})
	for _, origin := range deps.Config.AllowedOrigins {
		allowedOrigins[origin] = struct{}{}
	}

	return websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if deps.Config.IsDevelopment() {
				return true
			}

			origin := r.Header.Get("Origin")
			if _, ok := allowedOrigins[origin]; ok {
				return true
			}

			logx.Warn("WebSocket connection rejected: Origin not allowed.", "origin", origin)
			return false
		},
	}
}

// Router sets up the main HTTP routing table (chi.Router) for the application.
func Router(deps *AppDeps) http.Handler {
	r := chi.NewRouter()

	corsAllowedOrigins := []string{}
	if deps.Config.IsDevelopment() {
		corsAllowedOrigins = []string{"*"}
	} else if len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   corsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger("/health", "/metrics"))
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		resp.RespondSuccess(w, r, map[string]any{
			"status":   "ok",
			"service":  "channelchat",
			"presence": deps.Manager.Registry().Stats(),
		})
	})

	if deps.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	r.Route("/api", func(api chi.Router) {
		api.Route("/auth", func(auth chi.Router) {
			auth.Post("/register", HandleRegister(deps))
			auth.Post("/login", HandleLogin(deps))
			auth.With(IdentityMiddleware(deps.Auth)).Post("/logout", HandleLogout(deps))
		})

		api.Group(func(private chi.Router) {
			private.Use(IdentityMiddleware(deps.Auth))

			private.Route("/users", func(users chi.Router) {
				users.Get("/", HandleListUsers(deps))
				users.Get("/me", HandleMe)
				users.With(RequireAdmin).Put("/{userID}/role", HandleUpdateUserRole(deps))
			})

			private.Route("/roles", func(roles chi.Router) {
				roles.Use(RequireAdmin)
				roles.Get("/", HandleListRoles(deps))
				roles.Post("/", HandleCreateRole(deps))
				roles.Delete("/{roleID}", HandleDeleteRole(deps))
			})

			private.Route("/channels", func(channels chi.Router) {
				channels.Get("/", HandleListChannels(deps))
				channels.Get("/{channelID}", HandleGetChannel(deps))
				channels.Get("/{channelID}/presence", HandleChannelPresence(deps))

				channels.Group(func(admin chi.Router) {
					admin.Use(RequireAdmin)
					admin.Post("/", HandleCreateChannel(deps))
					admin.Put("/{channelID}", HandleUpdateChannel(deps))
					admin.Delete("/{channelID}", HandleDeleteChannel(deps))
					admin.Post("/{channelID}/members", HandleAddChannelMember(deps))
				})
			})

			private.Route("/messages", func(messages chi.Router) {
				messages.Get("/", HandleListMessages(deps))
				messages.Post("/", HandlePostMessage(deps))
				messages.Get("/{messageID}", HandleGetMessage(deps))
			})

			private.Route("/dms", func(dms chi.Router) {
				dms.Get("/recipients", HandleListRecipients(deps))
				dms.Post("/{otherID}", HandleOpenDM(deps))
			})
		})
	})

	r.Get("/ws/{channelID}", HandleWebSocket(deps.Manager, NewUpgrader(deps)))

	return r
}
