/*
Package handler provides the HTTP handler function for WebSocket connection upgrading and initialization.

This file contains HandleWebSocket, which upgrades the connection, starts the client's
write pump and hands the connection to the Manager. Authentication and channel
authorization happen after the upgrade so that rejections are reported as close codes.
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"channelchat/internal/app/chat"
	"channelchat/internal/pkg/auth/jwt"
	"channelchat/internal/pkg/logx"
)

// HandleWebSocket creates an HTTP HandlerFunc serving GET /ws/{channelID}.
func HandleWebSocket(manager *chat.Manager, upgrader websocket.Upgrader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rawChannelID := chi.URLParam(r, "channelID")
		token := jwt.TokenFromRequest(r)

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		client := chat.NewClient(conn)

		go client.WritePump()

		logx.Info("WebSocket connection established", "conn_id", string(client.ID()), "channel", rawChannelID)

		manager.Serve(r.Context(), client, token, rawChannelID)
	}
}
