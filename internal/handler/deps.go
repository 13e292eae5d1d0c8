package handler

import (
	"context"

	"channelchat/internal/app/auth"
	"channelchat/internal/app/chat"
	dbc "channelchat/internal/app/db/sqlc"
	"channelchat/internal/app/metrics"
	"channelchat/internal/app/user"
	"channelchat/internal/configs"
	"channelchat/internal/pkg/errs"
)

// Authenticator resolves a session token. *auth.Service satisfies it.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (user.Identity, *errs.CustomError)
}

// DirectChannels opens two-member private channels. *db.ChatStore satisfies it.
type DirectChannels interface {
	OpenDirectChannel(ctx context.Context, userID, otherID int64) (chat.Channel, bool, error)
}

// AppDeps holds everything the handlers need.
type AppDeps struct {
	Config  *configs.AppConfig
	DB      *dbc.Queries
	DMs     DirectChannels
	Auth    *auth.Service
	Manager *chat.Manager
	Metrics *metrics.Metrics
}
