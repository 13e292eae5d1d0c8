/*
Package handler provides HTTP handler functions for managing channels and their members.
*/
package handler

import (
	"net/http"
	"strings"

	"channelchat/internal/app/chat"
	"channelchat/internal/app/db"
	dbc "channelchat/internal/app/db/sqlc"
	"channelchat/internal/pkg/errs"
	"channelchat/internal/pkg/logx"
	"channelchat/internal/pkg/req"
	"channelchat/internal/pkg/resp"
)

type ChannelInput struct {
	Name      string `json:"name"`
	IsPrivate bool   `json:"is_private"`

	// RoleID binds a public channel to a role; 0 leaves it open to everyone.
	RoleID int64 `json:"role_id,omitempty"`
}

func (in ChannelInput) validate() *errs.CustomError {
	name := strings.TrimSpace(in.Name)
	if name == "" || len(name) > 100 || in.RoleID < 0 {
		return errs.NewError(errs.ErrInvalidParams)
	}
	return nil
}

// channelWriteError maps constraint failures of channel writes.
func channelWriteError(err error, op string) *errs.CustomError {
	switch {
	case db.IsUniqueViolation(err):
		return errs.NewError(errs.ErrChannelExists)
	case db.IsForeignKeyViolation(err):
		return errs.NewError(errs.ErrRoleNotFound)
	case db.IsNotFound(err):
		return errs.NewError(errs.ErrChannelNotFound)
	default:
		logx.Error(err, op+": query failed")
		return errs.NewError(errs.ErrUnknown)
	}
}

// HandleListChannels lists every channel ordered by name.
func HandleListChannels(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := deps.DB.ListChannels(r.Context())
		if err != nil {
			logx.Error(err, "list_channels: query failed")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		channels := make([]chat.Channel, 0, len(rows))
		for _, row := range rows {
			channels = append(channels, db.ToChatChannel(row))
		}
		resp.RespondSuccess(w, r, channels)
	}
}

// HandleGetChannel returns one channel's metadata.
func HandleGetChannel(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		channelID, customErr := req.PathInt64(r, "channelID")
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		row, err := deps.DB.GetChannel(r.Context(), channelID)
		if err != nil {
			resp.RespondError(w, r, channelWriteError(err, "get_channel"))
			return
		}
		resp.RespondSuccess(w, r, db.ToChatChannel(row))
	}
}

// HandleCreateChannel creates a channel.
func HandleCreateChannel(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input ChannelInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}
		if customErr := input.validate(); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		row, err := deps.DB.CreateChannel(r.Context(), dbc.CreateChannelParams{
			Name:      strings.TrimSpace(input.Name),
			IsPrivate: input.IsPrivate,
			RoleID:    db.Int8(input.RoleID),
		})
		if err != nil {
			resp.RespondError(w, r, channelWriteError(err, "create_channel"))
			return
		}

		logx.Info("Channel created.", "channel_id", row.ID, "name", row.Name)
		resp.RespondStatus(w, r, http.StatusCreated, db.ToChatChannel(row))
	}
}

// HandleUpdateChannel replaces a channel's name, visibility and role binding. Connections
// already joined keep their access until they reconnect.
func HandleUpdateChannel(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		channelID, customErr := req.PathInt64(r, "channelID")
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		var input ChannelInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}
		if customErr := input.validate(); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		row, err := deps.DB.UpdateChannel(r.Context(), dbc.UpdateChannelParams{
			ID:        channelID,
			Name:      strings.TrimSpace(input.Name),
			IsPrivate: input.IsPrivate,
			RoleID:    db.Int8(input.RoleID),
		})
		if err != nil {
			resp.RespondError(w, r, channelWriteError(err, "update_channel"))
			return
		}
		resp.RespondSuccess(w, r, db.ToChatChannel(row))
	}
}

// HandleDeleteChannel deletes a channel with its members and messages.
func HandleDeleteChannel(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		channelID, customErr := req.PathInt64(r, "channelID")
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		n, err := deps.DB.DeleteChannel(r.Context(), channelID)
		if err != nil {
			resp.RespondError(w, r, channelWriteError(err, "delete_channel"))
			return
		}
		if n == 0 {
			resp.RespondError(w, r, errs.NewError(errs.ErrChannelNotFound))
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

type AddMemberInput struct {
	UserID int64 `json:"user_id"`
}

// HandleAddChannelMember adds a user to a channel's member list. Adding an existing
// member is a no-op.
func HandleAddChannelMember(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		channelID, customErr := req.PathInt64(r, "channelID")
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		var input AddMemberInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}
		if input.UserID <= 0 {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		if _, err := deps.DB.GetChannel(r.Context(), channelID); err != nil {
			resp.RespondError(w, r, channelWriteError(err, "add_channel_member"))
			return
		}

		err := deps.DB.AddChannelMember(r.Context(), dbc.AddChannelMemberParams{ChannelID: channelID, UserID: input.UserID})
		switch {
		case db.IsForeignKeyViolation(err):
			resp.RespondError(w, r, errs.NewError(errs.ErrUserNotFound))
			return
		case err != nil:
			logx.Error(err, "add_channel_member: query failed", "channel_id", channelID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondStatus(w, r, http.StatusCreated, map[string]any{
			"channel_id": channelID,
			"user_id":    input.UserID,
		})
	}
}

// HandleChannelPresence returns the users currently connected to a channel.
func HandleChannelPresence(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := identityFrom(r)
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		channelID, customErr := req.PathInt64(r, "channelID")
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		users, customErr := deps.Manager.Presence(r.Context(), identity, channelID)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}
		resp.RespondSuccess(w, r, map[string]any{
			"channel_id":   channelID,
			"active_users": users,
		})
	}
}
