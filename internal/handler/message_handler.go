package handler

import (
	"net/http"

	"channelchat/internal/app/chat"
	"channelchat/internal/app/db"
	"channelchat/internal/pkg/errs"
	"channelchat/internal/pkg/logx"
	"channelchat/internal/pkg/req"
	"channelchat/internal/pkg/resp"
)

const (
	defaultMessageLimit = 50
	maxMessageLimit     = 200
)

// HandleListMessages returns recent messages of ?channel_id, oldest first, bounded by ?limit.
func HandleListMessages(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := identityFrom(r)
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		channelID, customErr := req.QueryInt64(r, "channel_id")
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}
		limit, customErr := req.QueryIntDefault(r, "limit", defaultMessageLimit, 1, maxMessageLimit)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		msgs, customErr := deps.Manager.History(r.Context(), identity, channelID, limit)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}
		resp.RespondSuccess(w, r, msgs)
	}
}

// HandleGetMessage returns one message when its channel is accessible.
func HandleGetMessage(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := identityFrom(r)
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		messageID, customErr := req.PathInt64(r, "messageID")
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		row, err := deps.DB.GetMessage(r.Context(), messageID)
		if err != nil {
			if db.IsNotFound(err) {
				resp.RespondError(w, r, errs.NewError(errs.ErrMessageNotFound))
				return
			}
			logx.Error(err, "get_message: query failed", "message_id", messageID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		if _, customErr := chat.Authorize(r.Context(), deps.Manager.Directory(), identity, row.ChannelID); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"id":         row.ID,
			"channel_id": row.ChannelID,
			"author_id":  row.AuthorID,
			"author":     row.AuthorName,
			"content":    row.Content,
			"sent_at":    row.SentAt.Time,
		})
	}
}

type PostMessageInput struct {
	ChannelID int64  `json:"channel_id"`
	Content   string `json:"content"`
}

// HandlePostMessage stores a message and broadcasts it to the channel's live connections.
func HandlePostMessage(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := identityFrom(r)
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		var input PostMessageInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}
		if input.ChannelID <= 0 {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		msg, customErr := deps.Manager.PostMessage(r.Context(), identity, input.ChannelID, input.Content)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}
		resp.RespondStatus(w, r, http.StatusCreated, msg)
	}
}
