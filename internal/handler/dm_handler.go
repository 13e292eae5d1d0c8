package handler

import (
	"errors"
	"net/http"

	"channelchat/internal/app/db"
	"channelchat/internal/pkg/errs"
	"channelchat/internal/pkg/logx"
	"channelchat/internal/pkg/req"
	"channelchat/internal/pkg/resp"
)

// HandleListRecipients returns the ids of every user except the caller.
func HandleListRecipients(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := identityFrom(r)
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		ids, err := deps.DB.ListOtherUserIDs(r.Context(), identity.ID)
		if err != nil {
			logx.Error(err, "list_recipients: query failed")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}
		if ids == nil {
			ids = []int64{}
		}
		resp.RespondSuccess(w, r, ids)
	}
}

// HandleOpenDM returns the caller's direct channel with {otherID}, creating it on first use.
func HandleOpenDM(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := identityFrom(r)
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		otherID, customErr := req.PathInt64(r, "otherID")
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		channel, created, err := deps.DMs.OpenDirectChannel(r.Context(), identity.ID, otherID)
		switch {
		case errors.Is(err, db.ErrSelfDirectChannel):
			resp.RespondError(w, r, errs.NewError(errs.ErrCannotDMSelf))
			return
		case db.IsForeignKeyViolation(err):
			resp.RespondError(w, r, errs.NewError(errs.ErrUserNotFound))
			return
		case err != nil:
			logx.Error(err, "open_dm: failed", "user_id", identity.ID, "other_id", otherID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		status := http.StatusOK
		if created {
			status = http.StatusCreated
		}
		resp.RespondStatus(w, r, status, map[string]any{
			"id":         channel.ID,
			"name":       channel.Name,
			"is_private": channel.Private,
			"repeated":   !created,
		})
	}
}
