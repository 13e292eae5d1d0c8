package handler

import (
	"net/http"

	"github.com/gorilla/websocket"

	"channelchat/internal/app/db"
	dbc "channelchat/internal/app/db/sqlc"
	"channelchat/internal/pkg/errs"
	"channelchat/internal/pkg/logx"
	"channelchat/internal/pkg/req"
	"channelchat/internal/pkg/resp"
)

type userView struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role,omitempty"`
}

// HandleListUsers lists every account.
func HandleListUsers(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := deps.DB.ListUsers(r.Context())
		if err != nil {
			logx.Error(err, "list_users: query failed")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		users := make([]userView, 0, len(rows))
		for _, row := range rows {
			users = append(users, userView{
				ID:       row.ID,
				Email:    row.Email,
				FullName: row.FullName,
				Role:     row.RoleName.String,
			})
		}
		resp.RespondSuccess(w, r, users)
	}
}

type UpdateRoleInput struct {
	// RoleID is the new role; 0 removes the user's role.
	RoleID int64 `json:"role_id"`
}

// HandleUpdateUserRole rebinds a user's role. Live connections of the user are closed
// so they re-authorize under the new role.
func HandleUpdateUserRole(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, customErr := req.PathInt64(r, "userID")
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		var input UpdateRoleInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}
		if input.RoleID < 0 {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		n, err := deps.DB.UpdateUserRole(r.Context(), dbc.UpdateUserRoleParams{
			ID:     userID,
			RoleID: db.Int8(input.RoleID),
		})
		switch {
		case db.IsForeignKeyViolation(err):
			resp.RespondError(w, r, errs.NewError(errs.ErrRoleNotFound))
			return
		case err != nil:
			logx.Error(err, "update_user_role: query failed", "user_id", userID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		case n == 0:
			resp.RespondError(w, r, errs.NewError(errs.ErrUserNotFound))
			return
		}

		closed := deps.Manager.Registry().DisconnectUser(userID, websocket.ClosePolicyViolation, "role changed")
		logx.Info("User role updated.", "user_id", userID, "role_id", input.RoleID, "closed_connections", closed)

		resp.RespondSuccess(w, r, map[string]any{
			"id":      userID,
			"role_id": input.RoleID,
		})
	}
}
