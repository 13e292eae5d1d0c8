package handler

import (
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"

	"channelchat/internal/app/db"
	dbc "channelchat/internal/app/db/sqlc"
	"channelchat/internal/pkg/errs"
	"channelchat/internal/pkg/logx"
	"channelchat/internal/pkg/req"
	"channelchat/internal/pkg/resp"
)

type roleView struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

func toRoleView(role dbc.Role) roleView {
	return roleView{ID: role.ID, Name: role.Name, Description: role.Description.String}
}

// HandleListRoles lists every role.
func HandleListRoles(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rows, err := deps.DB.ListRoles(r.Context())
		if err != nil {
			logx.Error(err, "list_roles: query failed")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		roles := make([]roleView, 0, len(rows))
		for _, row := range rows {
			roles = append(roles, toRoleView(row))
		}
		resp.RespondSuccess(w, r, roles)
	}
}

type CreateRoleInput struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// HandleCreateRole adds a role with a unique name.
func HandleCreateRole(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input CreateRoleInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		name := strings.TrimSpace(input.Name)
		if name == "" || len(name) > 50 {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		role, err := deps.DB.CreateRole(r.Context(), dbc.CreateRoleParams{
			Name:        name,
			Description: pgtype.Text{String: input.Description, Valid: input.Description != ""},
		})
		if err != nil {
			if db.IsUniqueViolation(err) {
				resp.RespondError(w, r, errs.NewError(errs.ErrRoleExists))
				return
			}
			logx.Error(err, "create_role: query failed")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondStatus(w, r, http.StatusCreated, toRoleView(role))
	}
}

// HandleDeleteRole removes a role. Users and channels bound to it become unbound.
func HandleDeleteRole(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roleID, customErr := req.PathInt64(r, "roleID")
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		n, err := deps.DB.DeleteRole(r.Context(), roleID)
		if err != nil {
			logx.Error(err, "delete_role: query failed", "role_id", roleID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}
		if n == 0 {
			resp.RespondError(w, r, errs.NewError(errs.ErrRoleNotFound))
			return
		}

		resp.RespondSuccess(w, r, nil)
	}
}
