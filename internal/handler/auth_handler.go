/*
Package handler provides HTTP handler functions for user authentication and management.
*/
package handler

import (
	"net/http"

	"channelchat/internal/app/auth"
	"channelchat/internal/pkg/auth/jwt"
	"channelchat/internal/pkg/errs"
	"channelchat/internal/pkg/req"
	"channelchat/internal/pkg/resp"
)

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleRegister creates an account. It does not log the new user in.
func HandleRegister(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input auth.RegisterInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		identity, customErr := deps.Auth.Register(r.Context(), input)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		resp.RespondStatus(w, r, http.StatusCreated, map[string]any{
			"user": identity,
		})
	}
}

// HandleLogin verifies the credentials, starts a session and sets the session cookie.
// The token is also returned for clients that send it as a bearer header.
func HandleLogin(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input LoginInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		token, identity, customErr := deps.Auth.Login(r.Context(), input.Email, input.Password)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		http.SetCookie(w, jwt.SessionCookie(token, deps.Config.TokenTTL, !deps.Config.IsDevelopment()))

		resp.RespondSuccess(w, r, map[string]any{
			"access_token": token,
			"user":         identity,
		})
	}
}

// HandleLogout ends the session, closes the user's realtime connections and clears the cookie.
func HandleLogout(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := identityFrom(r)
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		if customErr := deps.Auth.Logout(r.Context(), identity); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		http.SetCookie(w, jwt.SessionCookie("", 0, !deps.Config.IsDevelopment()))
		resp.RespondSuccess(w, r, nil)
	}
}

// HandleMe returns the authenticated identity.
func HandleMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r)
	if !ok {
		resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
		return
	}

	resp.RespondSuccess(w, r, map[string]any{
		"user": identity,
	})
}
