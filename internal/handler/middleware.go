package handler

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"channelchat/internal/app/user"
	"channelchat/internal/pkg/auth/jwt"
	"channelchat/internal/pkg/errs"
	"channelchat/internal/pkg/resp"
)

type identityKey struct{}

// IdentityMiddleware rejects requests without a valid session token and stores the
// resolved identity in the request context.
func IdentityMiddleware(authn Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, customErr := authn.Authenticate(r.Context(), jwt.TokenFromRequest(r))
			if customErr != nil {
				resp.RespondError(w, r, customErr)
				return
			}

			zerolog.Ctx(r.Context()).UpdateContext(func(c zerolog.Context) zerolog.Context {
				return c.Int64("user_id", identity.ID)
			})

			ctx := context.WithValue(r.Context(), identityKey{}, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin admits only identities holding the admin role. It must run after
// IdentityMiddleware.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := identityFrom(r)
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}
		if !identity.IsAdmin() {
			resp.RespondError(w, r, errs.NewError(errs.ErrForbidden))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func identityFrom(r *http.Request) (user.Identity, bool) {
	identity, ok := r.Context().Value(identityKey{}).(user.Identity)
	return identity, ok
}
