package jwt

import (
	"net/http"
	"strings"
	"time"
)

// CookieName is the http-only cookie carrying the session token.
const CookieName = "access_token"

// TokenFromRequest returns the session token from the access_token cookie,
// falling back to an "Authorization: Bearer" header. Empty when neither is present.
func TokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) == 2 && parts[0] == "Bearer" {
		return strings.TrimSpace(parts[1])
	}

	return ""
}

// SessionCookie builds the http-only cookie carrying token. A zero ttl expires it.
func SessionCookie(token string, ttl time.Duration, secure bool) *http.Cookie {
	cookie := &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(ttl / time.Second),
	}
	if ttl <= 0 {
		cookie.Value = ""
		cookie.MaxAge = -1
	}
	return cookie
}
