package jwt

import "github.com/golang-jwt/jwt"

// Payload defines the JWT claims issued by the login endpoint.
//
// The standard Subject carries the user's email and Id carries the session identifier
// (jti). A token is only honoured while its jti equals the user's current session
// marker, so logging out or logging in elsewhere revokes older tokens.
type Payload struct {
	jwt.StandardClaims

	// Role is the role name at issue time. Informational only: authorization always
	// re-reads the role from storage.
	Role string `json:"role,omitempty"`
}

// Email returns the subject of the token.
func (p *Payload) Email() string {
	return p.Subject
}

// SessionID returns the jti of the token.
func (p *Payload) SessionID() string {
	return p.Id
}
