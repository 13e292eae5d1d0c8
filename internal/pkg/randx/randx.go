/*
Package randx generates identifiers: opaque connection handles for the presence
registry and session identifiers (jti) for issued tokens.
*/
package randx

import (
	"github.com/google/uuid"
)

// ConnID returns a fresh UUID v4 used as an opaque connection handle.
func ConnID() string {
	return uuid.New().String()
}

// SessionID returns a fresh UUID v4 used as the jti of a session token.
func SessionID() string {
	return uuid.NewString()
}

// IsValidSessionID reports whether id parses as a UUID.
func IsValidSessionID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
