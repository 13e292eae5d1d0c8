/*
Package user contains the identity of an authenticated chat participant.

An Identity is resolved once when a connection is authorized and stays fixed for the
lifetime of that connection.
*/
package user

// AdminRole is the role name required by administrative endpoints.
const AdminRole = "admin"

// Identity is the authenticated view of a user.
type Identity struct {
	// ID is the stable numeric user identifier.
	ID int64 `json:"id"`

	// Name is the display name shown to other participants.
	Name string `json:"name"`

	// RoleID is the bound role, 0 when the user has none.
	RoleID int64 `json:"role_id,omitempty"`

	// RoleName is the name of RoleID, empty when the user has none.
	RoleName string `json:"role,omitempty"`
}

// HasRole reports whether the identity is bound to roleID. A zero roleID never matches.
func (i Identity) HasRole(roleID int64) bool {
	return roleID != 0 && i.RoleID == roleID
}

// IsAdmin reports whether the identity holds the admin role.
func (i Identity) IsAdmin() bool {
	return i.RoleName == AdminRole
}
