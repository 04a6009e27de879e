// Package access holds the caller identity attached to authenticated
// requests and the ownership rule applied to users and tasks.
package access

import "github.com/adanyl0v/task-tracker/internal/models"

// Identity is the authenticated caller decoded from a bearer token.
type Identity struct {
	UserID int64
	Role   string
}

func (i Identity) IsAdmin() bool {
	return i.Role == models.RoleAdmin
}

// CanActOn reports whether the identity may read or modify a resource
// owned by ownerID. Administrators may act on any resource.
func CanActOn(identity Identity, ownerID int64) bool {
	return identity.IsAdmin() || identity.UserID == ownerID
}
