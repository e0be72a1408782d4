package auth

// Action is the kind of access requested on a resource.
type Action string

const (
	ActionRead   Action = "read"
	ActionWrite  Action = "write"
	ActionDelete Action = "delete"
)

// CanAccess allows admins everything and everyone else only their own
// resources.
func CanAccess(p Principal, ownerID string, _ Action) bool {
	if p.IsAdmin() {
		return true
	}
	return p.ID != "" && p.ID == ownerID
}

// CanChangeRole reports whether p may set the role attribute of a user.
func CanChangeRole(p Principal) bool {
	return p.IsAdmin()
}

// CanDeleteOrder applies the ownership rule plus the pending-only rule for
// non-admin callers.
func CanDeleteOrder(p Principal, ownerID string, pending bool) bool {
	if !CanAccess(p, ownerID, ActionDelete) {
		return false
	}
	return p.IsAdmin() || pending
}
