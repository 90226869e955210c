package domain

// Role is the privilege tier of an admin account. The two tiers are
// both elevated; SUPERADMIN is the topmost one gating sensitive
// mutations.
type Role string

const (
	RoleSuperadmin Role = "SUPERADMIN"
	RoleAdmin      Role = "ADMIN"
)

// DefaultRole is what newly created admins get unless the creator has
// the clearance to grant more.
const DefaultRole = RoleAdmin

// IsElevated reports whether the role belongs to the elevated set that
// passes the authentication gate.
func (r Role) IsElevated() bool {
	return r == RoleSuperadmin || r == RoleAdmin
}

// IsTopmost reports whether the role clears sensitive mutations such as
// role changes, disabling and deleting accounts.
func (r Role) IsTopmost() bool {
	return r == RoleSuperadmin
}

// CoerceGrant resolves the role an actor may hand out. A topmost actor
// grants what was asked. Anyone else asking for an elevated role gets
// the lesser elevated tier silently, never a rejection.
func (r Role) CoerceGrant(requested Role) Role {
	if r.IsTopmost() {
		return requested
	}
	return RoleAdmin
}

// ParseRole validates a wire-format role string.
func ParseRole(s string) (Role, bool) {
	role := Role(s)
	return role, role.IsElevated()
}
