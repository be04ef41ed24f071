// Package authorization defines actor roles and the closed capability table.
// Permission checks are plain table lookups invoked explicitly at the start
// of each handler; there is no policy engine and no reflection.
package authorization

// Role is an actor role carried in the operator auth token.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleAgency   Role = "agency"
	RoleBrand    Role = "brand"
	RoleStreamer Role = "streamer"
	RoleViewer   Role = "viewer"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleAgency, RoleBrand, RoleStreamer, RoleViewer:
		return true
	}
	return false
}

// ParseRole maps a string to a Role, defaulting to the least-privileged
// viewer role for anything unknown.
func ParseRole(s string) Role {
	role := Role(s)
	if role.IsValid() {
		return role
	}
	return RoleViewer
}
