package models

// Role is a client-side view role, independent of the server-authenticated
// identity.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleInstructor Role = "instructor"
	RoleTA         Role = "ta"
)

// rolePriority orders roles from most to least privileged for default
// selection.
var rolePriority = []Role{RoleAdmin, RoleInstructor, RoleTA}

// User is the server-authenticated identity plus the roles it may assume.
type User struct {
	ID     int    `json:"id"`
	UTORid string `json:"utorid"`
	Roles  []Role `json:"roles"`
}

// HasRole reports whether the user holds the given role.
func (u User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// DefaultRole returns the most privileged role the user holds, or the empty
// role if the user holds none.
func (u User) DefaultRole() Role {
	for _, r := range rolePriority {
		if u.HasRole(r) {
			return r
		}
	}
	return ""
}
