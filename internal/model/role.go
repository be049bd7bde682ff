package model

// Role is the closed set of actor kinds in the marketplace. The wire
// values ("user"/"owner") appear in JWT claims and API responses, so they
// must stay stable even though "user" reads as "seeker" in the product.
type Role string

const (
	RoleSeeker Role = "user"  // accommodation seeker
	RoleOwner  Role = "owner" // landlord / property lister
)

// ParseRole maps a raw claim value onto a Role. The second return value is
// false for anything outside the closed set.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleSeeker:
		return RoleSeeker, true
	case RoleOwner:
		return RoleOwner, true
	}
	return "", false
}

func (r Role) String() string { return string(r) }
