package domain

// Role is the closed enumeration of organization roles.
type Role string

const (
	RoleMember           Role = "member"
	RoleGeneralOfficer   Role = "general_officer"
	RoleExecutiveOfficer Role = "executive_officer"
	RoleMemberAtLarge    Role = "member_at_large"
	RolePastOfficer      Role = "past_officer"
	RoleSponsor          Role = "sponsor"
	RoleAdministrator    Role = "administrator"
)

// AllRoles lists every role, in display order.
var AllRoles = []Role{
	RoleMember,
	RoleGeneralOfficer,
	RoleExecutiveOfficer,
	RoleMemberAtLarge,
	RolePastOfficer,
	RoleSponsor,
	RoleAdministrator,
}

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	for _, known := range AllRoles {
		if r == known {
			return true
		}
	}
	return false
}

// Principal represents the authenticated actor performing an operation.
// It is supplied by the principal resolver, never persisted by the core.
type Principal struct {
	ID   string
	Role Role
}

// IsAdmin reports whether the principal holds the Administrator role.
func (p Principal) IsAdmin() bool { return p.Role == RoleAdministrator }
