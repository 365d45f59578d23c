package domain

// Action enumerates the guarded management actions.
type Action string

const (
	ActionEditRole     Action = "edit_role"
	ActionEditPosition Action = "edit_position"
	ActionDeleteMember Action = "delete_member"
	ActionInvite       Action = "invite"
)

// targetClass buckets the target of a guarded action. The permission matrix
// has asymmetric cases (self-edits, administrator targets) that depend on the
// target's relation to the actor rather than its exact identity.
type targetClass string

const (
	targetSelf          targetClass = "self"
	targetAdministrator targetClass = "administrator"
	targetPrivileged    targetClass = "privileged" // administrator or executive officer
	targetOther         targetClass = "other"
)

type ruleKey struct {
	Actor  Role
	Action Action
	Target targetClass
}

// permissionRules is the capability matrix. Absent entries deny.
// Roles without management access never appear as actors.
var permissionRules = map[ruleKey]bool{
	// Role edits: administrators may edit anyone's role, including their own.
	// Executive officers may edit non-administrators only, and never themselves.
	{RoleAdministrator, ActionEditRole, targetSelf}:          true,
	{RoleAdministrator, ActionEditRole, targetAdministrator}: true,
	{RoleAdministrator, ActionEditRole, targetOther}:         true,
	{RoleExecutiveOfficer, ActionEditRole, targetOther}:      true,

	// Position edits: same shape as role edits.
	{RoleAdministrator, ActionEditPosition, targetSelf}:          true,
	{RoleAdministrator, ActionEditPosition, targetAdministrator}: true,
	{RoleAdministrator, ActionEditPosition, targetOther}:         true,
	{RoleExecutiveOfficer, ActionEditPosition, targetOther}:      true,

	// Deletion: privileged targets (administrators and executive officers)
	// may only be deleted by an administrator.
	{RoleAdministrator, ActionDeleteMember, targetPrivileged}: true,
	{RoleAdministrator, ActionDeleteMember, targetOther}:      true,
	{RoleExecutiveOfficer, ActionDeleteMember, targetOther}:   true,

	// Invitations: privileged proposed roles require an administrator.
	{RoleAdministrator, ActionInvite, targetPrivileged}: true,
	{RoleAdministrator, ActionInvite, targetOther}:      true,
	{RoleExecutiveOfficer, ActionInvite, targetOther}:   true,
}

func allowed(actor Role, action Action, target targetClass) bool {
	return permissionRules[ruleKey{actor, action, target}]
}

// classifyEditTarget buckets a member record for role/position edits.
// Self takes precedence: an executive officer's own record is "self" even
// though an administrator editing themselves also matches every admin rule.
func classifyEditTarget(actorID string, target *MemberRecord) targetClass {
	switch {
	case target.ID == actorID:
		return targetSelf
	case target.Role == RoleAdministrator:
		return targetAdministrator
	default:
		return targetOther
	}
}

func classifyPrivileged(r Role) targetClass {
	if r == RoleAdministrator || r == RoleExecutiveOfficer {
		return targetPrivileged
	}
	return targetOther
}

// HasManagementAccess reports whether the role may operate the member roster
// at all. This is the coarse gate in front of every management screen.
func HasManagementAccess(actor Role) bool {
	return actor == RoleExecutiveOfficer || actor == RoleAdministrator
}

// CanEditRole reports whether the actor may change the target's role.
// Never returns an error; unauthorized callers simply get false.
func CanEditRole(actor Role, actorID string, target *MemberRecord) bool {
	return allowed(actor, ActionEditRole, classifyEditTarget(actorID, target))
}

// CanEditPosition reports whether the actor may change the target's position.
// Same shape as CanEditRole but additionally gated on management access.
func CanEditPosition(actor Role, actorID string, target *MemberRecord) bool {
	if !HasManagementAccess(actor) {
		return false
	}
	return allowed(actor, ActionEditPosition, classifyEditTarget(actorID, target))
}

// CanDeleteMember reports whether the actor may delete the target record.
func CanDeleteMember(actor Role, target *MemberRecord) bool {
	return allowed(actor, ActionDeleteMember, classifyPrivileged(target.Role))
}

// CanInviteWithRole reports whether the actor may issue an invitation
// carrying the proposed role.
func CanInviteWithRole(actor Role, proposed Role) bool {
	return allowed(actor, ActionInvite, classifyPrivileged(proposed))
}

// AvailableRoles returns the set of roles the actor may assign.
// Executive officers acting on their own record are frozen to their
// current role; everyone without management access gets plain member.
func AvailableRoles(actor Role, actingOnSelf bool) []Role {
	switch {
	case actor == RoleAdministrator:
		return append([]Role(nil), AllRoles...)
	case actor == RoleExecutiveOfficer && actingOnSelf:
		return []Role{RoleExecutiveOfficer}
	case actor == RoleExecutiveOfficer:
		out := make([]Role, 0, len(AllRoles)-1)
		for _, r := range AllRoles {
			if r != RoleAdministrator {
				out = append(out, r)
			}
		}
		return out
	default:
		return []Role{RoleMember}
	}
}
