package domain

import "time"

// InvitationTTL is how long a newly issued invitation stays valid.
const InvitationTTL = 7 * 24 * time.Hour

// InvitationStatusPending is the only status this core ever writes.
// Acceptance is handled outside the core; invitations are created once
// and never transitioned here.
const InvitationStatusPending = "pending"

// Invitation is a pending invite to join the organization.
type Invitation struct {
	ID        string
	Name      string
	Email     string
	Role      Role
	Position  string
	Message   string
	Status    string
	CreatedBy string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// InvitationDraft is the caller-supplied input to issue an invitation.
type InvitationDraft struct {
	Name     string
	Email    string
	Role     Role
	Position string
	Message  string
}

// Validate checks the draft's required fields.
func (d *InvitationDraft) Validate() error {
	if d.Name == "" {
		return ErrValidation("invitation name is required")
	}
	if d.Email == "" {
		return ErrValidation("invitation email is required")
	}
	if !d.Role.Valid() {
		return ErrValidation("invalid invitation role %q", d.Role)
	}
	return nil
}
