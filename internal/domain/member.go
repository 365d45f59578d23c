package domain

import "time"

// Member status constants.
const (
	MemberStatusActive    = "active"
	MemberStatusInactive  = "inactive"
	MemberStatusSuspended = "suspended"
)

// MemberRecord is the authoritative record for one organization member,
// keyed by the member's principal id.
type MemberRecord struct {
	ID             string
	Name           string
	Email          string
	Role           Role
	Position       *string
	Status         string
	Points         int // may go negative for penalties
	PID            *string
	MemberID       *string
	Major          *string
	GraduationYear *int
	SignInMethod   string
	LastUpdated    time.Time
	LastUpdatedBy  string
}

// MemberPatch carries the fields a caller may change on a member record.
// Nil fields are left untouched.
type MemberPatch struct {
	Name           *string
	Email          *string
	Role           *Role
	Position       *string
	Status         *string
	Points         *int
	Major          *string
	GraduationYear *int
}

// ValidateStatus checks a member status value.
func ValidateMemberStatus(s string) error {
	switch s {
	case MemberStatusActive, MemberStatusInactive, MemberStatusSuspended:
		return nil
	}
	return ErrValidation("invalid member status %q", s)
}

// PublicProfile is the denormalized public projection of a member's point
// total. It is weakly consistent: only the member mutator writes it, and a
// failed mirror is repaired by the next points edit.
type PublicProfile struct {
	MemberID  string
	Name      string
	Points    int
	UpdatedAt time.Time
}
