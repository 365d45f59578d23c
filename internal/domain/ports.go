package domain

import (
	"context"
	"time"
)

// MemberRepository persists member records, keyed by principal id.
type MemberRepository interface {
	Create(ctx context.Context, m *MemberRecord) error
	Get(ctx context.Context, id string) (*MemberRecord, error)
	List(ctx context.Context) ([]MemberRecord, error)
	// Update applies mutate to the current record inside a single atomic
	// read-modify-write. An error returned by mutate aborts the write and
	// is returned unchanged.
	Update(ctx context.Context, id string, mutate func(*MemberRecord) error) (*MemberRecord, error)
	Delete(ctx context.Context, id string) error
}

// ProfileRepository persists the denormalized public-profile projection.
type ProfileRepository interface {
	Upsert(ctx context.Context, p *PublicProfile) error
	Get(ctx context.Context, memberID string) (*PublicProfile, error)
	Delete(ctx context.Context, memberID string) error
}

// DepositRepository persists deposits with their embedded audit logs.
type DepositRepository interface {
	Create(ctx context.Context, d *Deposit) error
	Get(ctx context.Context, id string) (*Deposit, error)
	// Update applies mutate to the current deposit inside a single atomic
	// read-modify-write. State-machine guards run inside mutate, so a
	// concurrent transition loser observes the winner's state and fails
	// without overwriting it.
	Update(ctx context.Context, id string, mutate func(*Deposit) error) (*Deposit, error)
	Delete(ctx context.Context, id string) error
	ListByDepositor(ctx context.Context, memberID string) ([]Deposit, error)
	ListAll(ctx context.Context) ([]Deposit, error)
}

// InvitationRepository persists pending invitations.
type InvitationRepository interface {
	Create(ctx context.Context, inv *Invitation) error
	Get(ctx context.Context, id string) (*Invitation, error)
	List(ctx context.Context) ([]Invitation, error)
	Delete(ctx context.Context, id string) error
	// DeleteExpired removes invitations whose ExpiresAt precedes now and
	// returns how many were deleted.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// ReceiptStore holds uploaded receipt files referenced by deposits.
// References are opaque to the core.
type ReceiptStore interface {
	Delete(ctx context.Context, ref string) error
	PresignGet(ctx context.Context, ref string, ttl time.Duration) (string, error)
}

// Notifier receives finalized records so an external collaborator can
// compose and deliver messages. Composition and delivery are out of scope.
type Notifier interface {
	InviteIssued(ctx context.Context, inv *Invitation)
	DepositStatusChanged(ctx context.Context, d *Deposit)
}
