package service

import (
	"context"
	"log/slog"
	"time"

	"orgdesk/internal/domain"
)

// InviteService issues pending invitations gated by the permission
// evaluator. Acceptance and delivery are handled by external collaborators.
type InviteService struct {
	invitations domain.InvitationRepository
	notifier    domain.Notifier
	logger      *slog.Logger
}

// NewInviteService creates a new InviteService.
func NewInviteService(invitations domain.InvitationRepository, notifier domain.Notifier, logger *slog.Logger) *InviteService {
	return &InviteService{invitations: invitations, notifier: notifier, logger: logger}
}

// Issue creates a pending invitation and hands it to the notifier.
func (s *InviteService) Issue(ctx context.Context, actor domain.Principal, draft domain.InvitationDraft) (*domain.Invitation, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	if !domain.CanInviteWithRole(actor.Role, draft.Role) {
		if draft.Role == domain.RoleAdministrator || draft.Role == domain.RoleExecutiveOfficer {
			return nil, domain.ErrPermissionDenied("only administrators may invite %s members", draft.Role)
		}
		return nil, domain.ErrPermissionDenied("invitations require management access")
	}

	now := time.Now().UTC()
	inv := &domain.Invitation{
		ID:        domain.NewID(),
		Name:      draft.Name,
		Email:     draft.Email,
		Role:      draft.Role,
		Position:  draft.Position,
		Message:   draft.Message,
		Status:    domain.InvitationStatusPending,
		CreatedBy: actor.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(domain.InvitationTTL),
	}

	if err := s.invitations.Create(ctx, inv); err != nil {
		return nil, err
	}

	s.notifier.InviteIssued(ctx, inv)
	return inv, nil
}

// List returns all pending invitations. Management access required.
func (s *InviteService) List(ctx context.Context, actor domain.Principal) ([]domain.Invitation, error) {
	if !domain.HasManagementAccess(actor.Role) {
		return nil, domain.ErrPermissionDenied("invitations require management access")
	}
	return s.invitations.List(ctx)
}

// PurgeExpired deletes invitations past their expiry. Run periodically as
// housekeeping; records are deleted, never transitioned.
func (s *InviteService) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := s.invitations.DeleteExpired(ctx, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("purged expired invitations", "count", n)
	}
	return n, nil
}
