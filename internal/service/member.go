package service

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"orgdesk/internal/domain"
)

// mirrorTimeout bounds the asynchronous public-profile mirror write.
const mirrorTimeout = 10 * time.Second

// MemberService applies permission-checked edits to member records and
// keeps the public-profile points projection loosely in sync.
type MemberService struct {
	members  domain.MemberRepository
	profiles domain.ProfileRepository
	logger   *slog.Logger
}

// NewMemberService creates a new MemberService.
func NewMemberService(members domain.MemberRepository, profiles domain.ProfileRepository, logger *slog.Logger) *MemberService {
	return &MemberService{members: members, profiles: profiles, logger: logger}
}

// Get returns one member record. Management access required.
func (s *MemberService) Get(ctx context.Context, actor domain.Principal, id string) (*domain.MemberRecord, error) {
	if !domain.HasManagementAccess(actor.Role) {
		return nil, domain.ErrPermissionDenied("member roster requires management access")
	}
	return s.members.Get(ctx, id)
}

// List returns all member records. Management access required.
func (s *MemberService) List(ctx context.Context, actor domain.Principal) ([]domain.MemberRecord, error) {
	if !domain.HasManagementAccess(actor.Role) {
		return nil, domain.ErrPermissionDenied("member roster requires management access")
	}
	return s.members.List(ctx)
}

// editRoleDenial explains why a role edit was refused, so callers can
// surface the specific rule instead of a generic denial.
func editRoleDenial(actor domain.Principal, target *domain.MemberRecord) error {
	switch {
	case target.ID == actor.ID:
		return domain.ErrPermissionDenied("cannot edit own role")
	case target.Role == domain.RoleAdministrator:
		return domain.ErrPermissionDenied("cannot edit an administrator's role")
	default:
		return domain.ErrPermissionDenied("role edits require management access")
	}
}

func editPositionDenial(actor domain.Principal, target *domain.MemberRecord) error {
	switch {
	case !domain.HasManagementAccess(actor.Role):
		return domain.ErrPermissionDenied("position edits require management access")
	case target.ID == actor.ID:
		return domain.ErrPermissionDenied("cannot edit own position")
	default:
		return domain.ErrPermissionDenied("cannot edit an administrator's position")
	}
}

// Update applies a patch to a member record. Role and position changes are
// re-validated against the record's current state, points edits are
// restricted to administrators, and an accepted points change is mirrored
// into the public profile asynchronously.
func (s *MemberService) Update(ctx context.Context, actor domain.Principal, id string, patch domain.MemberPatch) (*domain.MemberRecord, error) {
	target, err := s.members.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Role != nil {
		if !domain.CanEditRole(actor.Role, actor.ID, target) {
			return nil, editRoleDenial(actor, target)
		}
		assignable := domain.AvailableRoles(actor.Role, target.ID == actor.ID)
		if !slices.Contains(assignable, *patch.Role) {
			return nil, domain.ErrPermissionDenied("role %q is not assignable by %s", *patch.Role, actor.Role)
		}
	}
	if patch.Position != nil && !domain.CanEditPosition(actor.Role, actor.ID, target) {
		return nil, editPositionDenial(actor, target)
	}
	if patch.Status != nil {
		if err := domain.ValidateMemberStatus(*patch.Status); err != nil {
			return nil, err
		}
	}

	// Points are a per-field rule, enforced here rather than in the
	// evaluator: only administrators may touch them.
	if patch.Points != nil && !actor.IsAdmin() {
		patch.Points = nil
	}

	updated, err := s.members.Update(ctx, id, func(m *domain.MemberRecord) error {
		applyPatch(m, patch)
		m.LastUpdated = time.Now().UTC()
		m.LastUpdatedBy = actor.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	if patch.Points != nil {
		s.mirrorPoints(updated)
	}
	return updated, nil
}

func applyPatch(m *domain.MemberRecord, patch domain.MemberPatch) {
	if patch.Name != nil {
		m.Name = *patch.Name
	}
	if patch.Email != nil {
		m.Email = *patch.Email
	}
	if patch.Role != nil {
		m.Role = *patch.Role
	}
	if patch.Position != nil {
		m.Position = patch.Position
	}
	if patch.Status != nil {
		m.Status = *patch.Status
	}
	if patch.Points != nil {
		m.Points = *patch.Points
	}
	if patch.Major != nil {
		m.Major = patch.Major
	}
	if patch.GraduationYear != nil {
		m.GraduationYear = patch.GraduationYear
	}
}

// mirrorPoints writes the new point total into the public-profile
// projection. The primary record is the source of truth; a failed mirror
// is logged and repaired by the next points edit.
func (s *MemberService) mirrorPoints(m *domain.MemberRecord) {
	profile := &domain.PublicProfile{
		MemberID:  m.ID,
		Name:      m.Name,
		Points:    m.Points,
		UpdatedAt: m.LastUpdated,
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), mirrorTimeout)
		defer cancel()
		if err := s.profiles.Upsert(ctx, profile); err != nil {
			s.logger.Warn("public profile mirror failed", "member", m.ID, "error", err)
		}
	}()
}

// Delete removes a member record and best-effort deletes the associated
// public profile.
func (s *MemberService) Delete(ctx context.Context, actor domain.Principal, id string) error {
	target, err := s.members.Get(ctx, id)
	if err != nil {
		return err
	}
	if !domain.CanDeleteMember(actor.Role, target) {
		if target.Role == domain.RoleAdministrator || target.Role == domain.RoleExecutiveOfficer {
			return domain.ErrPermissionDenied("only administrators may delete officers")
		}
		return domain.ErrPermissionDenied("member deletion requires management access")
	}

	if err := s.members.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.profiles.Delete(ctx, id); err != nil {
		s.logger.Warn("public profile deletion failed", "member", id, "error", err)
	}
	return nil
}
