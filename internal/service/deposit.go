// Package service implements the application services for the membership
// dashboard core. Every operation takes the acting principal explicitly;
// there is no ambient session state.
package service

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"orgdesk/internal/domain"
)

// DepositService drives the fund-deposit review workflow: submit by any
// member, verify or reject by an administrator, with an append-only audit
// log embedded in each deposit.
type DepositService struct {
	deposits domain.DepositRepository
	members  domain.MemberRepository
	receipts domain.ReceiptStore
	notifier domain.Notifier
	logger   *slog.Logger
}

// NewDepositService creates a new DepositService.
func NewDepositService(
	deposits domain.DepositRepository,
	members domain.MemberRepository,
	receipts domain.ReceiptStore,
	notifier domain.Notifier,
	logger *slog.Logger,
) *DepositService {
	return &DepositService{
		deposits: deposits,
		members:  members,
		receipts: receipts,
		notifier: notifier,
		logger:   logger,
	}
}

// actorName resolves the actor's display name for audit entries.
// A missing member record is not an error; the name is simply omitted.
func (s *DepositService) actorName(ctx context.Context, actorID string) string {
	m, err := s.members.Get(ctx, actorID)
	if err != nil {
		return ""
	}
	return m.Name
}

// Submit validates the draft and creates a pending deposit with a single
// seed audit entry.
func (s *DepositService) Submit(ctx context.Context, actor domain.Principal, draft domain.DepositDraft) (*domain.Deposit, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	d := &domain.Deposit{
		ID:           domain.NewID(),
		Title:        draft.Title,
		Amount:       draft.Amount,
		DepositDate:  draft.DepositDate,
		Method:       draft.Method,
		Purpose:      draft.Purpose,
		Description:  draft.Description,
		DepositedBy:  actor.ID,
		Status:       domain.DepositStatusPending,
		ReceiptFiles: append([]string(nil), draft.ReceiptFiles...),
		SubmittedAt:  now,
		AuditLog: []domain.AuditEntry{{
			Action:        domain.AuditActionSubmitted,
			CreatedBy:     actor.ID,
			CreatedByName: s.actorName(ctx, actor.ID),
			Timestamp:     now,
		}},
	}

	if err := s.deposits.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// Verify transitions a pending deposit to verified. Administrator only;
// the pending check runs inside the repository's atomic update, so the
// loser of a concurrent verify/reject race fails with a precondition
// error instead of overwriting the winner's terminal state.
func (s *DepositService) Verify(ctx context.Context, actor domain.Principal, depositID string) (*domain.Deposit, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrPermissionDenied("only administrators may verify deposits")
	}

	name := s.actorName(ctx, actor.ID)
	updated, err := s.deposits.Update(ctx, depositID, func(d *domain.Deposit) error {
		if d.Status != domain.DepositStatusPending {
			return domain.ErrPrecondition("deposit is already %s", d.Status)
		}
		now := time.Now().UTC()
		d.Status = domain.DepositStatusVerified
		d.VerifiedAt = &now
		d.VerifiedBy = &actor.ID
		d.AuditLog = append(d.AuditLog, domain.AuditEntry{
			Action:        domain.AuditActionVerified,
			CreatedBy:     actor.ID,
			CreatedByName: name,
			Timestamp:     now,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.DepositStatusChanged(ctx, updated)
	return updated, nil
}

// Reject transitions a pending deposit to rejected with a mandatory reason.
func (s *DepositService) Reject(ctx context.Context, actor domain.Principal, depositID, reason string) (*domain.Deposit, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrPermissionDenied("only administrators may reject deposits")
	}
	if reason == "" {
		return nil, domain.ErrValidation("rejection reason is required")
	}

	name := s.actorName(ctx, actor.ID)
	updated, err := s.deposits.Update(ctx, depositID, func(d *domain.Deposit) error {
		if d.Status != domain.DepositStatusPending {
			return domain.ErrPrecondition("deposit is already %s", d.Status)
		}
		now := time.Now().UTC()
		d.Status = domain.DepositStatusRejected
		d.RejectionReason = reason
		d.EditedAt = &now
		d.EditedBy = &actor.ID
		d.AuditLog = append(d.AuditLog, domain.AuditEntry{
			Action:        domain.AuditActionRejected,
			CreatedBy:     actor.ID,
			CreatedByName: name,
			Timestamp:     now,
			Note:          reason,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.DepositStatusChanged(ctx, updated)
	return updated, nil
}

// Remove deletes a deposit. The submitter may delete their own deposit
// while it is pending; administrators may delete at any time. Referenced
// receipt files are removed best-effort after the record is gone.
func (s *DepositService) Remove(ctx context.Context, actor domain.Principal, depositID string) error {
	d, err := s.deposits.Get(ctx, depositID)
	if err != nil {
		return err
	}

	if !actor.IsAdmin() {
		if d.DepositedBy != actor.ID {
			return domain.ErrOwnershipDenied("deposit belongs to another member")
		}
		if d.Status != domain.DepositStatusPending {
			return domain.ErrOwnershipDenied("only pending deposits can be deleted by their submitter")
		}
	}

	if err := s.deposits.Delete(ctx, depositID); err != nil {
		return err
	}

	for _, ref := range d.ReceiptFiles {
		if err := s.receipts.Delete(ctx, ref); err != nil {
			s.logger.Warn("orphaned receipt file cleanup failed",
				"deposit", depositID, "file", ref, "error", err)
		}
	}
	return nil
}

// RemoveReceiptFile detaches a receipt file reference from a deposit and
// records the removal in the audit log. Gated on the same submitter or
// administrator scope as deposit visibility.
func (s *DepositService) RemoveReceiptFile(ctx context.Context, actor domain.Principal, depositID, fileRef string) (*domain.Deposit, error) {
	name := s.actorName(ctx, actor.ID)
	updated, err := s.deposits.Update(ctx, depositID, func(d *domain.Deposit) error {
		if !d.CanView(actor) {
			return domain.ErrOwnershipDenied("deposit belongs to another member")
		}
		idx := slices.Index(d.ReceiptFiles, fileRef)
		if idx < 0 {
			return domain.ErrNotFound("receipt file %q not attached to deposit", fileRef)
		}
		d.ReceiptFiles = slices.Delete(d.ReceiptFiles, idx, idx+1)
		d.AuditLog = append(d.AuditLog, domain.AuditEntry{
			Action:        domain.AuditActionReceiptRemoved,
			CreatedBy:     actor.ID,
			CreatedByName: name,
			Timestamp:     time.Now().UTC(),
			Note:          fileRef,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.receipts.Delete(ctx, fileRef); err != nil {
		s.logger.Warn("receipt file deletion failed",
			"deposit", depositID, "file", fileRef, "error", err)
	}
	return updated, nil
}

// Get returns one deposit, enforcing submitter/administrator visibility.
func (s *DepositService) Get(ctx context.Context, actor domain.Principal, depositID string) (*domain.Deposit, error) {
	d, err := s.deposits.Get(ctx, depositID)
	if err != nil {
		return nil, err
	}
	if !d.CanView(actor) {
		return nil, domain.ErrOwnershipDenied("deposit belongs to another member")
	}
	return d, nil
}

// List returns the deposits visible to the actor: all of them for an
// administrator, the actor's own otherwise.
func (s *DepositService) List(ctx context.Context, actor domain.Principal) ([]domain.Deposit, error) {
	if actor.IsAdmin() {
		return s.deposits.ListAll(ctx)
	}
	return s.deposits.ListByDepositor(ctx, actor.ID)
}

// PresignReceipt returns a short-lived download URL for a receipt file
// attached to a deposit the actor may view.
func (s *DepositService) PresignReceipt(ctx context.Context, actor domain.Principal, depositID, fileRef string, ttl time.Duration) (string, error) {
	d, err := s.Get(ctx, actor, depositID)
	if err != nil {
		return "", err
	}
	if !slices.Contains(d.ReceiptFiles, fileRef) {
		return "", domain.ErrNotFound("receipt file %q not attached to deposit", fileRef)
	}
	url, err := s.receipts.PresignGet(ctx, fileRef, ttl)
	if err != nil {
		return "", domain.ErrDependency("presign receipt %q: %v", fileRef, err)
	}
	return url, nil
}
