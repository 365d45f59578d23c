// Package notify hands finalized records to the external notification
// collaborator. Message composition and delivery live outside the core;
// this package only exposes the records.
package notify

import (
	"context"
	"log/slog"

	"orgdesk/internal/domain"
)

// LogNotifier is the default Notifier: it records each event so an
// operator can see what an external mailer would have been handed.
type LogNotifier struct {
	logger *slog.Logger
}

var _ domain.Notifier = (*LogNotifier)(nil)

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// InviteIssued logs a newly issued invitation.
func (n *LogNotifier) InviteIssued(_ context.Context, inv *domain.Invitation) {
	n.logger.Info("invite issued",
		"invitation", inv.ID, "email", inv.Email, "role", inv.Role,
		"expires_at", inv.ExpiresAt)
}

// DepositStatusChanged logs a deposit reaching a terminal state.
func (n *LogNotifier) DepositStatusChanged(_ context.Context, d *domain.Deposit) {
	n.logger.Info("deposit status changed",
		"deposit", d.ID, "status", d.Status, "deposited_by", d.DepositedBy)
}
