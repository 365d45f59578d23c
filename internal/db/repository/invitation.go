package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"orgdesk/internal/domain"
)

var _ domain.InvitationRepository = (*InvitationRepo)(nil)

// InvitationRepo implements domain.InvitationRepository using SQLite.
type InvitationRepo struct {
	write *sql.DB
	read  *sql.DB
}

// NewInvitationRepo creates a new InvitationRepo.
func NewInvitationRepo(writeDB, readDB *sql.DB) *InvitationRepo {
	return &InvitationRepo{write: writeDB, read: readDB}
}

const invitationColumns = `id, name, email, role, position, message, status,
	created_by, created_at, expires_at`

func scanInvitation(row interface{ Scan(...any) error }) (*domain.Invitation, error) {
	var inv domain.Invitation
	err := row.Scan(&inv.ID, &inv.Name, &inv.Email, &inv.Role, &inv.Position,
		&inv.Message, &inv.Status, &inv.CreatedBy, &inv.CreatedAt, &inv.ExpiresAt)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// Create inserts a new invitation.
func (r *InvitationRepo) Create(ctx context.Context, inv *domain.Invitation) error {
	_, err := r.write.ExecContext(ctx, `
		INSERT INTO invitations (id, name, email, role, position, message,
			status, created_by, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.Name, inv.Email, inv.Role, inv.Position, inv.Message,
		inv.Status, inv.CreatedBy, inv.CreatedAt, inv.ExpiresAt)
	return mapDBError(err, fmt.Sprintf("invitation %s", inv.ID))
}

// Get returns one invitation by id.
func (r *InvitationRepo) Get(ctx context.Context, id string) (*domain.Invitation, error) {
	row := r.read.QueryRowContext(ctx,
		`SELECT `+invitationColumns+` FROM invitations WHERE id = ?`, id)
	inv, err := scanInvitation(row)
	if err != nil {
		return nil, mapDBError(err, fmt.Sprintf("invitation %s", id))
	}
	return inv, nil
}

// List returns all invitations, newest first.
func (r *InvitationRepo) List(ctx context.Context) ([]domain.Invitation, error) {
	rows, err := r.read.QueryContext(ctx,
		`SELECT `+invitationColumns+` FROM invitations ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Invitation
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *inv)
	}
	return out, rows.Err()
}

// Delete removes an invitation.
func (r *InvitationRepo) Delete(ctx context.Context, id string) error {
	res, err := r.write.ExecContext(ctx, `DELETE FROM invitations WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound("invitation %s not found", id)
	}
	return nil
}

// DeleteExpired removes invitations whose expiry precedes now.
func (r *InvitationRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.write.ExecContext(ctx,
		`DELETE FROM invitations WHERE expires_at < ?`, now)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
