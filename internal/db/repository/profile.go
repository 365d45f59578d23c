package repository

import (
	"context"
	"database/sql"
	"fmt"

	"orgdesk/internal/domain"
)

var _ domain.ProfileRepository = (*ProfileRepo)(nil)

// ProfileRepo implements domain.ProfileRepository using SQLite.
// The projection is weakly consistent with the members table; the member
// service owns reconciliation.
type ProfileRepo struct {
	write *sql.DB
	read  *sql.DB
}

// NewProfileRepo creates a new ProfileRepo.
func NewProfileRepo(writeDB, readDB *sql.DB) *ProfileRepo {
	return &ProfileRepo{write: writeDB, read: readDB}
}

// Upsert writes the projection row for one member.
func (r *ProfileRepo) Upsert(ctx context.Context, p *domain.PublicProfile) error {
	_, err := r.write.ExecContext(ctx, `
		INSERT INTO public_profiles (member_id, name, points, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(member_id) DO UPDATE SET
			name = excluded.name,
			points = excluded.points,
			updated_at = excluded.updated_at`,
		p.MemberID, p.Name, p.Points, p.UpdatedAt)
	return err
}

// Get returns the projection row for one member.
func (r *ProfileRepo) Get(ctx context.Context, memberID string) (*domain.PublicProfile, error) {
	var p domain.PublicProfile
	err := r.read.QueryRowContext(ctx, `
		SELECT member_id, name, points, updated_at
		FROM public_profiles WHERE member_id = ?`, memberID).
		Scan(&p.MemberID, &p.Name, &p.Points, &p.UpdatedAt)
	if err != nil {
		return nil, mapDBError(err, fmt.Sprintf("profile %s", memberID))
	}
	return &p, nil
}

// Delete removes the projection row for one member. Deleting an absent
// projection is not an error; the projection is best-effort state.
func (r *ProfileRepo) Delete(ctx context.Context, memberID string) error {
	_, err := r.write.ExecContext(ctx,
		`DELETE FROM public_profiles WHERE member_id = ?`, memberID)
	return err
}
