package repository

import (
	"context"
	"database/sql"
	"fmt"

	"orgdesk/internal/domain"
)

var _ domain.MemberRepository = (*MemberRepo)(nil)

// MemberRepo implements domain.MemberRepository using SQLite. Mutations go
// through the single-connection write pool; point reads and listings use the
// concurrent read pool.
type MemberRepo struct {
	write *sql.DB
	read  *sql.DB
}

// NewMemberRepo creates a new MemberRepo.
func NewMemberRepo(writeDB, readDB *sql.DB) *MemberRepo {
	return &MemberRepo{write: writeDB, read: readDB}
}

const memberColumns = `id, name, email, role, position, status, points, pid,
	member_no, major, graduation_year, sign_in_method, last_updated, last_updated_by`

func scanMember(row interface{ Scan(...any) error }) (*domain.MemberRecord, error) {
	var (
		m        domain.MemberRecord
		position sql.NullString
		pid      sql.NullString
		memberNo sql.NullString
		major    sql.NullString
		gradYear sql.NullInt64
	)
	err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Role, &position, &m.Status,
		&m.Points, &pid, &memberNo, &major, &gradYear, &m.SignInMethod,
		&m.LastUpdated, &m.LastUpdatedBy)
	if err != nil {
		return nil, err
	}
	m.Position = strPtr(position)
	m.PID = strPtr(pid)
	m.MemberID = strPtr(memberNo)
	m.Major = strPtr(major)
	m.GraduationYear = intPtr(gradYear)
	return &m, nil
}

// Create inserts a new member record.
func (r *MemberRepo) Create(ctx context.Context, m *domain.MemberRecord) error {
	_, err := r.write.ExecContext(ctx, `
		INSERT INTO members (id, name, email, role, position, status, points,
			pid, member_no, major, graduation_year, sign_in_method,
			last_updated, last_updated_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Name, m.Email, m.Role, nullStr(m.Position), m.Status, m.Points,
		nullStr(m.PID), nullStr(m.MemberID), nullStr(m.Major),
		nullInt(m.GraduationYear), m.SignInMethod, m.LastUpdated, m.LastUpdatedBy)
	return mapDBError(err, fmt.Sprintf("member %s", m.ID))
}

// Get returns one member record by principal id.
func (r *MemberRepo) Get(ctx context.Context, id string) (*domain.MemberRecord, error) {
	row := r.read.QueryRowContext(ctx,
		`SELECT `+memberColumns+` FROM members WHERE id = ?`, id)
	m, err := scanMember(row)
	if err != nil {
		return nil, mapDBError(err, fmt.Sprintf("member %s", id))
	}
	return m, nil
}

// List returns all member records ordered by name.
func (r *MemberRepo) List(ctx context.Context) ([]domain.MemberRecord, error) {
	rows, err := r.read.QueryContext(ctx,
		`SELECT `+memberColumns+` FROM members ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.MemberRecord
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

// Update applies mutate to the current record inside one immediate
// transaction, giving per-record atomic read-modify-write semantics.
func (r *MemberRepo) Update(ctx context.Context, id string, mutate func(*domain.MemberRecord) error) (*domain.MemberRecord, error) {
	tx, err := r.write.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback() //nolint:errcheck

	row := tx.QueryRowContext(ctx,
		`SELECT `+memberColumns+` FROM members WHERE id = ?`, id)
	m, err := scanMember(row)
	if err != nil {
		return nil, mapDBError(err, fmt.Sprintf("member %s", id))
	}

	if err := mutate(m); err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE members SET name = ?, email = ?, role = ?, position = ?,
			status = ?, points = ?, pid = ?, member_no = ?, major = ?,
			graduation_year = ?, sign_in_method = ?, last_updated = ?,
			last_updated_by = ?
		WHERE id = ?`,
		m.Name, m.Email, m.Role, nullStr(m.Position), m.Status, m.Points,
		nullStr(m.PID), nullStr(m.MemberID), nullStr(m.Major),
		nullInt(m.GraduationYear), m.SignInMethod, m.LastUpdated,
		m.LastUpdatedBy, id)
	if err != nil {
		return nil, mapDBError(err, fmt.Sprintf("member %s", id))
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return m, nil
}

// Delete removes a member record.
func (r *MemberRepo) Delete(ctx context.Context, id string) error {
	res, err := r.write.ExecContext(ctx, `DELETE FROM members WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound("member %s not found", id)
	}
	return nil
}
