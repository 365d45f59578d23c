package repository

import (
	"context"
	"database/sql"
	"fmt"

	"orgdesk/internal/domain"
)

var _ domain.DepositRepository = (*DepositRepo)(nil)

// DepositRepo implements domain.DepositRepository using SQLite.
// The audit log and receipt file list live in JSON columns on the deposit
// row, so every mutation of a deposit — including its embedded audit
// append — is one atomic row write.
type DepositRepo struct {
	write *sql.DB
	read  *sql.DB
}

// NewDepositRepo creates a new DepositRepo.
func NewDepositRepo(writeDB, readDB *sql.DB) *DepositRepo {
	return &DepositRepo{write: writeDB, read: readDB}
}

const depositColumns = `id, title, amount, deposit_date, method_kind,
	method_detail, purpose, description, deposited_by, status,
	rejection_reason, receipt_files, audit_log, submitted_at, verified_at,
	verified_by, edited_at, edited_by`

func scanDeposit(row interface{ Scan(...any) error }) (*domain.Deposit, error) {
	var (
		d            domain.Deposit
		receiptsJSON string
		auditJSON    string
		verifiedAt   sql.NullTime
		verifiedBy   sql.NullString
		editedAt     sql.NullTime
		editedBy     sql.NullString
	)
	err := row.Scan(&d.ID, &d.Title, &d.Amount, &d.DepositDate, &d.Method.Kind,
		&d.Method.Detail, &d.Purpose, &d.Description, &d.DepositedBy, &d.Status,
		&d.RejectionReason, &receiptsJSON, &auditJSON, &d.SubmittedAt,
		&verifiedAt, &verifiedBy, &editedAt, &editedBy)
	if err != nil {
		return nil, err
	}
	if err := unmarshalJSON(receiptsJSON, &d.ReceiptFiles); err != nil {
		return nil, err
	}
	if err := unmarshalJSON(auditJSON, &d.AuditLog); err != nil {
		return nil, err
	}
	d.VerifiedAt = timePtr(verifiedAt)
	d.VerifiedBy = strPtr(verifiedBy)
	d.EditedAt = timePtr(editedAt)
	d.EditedBy = strPtr(editedBy)
	return &d, nil
}

// Create inserts a new deposit with its seed audit log.
func (r *DepositRepo) Create(ctx context.Context, d *domain.Deposit) error {
	receiptsJSON, err := marshalJSON(d.ReceiptFiles)
	if err != nil {
		return err
	}
	auditJSON, err := marshalJSON(d.AuditLog)
	if err != nil {
		return err
	}

	_, err = r.write.ExecContext(ctx, `
		INSERT INTO deposits (id, title, amount, deposit_date, method_kind,
			method_detail, purpose, description, deposited_by, status,
			rejection_reason, receipt_files, audit_log, submitted_at,
			verified_at, verified_by, edited_at, edited_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.Title, d.Amount, d.DepositDate, d.Method.Kind, d.Method.Detail,
		d.Purpose, d.Description, d.DepositedBy, d.Status, d.RejectionReason,
		receiptsJSON, auditJSON, d.SubmittedAt, nullTime(d.VerifiedAt),
		nullStr(d.VerifiedBy), nullTime(d.EditedAt), nullStr(d.EditedBy))
	return mapDBError(err, fmt.Sprintf("deposit %s", d.ID))
}

// Get returns one deposit by id.
func (r *DepositRepo) Get(ctx context.Context, id string) (*domain.Deposit, error) {
	row := r.read.QueryRowContext(ctx,
		`SELECT `+depositColumns+` FROM deposits WHERE id = ?`, id)
	d, err := scanDeposit(row)
	if err != nil {
		return nil, mapDBError(err, fmt.Sprintf("deposit %s", id))
	}
	return d, nil
}

// Update applies mutate to the current deposit inside one immediate
// transaction. mutate observes the row's current state, so a state guard
// inside it (status = pending) is checked within the same atomic write —
// the loser of a verify/reject race fails instead of overwriting.
func (r *DepositRepo) Update(ctx context.Context, id string, mutate func(*domain.Deposit) error) (*domain.Deposit, error) {
	tx, err := r.write.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback() //nolint:errcheck

	row := tx.QueryRowContext(ctx,
		`SELECT `+depositColumns+` FROM deposits WHERE id = ?`, id)
	d, err := scanDeposit(row)
	if err != nil {
		return nil, mapDBError(err, fmt.Sprintf("deposit %s", id))
	}

	if err := mutate(d); err != nil {
		return nil, err
	}

	receiptsJSON, err := marshalJSON(d.ReceiptFiles)
	if err != nil {
		return nil, err
	}
	auditJSON, err := marshalJSON(d.AuditLog)
	if err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE deposits SET title = ?, amount = ?, deposit_date = ?,
			method_kind = ?, method_detail = ?, purpose = ?, description = ?,
			status = ?, rejection_reason = ?, receipt_files = ?, audit_log = ?,
			verified_at = ?, verified_by = ?, edited_at = ?, edited_by = ?
		WHERE id = ?`,
		d.Title, d.Amount, d.DepositDate, d.Method.Kind, d.Method.Detail,
		d.Purpose, d.Description, d.Status, d.RejectionReason, receiptsJSON,
		auditJSON, nullTime(d.VerifiedAt), nullStr(d.VerifiedBy),
		nullTime(d.EditedAt), nullStr(d.EditedBy), id)
	if err != nil {
		return nil, mapDBError(err, fmt.Sprintf("deposit %s", id))
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return d, nil
}

// Delete removes a deposit row, audit log included.
func (r *DepositRepo) Delete(ctx context.Context, id string) error {
	res, err := r.write.ExecContext(ctx, `DELETE FROM deposits WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound("deposit %s not found", id)
	}
	return nil
}

func (r *DepositRepo) list(ctx context.Context, query string, args ...any) ([]domain.Deposit, error) {
	rows, err := r.read.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Deposit
	for rows.Next() {
		d, err := scanDeposit(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

// ListByDepositor returns the deposits submitted by one member, newest first.
func (r *DepositRepo) ListByDepositor(ctx context.Context, memberID string) ([]domain.Deposit, error) {
	return r.list(ctx,
		`SELECT `+depositColumns+` FROM deposits WHERE deposited_by = ? ORDER BY submitted_at DESC`,
		memberID)
}

// ListAll returns every deposit, newest first.
func (r *DepositRepo) ListAll(ctx context.Context) ([]domain.Deposit, error) {
	return r.list(ctx,
		`SELECT `+depositColumns+` FROM deposits ORDER BY submitted_at DESC`)
}
