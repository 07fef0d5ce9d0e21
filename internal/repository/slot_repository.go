package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/oreshkin/slotbook/internal/model"
)

// SlotRepo provides persistence for the slot catalog.  The catalog is
// created once by the seeder; booking operations only ever mutate the
// occupant columns (user_name, secret_code), always both together so a
// row is either fully free or fully held.  All timestamp fields are
// assumed to be stored in UTC.
type SlotRepo struct {
	db *sql.DB
}

// NewSlotRepo returns a new SlotRepo bound to the given database.
func NewSlotRepo(db *sql.DB) *SlotRepo { return &SlotRepo{db: db} }

// DB exposes the underlying handle so callers can open transactions that
// span several repository calls.
func (r *SlotRepo) DB() *sql.DB { return r.db }

const slotColumns = `id, date, time, group_name, user_name, secret_code, created_at`

// scanner abstracts *sql.Row and *sql.Rows for scanSlot.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanSlot(s scanner) (*model.Slot, error) {
	var slot model.Slot
	var userName, secretCode sql.NullString
	if err := s.Scan(&slot.ID, &slot.Date, &slot.Time, &slot.Group,
		&userName, &secretCode, &slot.CreatedAt); err != nil {
		return nil, err
	}
	if userName.Valid {
		n := userName.String
		slot.UserName = &n
	}
	if secretCode.Valid {
		c := secretCode.String
		slot.SecretCode = &c
	}
	return &slot, nil
}

// ListAll returns every slot with full occupant details, ordered by date,
// then time, then group.  Used by the admin dashboard only; the public
// listing goes through ListPublic instead.
func (r *SlotRepo) ListAll(ctx context.Context) ([]model.Slot, error) {
	const q = `SELECT ` + slotColumns + ` FROM slots ORDER BY date, time, group_name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	slots := make([]model.Slot, 0)
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, err
		}
		slots = append(slots, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return slots, nil
}

// ListPublic returns the anonymous projection of the catalog in the same
// ordering as ListAll.  Occupant identity and the secret code are reduced
// to a 0/1 is_booked flag in SQL so they never leave the database.
func (r *SlotRepo) ListPublic(ctx context.Context) ([]model.PublicSlot, error) {
	const q = `SELECT id, date, time, group_name,
	                  CASE WHEN user_name IS NOT NULL THEN 1 ELSE 0 END AS is_booked
	           FROM slots
	           ORDER BY date, time, group_name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	slots := make([]model.PublicSlot, 0)
	for rows.Next() {
		var s model.PublicSlot
		if err := rows.Scan(&s.ID, &s.Date, &s.Time, &s.Group, &s.IsBooked); err != nil {
			return nil, err
		}
		slots = append(slots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return slots, nil
}

// FindByCode returns the slot currently held under the given secret code.
// The code is the holder's entire credential, so this is the only lookup a
// holder ever needs.  Returns ErrNotFound when no slot carries the code.
func (r *SlotRepo) FindByCode(ctx context.Context, code string) (*model.Slot, error) {
	const q = `SELECT ` + slotColumns + ` FROM slots WHERE secret_code = ?`
	s, err := scanSlot(r.db.QueryRowContext(ctx, q, code))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

// ClaimIfFree sets the occupant columns on a slot only when the slot is
// currently free.  The check and the write are a single conditional UPDATE
// so two concurrent claims on the same row are serialized by the database:
// exactly one observes the row as free, the other sees zero rows changed.
// It returns whether the claim landed.
func (r *SlotRepo) ClaimIfFree(ctx context.Context, slotID uint64, name, code string) (bool, error) {
	const q = `UPDATE slots SET user_name = ?, secret_code = ? WHERE id = ? AND user_name IS NULL`
	res, err := r.db.ExecContext(ctx, q, name, code, slotID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// Release clears the occupant columns unconditionally.  Releasing an
// already-free slot is a no-op, which makes admin cancel idempotent.
func (r *SlotRepo) Release(ctx context.Context, slotID uint64) error {
	const q = `UPDATE slots SET user_name = NULL, secret_code = NULL WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q, slotID)
	return err
}

// GetByID fetches a single slot by its surrogate id.  Returns ErrNotFound
// when the id does not exist.
func (r *SlotRepo) GetByID(ctx context.Context, slotID uint64) (*model.Slot, error) {
	const q = `SELECT ` + slotColumns + ` FROM slots WHERE id = ?`
	s, err := scanSlot(r.db.QueryRowContext(ctx, q, slotID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

// GetByIDForUpdateTx fetches a slot inside an open transaction with a row
// lock (SELECT ... FOR UPDATE).  Move uses it to pin both affected rows
// before re-checking ownership and target freedom, so no concurrent claim
// can slip in between the checks and the writes.  Returns ErrNotFound when
// the id does not exist.
func (r *SlotRepo) GetByIDForUpdateTx(ctx context.Context, tx *sql.Tx, slotID uint64) (*model.Slot, error) {
	const q = `SELECT ` + slotColumns + ` FROM slots WHERE id = ? FOR UPDATE`
	s, err := scanSlot(tx.QueryRowContext(ctx, q, slotID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

// ClaimTx writes the occupant columns within the provided transaction.
// Callers must have verified (under the same transaction) that the row is
// free; ClaimTx itself is unconditional.
func (r *SlotRepo) ClaimTx(ctx context.Context, tx *sql.Tx, slotID uint64, name, code string) error {
	const q = `UPDATE slots SET user_name = ?, secret_code = ? WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, name, code, slotID)
	return err
}

// ReleaseTx clears the occupant columns within the provided transaction.
func (r *SlotRepo) ReleaseTx(ctx context.Context, tx *sql.Tx, slotID uint64) error {
	const q = `UPDATE slots SET user_name = NULL, secret_code = NULL WHERE id = ?`
	_, err := tx.ExecContext(ctx, q, slotID)
	return err
}

// Count returns the number of slots in the catalog.  The seeder uses it to
// decide whether the initial timetable still needs to be inserted.
func (r *SlotRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM slots`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// InsertBatch inserts catalog rows in a single statement.  Only the
// scheduling coordinates are written; the occupant columns start NULL and
// created_at defaults in the database.  Passing an empty slice has no
// effect and returns nil.
func (r *SlotRepo) InsertBatch(ctx context.Context, slots []model.Slot) error {
	if len(slots) == 0 {
		return nil
	}
	var q strings.Builder
	q.WriteString(`INSERT INTO slots (date, time, group_name) VALUES `)
	args := make([]interface{}, 0, len(slots)*3)
	for i, s := range slots {
		if i > 0 {
			q.WriteString(",")
		}
		q.WriteString("(?, ?, ?)")
		args = append(args, s.Date, s.Time, s.Group)
	}
	_, err := r.db.ExecContext(ctx, q.String(), args...)
	return err
}
