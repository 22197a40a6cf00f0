package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"village/internal/domain"
	"village/internal/repository"
)

// overlapMessage is raised by the overlap triggers and matched by constraintErr.
const overlapMessage = "reservation overlap"

// Interval endpoints are unix seconds so the overlap predicate compares integers.
const createReservationsTable = `
CREATE TABLE IF NOT EXISTS reservations (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	amenity_id INTEGER NOT NULL REFERENCES amenities(id),
	user_id INTEGER NOT NULL REFERENCES users(id),
	start_at INTEGER NOT NULL,
	end_at INTEGER NOT NULL,
	status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'approved', 'cancelled')),
	created_at DATETIME NOT NULL,
	CHECK (start_at < end_at)
);
CREATE INDEX IF NOT EXISTS idx_reservations_amenity_interval ON reservations(amenity_id, start_at, end_at);
CREATE INDEX IF NOT EXISTS idx_reservations_user_id ON reservations(user_id);
CREATE TRIGGER IF NOT EXISTS reservations_no_overlap_insert
BEFORE INSERT ON reservations
WHEN NEW.status <> 'cancelled' AND EXISTS (
	SELECT 1 FROM reservations
	WHERE amenity_id = NEW.amenity_id
	  AND status <> 'cancelled'
	  AND start_at < NEW.end_at
	  AND end_at > NEW.start_at
)
BEGIN
	SELECT RAISE(ABORT, 'reservation overlap');
END;
CREATE TRIGGER IF NOT EXISTS reservations_no_overlap_reinstate
BEFORE UPDATE OF status ON reservations
WHEN OLD.status = 'cancelled' AND NEW.status <> 'cancelled' AND EXISTS (
	SELECT 1 FROM reservations
	WHERE amenity_id = NEW.amenity_id
	  AND id <> NEW.id
	  AND status <> 'cancelled'
	  AND start_at < NEW.end_at
	  AND end_at > NEW.start_at
)
BEGIN
	SELECT RAISE(ABORT, 'reservation overlap');
END;
`

const reservationColumns = `id, amenity_id, user_id, start_at, end_at, status, created_at`

const overlapQuery = `
SELECT ` + reservationColumns + `
FROM reservations
WHERE amenity_id = ?
  AND status <> 'cancelled'
  AND start_at < ?
  AND end_at > ?
ORDER BY start_at ASC`

type ReservationRepository struct {
	db *sql.DB
}

func NewReservationRepository(db *sql.DB) repository.ReservationRepository {
	return &ReservationRepository{db: db}
}

func (r *ReservationRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createReservationsTable); err != nil {
		return fmt.Errorf("create reservations table: %w", err)
	}
	return nil
}

// CreateIfFree runs the overlap check and the insert in one immediate transaction;
// the insert trigger rejects anything that slips past the check.
func (r *ReservationRepository) CreateIfFree(ctx context.Context, res *domain.Reservation) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT 1 FROM amenities WHERE id=?`, res.AmenityID).Scan(&exists); err != nil {
		if isNoRows(err) {
			return 0, entityErr("amenity", domain.ErrNotFound)
		}
		return 0, fmt.Errorf("lookup amenity: %w", err)
	}

	if res.Status != domain.ReservationCancelled {
		overlapping, err := queryReservations(ctx, tx, overlapQuery, res.AmenityID, res.EndAt.Unix(), res.StartAt.Unix())
		if err != nil {
			return 0, err
		}
		if len(overlapping) > 0 {
			return 0, domain.ErrSlotUnavailable
		}
	}

	res.CreatedAt = time.Now().UTC()
	result, err := tx.ExecContext(ctx, `
INSERT INTO reservations (amenity_id, user_id, start_at, end_at, status, created_at)
VALUES (?, ?, ?, ?, ?, ?)`,
		res.AmenityID,
		res.UserID,
		res.StartAt.Unix(),
		res.EndAt.Unix(),
		string(res.Status),
		res.CreatedAt,
	)
	if err != nil {
		if mapped := constraintErr(err, domain.ErrInvalidReference); mapped != nil {
			return 0, entityErr("reservation", mapped)
		}
		return 0, fmt.Errorf("insert reservation: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reservation last insert id: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit reservation: %w", err)
	}
	res.ID = id
	res.StartAt = time.Unix(res.StartAt.Unix(), 0).UTC()
	res.EndAt = time.Unix(res.EndAt.Unix(), 0).UTC()
	return id, nil
}

// FindOverlapping returns slot-holding reservations of the amenity that intersect [start, end).
func (r *ReservationRepository) FindOverlapping(ctx context.Context, amenityID int64, start, end time.Time) ([]domain.Reservation, error) {
	return queryReservations(ctx, r.db, overlapQuery, amenityID, end.Unix(), start.Unix())
}

func (r *ReservationRepository) Get(ctx context.Context, id int64) (*domain.Reservation, error) {
	return scanReservation(r.db.QueryRowContext(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE id=?`, id))
}

func (r *ReservationRepository) List(ctx context.Context) ([]domain.Reservation, error) {
	return queryReservations(ctx, r.db, `SELECT `+reservationColumns+` FROM reservations ORDER BY start_at ASC, id ASC`)
}

func (r *ReservationRepository) Update(ctx context.Context, id int64, patch domain.ReservationPatch) (*domain.Reservation, error) {
	set := map[string]any{}
	if patch.Status.Set {
		set["status"] = string(patch.Status.Value)
	}
	if len(set) == 0 {
		return r.Get(ctx, id)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := execPatch(ctx, tx, "reservations", id, set); err != nil {
		if mapped := constraintErr(err, domain.ErrInvalidReference); mapped != nil {
			return nil, entityErr("reservation", mapped)
		}
		return nil, entityErr("reservation", err)
	}
	res, err := scanReservation(tx.QueryRowContext(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE id=?`, id))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit reservation update: %w", err)
	}
	return res, nil
}

func (r *ReservationRepository) Delete(ctx context.Context, id int64) error {
	if err := deleteByID(ctx, r.db, "reservations", id); err != nil {
		return entityErr("reservation", err)
	}
	return nil
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func queryReservations(ctx context.Context, q queryer, query string, args ...any) ([]domain.Reservation, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query reservations: %w", err)
	}
	defer rows.Close()

	reservations := []domain.Reservation{}
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, *res)
	}
	return reservations, rows.Err()
}

func scanReservation(row rowScanner) (*domain.Reservation, error) {
	var (
		res        domain.Reservation
		start, end int64
		status     string
	)
	if err := row.Scan(
		&res.ID,
		&res.AmenityID,
		&res.UserID,
		&start,
		&end,
		&status,
		&res.CreatedAt,
	); err != nil {
		if isNoRows(err) {
			return nil, entityErr("reservation", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("scan reservation: %w", err)
	}
	res.StartAt = time.Unix(start, 0).UTC()
	res.EndAt = time.Unix(end, 0).UTC()
	res.Status = domain.ReservationStatus(status)
	return &res, nil
}
