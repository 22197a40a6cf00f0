package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"village/internal/domain"
	"village/internal/repository"
)

const createVisitorsTable = `
CREATE TABLE IF NOT EXISTS visitors (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	resident_id INTEGER NOT NULL REFERENCES users(id),
	visitor_name TEXT NOT NULL,
	id_number TEXT NULL,
	notes TEXT NOT NULL DEFAULT '',
	allowed_at DATETIME NOT NULL
);
`

const visitorColumns = `id, resident_id, visitor_name, id_number, notes, allowed_at`

type VisitorRepository struct {
	db *sql.DB
}

func NewVisitorRepository(db *sql.DB) repository.VisitorRepository {
	return &VisitorRepository{db: db}
}

func (r *VisitorRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createVisitorsTable); err != nil {
		return fmt.Errorf("create visitors table: %w", err)
	}
	return nil
}

func (r *VisitorRepository) Create(ctx context.Context, v *domain.VisitorLog) (int64, error) {
	if v.AllowedAt.IsZero() {
		v.AllowedAt = time.Now().UTC()
	}
	var idNumber any
	if v.IDNumber != nil {
		idNumber = *v.IDNumber
	}
	res, err := r.db.ExecContext(ctx, `
INSERT INTO visitors (resident_id, visitor_name, id_number, notes, allowed_at)
VALUES (?, ?, ?, ?, ?)`,
		v.ResidentID,
		v.VisitorName,
		idNumber,
		v.Notes,
		v.AllowedAt,
	)
	if err != nil {
		if mapped := constraintErr(err, domain.ErrInvalidReference); mapped != nil {
			return 0, entityErr("visitor", mapped)
		}
		return 0, fmt.Errorf("insert visitor: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("visitor last insert id: %w", err)
	}
	v.ID = id
	return id, nil
}

func (r *VisitorRepository) Get(ctx context.Context, id int64) (*domain.VisitorLog, error) {
	return scanVisitor(r.db.QueryRowContext(ctx, `SELECT `+visitorColumns+` FROM visitors WHERE id=?`, id))
}

func (r *VisitorRepository) List(ctx context.Context) ([]domain.VisitorLog, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+visitorColumns+` FROM visitors ORDER BY allowed_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query visitors: %w", err)
	}
	defer rows.Close()

	visitors := []domain.VisitorLog{}
	for rows.Next() {
		v, err := scanVisitor(rows)
		if err != nil {
			return nil, err
		}
		visitors = append(visitors, *v)
	}
	return visitors, rows.Err()
}

func (r *VisitorRepository) Delete(ctx context.Context, id int64) error {
	if err := deleteByID(ctx, r.db, "visitors", id); err != nil {
		return entityErr("visitor", err)
	}
	return nil
}

func scanVisitor(row rowScanner) (*domain.VisitorLog, error) {
	var (
		v        domain.VisitorLog
		idNumber sql.NullString
	)
	if err := row.Scan(&v.ID, &v.ResidentID, &v.VisitorName, &idNumber, &v.Notes, &v.AllowedAt); err != nil {
		if isNoRows(err) {
			return nil, entityErr("visitor", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("scan visitor: %w", err)
	}
	if idNumber.Valid {
		s := idNumber.String
		v.IDNumber = &s
	}
	return &v, nil
}
