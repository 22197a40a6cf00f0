package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"village/internal/domain"
	"village/internal/repository"
)

const createUnitsTable = `
CREATE TABLE IF NOT EXISTS units (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	code TEXT NOT NULL UNIQUE,
	owner_id INTEGER NULL REFERENCES users(id) ON DELETE SET NULL,
	area_m2 REAL NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_units_owner_id ON units(owner_id);
`

const unitColumns = `id, code, owner_id, area_m2, created_at, updated_at`

type UnitRepository struct {
	db *sql.DB
}

func NewUnitRepository(db *sql.DB) repository.UnitRepository {
	return &UnitRepository{db: db}
}

func (r *UnitRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createUnitsTable); err != nil {
		return fmt.Errorf("create units table: %w", err)
	}
	return nil
}

func (r *UnitRepository) Create(ctx context.Context, unit *domain.Unit) (int64, error) {
	now := time.Now().UTC()
	unit.CreatedAt = now
	unit.UpdatedAt = now

	res, err := r.db.ExecContext(ctx, `
INSERT INTO units (code, owner_id, area_m2, created_at, updated_at)
VALUES (?, ?, ?, ?, ?)`,
		unit.Code,
		nullInt64(unit.OwnerID),
		unit.AreaM2,
		unit.CreatedAt,
		unit.UpdatedAt,
	)
	if err != nil {
		if mapped := constraintErr(err, domain.ErrInvalidReference); mapped != nil {
			return 0, entityErr("unit", mapped)
		}
		return 0, fmt.Errorf("insert unit: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("unit last insert id: %w", err)
	}
	unit.ID = id
	return id, nil
}

func (r *UnitRepository) Get(ctx context.Context, id int64) (*domain.Unit, error) {
	return scanUnit(r.db.QueryRowContext(ctx, `SELECT `+unitColumns+` FROM units WHERE id=?`, id))
}

func (r *UnitRepository) List(ctx context.Context) ([]domain.Unit, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+unitColumns+` FROM units ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query units: %w", err)
	}
	defer rows.Close()

	units := []domain.Unit{}
	for rows.Next() {
		unit, err := scanUnit(rows)
		if err != nil {
			return nil, err
		}
		units = append(units, *unit)
	}
	return units, rows.Err()
}

func (r *UnitRepository) Update(ctx context.Context, id int64, patch domain.UnitPatch) (*domain.Unit, error) {
	set := map[string]any{"updated_at": time.Now().UTC()}
	if patch.Code.Set {
		set["code"] = patch.Code.Value
	}
	if patch.OwnerID.Set {
		set["owner_id"] = optionalInt64(patch.OwnerID)
	}
	if patch.AreaM2.Set {
		set["area_m2"] = patch.AreaM2.Value
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := execPatch(ctx, tx, "units", id, set); err != nil {
		if mapped := constraintErr(err, domain.ErrInvalidReference); mapped != nil {
			return nil, entityErr("unit", mapped)
		}
		return nil, entityErr("unit", err)
	}
	unit, err := scanUnit(tx.QueryRowContext(ctx, `SELECT `+unitColumns+` FROM units WHERE id=?`, id))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit unit update: %w", err)
	}
	return unit, nil
}

func (r *UnitRepository) Delete(ctx context.Context, id int64, detach bool) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if detach {
		if _, err := tx.ExecContext(ctx, `UPDATE maintenance_tickets SET unit_id=NULL WHERE unit_id=?`, id); err != nil {
			return fmt.Errorf("detach tickets: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `UPDATE payments SET unit_id=NULL WHERE unit_id=?`, id); err != nil {
			return fmt.Errorf("detach payments: %w", err)
		}
	}

	if err := deleteByID(ctx, tx, "units", id); err != nil {
		return entityErr("unit", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit unit delete: %w", err)
	}
	return nil
}

func scanUnit(row rowScanner) (*domain.Unit, error) {
	var (
		unit  domain.Unit
		owner sql.NullInt64
	)
	if err := row.Scan(
		&unit.ID,
		&unit.Code,
		&owner,
		&unit.AreaM2,
		&unit.CreatedAt,
		&unit.UpdatedAt,
	); err != nil {
		if isNoRows(err) {
			return nil, entityErr("unit", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("scan unit: %w", err)
	}
	unit.OwnerID = int64Ptr(owner)
	return &unit, nil
}
