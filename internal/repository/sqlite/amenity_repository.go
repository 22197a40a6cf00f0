package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"village/internal/domain"
	"village/internal/repository"
)

const createAmenitiesTable = `
CREATE TABLE IF NOT EXISTS amenities (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	created_at DATETIME NOT NULL
);
`

type AmenityRepository struct {
	db *sql.DB
}

func NewAmenityRepository(db *sql.DB) repository.AmenityRepository {
	return &AmenityRepository{db: db}
}

func (r *AmenityRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createAmenitiesTable); err != nil {
		return fmt.Errorf("create amenities table: %w", err)
	}
	return nil
}

func (r *AmenityRepository) Create(ctx context.Context, amenity *domain.Amenity) (int64, error) {
	amenity.CreatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `INSERT INTO amenities (name, created_at) VALUES (?, ?)`,
		amenity.Name,
		amenity.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert amenity: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("amenity last insert id: %w", err)
	}
	amenity.ID = id
	return id, nil
}

func (r *AmenityRepository) Get(ctx context.Context, id int64) (*domain.Amenity, error) {
	return scanAmenity(r.db.QueryRowContext(ctx, `SELECT id, name, created_at FROM amenities WHERE id=?`, id))
}

func (r *AmenityRepository) List(ctx context.Context) ([]domain.Amenity, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, created_at FROM amenities ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query amenities: %w", err)
	}
	defer rows.Close()

	amenities := []domain.Amenity{}
	for rows.Next() {
		a, err := scanAmenity(rows)
		if err != nil {
			return nil, err
		}
		amenities = append(amenities, *a)
	}
	return amenities, rows.Err()
}

// Delete fails with domain.ErrReferenced while reservations point at the amenity.
func (r *AmenityRepository) Delete(ctx context.Context, id int64) error {
	if err := deleteByID(ctx, r.db, "amenities", id); err != nil {
		return entityErr("amenity", err)
	}
	return nil
}

func scanAmenity(row rowScanner) (*domain.Amenity, error) {
	var a domain.Amenity
	if err := row.Scan(&a.ID, &a.Name, &a.CreatedAt); err != nil {
		if isNoRows(err) {
			return nil, entityErr("amenity", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("scan amenity: %w", err)
	}
	return &a, nil
}
