package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"village/internal/domain"
)

// Open opens (or creates) a sqlite database at the given path and ensures directories exist.
// Every transaction takes the write lock at BEGIN so read-then-write sequences cannot
// interleave across requests.
func Open(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	q := url.Values{}
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", "busy_timeout(5000)")
	q.Add("_pragma", "journal_mode(WAL)")
	q.Set("_txlock", "immediate")
	q.Set("_time_format", "sqlite")

	db, err := sql.Open("sqlite", "file:"+path+"?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	// a single writer connection keeps sqlite lock handling predictable
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	return db, nil
}

// Repositories bundles every repository backed by one database handle.
type Repositories struct {
	Users        *UserRepository
	Units        *UnitRepository
	Amenities    *AmenityRepository
	Reservations *ReservationRepository
	Tickets      *TicketRepository
	Visitors     *VisitorRepository
	Payments     *PaymentRepository
}

func NewRepositories(db *sql.DB) *Repositories {
	return &Repositories{
		Users:        &UserRepository{db: db},
		Units:        &UnitRepository{db: db},
		Amenities:    &AmenityRepository{db: db},
		Reservations: &ReservationRepository{db: db},
		Tickets:      &TicketRepository{db: db},
		Visitors:     &VisitorRepository{db: db},
		Payments:     &PaymentRepository{db: db},
	}
}

// Init creates all tables, parents first.
func (r *Repositories) Init(ctx context.Context) error {
	steps := []struct {
		name string
		init func(context.Context) error
	}{
		{"users", r.Users.Init},
		{"units", r.Units.Init},
		{"amenities", r.Amenities.Init},
		{"reservations", r.Reservations.Init},
		{"tickets", r.Tickets.Init},
		{"visitors", r.Visitors.Init},
		{"payments", r.Payments.Init},
	}
	for _, step := range steps {
		if err := step.init(ctx); err != nil {
			return fmt.Errorf("init %s repository: %w", step.name, err)
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// constraintErr translates sqlite constraint failures into domain errors. fkErr is
// returned for foreign key failures since their meaning depends on the statement.
func constraintErr(err error, fkErr error) error {
	if err == nil {
		return nil
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "unique constraint"):
		return domain.ErrDuplicate
	case strings.Contains(msg, "foreign key constraint"):
		return fkErr
	case strings.Contains(msg, overlapMessage):
		return domain.ErrSlotUnavailable
	}
	return nil
}

// execPatch runs an UPDATE built from a non-empty set map and reports missing rows.
func execPatch(ctx context.Context, ex execer, table string, id int64, set map[string]any) error {
	query, args, err := sq.Update(table).
		SetMap(set).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build %s update: %w", table, err)
	}
	res, err := ex.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s update rows affected: %w", table, err)
	}
	if aff == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// deleteByID removes one row and maps missing rows and FK failures.
func deleteByID(ctx context.Context, ex execer, table string, id int64) error {
	res, err := ex.ExecContext(ctx, `DELETE FROM `+table+` WHERE id=?`, id)
	if err != nil {
		if mapped := constraintErr(err, domain.ErrReferenced); mapped != nil {
			return mapped
		}
		return fmt.Errorf("delete from %s: %w", table, err)
	}
	aff, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s delete rows affected: %w", table, err)
	}
	if aff == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func nullInt64(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}

func int64Ptr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	id := v.Int64
	return &id
}

func optionalInt64(o domain.Optional[int64]) any {
	if o.Null {
		return nil
	}
	return o.Value
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// entityErr prefixes domain sentinels with the entity name so the message reads
// naturally ("unit not found"); other errors pass through untouched.
func entityErr(entity string, err error) error {
	for _, sentinel := range []error{domain.ErrNotFound, domain.ErrDuplicate, domain.ErrReferenced, domain.ErrInvalidReference} {
		if errors.Is(err, sentinel) {
			return fmt.Errorf("%s %w", entity, err)
		}
	}
	return err
}
