package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"village/internal/domain"
	"village/internal/repository"
)

const createTicketsTable = `
CREATE TABLE IF NOT EXISTS maintenance_tickets (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL REFERENCES users(id),
	unit_id INTEGER NULL REFERENCES units(id),
	title TEXT NOT NULL,
	description TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'open' CHECK (status IN ('open', 'in_progress', 'closed')),
	created_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_tickets_unit_id ON maintenance_tickets(unit_id);
`

const ticketColumns = `id, user_id, unit_id, title, description, status, created_at`

type TicketRepository struct {
	db *sql.DB
}

func NewTicketRepository(db *sql.DB) repository.TicketRepository {
	return &TicketRepository{db: db}
}

func (r *TicketRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createTicketsTable); err != nil {
		return fmt.Errorf("create maintenance_tickets table: %w", err)
	}
	return nil
}

func (r *TicketRepository) Create(ctx context.Context, t *domain.MaintenanceTicket) (int64, error) {
	t.CreatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
INSERT INTO maintenance_tickets (user_id, unit_id, title, description, status, created_at)
VALUES (?, ?, ?, ?, ?, ?)`,
		t.UserID,
		nullInt64(t.UnitID),
		t.Title,
		t.Description,
		string(t.Status),
		t.CreatedAt,
	)
	if err != nil {
		if mapped := constraintErr(err, domain.ErrInvalidReference); mapped != nil {
			return 0, entityErr("ticket", mapped)
		}
		return 0, fmt.Errorf("insert ticket: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("ticket last insert id: %w", err)
	}
	t.ID = id
	return id, nil
}

func (r *TicketRepository) Get(ctx context.Context, id int64) (*domain.MaintenanceTicket, error) {
	return scanTicket(r.db.QueryRowContext(ctx, `SELECT `+ticketColumns+` FROM maintenance_tickets WHERE id=?`, id))
}

func (r *TicketRepository) List(ctx context.Context) ([]domain.MaintenanceTicket, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+ticketColumns+` FROM maintenance_tickets ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query tickets: %w", err)
	}
	defer rows.Close()

	tickets := []domain.MaintenanceTicket{}
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, *t)
	}
	return tickets, rows.Err()
}

func (r *TicketRepository) Update(ctx context.Context, id int64, patch domain.TicketPatch) (*domain.MaintenanceTicket, error) {
	set := map[string]any{}
	if patch.Title.Set {
		set["title"] = patch.Title.Value
	}
	if patch.Description.Set {
		set["description"] = patch.Description.Value
	}
	if patch.UnitID.Set {
		set["unit_id"] = optionalInt64(patch.UnitID)
	}
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

	if err := execPatch(ctx, tx, "maintenance_tickets", id, set); err != nil {
		if mapped := constraintErr(err, domain.ErrInvalidReference); mapped != nil {
			return nil, entityErr("ticket", mapped)
		}
		return nil, entityErr("ticket", err)
	}
	t, err := scanTicket(tx.QueryRowContext(ctx, `SELECT `+ticketColumns+` FROM maintenance_tickets WHERE id=?`, id))
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit ticket update: %w", err)
	}
	return t, nil
}

func (r *TicketRepository) Delete(ctx context.Context, id int64) error {
	if err := deleteByID(ctx, r.db, "maintenance_tickets", id); err != nil {
		return entityErr("ticket", err)
	}
	return nil
}

func scanTicket(row rowScanner) (*domain.MaintenanceTicket, error) {
	var (
		t      domain.MaintenanceTicket
		unitID sql.NullInt64
		status string
	)
	if err := row.Scan(&t.ID, &t.UserID, &unitID, &t.Title, &t.Description, &status, &t.CreatedAt); err != nil {
		if isNoRows(err) {
			return nil, entityErr("ticket", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("scan ticket: %w", err)
	}
	t.UnitID = int64Ptr(unitID)
	t.Status = domain.TicketStatus(status)
	return &t, nil
}
