package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"village/internal/domain"
	"village/internal/repository"
)

const createPaymentsTable = `
CREATE TABLE IF NOT EXISTS payments (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id INTEGER NOT NULL REFERENCES users(id),
	unit_id INTEGER NULL REFERENCES units(id),
	amount REAL NOT NULL CHECK (amount > 0),
	method TEXT NOT NULL DEFAULT 'card',
	paid_at DATETIME NOT NULL,
	receipt TEXT NOT NULL,
	receipt_key TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_payments_unit_id ON payments(unit_id);
`

const paymentColumns = `id, user_id, unit_id, amount, method, paid_at, receipt, receipt_key`

type PaymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) repository.PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createPaymentsTable); err != nil {
		return fmt.Errorf("create payments table: %w", err)
	}
	return nil
}

func (r *PaymentRepository) Create(ctx context.Context, p *domain.Payment) (int64, error) {
	if p.PaidAt.IsZero() {
		p.PaidAt = time.Now().UTC()
	}
	if p.Receipt == "" {
		p.Receipt = domain.ReceiptCode(p.PaidAt)
	}
	res, err := r.db.ExecContext(ctx, `
INSERT INTO payments (user_id, unit_id, amount, method, paid_at, receipt, receipt_key)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.UserID,
		nullInt64(p.UnitID),
		p.Amount,
		p.Method,
		p.PaidAt,
		p.Receipt,
		p.ReceiptKey,
	)
	if err != nil {
		if mapped := constraintErr(err, domain.ErrInvalidReference); mapped != nil {
			return 0, entityErr("payment", mapped)
		}
		return 0, fmt.Errorf("insert payment: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("payment last insert id: %w", err)
	}
	p.ID = id
	return id, nil
}

func (r *PaymentRepository) Get(ctx context.Context, id int64) (*domain.Payment, error) {
	return scanPayment(r.db.QueryRowContext(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id=?`, id))
}

func (r *PaymentRepository) List(ctx context.Context) ([]domain.Payment, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+paymentColumns+` FROM payments ORDER BY paid_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query payments: %w", err)
	}
	defer rows.Close()

	payments := []domain.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, *p)
	}
	return payments, rows.Err()
}

func (r *PaymentRepository) SetReceiptKey(ctx context.Context, id int64, key string) error {
	if err := execPatch(ctx, r.db, "payments", id, map[string]any{"receipt_key": key}); err != nil {
		return entityErr("payment", err)
	}
	return nil
}

func (r *PaymentRepository) Delete(ctx context.Context, id int64) error {
	if err := deleteByID(ctx, r.db, "payments", id); err != nil {
		return entityErr("payment", err)
	}
	return nil
}

func scanPayment(row rowScanner) (*domain.Payment, error) {
	var (
		p      domain.Payment
		unitID sql.NullInt64
	)
	if err := row.Scan(&p.ID, &p.UserID, &unitID, &p.Amount, &p.Method, &p.PaidAt, &p.Receipt, &p.ReceiptKey); err != nil {
		if isNoRows(err) {
			return nil, entityErr("payment", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("scan payment: %w", err)
	}
	p.UnitID = int64Ptr(unitID)
	return &p, nil
}
