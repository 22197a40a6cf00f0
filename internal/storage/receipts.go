package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"
	"time"

	"village/internal/domain"
)

const receiptURLExpiry = 15 * time.Minute

// ReceiptArchive keeps a JSON copy of every payment receipt in object storage.
type ReceiptArchive struct {
	store  Service
	bucket string
	prefix string
}

func NewReceiptArchive(store Service, bucket, prefix string) *ReceiptArchive {
	return &ReceiptArchive{
		store:  store,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}
}

type receiptDocument struct {
	PaymentID int64     `json:"payment_id"`
	Receipt   string    `json:"receipt"`
	UserID    int64     `json:"user_id"`
	UnitID    *int64    `json:"unit_id"`
	Amount    float64   `json:"amount"`
	Method    string    `json:"method"`
	PaidAt    time.Time `json:"paid_at"`
}

// Key is the object key a payment's receipt is stored under.
func (a *ReceiptArchive) Key(p *domain.Payment) string {
	name := fmt.Sprintf("%s-%d.json", p.Receipt, p.ID)
	if a.prefix == "" {
		return name
	}
	return path.Join(a.prefix, name)
}

// Archive uploads the receipt and returns its object key.
func (a *ReceiptArchive) Archive(ctx context.Context, p *domain.Payment) (string, error) {
	body, err := json.Marshal(receiptDocument{
		PaymentID: p.ID,
		Receipt:   p.Receipt,
		UserID:    p.UserID,
		UnitID:    p.UnitID,
		Amount:    p.Amount,
		Method:    p.Method,
		PaidAt:    p.PaidAt.UTC(),
	})
	if err != nil {
		return "", fmt.Errorf("encode receipt: %w", err)
	}
	key := a.Key(p)
	if _, err := a.store.Upload(ctx, a.bucket, key, body, "application/json"); err != nil {
		return "", err
	}
	return key, nil
}

func (a *ReceiptArchive) URL(ctx context.Context, key string) (string, error) {
	return a.store.GetObjectURL(ctx, a.bucket, key, receiptURLExpiry)
}

func (a *ReceiptArchive) List(ctx context.Context) ([]ObjectInfo, error) {
	prefix := a.prefix
	if prefix != "" {
		prefix += "/"
	}
	return a.store.ListObjects(ctx, a.bucket, prefix)
}

func (a *ReceiptArchive) Remove(ctx context.Context, key string) error {
	return a.store.DeleteObject(ctx, a.bucket, key)
}
