package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"village/internal/domain"
	"village/internal/repository"
	"village/internal/storage"
)

// ReceiptArchive keeps copies of payment receipts outside the database.
type ReceiptArchive interface {
	Archive(ctx context.Context, p *domain.Payment) (string, error)
	URL(ctx context.Context, key string) (string, error)
	List(ctx context.Context) ([]storage.ObjectInfo, error)
	Remove(ctx context.Context, key string) error
}

type CreatePaymentInput struct {
	UserID *int64
	UnitID *int64
	Amount float64
	Method string
}

// PaymentService records mock payments; nothing is charged.
type PaymentService interface {
	Create(ctx context.Context, caller *domain.User, in CreatePaymentInput) (*domain.Payment, error)
	List(ctx context.Context) ([]domain.Payment, error)
	Get(ctx context.Context, id int64) (*domain.Payment, error)
	ReceiptURL(ctx context.Context, caller *domain.User, id int64) (string, error)
	ListReceipts(ctx context.Context) ([]storage.ObjectInfo, error)
	Delete(ctx context.Context, id int64) ([]string, error)
}

type paymentService struct {
	payments repository.PaymentRepository
	archive  ReceiptArchive
	logger   *logrus.Logger
	now      func() time.Time
}

// NewPaymentService builds the service; archive may be nil when no bucket is configured.
func NewPaymentService(payments repository.PaymentRepository, archive ReceiptArchive, logger *logrus.Logger) PaymentService {
	if logger == nil {
		logger = logrus.New()
	}
	return &paymentService{
		payments: payments,
		archive:  archive,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *paymentService) Create(ctx context.Context, caller *domain.User, in CreatePaymentInput) (*domain.Payment, error) {
	userID, err := resolveOwner(caller, in.UserID)
	if err != nil {
		return nil, err
	}
	if in.Amount <= 0 || math.IsInf(in.Amount, 0) || math.IsNaN(in.Amount) {
		return nil, fmt.Errorf("%w: amount must be positive", domain.ErrValidation)
	}
	method := strings.TrimSpace(in.Method)
	if method == "" {
		method = domain.DefaultPaymentMethod
	}

	paidAt := s.now().UTC()
	payment := &domain.Payment{
		UserID:  userID,
		UnitID:  in.UnitID,
		Amount:  in.Amount,
		Method:  method,
		PaidAt:  paidAt,
		Receipt: domain.ReceiptCode(paidAt),
	}
	if _, err := s.payments.Create(ctx, payment); err != nil {
		return nil, err
	}

	logger := s.logger.WithFields(logrus.Fields{"payment_id": payment.ID, "receipt": payment.Receipt})
	if s.archive != nil {
		key, err := s.archive.Archive(ctx, payment)
		if err != nil {
			logger.Warnf("archive receipt: %v", err)
		} else if err := s.payments.SetReceiptKey(ctx, payment.ID, key); err != nil {
			logger.Warnf("store receipt key: %v", err)
		} else {
			payment.ReceiptKey = key
		}
	}

	logger.Info("payment recorded")
	return payment, nil
}

func (s *paymentService) List(ctx context.Context) ([]domain.Payment, error) {
	return s.payments.List(ctx)
}

func (s *paymentService) Get(ctx context.Context, id int64) (*domain.Payment, error) {
	return s.payments.Get(ctx, id)
}

func (s *paymentService) ReceiptURL(ctx context.Context, caller *domain.User, id int64) (string, error) {
	payment, err := s.payments.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if !canManage(caller, payment.UserID) {
		return "", fmt.Errorf("%w: only the payer or an admin may fetch this receipt", domain.ErrForbidden)
	}
	if s.archive == nil || payment.ReceiptKey == "" {
		return "", fmt.Errorf("archived receipt %w", domain.ErrNotFound)
	}
	return s.archive.URL(ctx, payment.ReceiptKey)
}

func (s *paymentService) ListReceipts(ctx context.Context) ([]storage.ObjectInfo, error) {
	if s.archive == nil {
		return []storage.ObjectInfo{}, nil
	}
	return s.archive.List(ctx)
}

// Delete removes the payment and, best effort, its archived receipt. Archive failures
// are returned as warnings.
func (s *paymentService) Delete(ctx context.Context, id int64) ([]string, error) {
	payment, err := s.payments.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.payments.Delete(ctx, id); err != nil {
		return nil, err
	}

	var warnings []string
	if s.archive != nil && payment.ReceiptKey != "" {
		if err := s.archive.Remove(ctx, payment.ReceiptKey); err != nil {
			warnings = append(warnings, fmt.Sprintf("delete archived receipt: %v", err))
		}
	}
	return warnings, nil
}
