package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"village/internal/domain"
	"village/internal/repository"
)

type CreateReservationInput struct {
	AmenityID int64
	UserID    *int64
	StartAt   time.Time
	EndAt     time.Time
}

// ReservationService books amenities without overlapping slots.
type ReservationService interface {
	Propose(ctx context.Context, amenityID int64, start, end time.Time) error
	Create(ctx context.Context, caller *domain.User, in CreateReservationInput) (*domain.Reservation, error)
	List(ctx context.Context) ([]domain.Reservation, error)
	Get(ctx context.Context, id int64) (*domain.Reservation, error)
	UpdateStatus(ctx context.Context, id int64, status string) (*domain.Reservation, error)
	Delete(ctx context.Context, caller *domain.User, id int64) error
}

type reservationService struct {
	reservations repository.ReservationRepository
	logger       *logrus.Logger
}

func NewReservationService(reservations repository.ReservationRepository, logger *logrus.Logger) ReservationService {
	if logger == nil {
		logger = logrus.New()
	}
	return &reservationService{
		reservations: reservations,
		logger:       logger,
	}
}

// normalizeInterval truncates to whole seconds, the precision slots are stored with,
// and checks start < end.
func normalizeInterval(start, end time.Time) (time.Time, time.Time, error) {
	if start.IsZero() || end.IsZero() {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: start_at and end_at are required", domain.ErrValidation)
	}
	start = start.UTC().Truncate(time.Second)
	end = end.UTC().Truncate(time.Second)
	if !start.Before(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: end_at must be after start_at", domain.ErrValidation)
	}
	return start, end, nil
}

// Propose reports whether [start, end) is free on the amenity without booking it.
func (s *reservationService) Propose(ctx context.Context, amenityID int64, start, end time.Time) error {
	start, end, err := normalizeInterval(start, end)
	if err != nil {
		return err
	}
	overlapping, err := s.reservations.FindOverlapping(ctx, amenityID, start, end)
	if err != nil {
		return err
	}
	if len(overlapping) > 0 {
		return domain.ErrSlotUnavailable
	}
	return nil
}

func (s *reservationService) Create(ctx context.Context, caller *domain.User, in CreateReservationInput) (*domain.Reservation, error) {
	if in.AmenityID <= 0 {
		return nil, fmt.Errorf("%w: amenity_id is required", domain.ErrValidation)
	}
	userID, err := resolveOwner(caller, in.UserID)
	if err != nil {
		return nil, err
	}
	start, end, err := normalizeInterval(in.StartAt, in.EndAt)
	if err != nil {
		return nil, err
	}

	res := &domain.Reservation{
		AmenityID: in.AmenityID,
		UserID:    userID,
		StartAt:   start,
		EndAt:     end,
		Status:    domain.ReservationPending,
	}
	logger := s.logger.WithFields(logrus.Fields{
		"amenity_id": in.AmenityID,
		"user_id":    userID,
		"start_at":   start.Format(time.RFC3339),
		"end_at":     end.Format(time.RFC3339),
	})
	if _, err := s.reservations.CreateIfFree(ctx, res); err != nil {
		if errors.Is(err, domain.ErrSlotUnavailable) {
			logger.Info("reservation rejected: slot unavailable")
		}
		return nil, err
	}

	logger.WithField("reservation_id", res.ID).Info("reservation created")
	return res, nil
}

func (s *reservationService) List(ctx context.Context) ([]domain.Reservation, error) {
	return s.reservations.List(ctx)
}

func (s *reservationService) Get(ctx context.Context, id int64) (*domain.Reservation, error) {
	return s.reservations.Get(ctx, id)
}

// UpdateStatus sets any known status; transitions are not restricted.
func (s *reservationService) UpdateStatus(ctx context.Context, id int64, status string) (*domain.Reservation, error) {
	st, err := domain.ParseReservationStatus(status)
	if err != nil {
		return nil, err
	}
	res, err := s.reservations.Update(ctx, id, domain.ReservationPatch{Status: domain.Some(st)})
	if err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{"reservation_id": id, "status": st}).Info("reservation status changed")
	return res, nil
}

func (s *reservationService) Delete(ctx context.Context, caller *domain.User, id int64) error {
	res, err := s.reservations.Get(ctx, id)
	if err != nil {
		return err
	}
	if !canManage(caller, res.UserID) {
		return fmt.Errorf("%w: only the owner or an admin may delete this reservation", domain.ErrForbidden)
	}
	return s.reservations.Delete(ctx, id)
}
