package domain

import (
	"fmt"
	"strings"
	"time"
)

type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationApproved  ReservationStatus = "approved"
	ReservationCancelled ReservationStatus = "cancelled"
)

func ParseReservationStatus(s string) (ReservationStatus, error) {
	switch st := ReservationStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case ReservationPending, ReservationApproved, ReservationCancelled:
		return st, nil
	}
	return "", fmt.Errorf("%w: unknown reservation status %q", ErrValidation, s)
}

// Reservation books an amenity for the half-open interval [StartAt, EndAt).
type Reservation struct {
	ID        int64
	AmenityID int64
	UserID    int64
	StartAt   time.Time
	EndAt     time.Time
	Status    ReservationStatus
	CreatedAt time.Time
}

// Overlaps reports whether the two half-open intervals share any instant.
// Touching endpoints do not overlap.
func (r Reservation) Overlaps(start, end time.Time) bool {
	return r.StartAt.Before(end) && r.EndAt.After(start)
}

// BlocksSlot reports whether the reservation still holds its interval.
func (r Reservation) BlocksSlot() bool {
	return r.Status != ReservationCancelled
}

type ReservationPatch struct {
	Status Optional[ReservationStatus]
}

func (p ReservationPatch) Empty() bool {
	return !p.Status.Set
}
