package repository

import (
	"context"
	"time"

	"village/internal/domain"
)

// UnitRepository manages condominium units.
type UnitRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, unit *domain.Unit) (int64, error)
	Get(ctx context.Context, id int64) (*domain.Unit, error)
	List(ctx context.Context) ([]domain.Unit, error)
	Update(ctx context.Context, id int64, patch domain.UnitPatch) (*domain.Unit, error)
	// Delete removes a unit. With detach set, ticket and payment references are
	// cleared in the same transaction before the unit is deleted.
	Delete(ctx context.Context, id int64, detach bool) error
}

// AmenityRepository manages bookable shared facilities.
type AmenityRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, amenity *domain.Amenity) (int64, error)
	Get(ctx context.Context, id int64) (*domain.Amenity, error)
	List(ctx context.Context) ([]domain.Amenity, error)
	Delete(ctx context.Context, id int64) error
}

// ReservationRepository stores amenity bookings.
type ReservationRepository interface {
	Init(ctx context.Context) error
	// CreateIfFree inserts the reservation unless a slot-holding reservation for the
	// same amenity overlaps it. Check and insert are one atomic unit.
	CreateIfFree(ctx context.Context, r *domain.Reservation) (int64, error)
	FindOverlapping(ctx context.Context, amenityID int64, start, end time.Time) ([]domain.Reservation, error)
	Get(ctx context.Context, id int64) (*domain.Reservation, error)
	List(ctx context.Context) ([]domain.Reservation, error)
	Update(ctx context.Context, id int64, patch domain.ReservationPatch) (*domain.Reservation, error)
	Delete(ctx context.Context, id int64) error
}

// TicketRepository stores maintenance tickets.
type TicketRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, ticket *domain.MaintenanceTicket) (int64, error)
	Get(ctx context.Context, id int64) (*domain.MaintenanceTicket, error)
	List(ctx context.Context) ([]domain.MaintenanceTicket, error)
	Update(ctx context.Context, id int64, patch domain.TicketPatch) (*domain.MaintenanceTicket, error)
	Delete(ctx context.Context, id int64) error
}

// VisitorRepository stores visitor log entries.
type VisitorRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, visitor *domain.VisitorLog) (int64, error)
	Get(ctx context.Context, id int64) (*domain.VisitorLog, error)
	List(ctx context.Context) ([]domain.VisitorLog, error)
	Delete(ctx context.Context, id int64) error
}

// PaymentRepository stores mock payments.
type PaymentRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, payment *domain.Payment) (int64, error)
	Get(ctx context.Context, id int64) (*domain.Payment, error)
	List(ctx context.Context) ([]domain.Payment, error)
	SetReceiptKey(ctx context.Context, id int64, key string) error
	Delete(ctx context.Context, id int64) error
}
