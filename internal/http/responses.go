package http

import (
	"time"

	"village/internal/domain"
	"village/internal/storage"
)

type UserResponse struct {
	ID        int64       `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	Active    bool        `json:"is_active"`
	CreatedAt string      `json:"created_at"`
	UpdatedAt string      `json:"updated_at"`
}

type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresAt   string       `json:"expires_at"`
	User        UserResponse `json:"user"`
}

type UnitResponse struct {
	ID        int64   `json:"id"`
	Code      string  `json:"code"`
	OwnerID   *int64  `json:"owner_id"`
	AreaM2    float64 `json:"area_m2"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

type AmenityResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

type ReservationResponse struct {
	ID        int64                    `json:"id"`
	AmenityID int64                    `json:"amenity_id"`
	UserID    int64                    `json:"user_id"`
	StartAt   string                   `json:"start_at"`
	EndAt     string                   `json:"end_at"`
	Status    domain.ReservationStatus `json:"status"`
	CreatedAt string                   `json:"created_at"`
}

type TicketResponse struct {
	ID          int64               `json:"id"`
	UserID      int64               `json:"user_id"`
	UnitID      *int64              `json:"unit_id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Status      domain.TicketStatus `json:"status"`
	CreatedAt   string              `json:"created_at"`
}

type VisitorResponse struct {
	ID          int64   `json:"id"`
	ResidentID  int64   `json:"resident_id"`
	VisitorName string  `json:"visitor_name"`
	IDNumber    *string `json:"id_number"`
	Notes       string  `json:"notes"`
	AllowedAt   string  `json:"allowed_at"`
}

type PaymentResponse struct {
	ID       int64   `json:"id"`
	UserID   int64   `json:"user_id"`
	UnitID   *int64  `json:"unit_id"`
	Amount   float64 `json:"amount"`
	Method   string  `json:"method"`
	PaidAt   string  `json:"paid_at"`
	Receipt  string  `json:"receipt"`
	Archived bool    `json:"archived"`
}

type StorageObjectResponse struct {
	Key          string  `json:"key"`
	Size         int64   `json:"size"`
	LastModified *string `json:"last_modified,omitempty"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func userToResponse(u domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		Active:    u.Active,
		CreatedAt: formatTime(u.CreatedAt),
		UpdatedAt: formatTime(u.UpdatedAt),
	}
}

func unitToResponse(u domain.Unit) UnitResponse {
	return UnitResponse{
		ID:        u.ID,
		Code:      u.Code,
		OwnerID:   u.OwnerID,
		AreaM2:    u.AreaM2,
		CreatedAt: formatTime(u.CreatedAt),
		UpdatedAt: formatTime(u.UpdatedAt),
	}
}

func amenityToResponse(a domain.Amenity) AmenityResponse {
	return AmenityResponse{ID: a.ID, Name: a.Name, CreatedAt: formatTime(a.CreatedAt)}
}

func reservationToResponse(r domain.Reservation) ReservationResponse {
	return ReservationResponse{
		ID:        r.ID,
		AmenityID: r.AmenityID,
		UserID:    r.UserID,
		StartAt:   formatTime(r.StartAt),
		EndAt:     formatTime(r.EndAt),
		Status:    r.Status,
		CreatedAt: formatTime(r.CreatedAt),
	}
}

func ticketToResponse(t domain.MaintenanceTicket) TicketResponse {
	return TicketResponse{
		ID:          t.ID,
		UserID:      t.UserID,
		UnitID:      t.UnitID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		CreatedAt:   formatTime(t.CreatedAt),
	}
}

func visitorToResponse(v domain.VisitorLog) VisitorResponse {
	return VisitorResponse{
		ID:          v.ID,
		ResidentID:  v.ResidentID,
		VisitorName: v.VisitorName,
		IDNumber:    v.IDNumber,
		Notes:       v.Notes,
		AllowedAt:   formatTime(v.AllowedAt),
	}
}

func paymentToResponse(p domain.Payment) PaymentResponse {
	return PaymentResponse{
		ID:       p.ID,
		UserID:   p.UserID,
		UnitID:   p.UnitID,
		Amount:   p.Amount,
		Method:   p.Method,
		PaidAt:   formatTime(p.PaidAt),
		Receipt:  p.Receipt,
		Archived: p.ReceiptKey != "",
	}
}

func objectToResponse(obj storage.ObjectInfo) StorageObjectResponse {
	resp := StorageObjectResponse{
		Key:  obj.Key,
		Size: obj.Size,
	}
	if obj.LastModified != nil && !obj.LastModified.IsZero() {
		v := formatTime(*obj.LastModified)
		resp.LastModified = &v
	}
	return resp
}

func mapSlice[T, R any](items []T, fn func(T) R) []R {
	out := make([]R, len(items))
	for i := range items {
		out[i] = fn(items[i])
	}
	return out
}
