package domain

import (
	"fmt"
	"strings"
	"time"
)

type TicketStatus string

const (
	TicketOpen       TicketStatus = "open"
	TicketInProgress TicketStatus = "in_progress"
	TicketClosed     TicketStatus = "closed"
)

func ParseTicketStatus(s string) (TicketStatus, error) {
	switch st := TicketStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case TicketOpen, TicketInProgress, TicketClosed:
		return st, nil
	}
	return "", fmt.Errorf("%w: unknown ticket status %q", ErrValidation, s)
}

// MaintenanceTicket is a repair request filed by a resident.
type MaintenanceTicket struct {
	ID          int64
	UserID      int64
	UnitID      *int64
	Title       string
	Description string
	Status      TicketStatus
	CreatedAt   time.Time
}

type TicketPatch struct {
	Title       Optional[string]
	Description Optional[string]
	UnitID      Optional[int64]
	Status      Optional[TicketStatus]
}

func (p TicketPatch) Empty() bool {
	return !p.Title.Set && !p.Description.Set && !p.UnitID.Set && !p.Status.Set
}
