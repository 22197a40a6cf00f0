package domain

import "time"

// VisitorLog records a visitor allowed in by a resident.
type VisitorLog struct {
	ID          int64
	ResidentID  int64
	VisitorName string
	IDNumber    *string
	Notes       string
	AllowedAt   time.Time
}
