package domain

import "time"

// Unit is an apartment or house inside the condominium.
type Unit struct {
	ID        int64
	Code      string
	OwnerID   *int64
	AreaM2    float64
	CreatedAt time.Time
	UpdatedAt time.Time
}

type UnitPatch struct {
	Code    Optional[string]
	OwnerID Optional[int64]
	AreaM2  Optional[float64]
}

func (p UnitPatch) Empty() bool {
	return !p.Code.Set && !p.OwnerID.Set && !p.AreaM2.Set
}

// Amenity is a shared facility that can be booked for time slots.
type Amenity struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}
