package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"village/internal/domain"
	"village/internal/repository"
)

type CreateUnitInput struct {
	Code    string
	OwnerID *int64
	AreaM2  float64
}

// UnitService manages units and amenities, the condominium's physical inventory.
type UnitService interface {
	CreateUnit(ctx context.Context, in CreateUnitInput) (*domain.Unit, error)
	ListUnits(ctx context.Context) ([]domain.Unit, error)
	GetUnit(ctx context.Context, id int64) (*domain.Unit, error)
	UpdateUnit(ctx context.Context, id int64, patch domain.UnitPatch) (*domain.Unit, error)
	DeleteUnit(ctx context.Context, id int64, detach bool) error

	CreateAmenity(ctx context.Context, name string) (*domain.Amenity, error)
	ListAmenities(ctx context.Context) ([]domain.Amenity, error)
	GetAmenity(ctx context.Context, id int64) (*domain.Amenity, error)
	DeleteAmenity(ctx context.Context, id int64) error
}

type unitService struct {
	units     repository.UnitRepository
	amenities repository.AmenityRepository
	logger    *logrus.Logger
}

func NewUnitService(units repository.UnitRepository, amenities repository.AmenityRepository, logger *logrus.Logger) UnitService {
	if logger == nil {
		logger = logrus.New()
	}
	return &unitService{units: units, amenities: amenities, logger: logger}
}

func (s *unitService) CreateUnit(ctx context.Context, in CreateUnitInput) (*domain.Unit, error) {
	code, err := requireText("code", in.Code)
	if err != nil {
		return nil, err
	}
	if in.AreaM2 < 0 {
		return nil, fmt.Errorf("%w: area_m2 must not be negative", domain.ErrValidation)
	}
	unit := &domain.Unit{Code: code, OwnerID: in.OwnerID, AreaM2: in.AreaM2}
	if _, err := s.units.Create(ctx, unit); err != nil {
		return nil, err
	}
	return unit, nil
}

func (s *unitService) ListUnits(ctx context.Context) ([]domain.Unit, error) {
	return s.units.List(ctx)
}

func (s *unitService) GetUnit(ctx context.Context, id int64) (*domain.Unit, error) {
	return s.units.Get(ctx, id)
}

func (s *unitService) UpdateUnit(ctx context.Context, id int64, patch domain.UnitPatch) (*domain.Unit, error) {
	if patch.Code.Set {
		code, err := requireText("code", patch.Code.Value)
		if err != nil {
			return nil, err
		}
		patch.Code = domain.Some(code)
	}
	if patch.AreaM2.Set && (patch.AreaM2.Null || patch.AreaM2.Value < 0) {
		return nil, fmt.Errorf("%w: area_m2 must be a non-negative number", domain.ErrValidation)
	}
	return s.units.Update(ctx, id, patch)
}

// DeleteUnit removes a unit. Without detach, tickets or payments that reference it
// block the delete; with detach they are unlinked in the same transaction.
func (s *unitService) DeleteUnit(ctx context.Context, id int64, detach bool) error {
	if err := s.units.Delete(ctx, id, detach); err != nil {
		return err
	}
	s.logger.WithFields(logrus.Fields{"unit_id": id, "detach": detach}).Info("unit deleted")
	return nil
}

func (s *unitService) CreateAmenity(ctx context.Context, name string) (*domain.Amenity, error) {
	name, err := requireText("name", name)
	if err != nil {
		return nil, err
	}
	amenity := &domain.Amenity{Name: name}
	if _, err := s.amenities.Create(ctx, amenity); err != nil {
		return nil, err
	}
	return amenity, nil
}

func (s *unitService) ListAmenities(ctx context.Context) ([]domain.Amenity, error) {
	return s.amenities.List(ctx)
}

func (s *unitService) GetAmenity(ctx context.Context, id int64) (*domain.Amenity, error) {
	return s.amenities.Get(ctx, id)
}

func (s *unitService) DeleteAmenity(ctx context.Context, id int64) error {
	return s.amenities.Delete(ctx, id)
}
