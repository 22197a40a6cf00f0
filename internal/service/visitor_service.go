package service

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"village/internal/domain"
	"village/internal/repository"
)

type CreateVisitorInput struct {
	ResidentID  *int64
	VisitorName string
	IDNumber    *string
	Notes       string
}

type VisitorService interface {
	Create(ctx context.Context, caller *domain.User, in CreateVisitorInput) (*domain.VisitorLog, error)
	List(ctx context.Context) ([]domain.VisitorLog, error)
	Get(ctx context.Context, id int64) (*domain.VisitorLog, error)
	Delete(ctx context.Context, id int64) error
}

type visitorService struct {
	visitors repository.VisitorRepository
	logger   *logrus.Logger
}

func NewVisitorService(visitors repository.VisitorRepository, logger *logrus.Logger) VisitorService {
	if logger == nil {
		logger = logrus.New()
	}
	return &visitorService{visitors: visitors, logger: logger}
}

func (s *visitorService) Create(ctx context.Context, caller *domain.User, in CreateVisitorInput) (*domain.VisitorLog, error) {
	residentID, err := resolveOwner(caller, in.ResidentID)
	if err != nil {
		return nil, err
	}
	name, err := requireText("visitor_name", in.VisitorName)
	if err != nil {
		return nil, err
	}
	var idNumber *string
	if in.IDNumber != nil {
		if trimmed := strings.TrimSpace(*in.IDNumber); trimmed != "" {
			idNumber = &trimmed
		}
	}
	visitor := &domain.VisitorLog{
		ResidentID:  residentID,
		VisitorName: name,
		IDNumber:    idNumber,
		Notes:       strings.TrimSpace(in.Notes),
	}
	if _, err := s.visitors.Create(ctx, visitor); err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{"visitor_id": visitor.ID, "resident_id": residentID}).Info("visitor allowed")
	return visitor, nil
}

func (s *visitorService) List(ctx context.Context) ([]domain.VisitorLog, error) {
	return s.visitors.List(ctx)
}

func (s *visitorService) Get(ctx context.Context, id int64) (*domain.VisitorLog, error) {
	return s.visitors.Get(ctx, id)
}

func (s *visitorService) Delete(ctx context.Context, id int64) error {
	if err := s.visitors.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.WithField("visitor_id", id).Info("visitor log deleted")
	return nil
}
