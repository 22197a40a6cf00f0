package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"village/internal/domain"
	"village/internal/repository"
)

type CreateTicketInput struct {
	UserID      *int64
	UnitID      *int64
	Title       string
	Description string
}

type UpdateTicketInput struct {
	Title       domain.Optional[string]
	Description domain.Optional[string]
	UnitID      domain.Optional[int64]
	Status      domain.Optional[string]
}

type TicketService interface {
	Create(ctx context.Context, caller *domain.User, in CreateTicketInput) (*domain.MaintenanceTicket, error)
	List(ctx context.Context) ([]domain.MaintenanceTicket, error)
	Get(ctx context.Context, id int64) (*domain.MaintenanceTicket, error)
	Update(ctx context.Context, id int64, in UpdateTicketInput) (*domain.MaintenanceTicket, error)
	Delete(ctx context.Context, id int64) error
}

type ticketService struct {
	tickets repository.TicketRepository
	logger  *logrus.Logger
}

func NewTicketService(tickets repository.TicketRepository, logger *logrus.Logger) TicketService {
	if logger == nil {
		logger = logrus.New()
	}
	return &ticketService{tickets: tickets, logger: logger}
}

func (s *ticketService) Create(ctx context.Context, caller *domain.User, in CreateTicketInput) (*domain.MaintenanceTicket, error) {
	userID, err := resolveOwner(caller, in.UserID)
	if err != nil {
		return nil, err
	}
	title, err := requireText("title", in.Title)
	if err != nil {
		return nil, err
	}
	description, err := requireText("description", in.Description)
	if err != nil {
		return nil, err
	}
	ticket := &domain.MaintenanceTicket{
		UserID:      userID,
		UnitID:      in.UnitID,
		Title:       title,
		Description: description,
		Status:      domain.TicketOpen,
	}
	if _, err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}
	s.logger.WithFields(logrus.Fields{"ticket_id": ticket.ID, "user_id": userID}).Info("ticket opened")
	return ticket, nil
}

func (s *ticketService) List(ctx context.Context) ([]domain.MaintenanceTicket, error) {
	return s.tickets.List(ctx)
}

func (s *ticketService) Get(ctx context.Context, id int64) (*domain.MaintenanceTicket, error) {
	return s.tickets.Get(ctx, id)
}

func (s *ticketService) Update(ctx context.Context, id int64, in UpdateTicketInput) (*domain.MaintenanceTicket, error) {
	patch := domain.TicketPatch{UnitID: in.UnitID}
	if in.Title.Set {
		title, err := requireText("title", in.Title.Value)
		if err != nil {
			return nil, err
		}
		patch.Title = domain.Some(title)
	}
	if in.Description.Set {
		description, err := requireText("description", in.Description.Value)
		if err != nil {
			return nil, err
		}
		patch.Description = domain.Some(description)
	}
	if in.Status.Set {
		if in.Status.Null {
			return nil, fmt.Errorf("%w: status cannot be null", domain.ErrValidation)
		}
		st, err := domain.ParseTicketStatus(in.Status.Value)
		if err != nil {
			return nil, err
		}
		patch.Status = domain.Some(st)
	}
	ticket, err := s.tickets.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	if patch.Status.Set {
		s.logger.WithFields(logrus.Fields{"ticket_id": id, "status": ticket.Status}).Info("ticket status changed")
	}
	return ticket, nil
}

func (s *ticketService) Delete(ctx context.Context, id int64) error {
	if err := s.tickets.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.WithField("ticket_id", id).Info("ticket deleted")
	return nil
}
