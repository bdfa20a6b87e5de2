package service

import (
	"context"
	"fmt"

	"github.com/doorlist/doorlist/internal/domain"
	"github.com/doorlist/doorlist/internal/repo/postgres"
	"github.com/doorlist/doorlist/pkg/events"
	"github.com/doorlist/doorlist/pkg/logger"
)

type EventService interface {
	Create(ctx context.Context, req *domain.CreateEventRequest, createdBy int64) (*domain.Event, error)
	GetByID(ctx context.Context, id int64) (*domain.Event, error)
	List(ctx context.Context) ([]domain.Event, error)
}

type eventService struct {
	events postgres.EventRepo
	bus    events.Publisher
}

func NewEventService(repo postgres.EventRepo, bus events.Publisher) EventService {
	return &eventService{events: repo, bus: bus}
}

func (s *eventService) Create(ctx context.Context, req *domain.CreateEventRequest, createdBy int64) (*domain.Event, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	event, err := s.events.Create(ctx, req, createdBy)
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	if s.bus != nil {
		if err := s.bus.Publish(ctx, events.EventCreated, events.EventCreatedEvent{
			EventID:   event.ID,
			Name:      event.Name,
			CreatedBy: event.CreatedBy,
			CreatedAt: event.CreatedAt,
		}); err != nil {
			logger.WarnContext(ctx, "failed to publish event.created", "error", err, "event_id", event.ID)
		}
	}

	return event, nil
}

func (s *eventService) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return event, nil
}

func (s *eventService) List(ctx context.Context) ([]domain.Event, error) {
	list, err := s.events.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return list, nil
}
