package service

import (
	"context"
	"fmt"

	"github.com/doorlist/doorlist/internal/domain"
	"github.com/doorlist/doorlist/internal/repo/postgres"
	"github.com/doorlist/doorlist/pkg/events"
	"github.com/doorlist/doorlist/pkg/logger"
)

type GuestService interface {
	Register(ctx context.Context, eventID int64, req *domain.RegisterGuestRequest) (*domain.Guest, error)
	ListByEvent(ctx context.Context, eventID int64) ([]domain.Guest, error)
	Update(ctx context.Context, id int64, patch domain.GuestPatch) (*domain.Guest, error)
	Remove(ctx context.Context, id int64) (bool, error)
}

type guestService struct {
	guests postgres.GuestRepo
	events postgres.EventRepo
	bus    events.Publisher
}

func NewGuestService(guests postgres.GuestRepo, eventRepo postgres.EventRepo, bus events.Publisher) GuestService {
	return &guestService{guests: guests, events: eventRepo, bus: bus}
}

// Register validates the submission against the event's declared fields and
// stores the guest. The event lookup is best-effort referential checking:
// registration against an id that never existed is rejected, but there is no
// transactional guarantee against a concurrent event deletion.
func (s *guestService) Register(ctx context.Context, eventID int64, req *domain.RegisterGuestRequest) (*domain.Guest, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up event: %w", err)
	}
	if event == nil {
		return nil, nil
	}

	req.Normalize()
	if err := req.Validate(event.RegistrationFields); err != nil {
		return nil, err
	}

	guest, err := s.guests.Create(ctx, eventID, req)
	if err != nil {
		return nil, fmt.Errorf("failed to register guest: %w", err)
	}

	if s.bus != nil {
		if err := s.bus.Publish(ctx, events.GuestRegistered, events.GuestRegisteredEvent{
			GuestID:   guest.ID,
			EventID:   guest.EventID,
			Email:     guest.Email,
			CreatedAt: guest.CreatedAt,
		}); err != nil {
			logger.WarnContext(ctx, "failed to publish guest.registered", "error", err, "guest_id", guest.ID)
		}
	}

	return guest, nil
}

func (s *guestService) ListByEvent(ctx context.Context, eventID int64) ([]domain.Guest, error) {
	guests, err := s.guests.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list guests: %w", err)
	}
	return guests, nil
}

func (s *guestService) Update(ctx context.Context, id int64, patch domain.GuestPatch) (*domain.Guest, error) {
	patch.Normalize()
	guest, err := s.guests.Update(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to update guest: %w", err)
	}
	return guest, nil
}

func (s *guestService) Remove(ctx context.Context, id int64) (bool, error) {
	guest, err := s.guests.GetByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to look up guest: %w", err)
	}
	if guest == nil {
		return false, nil
	}

	ok, err := s.guests.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete guest: %w", err)
	}

	if ok && s.bus != nil {
		if err := s.bus.Publish(ctx, events.GuestRemoved, events.GuestRemovedEvent{
			GuestID: guest.ID,
			EventID: guest.EventID,
		}); err != nil {
			logger.WarnContext(ctx, "failed to publish guest.removed", "error", err, "guest_id", guest.ID)
		}
	}

	return ok, nil
}
