package service

import (
	"context"
	"fmt"

	"github.com/doorlist/doorlist/internal/domain"
	"github.com/doorlist/doorlist/internal/repo/postgres"
	"github.com/doorlist/doorlist/pkg/events"
	"github.com/doorlist/doorlist/pkg/logger"
)

// TopicCheckInUpdate is the realtime topic staff terminals subscribe to.
const TopicCheckInUpdate = "checkin-update"

// Broadcaster pushes a payload to every connected staff session.
type Broadcaster interface {
	Broadcast(event string, data any)
}

type CheckInService interface {
	CheckIn(ctx context.Context, guestID int64) (*domain.Guest, error)
}

// checkInService commits the guest transition first and notifies second.
// Notification failures are observable only in logs, never in the result.
type checkInService struct {
	guests postgres.GuestRepo
	hub    Broadcaster
	bus    events.Publisher
}

func NewCheckInService(guests postgres.GuestRepo, hub Broadcaster, bus events.Publisher) CheckInService {
	return &checkInService{guests: guests, hub: hub, bus: bus}
}

// CheckIn marks the guest present and fans the updated record out to all
// connected sessions. Re-check-in is idempotent: the stored checkInTime is
// the first transition's timestamp, but the snapshot is re-broadcast every
// time so terminals converge.
func (s *checkInService) CheckIn(ctx context.Context, guestID int64) (*domain.Guest, error) {
	guest, err := s.guests.CheckIn(ctx, guestID)
	if err != nil {
		return nil, fmt.Errorf("failed to check in guest: %w", err)
	}
	if guest == nil {
		return nil, nil
	}

	if s.hub != nil {
		s.hub.Broadcast(TopicCheckInUpdate, guest)
	}

	if s.bus != nil {
		if err := s.bus.Publish(ctx, events.GuestCheckedIn, events.GuestCheckedInEvent{
			GuestID:     guest.ID,
			EventID:     guest.EventID,
			CheckInTime: *guest.CheckInTime,
		}); err != nil {
			logger.WarnContext(ctx, "failed to publish guest.checked_in", "error", err, "guest_id", guest.ID)
		}
	}

	return guest, nil
}
