package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/doorlist/doorlist/pkg/logger"
	"github.com/nats-io/nats.go"
)

// Publisher is the side-channel for domain events. Publishing is always
// best-effort: callers log failures and carry on.
type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
	Close() error
}

type Subscriber interface {
	Subscribe(subject string, handler func(msg *Message)) error
	QueueSubscribe(subject, queue string, handler func(msg *Message)) error
	Close() error
}

type EventBus interface {
	Publisher
	Subscriber
}

type Message struct {
	Subject   string
	Data      []byte
	Timestamp time.Time
}

type NATSEventBus struct {
	conn *nats.Conn
}

func NewNATSEventBus(url string) (*NATSEventBus, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &NATSEventBus{conn: conn}, nil
}

func (n *NATSEventBus) Publish(ctx context.Context, subject string, data interface{}) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	logger.DebugContext(ctx, "publishing event", "subject", subject, "bytes", len(payload))

	return n.conn.Publish(subject, payload)
}

func (n *NATSEventBus) Subscribe(subject string, handler func(msg *Message)) error {
	_, err := n.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(&Message{
			Subject:   msg.Subject,
			Data:      msg.Data,
			Timestamp: time.Now(),
		})
	})
	return err
}

func (n *NATSEventBus) QueueSubscribe(subject, queue string, handler func(msg *Message)) error {
	_, err := n.conn.QueueSubscribe(subject, queue, func(msg *nats.Msg) {
		handler(&Message{
			Subject:   msg.Subject,
			Data:      msg.Data,
			Timestamp: time.Now(),
		})
	})
	return err
}

func (n *NATSEventBus) Close() error {
	n.conn.Close()
	return nil
}

// Subjects
const (
	EventCreated    = "event.created"
	GuestRegistered = "guest.registered"
	GuestCheckedIn  = "guest.checked_in"
	GuestRemoved    = "guest.removed"
)

type EventCreatedEvent struct {
	EventID   int64     `json:"event_id"`
	Name      string    `json:"name"`
	CreatedBy int64     `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

type GuestRegisteredEvent struct {
	GuestID   int64     `json:"guest_id"`
	EventID   int64     `json:"event_id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type GuestCheckedInEvent struct {
	GuestID     int64     `json:"guest_id"`
	EventID     int64     `json:"event_id"`
	CheckInTime time.Time `json:"checkin_time"`
}

type GuestRemovedEvent struct {
	GuestID int64 `json:"guest_id"`
	EventID int64 `json:"event_id"`
}
