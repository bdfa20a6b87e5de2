package service

import (
	"context"
	"sync"
	"time"

	"github.com/doorlist/doorlist/internal/domain"
)

// mockUserRepo is an in-memory stand-in keyed by email.
type mockUserRepo struct {
	users map[string]*domain.User
}

func (m *mockUserRepo) Create(ctx context.Context, name, email, passwordHash, role string) (*domain.User, error) {
	u := &domain.User{ID: int64(len(m.users) + 1), Name: name, Email: email, PasswordHash: passwordHash, Role: role}
	m.users[email] = u
	return u, nil
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return m.users[email], nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

type mockEventRepo struct {
	events map[int64]*domain.Event
	nextID int64
}

func newMockEventRepo() *mockEventRepo {
	return &mockEventRepo{events: make(map[int64]*domain.Event)}
}

func (m *mockEventRepo) Create(ctx context.Context, req *domain.CreateEventRequest, createdBy int64) (*domain.Event, error) {
	m.nextID++
	now := time.Now()
	e := &domain.Event{
		ID:                 m.nextID,
		Name:               req.Name,
		Description:        req.Description,
		StartDate:          req.StartDate,
		EndDate:            req.EndDate,
		RegistrationFields: req.RegistrationFields,
		CreatedBy:          createdBy,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	m.events[e.ID] = e
	return e, nil
}

func (m *mockEventRepo) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	return m.events[id], nil
}

func (m *mockEventRepo) List(ctx context.Context) ([]domain.Event, error) {
	var out []domain.Event
	for _, e := range m.events {
		out = append(out, *e)
	}
	return out, nil
}

// mockGuestRepo is safe for concurrent use; the check-in tests hit it from
// multiple goroutines.
type mockGuestRepo struct {
	mu     sync.Mutex
	guests map[int64]*domain.Guest
	nextID int64
}

func newMockGuestRepo() *mockGuestRepo {
	return &mockGuestRepo{guests: make(map[int64]*domain.Guest)}
}

func (m *mockGuestRepo) add(g domain.Guest) *domain.Guest {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	g.ID = m.nextID
	m.guests[g.ID] = &g
	return &g
}

func (m *mockGuestRepo) Create(ctx context.Context, eventID int64, req *domain.RegisterGuestRequest) (*domain.Guest, error) {
	now := time.Now()
	return m.add(domain.Guest{
		EventID:      eventID,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Phone:        req.Phone,
		CustomFields: req.CustomFields,
		CreatedAt:    now,
		UpdatedAt:    now,
	}), nil
}

func (m *mockGuestRepo) GetByID(ctx context.Context, id int64) (*domain.Guest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.guests[id]
	if !ok {
		return nil, nil
	}
	copied := *g
	return &copied, nil
}

func (m *mockGuestRepo) ListByEvent(ctx context.Context, eventID int64) ([]domain.Guest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Guest
	for id := int64(1); id <= m.nextID; id++ {
		if g, ok := m.guests[id]; ok && g.EventID == eventID {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (m *mockGuestRepo) Update(ctx context.Context, id int64, patch domain.GuestPatch) (*domain.Guest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.guests[id]
	if !ok {
		return nil, nil
	}
	if patch.FirstName != nil {
		g.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		g.LastName = *patch.LastName
	}
	if patch.Email != nil {
		g.Email = *patch.Email
	}
	if patch.Phone != nil {
		g.Phone = *patch.Phone
	}
	if patch.CustomFields != nil {
		g.CustomFields = patch.CustomFields
	}
	if patch.CheckInStatus != nil {
		g.CheckInStatus = *patch.CheckInStatus
	}
	g.UpdatedAt = time.Now()
	copied := *g
	return &copied, nil
}

func (m *mockGuestRepo) Delete(ctx context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.guests[id]; !ok {
		return false, nil
	}
	delete(m.guests, id)
	return true, nil
}

func (m *mockGuestRepo) CheckIn(ctx context.Context, id int64) (*domain.Guest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.guests[id]
	if !ok {
		return nil, nil
	}
	g.CheckInStatus = true
	if g.CheckInTime == nil {
		now := time.Now()
		g.CheckInTime = &now
	}
	g.UpdatedAt = time.Now()
	copied := *g
	return &copied, nil
}

type broadcastFrame struct {
	event string
	data  any
}

// fakeBroadcaster records every frame it is handed.
type fakeBroadcaster struct {
	mu     sync.Mutex
	frames []broadcastFrame
}

func (f *fakeBroadcaster) Broadcast(event string, data any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames = append(f.frames, broadcastFrame{event: event, data: data})
}

func (f *fakeBroadcaster) all() []broadcastFrame {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]broadcastFrame{}, f.frames...)
}

// fakePublisher records subjects, optionally failing every publish.
type fakePublisher struct {
	mu       sync.Mutex
	subjects []string
	err      error
}

func (f *fakePublisher) Publish(ctx context.Context, subject string, payload any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.subjects = append(f.subjects, subject)
	return nil
}

func (f *fakePublisher) Close() error { return nil }

func (f *fakePublisher) published() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.subjects...)
}
