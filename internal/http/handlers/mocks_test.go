package handlers

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/doorlist/doorlist/internal/domain"
)

type stubUserRepo struct {
	users map[string]*domain.User
}

func (m *stubUserRepo) Create(ctx context.Context, name, email, passwordHash, role string) (*domain.User, error) {
	u := &domain.User{ID: int64(len(m.users) + 1), Name: name, Email: email, PasswordHash: passwordHash, Role: role}
	m.users[email] = u
	return u, nil
}

func (m *stubUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return m.users[email], nil
}

func (m *stubUserRepo) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

type stubEventRepo struct {
	mu     sync.Mutex
	events map[int64]*domain.Event
	nextID int64
}

func newStubEventRepo() *stubEventRepo {
	return &stubEventRepo{events: make(map[int64]*domain.Event)}
}

func (m *stubEventRepo) Create(ctx context.Context, req *domain.CreateEventRequest, createdBy int64) (*domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
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

func (m *stubEventRepo) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.events[id], nil
}

func (m *stubEventRepo) List(ctx context.Context) ([]domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Event
	for id := int64(1); id <= m.nextID; id++ {
		if e, ok := m.events[id]; ok {
			out = append(out, *e)
		}
	}
	return out, nil
}

type stubGuestRepo struct {
	mu     sync.Mutex
	guests map[int64]*domain.Guest
	nextID int64
}

func newStubGuestRepo() *stubGuestRepo {
	return &stubGuestRepo{guests: make(map[int64]*domain.Guest)}
}

func (m *stubGuestRepo) Create(ctx context.Context, eventID int64, req *domain.RegisterGuestRequest) (*domain.Guest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	now := time.Now()
	g := &domain.Guest{
		ID:           m.nextID,
		EventID:      eventID,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Phone:        req.Phone,
		CustomFields: req.CustomFields,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	m.guests[g.ID] = g
	copied := *g
	return &copied, nil
}

func (m *stubGuestRepo) GetByID(ctx context.Context, id int64) (*domain.Guest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.guests[id]
	if !ok {
		return nil, nil
	}
	copied := *g
	return &copied, nil
}

func (m *stubGuestRepo) ListByEvent(ctx context.Context, eventID int64) ([]domain.Guest, error) {
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

func (m *stubGuestRepo) Update(ctx context.Context, id int64, patch domain.GuestPatch) (*domain.Guest, error) {
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

func (m *stubGuestRepo) Delete(ctx context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.guests[id]; !ok {
		return false, nil
	}
	delete(m.guests, id)
	return true, nil
}

func (m *stubGuestRepo) CheckIn(ctx context.Context, id int64) (*domain.Guest, error) {
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

type sentEmail struct {
	to      []string
	subject string
	body    string
}

// stubMailer records sends and can be told to fail.
type stubMailer struct {
	mu   sync.Mutex
	sent []sentEmail
	fail bool
}

func (m *stubMailer) SendMessage(ctx context.Context, to []string, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("smtp unreachable")
	}
	m.sent = append(m.sent, sentEmail{to: to, subject: subject, body: body})
	return nil
}
