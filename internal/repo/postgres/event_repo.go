package postgres

import (
	"context"
	"time"

	"github.com/doorlist/doorlist/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EventRepo interface {
	Create(ctx context.Context, req *domain.CreateEventRequest, createdBy int64) (*domain.Event, error)
	GetByID(ctx context.Context, id int64) (*domain.Event, error)
	List(ctx context.Context) ([]domain.Event, error)
}

type eventRepo struct {
	pool *pgxpool.Pool
}

func NewEventRepo(pool *pgxpool.Pool) EventRepo {
	return &eventRepo{pool: pool}
}

const eventCols = `id, name, description, start_date, end_date, registration_fields, created_by, created_at, updated_at`

func (r *eventRepo) Create(ctx context.Context, req *domain.CreateEventRequest, createdBy int64) (*domain.Event, error) {
	const q = `
		INSERT INTO events (name, description, start_date, end_date, registration_fields, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + eventCols

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var e domain.Event
	err := r.pool.QueryRow(ctx, q,
		req.Name, req.Description, req.StartDate, req.EndDate, req.RegistrationFields, createdBy,
	).Scan(
		&e.ID, &e.Name, &e.Description, &e.StartDate, &e.EndDate, &e.RegistrationFields,
		&e.CreatedBy, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *eventRepo) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	const q = `SELECT ` + eventCols + ` FROM events WHERE id = $1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var e domain.Event
	err := r.pool.QueryRow(ctx, q, id).Scan(
		&e.ID, &e.Name, &e.Description, &e.StartDate, &e.EndDate, &e.RegistrationFields,
		&e.CreatedBy, &e.CreatedAt, &e.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	return &e, err
}

func (r *eventRepo) List(ctx context.Context) ([]domain.Event, error) {
	const q = `SELECT ` + eventCols + ` FROM events ORDER BY created_at DESC`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		var e domain.Event
		if err := rows.Scan(
			&e.ID, &e.Name, &e.Description, &e.StartDate, &e.EndDate, &e.RegistrationFields,
			&e.CreatedBy, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
