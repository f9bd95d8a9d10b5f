package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"campus-event-portal/internal/model"
	apperrors "campus-event-portal/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EventRepository interface {
	Create(ctx context.Context, event *model.Event) (*model.Event, error)
	List(ctx context.Context) ([]*model.Event, error)
	FindByEventID(ctx context.Context, eventID uuid.UUID) (*model.Event, error)
	Update(ctx context.Context, eventID uuid.UUID, params model.UpdateEventParams) (*model.Event, error)
	Delete(ctx context.Context, eventID uuid.UUID) error
}

type EventRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) EventRepository {
	return &EventRepositoryImpl{
		pool: pool,
	}
}

const eventColumns = `event_id, title, description, date, registration, time, location, image_ref, created_at, updated_at`

func scanEvent(row pgx.Row) (*model.Event, error) {
	var event model.Event
	err := row.Scan(
		&event.ID,
		&event.Title,
		&event.Description,
		&event.Date,
		&event.Registration,
		&event.Time,
		&event.Location,
		&event.ImageRef,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *EventRepositoryImpl) Create(ctx context.Context, event *model.Event) (*model.Event, error) {
	query := `
		INSERT INTO events (event_id, title, description, date, registration, time, location, image_ref)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + eventColumns

	created, err := scanEvent(r.pool.QueryRow(ctx, query,
		event.ID, event.Title, event.Description, event.Date,
		event.Registration, event.Time, event.Location, event.ImageRef,
	))
	if err != nil {
		return nil, apperrors.Unavailable("create event", err)
	}
	return created, nil
}

func (r *EventRepositoryImpl) List(ctx context.Context) ([]*model.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		ORDER BY date ASC, created_at ASC
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.Unavailable("list events", err)
	}
	defer rows.Close()

	events := make([]*model.Event, 0)
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, apperrors.Unavailable("scan event", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Unavailable("list events", err)
	}
	return events, nil
}

func (r *EventRepositoryImpl) FindByEventID(ctx context.Context, eventID uuid.UUID) (*model.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE event_id = $1
	`

	event, err := scanEvent(r.pool.QueryRow(ctx, query, eventID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, apperrors.Unavailable("find event", err)
	}

	return event, nil
}

func (r *EventRepositoryImpl) Update(ctx context.Context, eventID uuid.UUID, params model.UpdateEventParams) (*model.Event, error) {
	sets := []string{}
	args := []interface{}{}
	argPos := 1

	add := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argPos))
		args = append(args, value)
		argPos++
	}

	if params.Title != nil {
		add("title", *params.Title)
	}
	if params.Description != nil {
		add("description", *params.Description)
	}
	if params.Date != nil {
		add("date", *params.Date)
	}
	if params.Registration != nil {
		add("registration", *params.Registration)
	}
	if params.Time != nil {
		add("time", *params.Time)
	}
	if params.Location != nil {
		add("location", *params.Location)
	}
	if params.ImageRef != nil {
		add("image_ref", *params.ImageRef)
	}

	if len(sets) == 0 {
		return nil, apperrors.ErrInvalidInput
	}

	// add updated_at
	add("updated_at", time.Now().UTC())

	// add event_id
	args = append(args, eventID)

	query := fmt.Sprintf(`
		UPDATE events
		SET %s
		WHERE event_id = $%d
		RETURNING %s
	`, strings.Join(sets, ", "), argPos, eventColumns)

	event, err := scanEvent(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, apperrors.Unavailable("update event", err)
	}

	return event, nil
}

func (r *EventRepositoryImpl) Delete(ctx context.Context, eventID uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM events WHERE event_id = $1`, eventID)
	if err != nil {
		return apperrors.Unavailable("delete event", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrEventNotFound
	}

	return nil
}
