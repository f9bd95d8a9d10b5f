package repository

import (
	"context"
	"errors"

	"campus-event-portal/internal/model"
	apperrors "campus-event-portal/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// uniqueViolation Postgres 唯一約束違反
const uniqueViolation = "23505"

type RegistrationRepository interface {
	// Create 寫入報名紀錄；(event_id, user_id) 重複時回傳 ErrAlreadyRegistered
	Create(ctx context.Context, registration *model.Registration) (*model.Registration, error)
	// FindByEventAndUser 查無資料時回傳 nil, nil；只供查詢使用，重複報名由唯一約束在 Create 擋下，不在寫入前先查
	FindByEventAndUser(ctx context.Context, eventID uuid.UUID, userID string) (*model.Registration, error)
	// ListByUserID includeOrphans 為 false 時排除已刪除活動的報名
	ListByUserID(ctx context.Context, userID string, includeOrphans bool) ([]*model.Registration, error)
	ListByEventID(ctx context.Context, eventID uuid.UUID) ([]*model.Registration, error)
	DeleteByEventID(ctx context.Context, eventID uuid.UUID) (int64, error)
}

type RegistrationRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewRegistrationRepository(pool *pgxpool.Pool) RegistrationRepository {
	return &RegistrationRepositoryImpl{
		pool: pool,
	}
}

const registrationColumns = `registration_id, event_id, user_id, user_name, user_email, registered_at`

func scanRegistration(row pgx.Row) (*model.Registration, error) {
	var registration model.Registration
	err := row.Scan(
		&registration.ID,
		&registration.EventID,
		&registration.UserID,
		&registration.UserName,
		&registration.UserEmail,
		&registration.RegisteredAt,
	)
	if err != nil {
		return nil, err
	}
	return &registration, nil
}

func (r *RegistrationRepositoryImpl) Create(ctx context.Context, registration *model.Registration) (*model.Registration, error) {
	// 重複報名交給 UNIQUE (event_id, user_id) 擋下，並發時只有一筆會成功
	query := `
		INSERT INTO registrations (registration_id, event_id, user_id, user_name, user_email, registered_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + registrationColumns

	created, err := scanRegistration(r.pool.QueryRow(ctx, query,
		registration.ID, registration.EventID, registration.UserID,
		registration.UserName, registration.UserEmail, registration.RegisteredAt,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, apperrors.ErrAlreadyRegistered
		}
		return nil, apperrors.Unavailable("create registration", err)
	}
	return created, nil
}

func (r *RegistrationRepositoryImpl) FindByEventAndUser(ctx context.Context, eventID uuid.UUID, userID string) (*model.Registration, error) {
	query := `
		SELECT ` + registrationColumns + `
		FROM registrations
		WHERE event_id = $1 AND user_id = $2
	`

	registration, err := scanRegistration(r.pool.QueryRow(ctx, query, eventID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, apperrors.Unavailable("find registration", err)
	}
	return registration, nil
}

func (r *RegistrationRepositoryImpl) ListByUserID(ctx context.Context, userID string, includeOrphans bool) ([]*model.Registration, error) {
	query := `
		SELECT ` + registrationColumns + `
		FROM registrations r
		WHERE r.user_id = $1
	`
	if !includeOrphans {
		query += ` AND EXISTS (SELECT 1 FROM events e WHERE e.event_id = r.event_id)`
	}
	query += ` ORDER BY r.registered_at ASC, r.id ASC`

	return r.list(ctx, "list registrations by user", query, userID)
}

func (r *RegistrationRepositoryImpl) ListByEventID(ctx context.Context, eventID uuid.UUID) ([]*model.Registration, error) {
	query := `
		SELECT ` + registrationColumns + `
		FROM registrations
		WHERE event_id = $1
		ORDER BY registered_at ASC, id ASC
	`
	return r.list(ctx, "list registrations by event", query, eventID)
}

func (r *RegistrationRepositoryImpl) list(ctx context.Context, op string, query string, args ...interface{}) ([]*model.Registration, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.Unavailable(op, err)
	}
	defer rows.Close()

	registrations := make([]*model.Registration, 0)
	for rows.Next() {
		registration, err := scanRegistration(rows)
		if err != nil {
			return nil, apperrors.Unavailable(op, err)
		}
		registrations = append(registrations, registration)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Unavailable(op, err)
	}
	return registrations, nil
}

func (r *RegistrationRepositoryImpl) DeleteByEventID(ctx context.Context, eventID uuid.UUID) (int64, error) {
	result, err := r.pool.Exec(ctx, `DELETE FROM registrations WHERE event_id = $1`, eventID)
	if err != nil {
		return 0, apperrors.Unavailable("delete registrations", err)
	}
	return result.RowsAffected(), nil
}
