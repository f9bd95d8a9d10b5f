package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// registrations.event_id 不設外鍵：刪除活動時報名紀錄的去留由 orphan policy 決定
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS events (
		id           BIGSERIAL PRIMARY KEY,
		event_id     UUID NOT NULL UNIQUE,
		title        TEXT NOT NULL,
		description  TEXT NOT NULL DEFAULT '',
		date         TIMESTAMPTZ NOT NULL,
		registration TIMESTAMPTZ,
		time         TEXT,
		location     TEXT,
		image_ref    TEXT,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS registrations (
		id              BIGSERIAL PRIMARY KEY,
		registration_id UUID NOT NULL UNIQUE,
		event_id        UUID NOT NULL,
		user_id         TEXT NOT NULL,
		user_name       TEXT NOT NULL,
		user_email      TEXT NOT NULL DEFAULT '',
		registered_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CONSTRAINT registrations_event_user_key UNIQUE (event_id, user_id)
	)`,
	`CREATE INDEX IF NOT EXISTS registrations_user_id_idx ON registrations (user_id)`,
}

// EnsureSchema 建立 events / registrations 資料表 (可重複執行)
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for i, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i, err)
		}
	}
	return nil
}
