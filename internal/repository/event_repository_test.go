package repository_test

import (
	"context"
	"testing"
	"time"

	"campus-event-portal/internal/model"
	apperrors "campus-event-portal/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventRepository_Create(t *testing.T) {
	ctx := context.Background()
	for _, b := range backends(t) {
		t.Run(b.name, func(t *testing.T) {
			b.truncate(t)

			opens := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
			location := "Lab 204"
			event := &model.Event{
				ID:           uuid.New(),
				Title:        "Concurrency in Go",
				Description:  "Channels and friends",
				Date:         time.Date(2026, 4, 10, 18, 0, 0, 0, time.UTC),
				Registration: &opens,
				Location:     &location,
			}

			created, err := b.events.Create(ctx, event)

			require.NoError(t, err)
			assert.Equal(t, event.ID, created.ID)
			assert.Equal(t, "Concurrency in Go", created.Title)
			require.NotNil(t, created.Registration)
			assert.True(t, opens.Equal(*created.Registration))
			assert.Nil(t, created.Time)
			assert.Equal(t, "Lab 204", created.DisplayLocation())
			assert.NotZero(t, created.CreatedAt)
		})
	}
}

func TestEventRepository_ListAndFind(t *testing.T) {
	ctx := context.Background()
	for _, b := range backends(t) {
		t.Run(b.name, func(t *testing.T) {
			b.truncate(t)

			events, err := b.events.List(ctx)
			require.NoError(t, err)
			assert.Empty(t, events)

			later := createTestEvent(t, b.events, "Later", time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))
			sooner := createTestEvent(t, b.events, "Sooner", time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC))

			events, err = b.events.List(ctx)
			require.NoError(t, err)
			require.Len(t, events, 2)
			assert.Equal(t, sooner.ID, events[0].ID)
			assert.Equal(t, later.ID, events[1].ID)

			found, err := b.events.FindByEventID(ctx, later.ID)
			require.NoError(t, err)
			assert.Equal(t, "Later", found.Title)

			_, err = b.events.FindByEventID(ctx, uuid.New())
			assert.ErrorIs(t, err, apperrors.ErrEventNotFound)
		})
	}
}

func TestEventRepository_Update(t *testing.T) {
	ctx := context.Background()
	for _, b := range backends(t) {
		t.Run(b.name, func(t *testing.T) {
			b.truncate(t)
			event := createTestEvent(t, b.events, "Original", time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC))

			title := "Renamed"
			timeStr := "19:00"
			updated, err := b.events.Update(ctx, event.ID, model.UpdateEventParams{Title: &title, Time: &timeStr})

			require.NoError(t, err)
			assert.Equal(t, "Renamed", updated.Title)
			assert.Equal(t, "19:00", updated.DisplayTime())
			assert.True(t, event.Date.Equal(updated.Date))

			_, err = b.events.Update(ctx, event.ID, model.UpdateEventParams{})
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

			_, err = b.events.Update(ctx, uuid.New(), model.UpdateEventParams{Title: &title})
			assert.ErrorIs(t, err, apperrors.ErrEventNotFound)
		})
	}
}

func TestEventRepository_Delete(t *testing.T) {
	ctx := context.Background()
	for _, b := range backends(t) {
		t.Run(b.name, func(t *testing.T) {
			b.truncate(t)
			event := createTestEvent(t, b.events, "Doomed", time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC))

			require.NoError(t, b.events.Delete(ctx, event.ID))

			_, err := b.events.FindByEventID(ctx, event.ID)
			assert.ErrorIs(t, err, apperrors.ErrEventNotFound)

			err = b.events.Delete(ctx, event.ID)
			assert.ErrorIs(t, err, apperrors.ErrEventNotFound)
		})
	}
}
