package queue_test

import (
	"context"
	"testing"
	"time"

	"campus-event-portal/internal/model"
	"campus-event-portal/internal/queue"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMessage(userID string) *model.RegistrationMessage {
	return &model.RegistrationMessage{
		RegistrationID: uuid.New(),
		EventID:        uuid.New(),
		UserID:         userID,
		RegisteredAt:   time.Now().UTC().Truncate(time.Millisecond),
	}
}

func receive(t *testing.T, ch <-chan queue.Delivery) queue.Delivery {
	t.Helper()
	select {
	case d, ok := <-ch:
		require.True(t, ok, "channel closed")
		return d
	case <-time.After(3 * time.Second):
		t.Fatal("timeout waiting for delivery")
	}
	return queue.Delivery{}
}

func TestMemoryRegistrationQueue_PublishSubscribe(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := queue.NewMemoryRegistrationQueue(4)
	msg := newMessage("u-1")
	require.NoError(t, q.PublishRegistration(ctx, msg))

	ch, err := q.SubscribeRegistrations(ctx)
	require.NoError(t, err)

	d := receive(t, ch)
	assert.Equal(t, msg, d.Data)
	d.Ack()
}

func TestMemoryRegistrationQueue_NackRequeue(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := queue.NewMemoryRegistrationQueue(4)
	msg := newMessage("u-1")
	require.NoError(t, q.PublishRegistration(ctx, msg))

	ch, err := q.SubscribeRegistrations(ctx)
	require.NoError(t, err)

	first := receive(t, ch)
	first.Nack(true)

	second := receive(t, ch)
	assert.Equal(t, msg.RegistrationID, second.Data.RegistrationID)
}

func TestMemoryRegistrationQueue_PublishBlocksUntilContextDone(t *testing.T) {
	q := queue.NewMemoryRegistrationQueue(1)
	require.NoError(t, q.PublishRegistration(context.Background(), newMessage("u-1")))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := q.PublishRegistration(ctx, newMessage("u-2"))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestMemoryRegistrationQueue_ClosesOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	q := queue.NewMemoryRegistrationQueue(1)

	ch, err := q.SubscribeRegistrations(ctx)
	require.NoError(t, err)
	cancel()

	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("subscription not closed after cancel")
	}
}
