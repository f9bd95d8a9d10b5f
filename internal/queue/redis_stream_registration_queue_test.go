package queue_test

import (
	"context"
	"testing"
	"time"

	"campus-event-portal/internal/queue"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client
}

func testStreamConfig() *queue.RedisStreamConfig {
	return &queue.RedisStreamConfig{
		ClaimMinIdleTime:   time.Hour,
		MaxRetryCount:      3,
		ReadGroupBlockTime: 100 * time.Millisecond,
	}
}

func TestNewRedisStreamRegistrationQueue(t *testing.T) {
	ctx := context.Background()
	client := setupRedis(t)

	t.Run("success", func(t *testing.T) {
		q, err := queue.NewRedisStreamRegistrationQueue(ctx, client, "test-consumer", nil)
		require.NoError(t, err)
		require.NotNil(t, q)
	})

	t.Run("existing group is reused", func(t *testing.T) {
		q, err := queue.NewRedisStreamRegistrationQueue(ctx, client, "", testStreamConfig())
		require.NoError(t, err)
		require.NotNil(t, q)
	})
}

func TestRedisStreamRegistrationQueue_PublishRegistration(t *testing.T) {
	ctx := context.Background()
	client := setupRedis(t)

	q, err := queue.NewRedisStreamRegistrationQueue(ctx, client, "pub-test", testStreamConfig())
	require.NoError(t, err)

	require.NoError(t, q.PublishRegistration(ctx, newMessage("u-1")))

	n, err := client.XLen(ctx, queue.StreamKey).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestRedisStreamRegistrationQueue_Subscribe_deliversPublishedMessage(t *testing.T) {
	ctx := context.Background()
	client := setupRedis(t)

	q, err := queue.NewRedisStreamRegistrationQueue(ctx, client, "deliver-test", testStreamConfig())
	require.NoError(t, err)

	msg := newMessage("u-deliver")
	require.NoError(t, q.PublishRegistration(ctx, msg))

	subCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	ch, err := q.SubscribeRegistrations(subCtx)
	require.NoError(t, err)

	d := receive(t, ch)
	require.NotNil(t, d.Data)
	assert.Equal(t, msg.RegistrationID, d.Data.RegistrationID)
	assert.Equal(t, msg.EventID, d.Data.EventID)
	assert.Equal(t, msg.UserID, d.Data.UserID)
	assert.True(t, msg.RegisteredAt.Equal(d.Data.RegisteredAt))

	d.Ack()

	pending, err := client.XPending(ctx, queue.StreamKey, queue.ConsumerGroupName).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(0), pending.Count)
}

func TestRedisStreamRegistrationQueue_NackKeepsMessagePending(t *testing.T) {
	ctx := context.Background()
	client := setupRedis(t)

	q, err := queue.NewRedisStreamRegistrationQueue(ctx, client, "nack-test", testStreamConfig())
	require.NoError(t, err)
	require.NoError(t, q.PublishRegistration(ctx, newMessage("u-nack")))

	subCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	ch, err := q.SubscribeRegistrations(subCtx)
	require.NoError(t, err)

	d := receive(t, ch)
	d.Nack(true)

	pending, err := client.XPending(ctx, queue.StreamKey, queue.ConsumerGroupName).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), pending.Count)

	d.Nack(false)
	pending, err = client.XPending(ctx, queue.StreamKey, queue.ConsumerGroupName).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(0), pending.Count)
}

func TestRedisStreamRegistrationQueue_SkipsMalformedMessage(t *testing.T) {
	ctx := context.Background()
	client := setupRedis(t)

	q, err := queue.NewRedisStreamRegistrationQueue(ctx, client, "malformed-test", testStreamConfig())
	require.NoError(t, err)

	require.NoError(t, client.XAdd(ctx, &redis.XAddArgs{
		Stream: queue.StreamKey,
		Values: map[string]interface{}{"registration": "not-json"},
	}).Err())
	valid := newMessage("u-valid")
	require.NoError(t, q.PublishRegistration(ctx, valid))

	subCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	ch, err := q.SubscribeRegistrations(subCtx)
	require.NoError(t, err)

	d := receive(t, ch)
	assert.Equal(t, valid.RegistrationID, d.Data.RegistrationID)
	d.Ack()
}
