package cache

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type RegistrationStats interface {
	// Record 記錄一筆報名 (使用Lua腳本確保原子性)，同一使用者重複記錄不會重複計數
	Record(ctx context.Context, eventID uuid.UUID, userID string) (bool, error)
	// GetCount 沒有任何紀錄時回傳 0
	GetCount(ctx context.Context, eventID uuid.UUID) (int64, error)
	// Reset 清除活動的統計
	Reset(ctx context.Context, eventID uuid.UUID) error
}

type RedisRegistrationStats struct {
	client *redis.Client
}

func NewRedisRegistrationStats(client *redis.Client) RegistrationStats {
	return &RedisRegistrationStats{
		client: client,
	}
}

// 統計 key
func (s *RedisRegistrationStats) getStatsKey(eventID uuid.UUID) string {
	return fmt.Sprintf("event:%s:stats", eventID)
}

// 已計數使用者的 key
func (s *RedisRegistrationStats) getRegistrantsKey(eventID uuid.UUID) string {
	return fmt.Sprintf("event:%s:registrants", eventID)
}

// recordScript
//  1. 使用者加入集合
//  2. 第一次加入才增加計數
var recordScript = redis.NewScript(`
	local stats_key = KEYS[1]
	local registrants_key = KEYS[2]
	local user_id = ARGV[1]

	local added = redis.call('SADD', registrants_key, user_id)
	if added == 0 then
		return 0 -- 已記錄過，視為重送的訊息
	end

	redis.call('HINCRBY', stats_key, 'count', 1)
	return 1
`)

func (s *RedisRegistrationStats) Record(ctx context.Context, eventID uuid.UUID, userID string) (bool, error) {
	keys := []string{s.getStatsKey(eventID), s.getRegistrantsKey(eventID)}
	added, err := recordScript.Run(ctx, s.client, keys, userID).Int()
	if err != nil {
		return false, err
	}
	return added == 1, nil
}

func (s *RedisRegistrationStats) GetCount(ctx context.Context, eventID uuid.UUID) (int64, error) {
	count, err := s.client.HGet(ctx, s.getStatsKey(eventID), "count").Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return count, err
}

func (s *RedisRegistrationStats) Reset(ctx context.Context, eventID uuid.UUID) error {
	return s.client.Del(ctx, s.getStatsKey(eventID), s.getRegistrantsKey(eventID)).Err()
}
