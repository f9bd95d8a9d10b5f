package cache

import (
	"sync"

	"github.com/google/uuid"
)

// RegistrationCache 每位使用者已報名活動的集合，只用於顯示，不作為重複報名的判斷依據
type RegistrationCache interface {
	// Version 目前的寫入序號；重新載入前先取得，再交給 Replace
	Version() uint64
	// Replace 以資料庫查詢結果覆蓋使用者的集合；since 之後的 Add 與 RemoveEvent 仍會保留
	Replace(userID string, eventIDs []uuid.UUID, since uint64)
	// Add 報名成功後的樂觀寫入
	Add(userID string, eventID uuid.UUID)
	// Contains 使用者尚未載入時回傳 false
	Contains(userID string, eventID uuid.UUID) bool
	// RemoveEvent 活動被刪除時從所有使用者的集合移除
	RemoveEvent(eventID uuid.UUID)
}

type userEntry struct {
	events map[uuid.UUID]struct{}
	// added 樂觀寫入的活動與其寫入序號
	added map[uuid.UUID]uint64
}

type MemoryRegistrationCache struct {
	mu      sync.RWMutex
	seq     uint64
	users   map[string]*userEntry
	removed map[uuid.UUID]uint64
}

func NewRegistrationCache() RegistrationCache {
	return &MemoryRegistrationCache{
		users:   make(map[string]*userEntry),
		removed: make(map[uuid.UUID]uint64),
	}
}

func (c *MemoryRegistrationCache) Version() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.seq
}

func (c *MemoryRegistrationCache) Replace(userID string, eventIDs []uuid.UUID, since uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry := c.entry(userID)
	set := make(map[uuid.UUID]struct{}, len(eventIDs)+len(entry.added))
	for _, id := range eventIDs {
		// 查詢之後才刪除的活動不能被舊結果帶回來
		if at, ok := c.removed[id]; ok && at > since {
			continue
		}
		set[id] = struct{}{}
	}
	for id, at := range entry.added {
		if at > since {
			set[id] = struct{}{}
		}
	}
	entry.events = set
}

func (c *MemoryRegistrationCache) Add(userID string, eventID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	entry := c.entry(userID)
	entry.events[eventID] = struct{}{}
	entry.added[eventID] = c.seq
}

func (c *MemoryRegistrationCache) Contains(userID string, eventID uuid.UUID) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.users[userID]
	if !ok {
		return false
	}
	_, ok = entry.events[eventID]
	return ok
}

func (c *MemoryRegistrationCache) RemoveEvent(eventID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	c.removed[eventID] = c.seq
	for _, entry := range c.users {
		delete(entry.events, eventID)
		delete(entry.added, eventID)
	}
}

// entry 呼叫端需持有寫鎖
func (c *MemoryRegistrationCache) entry(userID string) *userEntry {
	entry, ok := c.users[userID]
	if !ok {
		entry = &userEntry{
			events: make(map[uuid.UUID]struct{}),
			added:  make(map[uuid.UUID]uint64),
		}
		c.users[userID] = entry
	}
	return entry
}
