package service_test

import (
	"context"
	"sync"
	"time"

	"campus-event-portal/internal/model"
	apperrors "campus-event-portal/pkg/app_errors"

	"github.com/google/uuid"
)

var (
	registrationOpens = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	eventDate         = time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newTestEvent() *model.Event {
	opens := registrationOpens
	return &model.Event{
		ID:           uuid.New(),
		Title:        "Intro to Go",
		Description:  "Hands-on workshop",
		Date:         eventDate,
		Registration: &opens,
	}
}

func member(userID string) *model.Identity {
	return &model.Identity{UserID: userID, DisplayName: "Grace", Email: userID + "@campus.edu", Role: model.RoleMember}
}

// uniqueRegistrationStore 以 mutex 模擬 (event_id, user_id) 唯一約束
type uniqueRegistrationStore struct {
	mu   sync.Mutex
	rows map[string]*model.Registration
}

func newUniqueRegistrationStore() *uniqueRegistrationStore {
	return &uniqueRegistrationStore{rows: make(map[string]*model.Registration)}
}

func (s *uniqueRegistrationStore) key(eventID uuid.UUID, userID string) string {
	return eventID.String() + "/" + userID
}

func (s *uniqueRegistrationStore) Create(ctx context.Context, r *model.Registration) (*model.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := s.key(r.EventID, r.UserID)
	if _, ok := s.rows[k]; ok {
		return nil, apperrors.ErrAlreadyRegistered
	}
	copied := *r
	s.rows[k] = &copied
	return &copied, nil
}

func (s *uniqueRegistrationStore) FindByEventAndUser(ctx context.Context, eventID uuid.UUID, userID string) (*model.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rows[s.key(eventID, userID)], nil
}

func (s *uniqueRegistrationStore) ListByUserID(ctx context.Context, userID string, includeOrphans bool) ([]*model.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Registration
	for _, r := range s.rows {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *uniqueRegistrationStore) ListByEventID(ctx context.Context, eventID uuid.UUID) ([]*model.Registration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.Registration
	for _, r := range s.rows {
		if r.EventID == eventID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *uniqueRegistrationStore) DeleteByEventID(ctx context.Context, eventID uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for k, r := range s.rows {
		if r.EventID == eventID {
			delete(s.rows, k)
			n++
		}
	}
	return n, nil
}

// blockingListStore ListByUserID 先取得快照，等 release 關閉後才回傳
type blockingListStore struct {
	*uniqueRegistrationStore
	listed  chan struct{}
	release chan struct{}
}

func newBlockingListStore() *blockingListStore {
	return &blockingListStore{
		uniqueRegistrationStore: newUniqueRegistrationStore(),
		listed:                  make(chan struct{}),
		release:                 make(chan struct{}),
	}
}

func (s *blockingListStore) ListByUserID(ctx context.Context, userID string, includeOrphans bool) ([]*model.Registration, error) {
	rows, err := s.uniqueRegistrationStore.ListByUserID(ctx, userID, includeOrphans)
	close(s.listed)
	<-s.release
	return rows, err
}
