package service

import (
	"context"
	"time"

	"campus-event-portal/internal/cache"
	"campus-event-portal/internal/model"
	"campus-event-portal/internal/queue"
	"campus-event-portal/internal/repository"
	apperrors "campus-event-portal/pkg/app_errors"
	"campus-event-portal/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type RegistrationService interface {
	// Register 依序檢查：登入、活動存在、活動未結束、未重複報名
	Register(ctx context.Context, eventID uuid.UUID, identity *model.Identity) (*model.Registration, error)
	// ListRegistrationsForUser 從儲存層重新讀取並覆蓋使用者的快取
	ListRegistrationsForUser(ctx context.Context, userID string) ([]uuid.UUID, error)
	// IsRegistered 只讀快取，尚未載入時回傳 false
	IsRegistered(eventID uuid.UUID, userID string) bool
	ListRegistrationsForEvent(ctx context.Context, eventID uuid.UUID) ([]*model.Registration, error)
	// DispatchRegistration 由 worker 呼叫，把報名訊息記進統計
	DispatchRegistration(ctx context.Context, msg *model.RegistrationMessage) error
}

type RegistrationServiceImpl struct {
	eventRepo        repository.EventRepository
	registrationRepo repository.RegistrationRepository
	cache            cache.RegistrationCache
	queue            queue.RegistrationQueue
	stats            cache.RegistrationStats
	resolver         model.StatusResolver
	orphanPolicy     model.OrphanPolicy
	now              func() time.Time
}

// NewRegistrationService queue 與 stats 可為 nil，此時不送出訊息也不記錄統計
func NewRegistrationService(
	eventRepo repository.EventRepository,
	registrationRepo repository.RegistrationRepository,
	registrationCache cache.RegistrationCache,
	registrationQueue queue.RegistrationQueue,
	stats cache.RegistrationStats,
	resolver model.StatusResolver,
	orphanPolicy model.OrphanPolicy,
	opts ...Option,
) RegistrationService {
	o := applyOptions(opts)
	return &RegistrationServiceImpl{
		eventRepo:        eventRepo,
		registrationRepo: registrationRepo,
		cache:            registrationCache,
		queue:            registrationQueue,
		stats:            stats,
		resolver:         resolver,
		orphanPolicy:     orphanPolicy,
		now:              o.now,
	}
}

func (s *RegistrationServiceImpl) Register(ctx context.Context, eventID uuid.UUID, identity *model.Identity) (*model.Registration, error) {
	if !identity.IsAuthenticated() {
		return nil, apperrors.ErrNotAuthenticated
	}

	event, err := s.eventRepo.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if s.resolver.Resolve(event, now) == model.EventStatusCompleted {
		return nil, apperrors.ErrEventCompleted
	}

	registration, err := s.registrationRepo.Create(ctx, &model.Registration{
		ID:           uuid.New(),
		EventID:      event.ID,
		UserID:       identity.UserID,
		UserName:     identity.SnapshotName(),
		UserEmail:    identity.Email,
		RegisteredAt: now.UTC(),
	})
	if err != nil {
		return nil, err
	}

	s.cache.Add(identity.UserID, event.ID)
	s.publish(ctx, registration)

	return registration, nil
}

// publish 報名已寫入，送出失敗只記錄不回傳
func (s *RegistrationServiceImpl) publish(ctx context.Context, registration *model.Registration) {
	if s.queue == nil {
		return
	}
	if err := s.queue.PublishRegistration(ctx, model.NewRegistrationMessage(registration)); err != nil {
		logger.WithComponent("service").Error("publish registration failed",
			zap.String("registration_id", registration.ID.String()),
			zap.String("event_id", registration.EventID.String()),
			zap.Error(err),
		)
	}
}

func (s *RegistrationServiceImpl) ListRegistrationsForUser(ctx context.Context, userID string) ([]uuid.UUID, error) {
	if userID == "" {
		return nil, apperrors.ErrNotAuthenticated
	}

	// 查詢期間完成的報名由 Replace 依序號保留
	since := s.cache.Version()
	registrations, err := s.registrationRepo.ListByUserID(ctx, userID, s.orphanPolicy != model.OrphanPolicyHide)
	if err != nil {
		return nil, err
	}

	eventIDs := make([]uuid.UUID, 0, len(registrations))
	for _, r := range registrations {
		eventIDs = append(eventIDs, r.EventID)
	}
	s.cache.Replace(userID, eventIDs, since)

	return eventIDs, nil
}

func (s *RegistrationServiceImpl) IsRegistered(eventID uuid.UUID, userID string) bool {
	if userID == "" {
		return false
	}
	return s.cache.Contains(userID, eventID)
}

func (s *RegistrationServiceImpl) ListRegistrationsForEvent(ctx context.Context, eventID uuid.UUID) ([]*model.Registration, error) {
	if _, err := s.eventRepo.FindByEventID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.registrationRepo.ListByEventID(ctx, eventID)
}

func (s *RegistrationServiceImpl) DispatchRegistration(ctx context.Context, msg *model.RegistrationMessage) error {
	if s.stats == nil || msg == nil {
		return nil
	}
	added, err := s.stats.Record(ctx, msg.EventID, msg.UserID)
	if err != nil {
		return err
	}
	if !added {
		logger.WithComponent("service").Debug("registration already counted",
			zap.String("registration_id", msg.RegistrationID.String()),
		)
	}
	return nil
}
