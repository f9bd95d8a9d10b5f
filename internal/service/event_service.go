package service

import (
	"context"
	"io"
	"strings"
	"time"

	"campus-event-portal/internal/cache"
	"campus-event-portal/internal/imagestore"
	"campus-event-portal/internal/model"
	"campus-event-portal/internal/repository"
	apperrors "campus-event-portal/pkg/app_errors"
	"campus-event-portal/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type EventService interface {
	// List status 為空時回傳全部，依活動日期排序
	List(ctx context.Context, status model.EventStatus) ([]model.EventResponse, error)
	GetByEventID(ctx context.Context, eventID uuid.UUID) (*model.EventResponse, error)
	Create(ctx context.Context, event *model.Event) (*model.EventResponse, error)
	UpdateByEventID(ctx context.Context, eventID uuid.UUID, params model.UpdateEventParams) (*model.EventResponse, error)
	// Delete 依 orphan policy 處理報名紀錄，並盡力刪除圖片
	Delete(ctx context.Context, eventID uuid.UUID) error
	// RegistrationCount 由 worker 累計的報名數，僅供參考
	RegistrationCount(ctx context.Context, eventID uuid.UUID) (int64, error)
	// UploadImage 圖片服務未設定時回傳 ErrImageStoreUnavailable
	UploadImage(ctx context.Context, file io.Reader) (string, error)
}

type EventServiceImpl struct {
	repo             repository.EventRepository
	registrationRepo repository.RegistrationRepository
	cache            cache.RegistrationCache
	stats            cache.RegistrationStats
	images           imagestore.ImageStore
	resolver         model.StatusResolver
	orphanPolicy     model.OrphanPolicy
	now              func() time.Time
}

// NewEventService stats 與 images 可為 nil
func NewEventService(
	repo repository.EventRepository,
	registrationRepo repository.RegistrationRepository,
	registrationCache cache.RegistrationCache,
	stats cache.RegistrationStats,
	images imagestore.ImageStore,
	resolver model.StatusResolver,
	orphanPolicy model.OrphanPolicy,
	opts ...Option,
) EventService {
	o := applyOptions(opts)
	return &EventServiceImpl{
		repo:             repo,
		registrationRepo: registrationRepo,
		cache:            registrationCache,
		stats:            stats,
		images:           images,
		resolver:         resolver,
		orphanPolicy:     orphanPolicy,
		now:              o.now,
	}
}

func (s *EventServiceImpl) respond(event *model.Event, now time.Time) model.EventResponse {
	return model.NewEventResponse(event, s.resolver.Resolve(event, now))
}

func (s *EventServiceImpl) List(ctx context.Context, status model.EventStatus) ([]model.EventResponse, error) {
	if status != "" && !status.IsValid() {
		return nil, apperrors.ErrInvalidInput
	}

	events, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	responses := make([]model.EventResponse, 0, len(events))
	for _, e := range events {
		resp := s.respond(e, now)
		if status != "" && resp.Status != status {
			continue
		}
		responses = append(responses, resp)
	}
	return responses, nil
}

func (s *EventServiceImpl) GetByEventID(ctx context.Context, eventID uuid.UUID) (*model.EventResponse, error) {
	event, err := s.repo.FindByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	resp := s.respond(event, s.now())
	return &resp, nil
}

func (s *EventServiceImpl) Create(ctx context.Context, event *model.Event) (*model.EventResponse, error) {
	if event == nil || strings.TrimSpace(event.Title) == "" || event.Date.IsZero() {
		return nil, apperrors.ErrInvalidInput
	}
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}

	created, err := s.repo.Create(ctx, event)
	if err != nil {
		return nil, err
	}
	resp := s.respond(created, s.now())
	return &resp, nil
}

func (s *EventServiceImpl) UpdateByEventID(ctx context.Context, eventID uuid.UUID, params model.UpdateEventParams) (*model.EventResponse, error) {
	if params.IsEmpty() {
		return nil, apperrors.ErrInvalidInput
	}
	if params.Title != nil && strings.TrimSpace(*params.Title) == "" {
		return nil, apperrors.ErrInvalidInput
	}

	updated, err := s.repo.Update(ctx, eventID, params)
	if err != nil {
		return nil, err
	}
	resp := s.respond(updated, s.now())
	return &resp, nil
}

func (s *EventServiceImpl) Delete(ctx context.Context, eventID uuid.UUID) error {
	event, err := s.repo.FindByEventID(ctx, eventID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, eventID); err != nil {
		return err
	}

	log := logger.WithComponent("service").With(zap.String("event_id", eventID.String()))

	switch s.orphanPolicy {
	case model.OrphanPolicyPurge:
		removed, err := s.registrationRepo.DeleteByEventID(ctx, eventID)
		if err != nil {
			// 活動已刪除，殘留的報名紀錄等同 keep
			log.Error("purge registrations failed", zap.Error(err))
		} else {
			log.Info("registrations purged", zap.Int64("count", removed))
		}
		s.cache.RemoveEvent(eventID)
		if s.stats != nil {
			if err := s.stats.Reset(ctx, eventID); err != nil {
				log.Error("reset registration stats failed", zap.Error(err))
			}
		}
	case model.OrphanPolicyHide:
		s.cache.RemoveEvent(eventID)
	}

	if event.ImageRef != nil && *event.ImageRef != "" && s.images != nil {
		if err := s.images.Delete(ctx, *event.ImageRef); err != nil {
			log.Error("delete event image failed", zap.String("image_ref", *event.ImageRef), zap.Error(err))
		}
	}
	return nil
}

func (s *EventServiceImpl) RegistrationCount(ctx context.Context, eventID uuid.UUID) (int64, error) {
	if _, err := s.repo.FindByEventID(ctx, eventID); err != nil {
		return 0, err
	}
	if s.stats == nil {
		return 0, apperrors.ErrStorageUnavailable
	}
	count, err := s.stats.GetCount(ctx, eventID)
	if err != nil {
		return 0, apperrors.Unavailable("registration count", err)
	}
	return count, nil
}

func (s *EventServiceImpl) UploadImage(ctx context.Context, file io.Reader) (string, error) {
	if s.images == nil {
		return "", apperrors.ErrImageStoreUnavailable
	}
	return s.images.Upload(ctx, file)
}
