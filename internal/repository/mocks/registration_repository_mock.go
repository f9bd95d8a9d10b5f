package mocks

import (
	"context"
	"testing"

	"campus-event-portal/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockRegistrationRepository struct {
	mock.Mock
}

func NewMockRegistrationRepository(t *testing.T) *MockRegistrationRepository {
	m := &MockRegistrationRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockRegistrationRepository) Create(ctx context.Context, registration *model.Registration) (*model.Registration, error) {
	args := m.Called(ctx, registration)
	if fn, ok := args.Get(0).(func(context.Context, *model.Registration) *model.Registration); ok {
		return fn(ctx, registration), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Registration), args.Error(1)
}

func (m *MockRegistrationRepository) FindByEventAndUser(ctx context.Context, eventID uuid.UUID, userID string) (*model.Registration, error) {
	args := m.Called(ctx, eventID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Registration), args.Error(1)
}

func (m *MockRegistrationRepository) ListByUserID(ctx context.Context, userID string, includeOrphans bool) ([]*model.Registration, error) {
	args := m.Called(ctx, userID, includeOrphans)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Registration), args.Error(1)
}

func (m *MockRegistrationRepository) ListByEventID(ctx context.Context, eventID uuid.UUID) ([]*model.Registration, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Registration), args.Error(1)
}

func (m *MockRegistrationRepository) DeleteByEventID(ctx context.Context, eventID uuid.UUID) (int64, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).(int64), args.Error(1)
}
