package mocks

import (
	"context"
	"testing"

	"campus-event-portal/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockRegistrationService struct {
	mock.Mock
}

func NewMockRegistrationService(t *testing.T) *MockRegistrationService {
	m := &MockRegistrationService{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockRegistrationService) Register(ctx context.Context, eventID uuid.UUID, identity *model.Identity) (*model.Registration, error) {
	args := m.Called(ctx, eventID, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Registration), args.Error(1)
}

func (m *MockRegistrationService) ListRegistrationsForUser(ctx context.Context, userID string) ([]uuid.UUID, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockRegistrationService) IsRegistered(eventID uuid.UUID, userID string) bool {
	args := m.Called(eventID, userID)
	return args.Bool(0)
}

func (m *MockRegistrationService) ListRegistrationsForEvent(ctx context.Context, eventID uuid.UUID) ([]*model.Registration, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Registration), args.Error(1)
}

func (m *MockRegistrationService) DispatchRegistration(ctx context.Context, msg *model.RegistrationMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}
