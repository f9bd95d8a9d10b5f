package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"campus-event-portal/internal/model"
	apperrors "campus-event-portal/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func registrationURL(eventID uuid.UUID) string {
	return "/api/v1/events/" + eventID.String() + "/registrations"
}

func TestRegister(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		s := setupTestRouter(t)
		eventID := uuid.New()
		s.registrations.On("Register", mock.Anything, eventID, mock.MatchedBy(func(i *model.Identity) bool {
			return i.UserID == "u-1" && i.DisplayName == "Grace" && i.Email == "grace@campus.edu"
		})).Return(&model.Registration{ID: uuid.New(), EventID: eventID, UserID: "u-1", UserName: "Grace"}, nil).Once()

		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, createJSONHTTPRequest(http.MethodPost, registrationURL(eventID), nil, memberToken(t)))

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"user_name":"Grace"`)
	})

	t.Run("Failed - anonymous", func(t *testing.T) {
		s := setupTestRouter(t)
		eventID := uuid.New()
		s.registrations.On("Register", mock.Anything, eventID, (*model.Identity)(nil)).
			Return(nil, apperrors.ErrNotAuthenticated).Once()

		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, createJSONHTTPRequest(http.MethodPost, registrationURL(eventID), nil, ""))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Failed - invalid token", func(t *testing.T) {
		s := setupTestRouter(t)

		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, createJSONHTTPRequest(http.MethodPost, registrationURL(uuid.New()), nil, "Bearer not-a-jwt"))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	errorCases := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{"EventNotFound", apperrors.ErrEventNotFound, http.StatusNotFound, "Event not found"},
		{"EventCompleted", apperrors.ErrEventCompleted, http.StatusBadRequest, "Cannot register for a completed event"},
		{"AlreadyRegistered", apperrors.ErrAlreadyRegistered, http.StatusConflict, "You are already registered for this event"},
		{"StorageUnavailable", apperrors.ErrStorageUnavailable, http.StatusServiceUnavailable, "Service temporarily unavailable"},
	}
	for _, tc := range errorCases {
		t.Run("Failed - "+tc.name, func(t *testing.T) {
			s := setupTestRouter(t)
			eventID := uuid.New()
			s.registrations.On("Register", mock.Anything, eventID, mock.Anything).Return(nil, tc.err).Once()

			w := httptest.NewRecorder()
			s.router.ServeHTTP(w, createJSONHTTPRequest(http.MethodPost, registrationURL(eventID), nil, memberToken(t)))

			assert.Equal(t, tc.code, w.Code)
			assert.JSONEq(t, `{"error":"`+tc.msg+`"}`, w.Body.String())
		})
	}
}

func TestIsRegistered(t *testing.T) {
	t.Run("Registered", func(t *testing.T) {
		s := setupTestRouter(t)
		eventID := uuid.New()
		s.registrations.On("IsRegistered", eventID, "u-1").Return(true).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/v1/events/"+eventID.String()+"/registration", nil)
		req.Header.Set("Authorization", memberToken(t))
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"registered":true}`, w.Body.String())
	})

	t.Run("Anonymous is never registered", func(t *testing.T) {
		s := setupTestRouter(t)
		eventID := uuid.New()

		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/events/"+eventID.String()+"/registration", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"registered":false}`, w.Body.String())
	})
}

func TestListMyRegistrations(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		s := setupTestRouter(t)
		eventID := uuid.New()
		s.registrations.On("ListRegistrationsForUser", mock.Anything, "u-1").Return([]uuid.UUID{eventID}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/api/v1/me/registrations", nil)
		req.Header.Set("Authorization", memberToken(t))
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"registered_events":["`+eventID.String()+`"]}`, w.Body.String())
	})

	t.Run("Failed - anonymous", func(t *testing.T) {
		s := setupTestRouter(t)
		s.registrations.On("ListRegistrationsForUser", mock.Anything, "").Return(nil, apperrors.ErrNotAuthenticated).Once()

		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/me/registrations", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
