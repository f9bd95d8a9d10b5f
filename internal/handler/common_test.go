package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"campus-event-portal/internal/auth"
	"campus-event-portal/internal/handler"
	"campus-event-portal/internal/model"
	"campus-event-portal/internal/service/mocks"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

var (
	InvalidJSON = `{"invalid": json}`

	testTokens = auth.NewTokenManager("handler-test-secret", "", time.Hour)
)

type testServer struct {
	router        *gin.Engine
	events        *mocks.MockEventService
	registrations *mocks.MockRegistrationService
}

func setupTestRouter(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	events := mocks.NewMockEventService(t)
	registrations := mocks.NewMockRegistrationService(t)
	router := handler.NewRouter(nil, testTokens,
		handler.NewEventHandler(events),
		handler.NewRegistrationHandler(registrations),
		handler.NewAdminHandler(events, registrations),
	)
	return &testServer{router: router, events: events, registrations: registrations}
}

func bearer(t *testing.T, identity model.Identity) string {
	t.Helper()
	token, _, err := testTokens.GenerateToken(identity)
	require.NoError(t, err)
	return "Bearer " + token
}

func memberToken(t *testing.T) string {
	return bearer(t, model.Identity{UserID: "u-1", DisplayName: "Grace", Email: "grace@campus.edu", Role: model.RoleMember})
}

func adminToken(t *testing.T) string {
	return bearer(t, model.Identity{UserID: "admin-1", DisplayName: "Ada", Role: model.RoleAdmin})
}

// create JSON request body
func createJSONRequest(data interface{}) *bytes.Buffer {
	if s, ok := data.(string); ok {
		return bytes.NewBufferString(s)
	}
	jsonData, err := json.Marshal(data)
	if err != nil {
		return bytes.NewBuffer([]byte(""))
	}
	return bytes.NewBuffer(jsonData)
}

// create HTTP request with JSON body
func createJSONHTTPRequest(method, url string, data interface{}, authorization string) *http.Request {
	req, err := http.NewRequest(method, url, createJSONRequest(data))
	if err != nil {
		return nil
	}
	req.Header.Set("Content-Type", "application/json")
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	return req
}

func decodeBody(t *testing.T, body *bytes.Buffer, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(body.Bytes(), v))
}
