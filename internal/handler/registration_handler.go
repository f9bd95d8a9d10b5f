package handler

import (
	"net/http"

	"campus-event-portal/internal/service"

	"github.com/gin-gonic/gin"
)

type RegistrationHandler struct {
	service service.RegistrationService
}

func NewRegistrationHandler(service service.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{service: service}
}

func (h *RegistrationHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.POST("events/:id/registrations", h.Register)
		router.GET("events/:id/registration", h.IsRegistered)
		router.GET("me/registrations", h.ListMine)
	}
}

func (h *RegistrationHandler) Register(c *gin.Context) {
	eventID, ok := bindEventID(c)
	if !ok {
		return
	}

	registration, err := h.service.Register(c.Request.Context(), eventID, currentIdentity(c))
	if err != nil {
		handleError(c, err, "Register")
		return
	}
	c.JSON(http.StatusCreated, registration)
}

// IsRegistered 只看快取；使用者需先呼叫 /me/registrations 載入
func (h *RegistrationHandler) IsRegistered(c *gin.Context) {
	eventID, ok := bindEventID(c)
	if !ok {
		return
	}

	registered := false
	if identity := currentIdentity(c); identity.IsAuthenticated() {
		registered = h.service.IsRegistered(eventID, identity.UserID)
	}
	c.JSON(http.StatusOK, gin.H{"registered": registered})
}

func (h *RegistrationHandler) ListMine(c *gin.Context) {
	identity := currentIdentity(c)
	userID := ""
	if identity.IsAuthenticated() {
		userID = identity.UserID
	}

	eventIDs, err := h.service.ListRegistrationsForUser(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err, "ListMyRegistrations")
		return
	}
	c.JSON(http.StatusOK, gin.H{"registered_events": eventIDs})
}
