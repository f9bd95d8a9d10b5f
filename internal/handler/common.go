package handler

import (
	"errors"
	"net/http"

	apperrors "campus-event-portal/pkg/app_errors"
	"campus-event-portal/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func BindJson(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return err
	}
	return nil
}

func BindQuery(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindQuery(obj); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return err
	}
	return nil
}

// bindEventID 解析路徑上的 :id，失敗時已回應 400
func bindEventID(c *gin.Context) (uuid.UUID, bool) {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event id"})
		return uuid.Nil, false
	}
	return eventID, true
}

// handleError 4xx 記 warn，5xx 記 error
func handleError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case errors.Is(err, apperrors.ErrNotAuthenticated):
		log.Warn("Not authenticated")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Please sign in to continue"})
	case errors.Is(err, apperrors.ErrForbidden):
		log.Warn("Forbidden")
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	case errors.Is(err, apperrors.ErrEventNotFound):
		log.Warn("Event not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
	case errors.Is(err, apperrors.ErrEventCompleted):
		log.Warn("Event completed")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot register for a completed event"})
	case errors.Is(err, apperrors.ErrAlreadyRegistered):
		log.Warn("Already registered")
		c.JSON(http.StatusConflict, gin.H{"error": "You are already registered for this event"})
	case errors.Is(err, apperrors.ErrInvalidInput):
		log.Warn("Invalid input")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
	case errors.Is(err, apperrors.ErrImageStoreUnavailable):
		log.Error("Image store unavailable")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Image upload is not available"})
	case errors.Is(err, apperrors.ErrStorageUnavailable):
		log.Error("Storage unavailable")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
