package handler

import (
	"net/http"
	"time"

	"campus-event-portal/internal/model"
	"campus-event-portal/internal/service"

	"github.com/gin-gonic/gin"
)

// maxImageSize 上傳圖片大小上限
const maxImageSize = 10 << 20

type AdminHandler struct {
	events        service.EventService
	registrations service.RegistrationService
}

func NewAdminHandler(events service.EventService, registrations service.RegistrationService) *AdminHandler {
	return &AdminHandler{events: events, registrations: registrations}
}

func (h *AdminHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1/admin", RequireAdmin())
	{
		router.POST("events", h.CreateEvent)
		router.PUT("events/:id", h.UpdateEvent)
		router.DELETE("events/:id", h.DeleteEvent)
		router.GET("events/:id/registrations", h.ListRegistrants)
		router.GET("events/:id/stats", h.Stats)
		router.POST("images", h.UploadImage)
	}
}

// CreateEventRequest 建立活動請求
type CreateEventRequest struct {
	Title        string     `json:"title" binding:"required"`
	Description  string     `json:"description"`
	Date         time.Time  `json:"date" binding:"required"`
	Registration *time.Time `json:"registration"`
	Time         *string    `json:"time"`
	Location     *string    `json:"location"`
	ImageRef     *string    `json:"image_ref"`
}

// UpdateEventRequest 更新活動請求，只更新有帶的欄位
type UpdateEventRequest struct {
	Title        *string    `json:"title"`
	Description  *string    `json:"description"`
	Date         *time.Time `json:"date"`
	Registration *time.Time `json:"registration"`
	Time         *string    `json:"time"`
	Location     *string    `json:"location"`
	ImageRef     *string    `json:"image_ref"`
}

func (h *AdminHandler) CreateEvent(c *gin.Context) {
	var req CreateEventRequest
	if err := BindJson(c, &req); err != nil {
		return
	}
	if req.Date.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Event date is required"})
		return
	}
	event := &model.Event{
		Title:        req.Title,
		Description:  req.Description,
		Date:         req.Date,
		Registration: req.Registration,
		Time:         req.Time,
		Location:     req.Location,
		ImageRef:     req.ImageRef,
	}
	created, err := h.events.Create(c.Request.Context(), event)
	if err != nil {
		handleError(c, err, "CreateEvent")
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *AdminHandler) UpdateEvent(c *gin.Context) {
	eventID, ok := bindEventID(c)
	if !ok {
		return
	}
	var req UpdateEventRequest
	if err := BindJson(c, &req); err != nil {
		return
	}
	params := model.UpdateEventParams{
		Title:        req.Title,
		Description:  req.Description,
		Date:         req.Date,
		Registration: req.Registration,
		Time:         req.Time,
		Location:     req.Location,
		ImageRef:     req.ImageRef,
	}
	if params.IsEmpty() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one field is required"})
		return
	}
	updated, err := h.events.UpdateByEventID(c.Request.Context(), eventID, params)
	if err != nil {
		handleError(c, err, "UpdateEvent")
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *AdminHandler) DeleteEvent(c *gin.Context) {
	eventID, ok := bindEventID(c)
	if !ok {
		return
	}
	if err := h.events.Delete(c.Request.Context(), eventID); err != nil {
		handleError(c, err, "DeleteEvent")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AdminHandler) ListRegistrants(c *gin.Context) {
	eventID, ok := bindEventID(c)
	if !ok {
		return
	}
	registrations, err := h.registrations.ListRegistrationsForEvent(c.Request.Context(), eventID)
	if err != nil {
		handleError(c, err, "ListRegistrants")
		return
	}
	c.JSON(http.StatusOK, registrations)
}

func (h *AdminHandler) Stats(c *gin.Context) {
	eventID, ok := bindEventID(c)
	if !ok {
		return
	}
	count, err := h.events.RegistrationCount(c.Request.Context(), eventID)
	if err != nil {
		handleError(c, err, "EventStats")
		return
	}
	c.JSON(http.StatusOK, gin.H{"event_id": eventID, "registrations": count})
}

func (h *AdminHandler) UploadImage(c *gin.Context) {
	header, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image file is required"})
		return
	}
	if header.Size > maxImageSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image is too large"})
		return
	}

	file, err := header.Open()
	if err != nil {
		handleError(c, err, "UploadImage")
		return
	}
	defer file.Close()

	imageRef, err := h.events.UploadImage(c.Request.Context(), file)
	if err != nil {
		handleError(c, err, "UploadImage")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"image_ref": imageRef})
}
