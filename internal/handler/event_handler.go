package handler

import (
	"net/http"

	"campus-event-portal/internal/model"
	"campus-event-portal/internal/service"

	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	service service.EventService
}

func NewEventHandler(service service.EventService) *EventHandler {
	return &EventHandler{service: service}
}

func (h *EventHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.GET("events", h.List)
		router.GET("events/:id", h.GetByEventID)
	}
}

type ListEventsQuery struct {
	Status string `form:"status"`
}

func (h *EventHandler) List(c *gin.Context) {
	var query ListEventsQuery
	if err := BindQuery(c, &query); err != nil {
		return
	}

	status := model.EventStatus(query.Status)
	if query.Status == "all" {
		status = ""
	}

	events, err := h.service.List(c.Request.Context(), status)
	if err != nil {
		handleError(c, err, "ListEvents")
		return
	}
	c.JSON(http.StatusOK, events)
}

func (h *EventHandler) GetByEventID(c *gin.Context) {
	eventID, ok := bindEventID(c)
	if !ok {
		return
	}
	event, err := h.service.GetByEventID(c.Request.Context(), eventID)
	if err != nil {
		handleError(c, err, "GetEvent")
		return
	}
	c.JSON(http.StatusOK, event)
}
