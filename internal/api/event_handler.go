package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hoa-backend-go/internal/core"
	"hoa-backend-go/internal/models"
)

// EventHandler serves the association calendar.
type EventHandler struct {
	calendar core.CalendarService
	logger   *zap.Logger
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(calendar core.CalendarService, logger *zap.Logger) *EventHandler {
	return &EventHandler{calendar: calendar, logger: logger}
}

// ListEvents handles GET /events?month=YYYY-MM or GET /events?from=&to=
func (h *EventHandler) ListEvents(c *gin.Context) {
	var (
		events []*models.Event
		err    error
	)
	from, to := c.Query("from"), c.Query("to")
	switch {
	case from != "" || to != "":
		if from == "" || to == "" {
			badRequest(c, "from and to must be given together", nil)
			return
		}
		events, err = h.calendar.ListRange(c.Request.Context(), from, to)
	default:
		events, err = h.calendar.ListMonth(c.Request.Context(), c.Query("month"))
	}
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

// GetEvent handles GET /events/:eventId
func (h *EventHandler) GetEvent(c *gin.Context) {
	e, err := h.calendar.Get(c.Request.Context(), c.Param("eventId"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

// CreateEvent handles POST /events
func (h *EventHandler) CreateEvent(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	var req models.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload", err)
		return
	}
	e, err := h.calendar.Create(c.Request.Context(), actor, req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

// UpdateEvent handles PATCH /events/:eventId
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	var req models.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload", err)
		return
	}
	e, err := h.calendar.Update(c.Request.Context(), actor, c.Param("eventId"), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

// DeleteEvent handles DELETE /events/:eventId
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		return
	}
	if err := h.calendar.Delete(c.Request.Context(), actor, c.Param("eventId")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
