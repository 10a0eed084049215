package handler

import (
	"net/http"
	"time"

	"github.com/pankaj3399/time-track-sub001/dto"
	"github.com/pankaj3399/time-track-sub001/usecase"
	"github.com/pankaj3399/time-track-sub001/utils"

	"github.com/gin-gonic/gin"
)

// defaultEventRange is used when a list request names no end.
const defaultEventRange = 31 * 24 * time.Hour

type EventHandler struct {
	events EventService
	now    func() time.Time
}

func NewEventHandler(events EventService) *EventHandler {
	return &EventHandler{events: events, now: time.Now}
}

func (h *EventHandler) rangeParams(c *gin.Context) (time.Time, time.Time, bool) {
	from, err := parseTimeParam(c, "start", utils.DateOf(h.now()))
	if err != nil {
		respondError(c, err, "list events")
		return time.Time{}, time.Time{}, false
	}
	to, err := parseTimeParam(c, "end", from.Add(defaultEventRange))
	if err != nil {
		respondError(c, err, "list events")
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

func (h *EventHandler) ListEvents(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	from, to, ok := h.rangeParams(c)
	if !ok {
		return
	}
	events, err := h.events.ListEvents(c.Request.Context(), userID, from, to)
	if err != nil {
		respondError(c, err, "list events")
		return
	}
	utils.Success(c, events)
}

func (h *EventHandler) Occurrences(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	from, to, ok := h.rangeParams(c)
	if !ok {
		return
	}
	occ, err := h.events.Occurrences(c.Request.Context(), userID, from, to)
	if err != nil {
		respondError(c, err, "expand events")
		return
	}
	utils.Success(c, occ)
}

func (h *EventHandler) ExportICS(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	body, err := h.events.ExportICS(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "export calendar")
		return
	}
	c.Header("Content-Disposition", `attachment; filename="time-track.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(body))
}

func (h *EventHandler) GetEvent(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	event, err := h.events.GetEvent(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err, "fetch event")
		return
	}
	utils.Success(c, event)
}

func (h *EventHandler) CreateEvent(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req dto.EventRequest
	if !bindJSON(c, &req) {
		return
	}
	event := req.ToModel(userID)
	if err := h.events.CreateEvent(c.Request.Context(), event); err != nil {
		respondError(c, err, "create event")
		return
	}
	utils.Created(c, event)
}

func (h *EventHandler) UpdateEvent(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	var req dto.EventRequest
	if !bindJSON(c, &req) {
		return
	}
	event := req.ToModel(userID)
	event.ID = c.Param("id")
	if err := h.events.UpdateEvent(c.Request.Context(), event); err != nil {
		respondError(c, err, "update event")
		return
	}
	utils.Success(c, event)
}

// DeleteEvent applies ?deleteType=current|current-and-future|all; no type
// means current.
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}
	result, err := h.events.DeleteEvent(c.Request.Context(), userID, c.Param("id"), c.Query("deleteType"))
	if err != nil {
		respondError(c, err, "delete event")
		return
	}
	message := "Event deleted"
	switch {
	case result.NoOp():
		message = "Nothing to delete"
	case result.DeleteType == usecase.DeleteCurrentAndFuture:
		message = "Future occurrences deleted"
	case result.DeleteType == usecase.DeleteAll:
		message = "Recurring series deleted"
	}
	utils.SuccessMessage(c, message, result)
}
