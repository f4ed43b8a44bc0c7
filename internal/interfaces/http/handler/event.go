package handler

import (
	"context"
	"strconv"
	"time"

	appevent "github.com/Robi000/CMS/internal/application/event"
	"github.com/Robi000/CMS/internal/domain/event"
	"github.com/Robi000/CMS/internal/interfaces/http/dto"
	"github.com/Robi000/CMS/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventHandler handles community events and their attendance rolls
type EventHandler struct {
	BaseHandler
	eventService *appevent.EventService
}

// NewEventHandler creates a new event handler
func NewEventHandler(eventService *appevent.EventService) *EventHandler {
	return &EventHandler{
		eventService: eventService,
	}
}

// CreateEventRequest schedules a community event
type CreateEventRequest struct {
	Name         string `json:"name" binding:"required,max=200"`
	Description  string `json:"description" binding:"omitempty,max=2000"`
	Date         string `json:"date" binding:"required"`
	PenaltyPrice int    `json:"penalty_price" binding:"min=0"`
}

// AttendanceIDsRequest identifies attendance records for entry or exit
type AttendanceIDsRequest struct {
	AttendanceIDs []string `json:"attendance_ids" binding:"required,min=1,dive,uuid"`
}

// EventResponse is the outward representation of an event
type EventResponse struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	Date         time.Time  `json:"date"`
	PenaltyPrice int        `json:"penalty_price"`
	StartTime    *time.Time `json:"start_time,omitempty"`
	EndTime      *time.Time `json:"end_time,omitempty"`
	FinalizedAt  *time.Time `json:"finalized_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

func toEventResponse(e *event.Event) EventResponse {
	return EventResponse{
		ID:           e.ID,
		Name:         e.Name,
		Description:  e.Description,
		Date:         e.Date,
		PenaltyPrice: e.PenaltyPrice,
		StartTime:    e.StartTime,
		EndTime:      e.EndTime,
		FinalizedAt:  e.FinalizedAt,
		CreatedAt:    e.CreatedAt,
	}
}

// AttendanceResponse is the outward representation of one roll entry
type AttendanceResponse struct {
	ID            uuid.UUID       `json:"id"`
	EventID       uuid.UUID       `json:"event_id"`
	HouseholdID   uuid.UUID       `json:"household_id"`
	Attended      bool            `json:"attended"`
	EntryTime     *time.Time      `json:"entry_time,omitempty"`
	ExitTime      *time.Time      `json:"exit_time,omitempty"`
	LateMinutes   int             `json:"late_minutes"`
	PenaltyAmount decimal.Decimal `json:"penalty_amount"`
}

func toAttendanceResponses(records []event.EventAttendance) []AttendanceResponse {
	responses := make([]AttendanceResponse, len(records))
	for i, a := range records {
		responses[i] = AttendanceResponse{
			ID:            a.ID,
			EventID:       a.EventID,
			HouseholdID:   a.HouseholdID,
			Attended:      a.Attended,
			EntryTime:     a.EntryTime,
			ExitTime:      a.ExitTime,
			LateMinutes:   a.LateMinutes,
			PenaltyAmount: a.PenaltyAmount,
		}
	}
	return responses
}

// EventDetailResponse is an event plus its roll, partitioned into
// attendees and absentees
type EventDetailResponse struct {
	Event    EventResponse        `json:"event"`
	Attended []AttendanceResponse `json:"attended"`
	Absent   []AttendanceResponse `json:"absent"`
}

// Create schedules an event and opens one attendance record per household.
// POST /api/v1/events
func (h *EventHandler) Create(c *gin.Context) {
	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		h.BadRequest(c, "date must be formatted YYYY-MM-DD")
		return
	}

	associationID, err := getAssociationID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	created, err := h.eventService.Create(c.Request.Context(), appevent.CreateEventRequest{
		AssociationID: associationID,
		Name:          req.Name,
		Description:   req.Description,
		Date:          date,
		PenaltyPrice:  req.PenaltyPrice,
		CreatedBy:     getUsername(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toEventResponse(created))
}

// List returns events with optional date range and finalized filters.
// GET /api/v1/events
func (h *EventHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	associationID, err := getAssociationID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	filter := event.EventFilter{Filter: listRequestToFilter(req)}
	dateFrom, err := parseDateParam(c.Query("date_from"))
	if err != nil {
		h.BadRequest(c, "date_from must be formatted YYYY-MM-DD")
		return
	}
	filter.DateFrom = dateFrom
	dateTo, err := parseDateParam(c.Query("date_to"))
	if err != nil {
		h.BadRequest(c, "date_to must be formatted YYYY-MM-DD")
		return
	}
	filter.DateTo = dateTo
	if v := c.Query("finalized"); v != "" {
		finalized, err := strconv.ParseBool(v)
		if err != nil {
			h.BadRequest(c, "finalized must be true or false")
			return
		}
		filter.Finalized = &finalized
	}

	events, err := h.eventService.List(c.Request.Context(), associationID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]EventResponse, len(events))
	for i := range events {
		responses[i] = toEventResponse(&events[i])
	}

	h.Success(c, responses)
}

// Get returns an event with its attendance roll.
// GET /api/v1/events/:id
func (h *EventHandler) Get(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid event ID")
		return
	}

	associationID, err := getAssociationID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	detail, err := h.eventService.Get(c.Request.Context(), associationID, uuid.MustParse(uri.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, EventDetailResponse{
		Event:    toEventResponse(detail.Event),
		Attended: toAttendanceResponses(detail.Attended),
		Absent:   toAttendanceResponses(detail.Absent),
	})
}

// Start marks the event as begun. Late minutes count from this moment.
// POST /api/v1/events/:id/start
func (h *EventHandler) Start(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid event ID")
		return
	}

	associationID, err := getAssociationID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	started, err := h.eventService.Start(c.Request.Context(), associationID, uuid.MustParse(uri.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toEventResponse(started))
}

// End marks the event as over.
// POST /api/v1/events/:id/end
func (h *EventHandler) End(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid event ID")
		return
	}

	associationID, err := getAssociationID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	ended, err := h.eventService.End(c.Request.Context(), associationID, uuid.MustParse(uri.ID))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toEventResponse(ended))
}

// RecordEntry stamps entry times for the given attendance records.
// POST /api/v1/events/entries
func (h *EventHandler) RecordEntry(c *gin.Context) {
	h.recordTimes(c, h.eventService.RecordEntry)
}

// RecordExit stamps exit times for the given attendance records.
// POST /api/v1/events/exits
func (h *EventHandler) RecordExit(c *gin.Context) {
	h.recordTimes(c, h.eventService.RecordExit)
}

func (h *EventHandler) recordTimes(c *gin.Context, record func(ctx context.Context, associationID uuid.UUID, ids []uuid.UUID) error) {
	var req AttendanceIDsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	associationID, err := getAssociationID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	ids := make([]uuid.UUID, len(req.AttendanceIDs))
	for i, id := range req.AttendanceIDs {
		ids[i] = uuid.MustParse(id)
	}

	if err := record(c.Request.Context(), associationID, ids); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"updated": len(ids)})
}

// Finalize closes the books on an event: absentees and latecomers get
// penalty invoices, issued as one group.
// POST /api/v1/events/:id/finalize
func (h *EventHandler) Finalize(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid event ID")
		return
	}

	associationID, err := getAssociationID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	result, err := h.eventService.Finalize(c.Request.Context(), associationID, uuid.MustParse(uri.ID), getUsername(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Delete removes an event that has not been finalized.
// DELETE /api/v1/events/:id
func (h *EventHandler) Delete(c *gin.Context) {
	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BadRequest(c, "Invalid event ID")
		return
	}

	associationID, err := getAssociationID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	if err := h.eventService.Delete(c.Request.Context(), associationID, uuid.MustParse(uri.ID)); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
