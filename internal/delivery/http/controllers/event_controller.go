package controllers

import (
	"log/slog"
	"net/http"
	"time"

	"clubevents/internal/delivery/http/helpers"
	"clubevents/internal/delivery/http/middleware"
	"clubevents/internal/domain"
)

// CreateEventRequest is the request body for POST /clubs/{clubID}/events.
// Capacity is optional; omit it for an unlimited event.
type CreateEventRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Kind        string    `json:"kind"`
	Capacity    *int      `json:"capacity"`
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
}

// Validate implements Validator.
func (c CreateEventRequest) Validate() []string {
	var errs []string
	if c.Title == "" {
		errs = append(errs, "title is required")
	}
	if c.Kind == "" {
		errs = append(errs, "kind is required")
	}
	if c.StartsAt.IsZero() {
		errs = append(errs, "starts_at is required")
	}
	if c.EndsAt.IsZero() {
		errs = append(errs, "ends_at is required")
	}
	return errs
}

// EventSuccessResponse is the success envelope for endpoints returning a single event.
type EventSuccessResponse struct {
	Data  *domain.Event     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// EventWithCountSuccessResponse is the success envelope for GET /clubs/{clubID}/events/{eventID}.
type EventWithCountSuccessResponse struct {
	Data  *domain.EventWithCount `json:"data"`
	Error *helpers.APIError      `json:"error"`
}

// ListEventsResponse is the data of GET /clubs/{clubID}/events.
type ListEventsResponse struct {
	Items      []*domain.Event        `json:"items"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// ListEventsSuccessResponse is the success envelope for GET /clubs/{clubID}/events.
type ListEventsSuccessResponse struct {
	Data  ListEventsResponse `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

type EventController struct {
	Logger     *slog.Logger
	Service    domain.EventService
	Translator helpers.Translator
}

func NewEventController(logger *slog.Logger, svc domain.EventService, tr helpers.Translator) *EventController {
	return &EventController{
		Logger:     logger,
		Service:    svc,
		Translator: tr,
	}
}

// CreateEvent godoc
// @Summary Create a club event
// @Description Creates an event in the club. Any member may create a LIGHTNING event; REGULAR and MT events need the club owner or a LEADER. An EVENT chat channel is created with it.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param clubID path string true "Club ID (UUID)"
// @Param event body CreateEventRequest true "Event data"
// @Success 201 {object} controllers.EventSuccessResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /clubs/{clubID}/events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	clubID, ok := helpers.PathUUID(w, r, "clubID")
	if !ok {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	kind, err := domain.ParseEventKind(req.Kind)
	if err != nil {
		helpers.WriteDomainError(w, r, c.Translator, c.Logger, err)
		return
	}
	event, err := c.Service.CreateEvent(r.Context(), domain.CreateEventInput{
		ClubID:      clubID,
		ActorID:     userID,
		Title:       req.Title,
		Description: req.Description,
		Kind:        kind,
		Capacity:    req.Capacity,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
	})
	if err != nil {
		helpers.WriteDomainError(w, r, c.Translator, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// ListClubEvents godoc
// @Summary List a club's events
// @Description Paginated list of the club's events, newest start first. Members only.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param clubID path string true "Club ID (UUID)"
// @Param page query int false "Page (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.ListEventsSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /clubs/{clubID}/events [get]
func (c *EventController) ListClubEvents(w http.ResponseWriter, r *http.Request) {
	clubID, ok := helpers.PathUUID(w, r, "clubID")
	if !ok {
		return
	}
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	params := helpers.ParsePagination(r)
	events, total, err := c.Service.ListClubEvents(r.Context(), clubID, userID, params)
	if err != nil {
		helpers.WriteDomainError(w, r, c.Translator, c.Logger, err)
		return
	}
	meta := helpers.NewPaginationMeta(params, total)
	helpers.WriteJSONSuccess(w, http.StatusOK, ListEventsResponse{Items: events, Pagination: meta})
}

// GetEvent godoc
// @Summary Get an event
// @Description Returns the event and its current attendee count. Members only.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param clubID path string true "Club ID (UUID)"
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.EventWithCountSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /clubs/{clubID}/events/{eventID} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	clubID, eventID, userID, ok := c.eventPath(w, r)
	if !ok {
		return
	}
	ev, err := c.Service.GetEvent(r.Context(), clubID, eventID, userID)
	if err != nil {
		helpers.WriteDomainError(w, r, c.Translator, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ev)
}

// UpdateEventRequest is the request body for PATCH /clubs/{clubID}/events/{eventID}.
// All fields optional; kind and capacity cannot be changed.
type UpdateEventRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	StartsAt    *time.Time `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
}

// Validate implements Validator.
func (u UpdateEventRequest) Validate() []string {
	if u.Title == nil && u.Description == nil && u.StartsAt == nil && u.EndsAt == nil {
		return []string{"at least one field is required"}
	}
	return nil
}

// UpdateEvent godoc
// @Summary Update an event
// @Description Updates title, description or schedule. Only the event's creator may edit it.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param clubID path string true "Club ID (UUID)"
// @Param eventID path string true "Event ID (UUID)"
// @Param event body UpdateEventRequest true "Fields to change"
// @Success 200 {object} controllers.EventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /clubs/{clubID}/events/{eventID} [patch]
func (c *EventController) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	clubID, eventID, userID, ok := c.eventPath(w, r)
	if !ok {
		return
	}
	var req UpdateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event, err := c.Service.UpdateEvent(r.Context(), clubID, eventID, userID, domain.EventUpdate{
		Title:       req.Title,
		Description: req.Description,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
	})
	if err != nil {
		helpers.WriteDomainError(w, r, c.Translator, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// DeleteEvent godoc
// @Summary Delete an event
// @Description Deletes the event with its participations and channel. Only the event's creator may delete it.
// @Tags events
// @Security BearerAuth
// @Param clubID path string true "Club ID (UUID)"
// @Param eventID path string true "Event ID (UUID)"
// @Success 204 "No Content"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /clubs/{clubID}/events/{eventID} [delete]
func (c *EventController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	clubID, eventID, userID, ok := c.eventPath(w, r)
	if !ok {
		return
	}
	if err := c.Service.DeleteEvent(r.Context(), clubID, eventID, userID); err != nil {
		helpers.WriteDomainError(w, r, c.Translator, c.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *EventController) eventPath(w http.ResponseWriter, r *http.Request) (clubID, eventID, userID string, ok bool) {
	if clubID, ok = helpers.PathUUID(w, r, "clubID"); !ok {
		return
	}
	if eventID, ok = helpers.PathUUID(w, r, "eventID"); !ok {
		return
	}
	if userID, ok = middleware.UserIDFromContext(r.Context()); !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	return clubID, eventID, userID, true
}
