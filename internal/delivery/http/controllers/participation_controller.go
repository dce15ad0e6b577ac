package controllers

import (
	"log/slog"
	"net/http"

	"clubevents/internal/delivery/http/helpers"
	"clubevents/internal/delivery/http/middleware"
	"clubevents/internal/domain"
)

// ParticipationResultSuccessResponse is the success envelope for join and leave.
type ParticipationResultSuccessResponse struct {
	Data  *domain.ParticipationResult `json:"data"`
	Error *helpers.APIError           `json:"error"`
}

// ParticipationSuccessResponse is the success envelope for GET /events/{eventID}/participation.
type ParticipationSuccessResponse struct {
	Data  *domain.Participation `json:"data"`
	Error *helpers.APIError     `json:"error"`
}

// ListParticipantsResponse is the data of GET /events/{eventID}/participants.
type ListParticipantsResponse struct {
	Items      []*domain.Participation `json:"items"`
	Pagination helpers.PaginationMeta  `json:"pagination"`
}

// ListParticipantsSuccessResponse is the success envelope for GET /events/{eventID}/participants.
type ListParticipantsSuccessResponse struct {
	Data  ListParticipantsResponse `json:"data"`
	Error *helpers.APIError        `json:"error"`
}

type ParticipationController struct {
	Logger     *slog.Logger
	Service    domain.ParticipationService
	Translator helpers.Translator
}

func NewParticipationController(logger *slog.Logger, svc domain.ParticipationService, tr helpers.Translator) *ParticipationController {
	return &ParticipationController{
		Logger:     logger,
		Service:    svc,
		Translator: tr,
	}
}

// Join godoc
// @Summary Join an event
// @Description Marks the authenticated member as attending. Idempotent. Fails with reason capacity_full when the event is full. On a new join the member is added to the event channel; data.enrollment reports the outcome.
// @Tags participation
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.ParticipationResultSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/participation [post]
func (c *ParticipationController) Join(w http.ResponseWriter, r *http.Request) {
	eventID, userID, ok := participationPath(w, r)
	if !ok {
		return
	}
	res, err := c.Service.Join(r.Context(), eventID, userID)
	if err != nil {
		helpers.WriteDomainError(w, r, c.Translator, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, res)
}

// Leave godoc
// @Summary Leave an event
// @Description Marks the authenticated member as no longer attending. The participation record and its joined_at are kept.
// @Tags participation
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.ParticipationResultSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/participation [delete]
func (c *ParticipationController) Leave(w http.ResponseWriter, r *http.Request) {
	eventID, userID, ok := participationPath(w, r)
	if !ok {
		return
	}
	res, err := c.Service.Leave(r.Context(), eventID, userID)
	if err != nil {
		helpers.WriteDomainError(w, r, c.Translator, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, res)
}

// GetMyParticipation godoc
// @Summary Get my participation
// @Tags participation
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.ParticipationSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/participation [get]
func (c *ParticipationController) GetMyParticipation(w http.ResponseWriter, r *http.Request) {
	eventID, userID, ok := participationPath(w, r)
	if !ok {
		return
	}
	p, err := c.Service.GetMyParticipation(r.Context(), eventID, userID)
	if err != nil {
		helpers.WriteDomainError(w, r, c.Translator, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, p)
}

// ListParticipants godoc
// @Summary List an event's participation records
// @Description Paginated, ordered by joined_at. Includes members who left (participated=false). Members only.
// @Tags participation
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param page query int false "Page (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.ListParticipantsSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/participants [get]
func (c *ParticipationController) ListParticipants(w http.ResponseWriter, r *http.Request) {
	eventID, userID, ok := participationPath(w, r)
	if !ok {
		return
	}
	params := helpers.ParsePagination(r)
	list, total, err := c.Service.ListParticipants(r.Context(), eventID, userID, params)
	if err != nil {
		helpers.WriteDomainError(w, r, c.Translator, c.Logger, err)
		return
	}
	meta := helpers.NewPaginationMeta(params, total)
	helpers.WriteJSONSuccess(w, http.StatusOK, ListParticipantsResponse{Items: list, Pagination: meta})
}

func participationPath(w http.ResponseWriter, r *http.Request) (eventID, userID string, ok bool) {
	if eventID, ok = helpers.PathUUID(w, r, "eventID"); !ok {
		return
	}
	if userID, ok = middleware.UserIDFromContext(r.Context()); !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	return eventID, userID, true
}
