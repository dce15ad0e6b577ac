package controllers

import (
	"log/slog"
	"net/http"

	"clubevents/internal/delivery/http/helpers"
	"clubevents/internal/delivery/http/middleware"
	"clubevents/internal/domain"
)

// maxRosterSize bounds a single confirmation request.
const maxRosterSize = 1000

// ConfirmParticipantsRequest is the request body for PUT /channels/{channelID}/confirmation.
// UserIDs replaces the whole confirmed roster. An empty, null or absent list
// clears it.
type ConfirmParticipantsRequest struct {
	UserIDs []string `json:"user_ids"`
}

// Validate implements Validator.
func (c ConfirmParticipantsRequest) Validate() []string {
	if len(c.UserIDs) > maxRosterSize {
		return []string{"user_ids has too many entries"}
	}
	return nil
}

// ConfirmationSuccessResponse is the success envelope for the confirmation endpoints.
type ConfirmationSuccessResponse struct {
	Data  *domain.Confirmation `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

type ConfirmationController struct {
	Logger     *slog.Logger
	Service    domain.ConfirmationService
	Translator helpers.Translator
}

func NewConfirmationController(logger *slog.Logger, svc domain.ConfirmationService, tr helpers.Translator) *ConfirmationController {
	return &ConfirmationController{
		Logger:     logger,
		Service:    svc,
		Translator: tr,
	}
}

// ConfirmParticipants godoc
// @Summary Confirm an event's attendees
// @Description Replaces the confirmed roster of the event behind an EVENT channel. Only the event organizer may confirm. Every id must already have a participation record for the event; otherwise nothing changes.
// @Tags confirmation
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param channelID path string true "Channel ID (UUID)"
// @Param body body ConfirmParticipantsRequest true "Confirmed user ids"
// @Success 200 {object} controllers.ConfirmationSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /channels/{channelID}/confirmation [put]
func (c *ConfirmationController) ConfirmParticipants(w http.ResponseWriter, r *http.Request) {
	channelID, userID, ok := channelPath(w, r)
	if !ok {
		return
	}
	var req ConfirmParticipantsRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	conf, err := c.Service.ConfirmParticipants(r.Context(), channelID, userID, req.UserIDs)
	if err != nil {
		helpers.WriteDomainError(w, r, c.Translator, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, conf)
}

// GetConfirmation godoc
// @Summary Get the confirmation snapshot
// @Tags confirmation
// @Produce json
// @Security BearerAuth
// @Param channelID path string true "Channel ID (UUID)"
// @Success 200 {object} controllers.ConfirmationSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /channels/{channelID}/confirmation [get]
func (c *ConfirmationController) GetConfirmation(w http.ResponseWriter, r *http.Request) {
	channelID, userID, ok := channelPath(w, r)
	if !ok {
		return
	}
	conf, err := c.Service.GetConfirmation(r.Context(), channelID, userID)
	if err != nil {
		helpers.WriteDomainError(w, r, c.Translator, c.Logger, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, conf)
}

func channelPath(w http.ResponseWriter, r *http.Request) (channelID, userID string, ok bool) {
	if channelID, ok = helpers.PathUUID(w, r, "channelID"); !ok {
		return
	}
	if userID, ok = middleware.UserIDFromContext(r.Context()); !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	return channelID, userID, true
}
