package helpers

import (
	"errors"
	"log/slog"
	"net/http"

	"clubevents/internal/domain"
)

// Translator localizes a message key for an Accept-Language header value.
type Translator interface {
	T(acceptLanguage, key string) string
}

// reasons maps specific domain errors to their reason key. Order matters only
// in that every entry is more specific than the categories below.
var reasons = []struct {
	err error
	key string
}{
	{domain.ErrNotClubMember, "not_club_member"},
	{domain.ErrRoleRequired, "role_required"},
	{domain.ErrNotEventOwner, "not_event_owner"},
	{domain.ErrNotOrganizer, "not_organizer"},
	{domain.ErrEventNotFound, "event_not_found"},
	{domain.ErrChannelNotFound, "channel_not_found"},
	{domain.ErrNotParticipant, "not_participant"},
	{domain.ErrCapacityFull, "capacity_full"},
	{domain.ErrAlreadyMember, "already_member"},
	{domain.ErrOutsideRoster, "outside_roster"},
	{domain.ErrWrongChannelKind, "wrong_channel_kind"},
	{domain.ErrClubMismatch, "club_mismatch"},
	{domain.ErrInvalidKind, "invalid_kind"},
	{domain.ErrInvalidCapacity, "invalid_capacity"},
	{domain.ErrInvalidSchedule, "invalid_schedule"},
}

var categories = []struct {
	err    error
	status int
	code   string
}{
	{domain.ErrUnauthorized, http.StatusUnauthorized, ErrCodeUnauthorized},
	{domain.ErrForbidden, http.StatusForbidden, ErrCodeForbidden},
	{domain.ErrNotFound, http.StatusNotFound, ErrCodeNotFound},
	{domain.ErrConflict, http.StatusConflict, ErrCodeConflict},
	{domain.ErrInvalidInput, http.StatusBadRequest, ErrCodeBadRequest},
}

// ReasonOf returns the reason key of err, or "" if it has none.
func ReasonOf(err error) string {
	for _, r := range reasons {
		if errors.Is(err, r.err) {
			return r.key
		}
	}
	return ""
}

// StatusOf returns the HTTP status and error code for err. Anything outside
// the domain categories is a 500.
func StatusOf(err error) (int, string) {
	for _, c := range categories {
		if errors.Is(err, c.err) {
			return c.status, c.code
		}
	}
	return http.StatusInternalServerError, ErrCodeInternalError
}

// WriteDomainError maps err to a status and a localized message. Unexpected
// errors are logged and reported without their details.
func WriteDomainError(w http.ResponseWriter, r *http.Request, tr Translator, logger *slog.Logger, err error) {
	status, code := StatusOf(err)
	reason := ReasonOf(err)
	if status == http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	}

	key := reason
	if key == "" {
		key = code
	}
	message := err.Error()
	if tr != nil {
		message = tr.T(r.Header.Get("Accept-Language"), key)
	} else if status == http.StatusInternalServerError {
		message = "internal error"
	}
	WriteAPIError(w, status, &APIError{Code: code, Reason: reason, Message: message})
}
