package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"clubevents/internal/delivery/http/controllers"
	"clubevents/internal/delivery/http/helpers"
	"clubevents/internal/delivery/http/middleware"
	"clubevents/internal/domain"
)

// Controllers groups the handlers mounted by NewRouter.
type Controllers struct {
	Events        *controllers.EventController
	Participation *controllers.ParticipationController
	Confirmation  *controllers.ConfirmationController
}

// NewRouter initializes the HTTP router with all application routes.
// Everything except /health and /swagger/ requires a Bearer token.
func NewRouter(c Controllers, verifier domain.TokenVerifier, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier, logger)

	// Events
	mux.HandleFunc("POST /clubs/{clubID}/events", auth(c.Events.CreateEvent))
	mux.HandleFunc("GET /clubs/{clubID}/events", auth(c.Events.ListClubEvents))
	mux.HandleFunc("GET /clubs/{clubID}/events/{eventID}", auth(c.Events.GetEvent))
	mux.HandleFunc("PATCH /clubs/{clubID}/events/{eventID}", auth(c.Events.UpdateEvent))
	mux.HandleFunc("DELETE /clubs/{clubID}/events/{eventID}", auth(c.Events.DeleteEvent))

	// Participation
	mux.HandleFunc("POST /events/{eventID}/participation", auth(c.Participation.Join))
	mux.HandleFunc("DELETE /events/{eventID}/participation", auth(c.Participation.Leave))
	mux.HandleFunc("GET /events/{eventID}/participation", auth(c.Participation.GetMyParticipation))
	mux.HandleFunc("GET /events/{eventID}/participants", auth(c.Participation.ListParticipants))

	// Confirmation
	mux.HandleFunc("PUT /channels/{channelID}/confirmation", auth(c.Confirmation.ConfirmParticipants))
	mux.HandleFunc("GET /channels/{channelID}/confirmation", auth(c.Confirmation.GetConfirmation))

	mux.HandleFunc("GET /health", Health)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}

// Health godoc
// @Summary Liveness check
// @Tags health
// @Produce json
// @Success 200 {object} helpers.APIResponse
// @Router /health [get]
func Health(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
}
