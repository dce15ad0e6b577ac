// @title Club Events API
// @version 1.0
// @description Club events, capacity-bounded participation and attendee confirmation.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"clubevents/config"
	_ "clubevents/docs"
	"clubevents/internal/adapters/auth"
	"clubevents/internal/adapters/chat"
	"clubevents/internal/adapters/i18n"
	"clubevents/internal/clock"
	deliveryhttp "clubevents/internal/delivery/http"
	"clubevents/internal/delivery/http/controllers"
	"clubevents/internal/delivery/http/middleware"
	"clubevents/internal/repository/postgres"
	"clubevents/internal/services"
	"clubevents/migrations"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := config.NewLogger()
	if err := run(logger); err != nil {
		logger.Error("server exited", "err", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if cfg.MigrateOnStart {
		if err := migrations.Up(cfg.DBUrl, logger); err != nil {
			return err
		}
	}

	db, err := sql.Open("postgres", cfg.DBUrl)
	if err != nil {
		return err
	}
	defer db.Close()

	startupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(startupCtx); err != nil {
		return err
	}

	clk := clock.NewSystem()

	eventRepo := postgres.NewEventRepository(db)
	participationRepo := postgres.NewParticipationRepository(db)
	channelRepo := postgres.NewChannelRepository(db)
	channelMemberRepo := postgres.NewChannelMemberRepository(db)
	admission := services.NewAdmission(postgres.NewMembershipDirectory(db))
	enroller := chat.NewEnroller(channelRepo, channelMemberRepo, clk)

	eventSvc := services.NewEventService(eventRepo, participationRepo, admission, clk, cfg.RequestTimeout)
	participationSvc := services.NewParticipationService(eventRepo, participationRepo, enroller, admission, clk, logger, cfg.RequestTimeout)
	confirmationSvc := services.NewConfirmationService(eventRepo, channelRepo, admission, clk, cfg.RequestTimeout)

	translator := i18n.NewTranslator(cfg.DefaultLocale, logger)
	mux := deliveryhttp.NewRouter(deliveryhttp.Controllers{
		Events:        controllers.NewEventController(logger, eventSvc, translator),
		Participation: controllers.NewParticipationController(logger, participationSvc, translator),
		Confirmation:  controllers.NewConfirmationController(logger, confirmationSvc, translator),
	}, auth.NewJWTVerifier(cfg.JWTSecret), logger)

	handler := middleware.LoggingMiddleware(logger, middleware.CORS(cfg.CORSOrigins, middleware.Timeout(cfg.RequestTimeout, mux)))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		logger.Info("api listening", "port", cfg.Port, "env", cfg.Environment)
		srvErr <- server.ListenAndServe()
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-stopCtx.Done():
		logger.Info("shutdown signal received, stopping server")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logger.Info("server stopped")
	return nil
}
