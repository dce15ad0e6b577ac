package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"clubevents/internal/clock"
	"clubevents/internal/domain"
)

type participationService struct {
	eventRepo         domain.EventRepository
	participationRepo domain.ParticipationRepository
	enroller          domain.ChannelEnroller
	admission         *Admission
	clock             clock.Clock
	logger            *slog.Logger
	contextTimeout    time.Duration
}

// NewParticipationService creates the participation registry. enroller may be
// nil, in which case joins report EnrollmentSkipped.
func NewParticipationService(
	eventRepo domain.EventRepository,
	participationRepo domain.ParticipationRepository,
	enroller domain.ChannelEnroller,
	admission *Admission,
	clk clock.Clock,
	logger *slog.Logger,
	timeout time.Duration,
) domain.ParticipationService {
	return &participationService{
		eventRepo:         eventRepo,
		participationRepo: participationRepo,
		enroller:          enroller,
		admission:         admission,
		clock:             clk,
		logger:            logger,
		contextTimeout:    timeout,
	}
}

// Join promotes the actor to joined. The count-and-write runs under the
// per-event lock; channel enrollment runs after commit and outside it.
func (s *participationService) Join(ctx context.Context, eventID, actorID string) (*domain.ParticipationResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if actorID == "" {
		return nil, domain.ErrUnauthorized
	}
	event, err := getEvent(ctx, s.eventRepo, eventID)
	if err != nil {
		return nil, err
	}
	if err := s.admission.CanJoin(ctx, event, actorID); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	var (
		rec      *domain.Participation
		count    int
		promoted bool
	)
	err = s.participationRepo.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.participationRepo.LockEvent(txCtx, eventID); err != nil {
			return err
		}
		existing, err := s.participationRepo.Get(txCtx, eventID, actorID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			existing = &domain.Participation{
				EventID:   eventID,
				UserID:    actorID,
				JoinedAt:  now,
				UpdatedAt: now,
			}
			if err := s.participationRepo.Create(txCtx, existing); err != nil {
				return fmt.Errorf("create participation: %w", err)
			}
		case err != nil:
			return fmt.Errorf("get participation: %w", err)
		}

		count, err = s.participationRepo.CountParticipating(txCtx, eventID)
		if err != nil {
			return fmt.Errorf("count participants: %w", err)
		}
		if existing.Participated {
			rec = existing
			return nil
		}
		if event.Capacity != nil && count >= *event.Capacity {
			return domain.ErrCapacityFull
		}
		rec, err = s.participationRepo.SetParticipated(txCtx, eventID, actorID, true, now)
		if err != nil {
			return fmt.Errorf("set participated: %w", err)
		}
		count++
		promoted = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &domain.ParticipationResult{
		EventID:       eventID,
		UserID:        actorID,
		Participated:  rec.Participated,
		AttendeeCount: count,
		Capacity:      event.Capacity,
		JoinedAt:      rec.JoinedAt,
		Timestamp:     now,
		Enrollment:    domain.EnrollmentSkipped,
	}
	if promoted {
		result.Enrollment = s.enroll(ctx, event, actorID)
	}
	return result, nil
}

// enroll adds the joiner to the event channel. Errors are logged and reported
// in the result; the join stays committed.
func (s *participationService) enroll(ctx context.Context, event *domain.Event, userID string) domain.EnrollmentStatus {
	if s.enroller == nil || event.ChannelID == "" {
		return domain.EnrollmentSkipped
	}
	status, err := s.enroller.Enroll(ctx, event.ChannelID, userID)
	if err != nil {
		s.logger.WarnContext(ctx, "channel enrollment failed",
			"event_id", event.ID, "channel_id", event.ChannelID, "user_id", userID, "err", err)
		return domain.EnrollmentFailed
	}
	return status
}

// Leave demotes the actor to left. It touches only the actor's row and does
// not take the event lock.
func (s *participationService) Leave(ctx context.Context, eventID, actorID string) (*domain.ParticipationResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if actorID == "" {
		return nil, domain.ErrUnauthorized
	}
	event, err := getEvent(ctx, s.eventRepo, eventID)
	if err != nil {
		return nil, err
	}
	if err := s.admission.CanView(ctx, event, actorID); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	rec, err := s.participationRepo.SetParticipated(ctx, eventID, actorID, false, now)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotParticipant
		}
		return nil, fmt.Errorf("set participated: %w", err)
	}
	count, err := s.participationRepo.CountParticipating(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("count participants: %w", err)
	}
	return &domain.ParticipationResult{
		EventID:       eventID,
		UserID:        actorID,
		Participated:  rec.Participated,
		AttendeeCount: count,
		Capacity:      event.Capacity,
		JoinedAt:      rec.JoinedAt,
		Timestamp:     now,
	}, nil
}

func (s *participationService) GetMyParticipation(ctx context.Context, eventID, actorID string) (*domain.Participation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := getEvent(ctx, s.eventRepo, eventID)
	if err != nil {
		return nil, err
	}
	if err := s.admission.CanView(ctx, event, actorID); err != nil {
		return nil, err
	}
	rec, err := s.participationRepo.Get(ctx, eventID, actorID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotParticipant
		}
		return nil, fmt.Errorf("get participation: %w", err)
	}
	return rec, nil
}

func (s *participationService) ListParticipants(ctx context.Context, eventID, actorID string, params domain.PaginationParams) ([]*domain.Participation, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := getEvent(ctx, s.eventRepo, eventID)
	if err != nil {
		return nil, 0, err
	}
	if err := s.admission.CanView(ctx, event, actorID); err != nil {
		return nil, 0, err
	}
	list, total, err := s.participationRepo.ListByEventID(ctx, eventID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list participants: %w", err)
	}
	if list == nil {
		list = []*domain.Participation{}
	}
	return list, total, nil
}
