package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"clubevents/internal/clock"
	"clubevents/internal/domain"
)

const maxTitleLength = 200

type eventService struct {
	eventRepo         domain.EventRepository
	participationRepo domain.ParticipationRepository
	admission         *Admission
	clock             clock.Clock
	contextTimeout    time.Duration
}

func NewEventService(eventRepo domain.EventRepository,
	participationRepo domain.ParticipationRepository,
	admission *Admission,
	clk clock.Clock,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:         eventRepo,
		participationRepo: participationRepo,
		admission:         admission,
		clock:             clk,
		contextTimeout:    timeout,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, in domain.CreateEventInput) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if in.ActorID == "" {
		return nil, domain.ErrUnauthorized
	}
	title := strings.TrimSpace(in.Title)
	if title == "" || len(title) > maxTitleLength {
		return nil, fmt.Errorf("%w: title is required and must be at most %d characters", domain.ErrInvalidInput, maxTitleLength)
	}
	// capacity is stored as a Postgres INTEGER
	if in.Capacity != nil && (*in.Capacity <= 0 || *in.Capacity > math.MaxInt32) {
		return nil, domain.ErrInvalidCapacity
	}
	if !in.EndsAt.After(in.StartsAt) {
		return nil, domain.ErrInvalidSchedule
	}
	if err := s.admission.CanCreate(ctx, in.ClubID, in.ActorID, in.Kind); err != nil {
		return nil, err
	}

	event := domain.NewEvent(in.ClubID, in.ActorID, title, strings.TrimSpace(in.Description), in.Kind, in.Capacity, in.StartsAt, in.EndsAt, s.clock.Now())
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

// loadInClub fetches the event and checks the actor may view it and that it
// belongs to clubID.
func (s *eventService) loadInClub(ctx context.Context, clubID, eventID, actorID string) (*domain.Event, error) {
	event, err := getEvent(ctx, s.eventRepo, eventID)
	if err != nil {
		return nil, err
	}
	if err := s.admission.CanView(ctx, event, actorID); err != nil {
		return nil, err
	}
	if clubID != "" && event.ClubID != clubID {
		return nil, domain.ErrClubMismatch
	}
	return event, nil
}

func (s *eventService) GetEvent(ctx context.Context, clubID, eventID, actorID string) (*domain.EventWithCount, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.loadInClub(ctx, clubID, eventID, actorID)
	if err != nil {
		return nil, err
	}
	count, err := s.participationRepo.CountParticipating(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("count participants: %w", err)
	}
	return &domain.EventWithCount{Event: event, AttendeeCount: count}, nil
}

func (s *eventService) ListClubEvents(ctx context.Context, clubID, actorID string, params domain.PaginationParams) ([]*domain.Event, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.admission.requireMember(ctx, clubID, actorID); err != nil {
		return nil, 0, err
	}
	events, total, err := s.eventRepo.ListByClubID(ctx, clubID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, total, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, clubID, eventID, actorID string, upd domain.EventUpdate) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.loadInClub(ctx, clubID, eventID, actorID)
	if err != nil {
		return nil, err
	}
	if err := s.admission.CanEdit(event, actorID); err != nil {
		return nil, err
	}
	if upd.Title != nil {
		title := strings.TrimSpace(*upd.Title)
		if title == "" || len(title) > maxTitleLength {
			return nil, fmt.Errorf("%w: title must be 1 to %d characters", domain.ErrInvalidInput, maxTitleLength)
		}
		upd.Title = &title
	}
	start, end := event.StartsAt, event.EndsAt
	if upd.StartsAt != nil {
		start = *upd.StartsAt
	}
	if upd.EndsAt != nil {
		end = *upd.EndsAt
	}
	if !end.After(start) {
		return nil, domain.ErrInvalidSchedule
	}
	updated, err := s.eventRepo.Update(ctx, eventID, upd)
	if err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	return updated, nil
}

func (s *eventService) DeleteEvent(ctx context.Context, clubID, eventID, actorID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.loadInClub(ctx, clubID, eventID, actorID)
	if err != nil {
		return err
	}
	if err := s.admission.CanEdit(event, actorID); err != nil {
		return err
	}
	if err := s.eventRepo.Delete(ctx, eventID); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

func getEvent(ctx context.Context, repo domain.EventRepository, eventID string) (*domain.Event, error) {
	event, err := repo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}
