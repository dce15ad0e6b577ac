package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"clubevents/internal/clock"
	"clubevents/internal/domain"
)

type confirmationService struct {
	eventRepo      domain.EventRepository
	channelRepo    domain.ChannelRepository
	admission      *Admission
	clock          clock.Clock
	contextTimeout time.Duration
}

func NewConfirmationService(
	eventRepo domain.EventRepository,
	channelRepo domain.ChannelRepository,
	admission *Admission,
	clk clock.Clock,
	timeout time.Duration,
) domain.ConfirmationService {
	return &confirmationService{
		eventRepo:      eventRepo,
		channelRepo:    channelRepo,
		admission:      admission,
		clock:          clk,
		contextTimeout: timeout,
	}
}

// normalizeRoster trims, dedupes and sorts the supplied identities. A nil or
// empty set is valid and means nobody is confirmed.
func normalizeRoster(userIDs []string) ([]string, error) {
	seen := make(map[string]struct{}, len(userIDs))
	out := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			return nil, fmt.Errorf("%w: empty user id in selection", domain.ErrInvalidInput)
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

// eventChannel resolves the channel and its event, checking the channel is an event channel.
func (s *confirmationService) eventChannel(ctx context.Context, channel *domain.Channel) (*domain.Event, error) {
	if channel.Kind != domain.ChannelKindEvent || channel.EventID == "" {
		return nil, domain.ErrWrongChannelKind
	}
	return getEvent(ctx, s.eventRepo, channel.EventID)
}

// ConfirmParticipants replaces the confirmed roster of the channel's event
// with exactly userIDs. Reset, select and snapshot commit together; any
// validation failure aborts before the first write.
func (s *confirmationService) ConfirmParticipants(ctx context.Context, channelID, actorID string, userIDs []string) (*domain.Confirmation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if actorID == "" {
		return nil, domain.ErrUnauthorized
	}
	roster, err := normalizeRoster(userIDs)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	var result *domain.Confirmation
	err = s.channelRepo.WithTx(ctx, func(txCtx context.Context) error {
		channel, err := s.channelRepo.GetForUpdate(txCtx, channelID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrChannelNotFound
			}
			return fmt.Errorf("get channel: %w", err)
		}
		event, err := s.eventChannel(txCtx, channel)
		if err != nil {
			return err
		}
		if event.OwnerID != actorID {
			return domain.ErrNotOrganizer
		}

		missing, err := s.channelRepo.MissingParticipants(txCtx, event.ID, roster)
		if err != nil {
			return fmt.Errorf("check roster: %w", err)
		}
		if len(missing) > 0 {
			return fmt.Errorf("%w: %s", domain.ErrOutsideRoster, strings.Join(missing, ", "))
		}

		if err := s.channelRepo.ResetConfirmed(txCtx, event.ID); err != nil {
			return fmt.Errorf("reset confirmed: %w", err)
		}
		marked, err := s.channelRepo.MarkConfirmed(txCtx, event.ID, roster)
		if err != nil {
			return fmt.Errorf("mark confirmed: %w", err)
		}
		if marked != len(roster) {
			return fmt.Errorf("mark confirmed: updated %d of %d participants", marked, len(roster))
		}
		if err := s.channelRepo.SaveSnapshot(txCtx, channel.ID, len(roster), now); err != nil {
			return fmt.Errorf("save snapshot: %w", err)
		}

		confirmedAt := now
		result = &domain.Confirmation{
			ChannelID:      channel.ID,
			EventID:        event.ID,
			Confirmed:      true,
			ConfirmedCount: len(roster),
			ConfirmedAt:    &confirmedAt,
			Roster:         roster,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *confirmationService) GetConfirmation(ctx context.Context, channelID, actorID string) (*domain.Confirmation, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	channel, err := s.channelRepo.GetByID(ctx, channelID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrChannelNotFound
		}
		return nil, fmt.Errorf("get channel: %w", err)
	}
	event, err := s.eventChannel(ctx, channel)
	if err != nil {
		return nil, err
	}
	if err := s.admission.CanView(ctx, event, actorID); err != nil {
		return nil, err
	}
	roster, err := s.channelRepo.ListConfirmed(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("list confirmed: %w", err)
	}
	if roster == nil {
		roster = []string{}
	}
	return &domain.Confirmation{
		ChannelID:      channel.ID,
		EventID:        event.ID,
		Confirmed:      channel.Confirmed,
		ConfirmedCount: channel.ConfirmedCount,
		ConfirmedAt:    channel.ConfirmedAt,
		Roster:         roster,
	}, nil
}
