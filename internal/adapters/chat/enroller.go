package chat

import (
	"context"
	"errors"
	"fmt"

	"clubevents/internal/clock"
	"clubevents/internal/domain"
)

type enroller struct {
	channels domain.ChannelRepository
	members  domain.ChannelMemberRepository
	clock    clock.Clock
}

// NewEnroller returns a ChannelEnroller that writes to the chat channel
// membership table. Only EVENT channels accept enrollment.
func NewEnroller(channels domain.ChannelRepository, members domain.ChannelMemberRepository, clk clock.Clock) domain.ChannelEnroller {
	return &enroller{channels: channels, members: members, clock: clk}
}

func (e *enroller) Enroll(ctx context.Context, channelID, userID string) (domain.EnrollmentStatus, error) {
	channel, err := e.channels.GetByID(ctx, channelID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.EnrollmentIneligible, nil
		}
		return domain.EnrollmentFailed, fmt.Errorf("get channel: %w", err)
	}
	if channel.Kind != domain.ChannelKindEvent {
		return domain.EnrollmentIneligible, nil
	}
	if err := e.members.Add(ctx, channel.ID, userID, e.clock.Now()); err != nil {
		if errors.Is(err, domain.ErrAlreadyMember) {
			return domain.EnrollmentAlreadyMember, nil
		}
		return domain.EnrollmentFailed, fmt.Errorf("add channel member: %w", err)
	}
	return domain.EnrollmentEnrolled, nil
}
