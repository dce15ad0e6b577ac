package domain

import (
	"context"
	"time"
)

// ChannelKind distinguishes club-wide channels from per-event channels.
type ChannelKind string

const (
	ChannelKindClub  ChannelKind = "CLUB"
	ChannelKindEvent ChannelKind = "EVENT"
)

// Channel is a chat channel. The confirmation fields are a snapshot written
// only by the confirmation coordinator.
// swagger:model Channel
type Channel struct {
	ID             string      `json:"id"`
	ClubID         string      `json:"club_id"`
	EventID        string      `json:"event_id"`
	Kind           ChannelKind `json:"kind"`
	Confirmed      bool        `json:"confirmed"`
	ConfirmedCount int         `json:"confirmed_count"`
	ConfirmedAt    *time.Time  `json:"confirmed_at"`
	CreatedAt      time.Time   `json:"created_at"`
}

// Confirmation is the result of confirming participants.
// swagger:model Confirmation
type Confirmation struct {
	ChannelID      string     `json:"channel_id"`
	EventID        string     `json:"event_id"`
	Confirmed      bool       `json:"confirmed"`
	ConfirmedCount int        `json:"confirmed_count"`
	ConfirmedAt    *time.Time `json:"confirmed_at"`
	Roster         []string   `json:"roster"`
}

// ChannelRepository stores channels and their confirmation snapshot.
type ChannelRepository interface {
	WithTx(ctx context.Context, fn func(txCtx context.Context) error) error
	GetByID(ctx context.Context, id string) (*Channel, error)
	GetForUpdate(ctx context.Context, id string) (*Channel, error)
	// MissingParticipants returns the subset of userIDs with no participation record for the event.
	MissingParticipants(ctx context.Context, eventID string, userIDs []string) ([]string, error)
	ResetConfirmed(ctx context.Context, eventID string) error
	MarkConfirmed(ctx context.Context, eventID string, userIDs []string) (int, error)
	SaveSnapshot(ctx context.Context, channelID string, count int, at time.Time) error
	ListConfirmed(ctx context.Context, eventID string) ([]string, error)
}

// ChannelMemberRepository stores channel membership.
type ChannelMemberRepository interface {
	// Add returns ErrAlreadyMember when the pair exists.
	Add(ctx context.Context, channelID, userID string, at time.Time) error
}

// ConfirmationService replaces the confirmed roster of an event channel.
type ConfirmationService interface {
	ConfirmParticipants(ctx context.Context, channelID, actorID string, userIDs []string) (*Confirmation, error)
	GetConfirmation(ctx context.Context, channelID, actorID string) (*Confirmation, error)
}
