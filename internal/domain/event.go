package domain

import (
	"context"
	"strings"
	"time"
)

// EventKind is the closed set of event categories. It decides who may
// create an event of that kind.
type EventKind string

const (
	EventKindLightning EventKind = "LIGHTNING"
	EventKindRegular   EventKind = "REGULAR"
	EventKindMT        EventKind = "MT"
)

// ParseEventKind normalizes s and returns the matching kind.
func ParseEventKind(s string) (EventKind, error) {
	switch k := EventKind(strings.ToUpper(strings.TrimSpace(s))); k {
	case EventKindLightning, EventKindRegular, EventKindMT:
		return k, nil
	default:
		return "", ErrInvalidKind
	}
}

// Event is a club event. Capacity and Kind are fixed at creation.
// swagger:model Event
type Event struct {
	ID          string    `json:"id"`
	ClubID      string    `json:"club_id"`
	OwnerID     string    `json:"owner_id"`
	ChannelID   string    `json:"channel_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Kind        EventKind `json:"kind"`
	// Capacity is nil for unlimited events.
	Capacity  *int      `json:"capacity"`
	StartsAt  time.Time `json:"starts_at"`
	EndsAt    time.Time `json:"ends_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewEvent returns a new Event with the given fields. ID and ChannelID are set on create.
func NewEvent(clubID, ownerID, title, description string, kind EventKind, capacity *int, startsAt, endsAt, createdAt time.Time) *Event {
	return &Event{
		ClubID:      clubID,
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		Kind:        kind,
		Capacity:    capacity,
		StartsAt:    startsAt,
		EndsAt:      endsAt,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
}

// EventUpdate carries the mutable fields of an event. Nil fields are left unchanged.
type EventUpdate struct {
	Title       *string
	Description *string
	StartsAt    *time.Time
	EndsAt      *time.Time
}

// EventWithCount is an event together with its live attendee count.
type EventWithCount struct {
	Event         *Event `json:"event"`
	AttendeeCount int    `json:"attendee_count"`
}

// EventRepository defines the interface for event storage.
type EventRepository interface {
	// Create stores the event and its EVENT channel in one transaction, setting ID and ChannelID.
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	ListByClubID(ctx context.Context, clubID string, params PaginationParams) ([]*Event, int, error)
	Update(ctx context.Context, eventID string, upd EventUpdate) (*Event, error)
	Delete(ctx context.Context, id string) error
}

// CreateEventInput is the input of EventService.CreateEvent.
type CreateEventInput struct {
	ClubID      string
	ActorID     string
	Title       string
	Description string
	Kind        EventKind
	Capacity    *int
	StartsAt    time.Time
	EndsAt      time.Time
}

// EventService is the event catalog surface guarded by admission rules.
type EventService interface {
	CreateEvent(ctx context.Context, in CreateEventInput) (*Event, error)
	GetEvent(ctx context.Context, clubID, eventID, actorID string) (*EventWithCount, error)
	ListClubEvents(ctx context.Context, clubID, actorID string, params PaginationParams) ([]*Event, int, error)
	UpdateEvent(ctx context.Context, clubID, eventID, actorID string, upd EventUpdate) (*Event, error)
	DeleteEvent(ctx context.Context, clubID, eventID, actorID string) error
}
