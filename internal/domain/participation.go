package domain

import (
	"context"
	"time"
)

// Participation is the per-(event, user) attendance record. There is at most
// one per pair; leaving only clears Participated so JoinedAt survives rejoins.
// swagger:model Participation
type Participation struct {
	EventID      string    `json:"event_id"`
	UserID       string    `json:"user_id"`
	Participated bool      `json:"participated"`
	Confirmed    bool      `json:"confirmed"`
	JoinedAt     time.Time `json:"joined_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// EnrollmentStatus is the outcome of adding a joiner to the event channel.
type EnrollmentStatus string

const (
	EnrollmentEnrolled      EnrollmentStatus = "enrolled"
	EnrollmentAlreadyMember EnrollmentStatus = "already_member"
	EnrollmentIneligible    EnrollmentStatus = "ineligible"
	EnrollmentFailed        EnrollmentStatus = "failed"
	// EnrollmentSkipped means no enrollment was attempted (idempotent join).
	EnrollmentSkipped EnrollmentStatus = "skipped"
)

// ParticipationResult is returned by join and leave.
// swagger:model ParticipationResult
type ParticipationResult struct {
	EventID       string    `json:"event_id"`
	UserID        string    `json:"user_id"`
	Participated  bool      `json:"participated"`
	AttendeeCount int       `json:"attendee_count"`
	Capacity      *int      `json:"capacity"`
	JoinedAt      time.Time `json:"joined_at"`
	Timestamp     time.Time `json:"timestamp"`
	// Enrollment is only set on join.
	Enrollment EnrollmentStatus `json:"enrollment,omitempty"`
}

// ParticipationRepository stores participation records. Methods taking a
// context returned by WithTx run inside that transaction.
type ParticipationRepository interface {
	// WithTx runs fn in one transaction; fn's context must be passed to the
	// other methods. An error from fn rolls everything back.
	WithTx(ctx context.Context, fn func(txCtx context.Context) error) error
	// LockEvent takes the per-event admission lock until the transaction ends.
	LockEvent(ctx context.Context, eventID string) error
	Get(ctx context.Context, eventID, userID string) (*Participation, error)
	Create(ctx context.Context, p *Participation) error
	SetParticipated(ctx context.Context, eventID, userID string, participated bool, at time.Time) (*Participation, error)
	CountParticipating(ctx context.Context, eventID string) (int, error)
	ListByEventID(ctx context.Context, eventID string, params PaginationParams) ([]*Participation, int, error)
}

// ChannelEnroller adds a user to a communication channel. Failure is
// reported to the caller and never undoes a join.
type ChannelEnroller interface {
	Enroll(ctx context.Context, channelID, userID string) (EnrollmentStatus, error)
}

// ParticipationService is the attendance surface.
type ParticipationService interface {
	Join(ctx context.Context, eventID, actorID string) (*ParticipationResult, error)
	Leave(ctx context.Context, eventID, actorID string) (*ParticipationResult, error)
	GetMyParticipation(ctx context.Context, eventID, actorID string) (*Participation, error)
	ListParticipants(ctx context.Context, eventID, actorID string, params PaginationParams) ([]*Participation, int, error)
}
