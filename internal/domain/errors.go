package domain

import (
	"errors"
	"fmt"
)

// Error categories. Every error returned by a service matches exactly one of
// these through errors.Is, so transports can map them to a status code.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidInput = errors.New("invalid input")
)

// Specific rejection reasons. Each wraps its category.
var (
	ErrNotClubMember    = fmt.Errorf("%w: not a member of the club", ErrForbidden)
	ErrRoleRequired     = fmt.Errorf("%w: club owner or leader role required", ErrForbidden)
	ErrNotEventOwner    = fmt.Errorf("%w: only the event creator may do this", ErrForbidden)
	ErrNotOrganizer     = fmt.Errorf("%w: only the event organizer may confirm participants", ErrForbidden)
	ErrEventNotFound    = fmt.Errorf("%w: event", ErrNotFound)
	ErrChannelNotFound  = fmt.Errorf("%w: channel", ErrNotFound)
	ErrNotParticipant   = fmt.Errorf("%w: participation", ErrNotFound)
	ErrCapacityFull     = fmt.Errorf("%w: capacity full", ErrConflict)
	ErrAlreadyMember    = fmt.Errorf("%w: already a channel member", ErrConflict)
	ErrOutsideRoster    = fmt.Errorf("%w: identity is not a participant of the event", ErrInvalidInput)
	ErrWrongChannelKind = fmt.Errorf("%w: channel is not an event channel", ErrInvalidInput)
	ErrClubMismatch     = fmt.Errorf("%w: event does not belong to the club", ErrInvalidInput)
	ErrInvalidKind      = fmt.Errorf("%w: unknown event kind", ErrInvalidInput)
	ErrInvalidCapacity  = fmt.Errorf("%w: capacity must be positive", ErrInvalidInput)
	ErrInvalidSchedule  = fmt.Errorf("%w: event must end after it starts", ErrInvalidInput)
)
