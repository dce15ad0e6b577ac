package services

import (
	"context"
	"errors"
	"fmt"

	"clubevents/internal/domain"
)

// Admission evaluates who may create, view, join and edit events. It only
// reads the membership directory and never mutates anything.
type Admission struct {
	directory domain.MembershipDirectory
}

// NewAdmission returns an Admission backed by the given directory.
func NewAdmission(directory domain.MembershipDirectory) *Admission {
	return &Admission{directory: directory}
}

// requiresAuthority is the creation rule table: kinds that need the club
// owner or a LEADER. LIGHTNING events only need membership.
func requiresAuthority(kind domain.EventKind) (bool, error) {
	switch kind {
	case domain.EventKindLightning:
		return false, nil
	case domain.EventKindRegular, domain.EventKindMT:
		return true, nil
	default:
		return false, domain.ErrInvalidKind
	}
}

// CanCreate fails closed for non-members and for REGULAR/MT events unless
// the actor owns the club or is a LEADER.
func (a *Admission) CanCreate(ctx context.Context, clubID, actorID string, kind domain.EventKind) error {
	needsAuthority, err := requiresAuthority(kind)
	if err != nil {
		return err
	}
	role, ok, err := a.directory.RoleOf(ctx, clubID, actorID)
	if err != nil {
		return fmt.Errorf("lookup role: %w", err)
	}
	if !ok {
		return domain.ErrNotClubMember
	}
	if !needsAuthority || role == domain.ClubRoleLeader {
		return nil
	}
	ownerID, err := a.directory.OwnerOf(ctx, clubID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrRoleRequired
		}
		return fmt.Errorf("lookup club owner: %w", err)
	}
	if ownerID != actorID {
		return domain.ErrRoleRequired
	}
	return nil
}

// CanView requires membership in the event's club. Joining has the same precondition.
func (a *Admission) CanView(ctx context.Context, event *domain.Event, actorID string) error {
	return a.requireMember(ctx, event.ClubID, actorID)
}

// CanJoin is CanView; capacity is checked later, under the event lock.
func (a *Admission) CanJoin(ctx context.Context, event *domain.Event, actorID string) error {
	return a.CanView(ctx, event, actorID)
}

// CanEdit allows only the event's creator, whatever their club role.
func (a *Admission) CanEdit(event *domain.Event, actorID string) error {
	if event.OwnerID != actorID {
		return domain.ErrNotEventOwner
	}
	return nil
}

func (a *Admission) requireMember(ctx context.Context, clubID, actorID string) error {
	ok, err := a.directory.IsMember(ctx, clubID, actorID)
	if err != nil {
		return fmt.Errorf("lookup membership: %w", err)
	}
	if !ok {
		return domain.ErrNotClubMember
	}
	return nil
}
