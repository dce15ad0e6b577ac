package domain

import "context"

// ClubRole is a member's role inside a club.
type ClubRole string

const (
	ClubRoleMember  ClubRole = "MEMBER"
	ClubRoleManager ClubRole = "MANAGER"
	ClubRoleLeader  ClubRole = "LEADER"
)

// MembershipDirectory resolves club membership. It is read-only.
type MembershipDirectory interface {
	IsMember(ctx context.Context, clubID, userID string) (bool, error)
	// RoleOf returns the member's role; ok is false when the user is not a member.
	RoleOf(ctx context.Context, clubID, userID string) (role ClubRole, ok bool, err error)
	// OwnerOf returns the designated owner of the club, or ErrNotFound.
	OwnerOf(ctx context.Context, clubID string) (string, error)
}

// TokenVerifier verifies a token and returns the authenticated user ID.
type TokenVerifier interface {
	Verify(token string) (userID string, err error)
}
