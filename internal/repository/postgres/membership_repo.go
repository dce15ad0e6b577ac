package postgres

import (
	"context"
	"database/sql"
	"errors"

	"clubevents/internal/domain"
)

type membershipDirectory struct {
	DB *sql.DB
}

// NewMembershipDirectory reads club membership from the clubs and club_members tables.
func NewMembershipDirectory(db *sql.DB) domain.MembershipDirectory {
	return &membershipDirectory{DB: db}
}

func (r *membershipDirectory) IsMember(ctx context.Context, clubID, userID string) (bool, error) {
	_, ok, err := r.RoleOf(ctx, clubID, userID)
	return ok, err
}

func (r *membershipDirectory) RoleOf(ctx context.Context, clubID, userID string) (domain.ClubRole, bool, error) {
	query := `
		SELECT role
		FROM club_members
		WHERE club_id = $1 AND user_id = $2
	`
	var role string
	err := r.DB.QueryRowContext(ctx, query, clubID, userID).Scan(&role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isInvalidUUID(err) {
			return "", false, nil
		}
		return "", false, err
	}
	return domain.ClubRole(role), true, nil
}

func (r *membershipDirectory) OwnerOf(ctx context.Context, clubID string) (string, error) {
	var ownerID string
	err := r.DB.QueryRowContext(ctx, `SELECT owner_id FROM clubs WHERE id = $1`, clubID).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isInvalidUUID(err) {
			return "", domain.ErrNotFound
		}
		return "", err
	}
	return ownerID, nil
}
