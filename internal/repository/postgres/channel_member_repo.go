package postgres

import (
	"context"
	"database/sql"
	"time"

	"clubevents/internal/domain"
)

type channelMemberRepository struct {
	DB *sql.DB
}

func NewChannelMemberRepository(db *sql.DB) domain.ChannelMemberRepository {
	return &channelMemberRepository{
		DB: db,
	}
}

func (r *channelMemberRepository) Add(ctx context.Context, channelID, userID string, at time.Time) error {
	query := `
		INSERT INTO chat_channel_members (channel_id, user_id, joined_at)
		VALUES ($1, $2, $3)
	`
	_, err := r.DB.ExecContext(ctx, query, channelID, userID, at)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAlreadyMember
		}
		return err
	}
	return nil
}
