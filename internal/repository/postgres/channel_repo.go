package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"clubevents/internal/domain"
)

const channelColumns = `id, club_id, event_id, kind, confirmed, confirmed_count, confirmed_at, created_at`

type channelRepository struct {
	DB *sql.DB
}

func NewChannelRepository(db *sql.DB) domain.ChannelRepository {
	return &channelRepository{DB: db}
}

func (r *channelRepository) WithTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return withTx(ctx, r.DB, fn)
}

func scanChannel(row rowScanner) (*domain.Channel, error) {
	c := &domain.Channel{}
	var eventID sql.NullString
	var kind string
	var confirmedAt sql.NullTime
	if err := row.Scan(&c.ID, &c.ClubID, &eventID, &kind, &c.Confirmed, &c.ConfirmedCount, &confirmedAt, &c.CreatedAt); err != nil {
		return nil, err
	}
	c.EventID = eventID.String
	c.Kind = domain.ChannelKind(kind)
	if confirmedAt.Valid {
		t := confirmedAt.Time
		c.ConfirmedAt = &t
	}
	return c, nil
}

func (r *channelRepository) get(ctx context.Context, query, id string) (*domain.Channel, error) {
	c, err := scanChannel(conn(ctx, r.DB).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isInvalidUUID(err) {
			return nil, domain.ErrChannelNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *channelRepository) GetByID(ctx context.Context, id string) (*domain.Channel, error) {
	return r.get(ctx, `SELECT `+channelColumns+` FROM chat_channels WHERE id = $1`, id)
}

// GetForUpdate locks the channel row so concurrent confirmations serialize.
func (r *channelRepository) GetForUpdate(ctx context.Context, id string) (*domain.Channel, error) {
	return r.get(ctx, `SELECT `+channelColumns+` FROM chat_channels WHERE id = $1 FOR UPDATE`, id)
}

func (r *channelRepository) MissingParticipants(ctx context.Context, eventID string, userIDs []string) ([]string, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	query := `
		SELECT u.user_id
		FROM unnest($2::text[]) AS u(user_id)
		WHERE NOT EXISTS (
			SELECT 1 FROM event_participations p
			WHERE p.event_id = $1 AND p.user_id = u.user_id
		)
		ORDER BY u.user_id
	`
	rows, err := conn(ctx, r.DB).QueryContext(ctx, query, eventID, pq.Array(userIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var missing []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		missing = append(missing, id)
	}
	return missing, rows.Err()
}

func (r *channelRepository) ResetConfirmed(ctx context.Context, eventID string) error {
	_, err := conn(ctx, r.DB).ExecContext(ctx,
		`UPDATE event_participations SET confirmed = FALSE WHERE event_id = $1 AND confirmed = TRUE`,
		eventID,
	)
	return err
}

func (r *channelRepository) MarkConfirmed(ctx context.Context, eventID string, userIDs []string) (int, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}
	result, err := conn(ctx, r.DB).ExecContext(ctx,
		`UPDATE event_participations SET confirmed = TRUE WHERE event_id = $1 AND user_id = ANY($2)`,
		eventID, pq.Array(userIDs),
	)
	if err != nil {
		return 0, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (r *channelRepository) SaveSnapshot(ctx context.Context, channelID string, count int, at time.Time) error {
	result, err := conn(ctx, r.DB).ExecContext(ctx,
		`UPDATE chat_channels SET confirmed = TRUE, confirmed_count = $2, confirmed_at = $3 WHERE id = $1`,
		channelID, count, at,
	)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrChannelNotFound
	}
	return nil
}

func (r *channelRepository) ListConfirmed(ctx context.Context, eventID string) ([]string, error) {
	rows, err := conn(ctx, r.DB).QueryContext(ctx,
		`SELECT user_id FROM event_participations WHERE event_id = $1 AND confirmed = TRUE ORDER BY user_id`,
		eventID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
