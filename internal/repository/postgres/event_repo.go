package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"clubevents/internal/domain"
)

const eventColumns = `id, club_id, owner_id, channel_id, title, description, kind, capacity, starts_at, ends_at, created_at, updated_at`

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	e := &domain.Event{}
	var kind string
	var capNull sql.NullInt64
	var descNull sql.NullString
	if err := row.Scan(
		&e.ID, &e.ClubID, &e.OwnerID, &e.ChannelID, &e.Title, &descNull, &kind, &capNull,
		&e.StartsAt, &e.EndsAt, &e.CreatedAt, &e.UpdatedAt,
	); err != nil {
		return nil, err
	}
	e.Kind = domain.EventKind(kind)
	e.Description = descNull.String
	if capNull.Valid {
		c := int(capNull.Int64)
		e.Capacity = &c
	}
	return e, nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	eventID := uuid.NewString()
	channelID := uuid.NewString()
	var capacity any
	if e.Capacity != nil {
		capacity = *e.Capacity
	}
	return withTx(ctx, r.DB, func(ctx context.Context) error {
		q := conn(ctx, r.DB)
		_, err := q.ExecContext(ctx, `
			INSERT INTO events (id, club_id, owner_id, channel_id, title, description, kind, capacity, starts_at, ends_at, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		`, eventID, e.ClubID, e.OwnerID, channelID, e.Title, e.Description, string(e.Kind), capacity,
			e.StartsAt, e.EndsAt, e.CreatedAt, e.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert event: %w", err)
		}
		_, err = q.ExecContext(ctx, `
			INSERT INTO chat_channels (id, club_id, event_id, kind, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`, channelID, e.ClubID, eventID, string(domain.ChannelKindEvent), e.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert event channel: %w", err)
		}
		e.ID = eventID
		e.ChannelID = channelID
		return nil
	})
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	e, err := scanEvent(conn(ctx, r.DB).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isInvalidUUID(err) {
			return nil, domain.ErrEventNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) ListByClubID(ctx context.Context, clubID string, params domain.PaginationParams) ([]*domain.Event, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM events WHERE club_id = $1`, clubID).Scan(&total); err != nil {
		return nil, 0, err
	}
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE club_id = $1
		ORDER BY starts_at DESC, id
		LIMIT $2 OFFSET $3
	`
	rows, err := r.DB.QueryContext(ctx, query, clubID, params.Limit(), params.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, 0, err
		}
		events = append(events, e)
	}
	return events, total, rows.Err()
}

func (r *eventRepository) Update(ctx context.Context, eventID string, upd domain.EventUpdate) (*domain.Event, error) {
	setClauses := []string{"updated_at = NOW()"}
	args := []any{}
	n := 1
	if upd.Title != nil {
		setClauses = append(setClauses, fmt.Sprintf("title = $%d", n))
		args = append(args, *upd.Title)
		n++
	}
	if upd.Description != nil {
		setClauses = append(setClauses, fmt.Sprintf("description = $%d", n))
		args = append(args, *upd.Description)
		n++
	}
	if upd.StartsAt != nil {
		setClauses = append(setClauses, fmt.Sprintf("starts_at = $%d", n))
		args = append(args, *upd.StartsAt)
		n++
	}
	if upd.EndsAt != nil {
		setClauses = append(setClauses, fmt.Sprintf("ends_at = $%d", n))
		args = append(args, *upd.EndsAt)
		n++
	}
	if n == 1 {
		return r.GetByID(ctx, eventID)
	}
	args = append(args, eventID)
	query := fmt.Sprintf(`
		UPDATE events SET %s
		WHERE id = $%d
		RETURNING %s
	`, strings.Join(setClauses, ", "), n, eventColumns)
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}
