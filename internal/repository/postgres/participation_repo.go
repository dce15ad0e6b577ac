package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"clubevents/internal/domain"
)

type participationRepository struct {
	DB *sql.DB
}

func NewParticipationRepository(db *sql.DB) domain.ParticipationRepository {
	return &participationRepository{
		DB: db,
	}
}

func (r *participationRepository) WithTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return withTx(ctx, r.DB, fn)
}

// LockEvent locks the event row FOR UPDATE. Concurrent joiners of the same
// event block here until the holder commits or rolls back. The tx runs at
// READ COMMITTED, so CountParticipating issued after the lock sees every join
// committed by earlier holders; under REPEATABLE READ it would read the
// snapshot from before the wait.
func (r *participationRepository) LockEvent(ctx context.Context, eventID string) error {
	if txFromContext(ctx) == nil {
		return fmt.Errorf("lock event %s: no transaction in context", eventID)
	}
	var id string
	err := conn(ctx, r.DB).QueryRowContext(ctx, `SELECT id FROM events WHERE id = $1 FOR UPDATE`, eventID).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrEventNotFound
		}
		return err
	}
	return nil
}

func (r *participationRepository) Get(ctx context.Context, eventID, userID string) (*domain.Participation, error) {
	query := `
		SELECT event_id, user_id, participated, confirmed, joined_at, updated_at
		FROM event_participations
		WHERE event_id = $1 AND user_id = $2
	`
	p := &domain.Participation{}
	err := conn(ctx, r.DB).QueryRowContext(ctx, query, eventID, userID).
		Scan(&p.EventID, &p.UserID, &p.Participated, &p.Confirmed, &p.JoinedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotParticipant
		}
		return nil, err
	}
	return p, nil
}

func (r *participationRepository) Create(ctx context.Context, p *domain.Participation) error {
	query := `
		INSERT INTO event_participations (event_id, user_id, participated, confirmed, joined_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := conn(ctx, r.DB).ExecContext(ctx, query, p.EventID, p.UserID, p.Participated, p.Confirmed, p.JoinedAt, p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: participation already exists", domain.ErrConflict)
		}
		return err
	}
	return nil
}

func (r *participationRepository) SetParticipated(ctx context.Context, eventID, userID string, participated bool, at time.Time) (*domain.Participation, error) {
	query := `
		UPDATE event_participations
		SET participated = $3, updated_at = $4
		WHERE event_id = $1 AND user_id = $2
		RETURNING event_id, user_id, participated, confirmed, joined_at, updated_at
	`
	p := &domain.Participation{}
	err := conn(ctx, r.DB).QueryRowContext(ctx, query, eventID, userID, participated, at).
		Scan(&p.EventID, &p.UserID, &p.Participated, &p.Confirmed, &p.JoinedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotParticipant
		}
		return nil, err
	}
	return p, nil
}

func (r *participationRepository) CountParticipating(ctx context.Context, eventID string) (int, error) {
	var n int
	err := conn(ctx, r.DB).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM event_participations WHERE event_id = $1 AND participated = TRUE`,
		eventID,
	).Scan(&n)
	return n, err
}

func (r *participationRepository) ListByEventID(ctx context.Context, eventID string, params domain.PaginationParams) ([]*domain.Participation, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM event_participations WHERE event_id = $1`, eventID).Scan(&total); err != nil {
		return nil, 0, err
	}
	query := `
		SELECT event_id, user_id, participated, confirmed, joined_at, updated_at
		FROM event_participations
		WHERE event_id = $1
		ORDER BY joined_at, user_id
		LIMIT $2 OFFSET $3
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID, params.Limit(), params.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	list := make([]*domain.Participation, 0)
	for rows.Next() {
		p := &domain.Participation{}
		if err := rows.Scan(&p.EventID, &p.UserID, &p.Participated, &p.Confirmed, &p.JoinedAt, &p.UpdatedAt); err != nil {
			return nil, 0, err
		}
		list = append(list, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}
