package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/msomdec/event-registry/internal/domain"
)

// EventRepository implements domain.EventRepository using SQLite.
type EventRepository struct {
	db *sql.DB
}

func (r *EventRepository) Create(ctx context.Context, event *domain.Event) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO events (title, date, location, quota, description, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		event.Title, event.Date.UTC(), event.Location, event.Quota, event.Description, now,
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}

	event.ID = id
	event.CreatedAt = now
	return nil
}

func (r *EventRepository) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	event := &domain.Event{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, title, date, location, quota, description, created_at
		 FROM events WHERE id = ?`, id,
	).Scan(&event.ID, &event.Title, &event.Date, &event.Location, &event.Quota, &event.Description, &event.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query event by id: %w", err)
	}
	return event, nil
}

// List returns all events ordered by their scheduled date, soonest first.
func (r *EventRepository) List(ctx context.Context) ([]domain.Event, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, date, location, quota, description, created_at
		 FROM events ORDER BY date ASC`)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		var event domain.Event
		if err := rows.Scan(&event.ID, &event.Title, &event.Date, &event.Location, &event.Quota, &event.Description, &event.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

func (r *EventRepository) Update(ctx context.Context, event *domain.Event) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE events SET title = ?, date = ?, location = ?, quota = ?, description = ?
		 WHERE id = ?`,
		event.Title, event.Date.UTC(), event.Location, event.Quota, event.Description, event.ID,
	)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes the event only. Its registrations stay in place; the
// ledger tolerates orphaned event references.
func (r *EventRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
