package domain

import (
	"context"
	"time"
)

// Event is something participants can register for. Quota is recorded and
// validated positive at write time, but registrations are not counted
// against it.
type Event struct {
	ID          int64
	Title       string
	Date        time.Time
	Location    string
	Quota       int
	Description string
	CreatedAt   time.Time
}

// EventRepository defines persistence operations for events.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id int64) (*Event, error)
	List(ctx context.Context) ([]Event, error)
	Update(ctx context.Context, event *Event) error
	Delete(ctx context.Context, id int64) error
}
