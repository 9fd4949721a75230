package domain

import (
	"context"
	"time"
)

// Registration links one participant to one event. At most one live row
// exists per (EventID, ParticipantID) pair; the storage layer enforces
// this with a unique index so concurrent inserts resolve to exactly one
// winner. CheckedInAt is non-nil iff CheckedIn is true.
type Registration struct {
	ID            int64
	EventID       int64
	ParticipantID int64
	CheckedIn     bool
	RegisteredAt  time.Time
	CheckedInAt   *time.Time
}

// EventSummary is the slice of event data attached to listed
// registrations.
type EventSummary struct {
	ID       int64
	Title    string
	Date     time.Time
	Location string
}

// ParticipantSummary is the slice of user data attached to listed
// registrations. Phone is only filled on the per-event roster.
type ParticipantSummary struct {
	ID    int64
	Name  string
	Email string
	Phone string
}

// RegistrationDetail is a registration merged with summaries of the rows
// it references. Either summary may be nil when the referenced row no
// longer exists (event deletion leaves registrations behind) or was not
// requested for the caller's role.
type RegistrationDetail struct {
	Registration
	Event       *EventSummary
	Participant *ParticipantSummary
}

// RegistrationRepository defines persistence operations for the ledger.
// All listings are ordered by registration time, newest first.
type RegistrationRepository interface {
	// Create inserts the registration. The insert itself is the
	// duplicate check: a unique-index violation on
	// (event_id, participant_id) is returned as ErrAlreadyRegistered.
	Create(ctx context.Context, reg *Registration) error
	GetByID(ctx context.Context, id int64) (*Registration, error)
	// MarkCheckedIn records the check-in time for a not-yet-checked-in
	// registration. It reports whether a row transitioned; an
	// already-checked-in row is left untouched.
	MarkCheckedIn(ctx context.Context, id int64, at time.Time) (bool, error)
	// Delete removes the row, returning ErrNotFound when it is already
	// gone.
	Delete(ctx context.Context, id int64) error
	ListAll(ctx context.Context) ([]Registration, error)
	ListByParticipant(ctx context.Context, participantID int64) ([]Registration, error)
	ListByEvent(ctx context.Context, eventID int64) ([]Registration, error)
}
