package service

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/msomdec/event-registry/internal/domain"
)

// EventParams carries the caller-supplied fields of an event write.
type EventParams struct {
	Title       string
	Date        time.Time
	Location    string
	Quota       int
	Description string
}

func (p EventParams) validate() error {
	if utf8.RuneCountInString(p.Title) < 3 {
		return fmt.Errorf("%w: title must be at least 3 characters", domain.ErrInvalidInput)
	}
	if p.Date.IsZero() {
		return fmt.Errorf("%w: date is required", domain.ErrInvalidInput)
	}
	if p.Quota < 1 {
		return fmt.Errorf("%w: quota must be a positive integer", domain.ErrInvalidInput)
	}
	return nil
}

// EventService handles event management. Role gating happens before this
// layer (admin-only routes); validation happens here, after the cheaper
// and more security-sensitive checks.
type EventService struct {
	events domain.EventRepository
}

// NewEventService creates a new EventService.
func NewEventService(events domain.EventRepository) *EventService {
	return &EventService{events: events}
}

func (s *EventService) Create(ctx context.Context, params EventParams) (*domain.Event, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	event := &domain.Event{
		Title:       params.Title,
		Date:        params.Date,
		Location:    params.Location,
		Quota:       params.Quota,
		Description: params.Description,
	}
	if err := s.events.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

func (s *EventService) Get(ctx context.Context, id int64) (*domain.Event, error) {
	return s.events.GetByID(ctx, id)
}

func (s *EventService) List(ctx context.Context) ([]domain.Event, error) {
	return s.events.List(ctx)
}

func (s *EventService) Update(ctx context.Context, id int64, params EventParams) error {
	if err := params.validate(); err != nil {
		return err
	}

	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return err
	}

	event.Title = params.Title
	event.Date = params.Date
	event.Location = params.Location
	event.Quota = params.Quota
	event.Description = params.Description
	return s.events.Update(ctx, event)
}

// Delete removes the event. Registrations referencing it are left in
// place; listings render them with a missing event summary.
func (s *EventService) Delete(ctx context.Context, id int64) error {
	return s.events.Delete(ctx, id)
}
