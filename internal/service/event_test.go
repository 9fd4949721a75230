package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/msomdec/event-registry/internal/domain"
	"github.com/msomdec/event-registry/internal/service"
)

func newTestEventService(t *testing.T) *service.EventService {
	t.Helper()
	db := newTestDB(t)
	return service.NewEventService(db.Events())
}

func TestEventService_Create(t *testing.T) {
	svc := newTestEventService(t)
	ctx := context.Background()

	event, err := svc.Create(ctx, service.EventParams{
		Title:    "GopherCon Taipei",
		Date:     time.Date(2026, 11, 20, 9, 0, 0, 0, time.UTC),
		Location: "TICC",
		Quota:    300,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if event.ID == 0 {
		t.Fatal("expected event ID to be set")
	}
}

func TestEventService_Create_Validation(t *testing.T) {
	svc := newTestEventService(t)
	ctx := context.Background()
	date := time.Date(2026, 11, 20, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		params service.EventParams
	}{
		{"short title", service.EventParams{Title: "ab", Date: date, Quota: 10}},
		{"zero date", service.EventParams{Title: "Valid Title", Quota: 10}},
		{"zero quota", service.EventParams{Title: "Valid Title", Date: date, Quota: 0}},
		{"negative quota", service.EventParams{Title: "Valid Title", Date: date, Quota: -5}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(ctx, tc.params); !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestEventService_Update(t *testing.T) {
	svc := newTestEventService(t)
	ctx := context.Background()

	event, err := svc.Create(ctx, service.EventParams{
		Title: "Original Title",
		Date:  time.Date(2026, 11, 20, 9, 0, 0, 0, time.UTC),
		Quota: 10,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	err = svc.Update(ctx, event.ID, service.EventParams{
		Title: "Updated Title",
		Date:  time.Date(2026, 11, 21, 9, 0, 0, 0, time.UTC),
		Quota: 20,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	found, err := svc.Get(ctx, event.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if found.Title != "Updated Title" || found.Quota != 20 {
		t.Fatalf("unexpected event after update: %+v", found)
	}
}

func TestEventService_Update_NotFound(t *testing.T) {
	svc := newTestEventService(t)

	err := svc.Update(context.Background(), 9999, service.EventParams{
		Title: "Ghost Event",
		Date:  time.Now().UTC(),
		Quota: 1,
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
