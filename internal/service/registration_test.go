package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/msomdec/event-registry/internal/domain"
	"github.com/msomdec/event-registry/internal/repository/sqlite"
	"github.com/msomdec/event-registry/internal/service"
)

type ledgerFixture struct {
	svc     *service.RegistrationService
	db      *sqlite.DB
	eventID int64
	admin   domain.Caller
	alice   domain.Caller
	bob     domain.Caller
}

func newLedgerFixture(t *testing.T) *ledgerFixture {
	t.Helper()
	db := newTestDB(t)
	ctx := context.Background()

	event := &domain.Event{Title: "Launch Party", Date: time.Now().UTC().Add(48 * time.Hour), Quota: 2}
	if err := db.Events().Create(ctx, event); err != nil {
		t.Fatalf("Create event: %v", err)
	}

	mkUser := func(name, email string, role domain.Role) domain.Caller {
		u := &domain.User{Name: name, Email: email, Phone: "0900-000-000", PasswordHash: "h", Role: role}
		if err := db.Users().Create(ctx, u); err != nil {
			t.Fatalf("Create user %s: %v", email, err)
		}
		return domain.Caller{UserID: u.ID, Email: u.Email, Role: u.Role}
	}

	return &ledgerFixture{
		svc:     service.NewRegistrationService(db.Registrations(), db.Events(), db.Users()),
		db:      db,
		eventID: event.ID,
		admin:   mkUser("Admin", "admin@example.com", domain.RoleAdmin),
		alice:   mkUser("Alice", "alice@example.com", domain.RoleRegular),
		bob:     mkUser("Bob", "bob@example.com", domain.RoleRegular),
	}
}

func TestRegistrationService_Register_RegularRegistersSelfOnly(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	// Alice submits Bob's id; she gets registered herself instead.
	reg, err := f.svc.Register(ctx, f.alice, f.eventID, f.bob.UserID)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if reg.ParticipantID != f.alice.UserID {
		t.Fatalf("expected participant %d (caller), got %d", f.alice.UserID, reg.ParticipantID)
	}
}

func TestRegistrationService_Register_AdminRegistersAnyone(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	reg, err := f.svc.Register(ctx, f.admin, f.eventID, f.bob.UserID)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if reg.ParticipantID != f.bob.UserID {
		t.Fatalf("expected participant %d, got %d", f.bob.UserID, reg.ParticipantID)
	}
}

func TestRegistrationService_Register_UnknownIDs(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Register(ctx, f.alice, 9999, f.alice.UserID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown event: expected ErrNotFound, got %v", err)
	}
	if _, err := f.svc.Register(ctx, f.admin, f.eventID, 9999); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("unknown participant: expected ErrNotFound, got %v", err)
	}
}

// Quota is recorded but deliberately not enforced: more registrations
// than quota succeed.
func TestRegistrationService_Register_QuotaNotEnforced(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	// The fixture event's quota is 2; register all three users.
	for _, caller := range []domain.Caller{f.admin, f.alice, f.bob} {
		if _, err := f.svc.Register(ctx, caller, f.eventID, caller.UserID); err != nil {
			t.Fatalf("Register %s: %v", caller.Email, err)
		}
	}
}

func TestRegistrationService_CheckIn_Idempotent(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	reg, err := f.svc.Register(ctx, f.alice, f.eventID, 0)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if err := f.svc.CheckIn(ctx, f.alice, reg.ID); err != nil {
		t.Fatalf("CheckIn: %v", err)
	}

	first, err := f.db.Registrations().GetByID(ctx, reg.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !first.CheckedIn || first.CheckedInAt == nil {
		t.Fatalf("expected checked-in state, got %+v", first)
	}

	// The repeat call succeeds and leaves the timestamp alone.
	if err := f.svc.CheckIn(ctx, f.alice, reg.ID); err != nil {
		t.Fatalf("second CheckIn: %v", err)
	}
	second, err := f.db.Registrations().GetByID(ctx, reg.ID)
	if err != nil {
		t.Fatalf("GetByID after second check-in: %v", err)
	}
	if !second.CheckedInAt.Equal(*first.CheckedInAt) {
		t.Fatalf("expected CheckedInAt unchanged, got %v then %v", first.CheckedInAt, second.CheckedInAt)
	}
}

func TestRegistrationService_CheckIn_OwnershipGate(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	reg, err := f.svc.Register(ctx, f.alice, f.eventID, 0)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if err := f.svc.CheckIn(ctx, f.bob, reg.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for other user, got %v", err)
	}
	// Admin may check in anyone.
	if err := f.svc.CheckIn(ctx, f.admin, reg.ID); err != nil {
		t.Fatalf("admin CheckIn: %v", err)
	}
}

func TestRegistrationService_Cancel_Terminal(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	reg, err := f.svc.Register(ctx, f.alice, f.eventID, 0)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if err := f.svc.Cancel(ctx, f.alice, reg.ID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if err := f.svc.Cancel(ctx, f.alice, reg.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second cancel, got %v", err)
	}

	// Cancelling never deletes the participant account.
	if _, err := f.db.Users().GetByID(ctx, f.alice.UserID); err != nil {
		t.Fatalf("expected user to survive cancellation: %v", err)
	}
}

func TestRegistrationService_Cancel_OwnershipGate(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	reg, err := f.svc.Register(ctx, f.alice, f.eventID, 0)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if err := f.svc.Cancel(ctx, f.bob, reg.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

// The full registration lifecycle: register, duplicate conflict, check
// in twice, cancel, register again as a fresh row.
func TestRegistrationService_Lifecycle(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	r1, err := f.svc.Register(ctx, f.alice, f.eventID, 0)
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if _, err := f.svc.Register(ctx, f.alice, f.eventID, 0); !errors.Is(err, domain.ErrAlreadyRegistered) {
		t.Fatalf("expected ErrAlreadyRegistered, got %v", err)
	}

	if err := f.svc.CheckIn(ctx, f.alice, r1.ID); err != nil {
		t.Fatalf("check in: %v", err)
	}
	if err := f.svc.CheckIn(ctx, f.alice, r1.ID); err != nil {
		t.Fatalf("repeat check in: %v", err)
	}

	if err := f.svc.Cancel(ctx, f.alice, r1.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	r2, err := f.svc.Register(ctx, f.alice, f.eventID, 0)
	if err != nil {
		t.Fatalf("register after cancel: %v", err)
	}
	if r2.ID == r1.ID {
		t.Fatalf("expected a fresh registration id, got the old one (%d)", r1.ID)
	}
	if r2.CheckedIn {
		t.Fatal("fresh registration must not inherit check-in state")
	}
}

func TestRegistrationService_ListForCaller_Scoping(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Register(ctx, f.alice, f.eventID, 0); err != nil {
		t.Fatalf("register alice: %v", err)
	}
	if _, err := f.svc.Register(ctx, f.bob, f.eventID, 0); err != nil {
		t.Fatalf("register bob: %v", err)
	}

	// Regular callers only ever see their own rows.
	own, err := f.svc.ListForCaller(ctx, f.alice)
	if err != nil {
		t.Fatalf("ListForCaller alice: %v", err)
	}
	if len(own) != 1 {
		t.Fatalf("expected 1 registration for alice, got %d", len(own))
	}
	for _, d := range own {
		if d.ParticipantID != f.alice.UserID {
			t.Fatalf("alice received a foreign row (participant %d)", d.ParticipantID)
		}
		if d.Event == nil || d.Event.Title != "Launch Party" {
			t.Fatalf("expected merged event summary, got %+v", d.Event)
		}
		if d.Participant != nil {
			t.Fatal("regular caller listing must not include participant summaries")
		}
	}

	// Admin sees everything with both summaries.
	all, err := f.svc.ListForCaller(ctx, f.admin)
	if err != nil {
		t.Fatalf("ListForCaller admin: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 registrations for admin, got %d", len(all))
	}
	for _, d := range all {
		if d.Participant == nil || d.Participant.Email == "" {
			t.Fatalf("expected participant summary, got %+v", d.Participant)
		}
		if d.Participant.Phone != "" {
			t.Fatal("phone belongs only on the per-event roster")
		}
	}
}

func TestRegistrationService_ListForEvent(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Register(ctx, f.alice, f.eventID, 0); err != nil {
		t.Fatalf("register alice: %v", err)
	}

	if _, err := f.svc.ListForEvent(ctx, f.alice, f.eventID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for regular caller, got %v", err)
	}

	roster, err := f.svc.ListForEvent(ctx, f.admin, f.eventID)
	if err != nil {
		t.Fatalf("ListForEvent: %v", err)
	}
	if len(roster) != 1 {
		t.Fatalf("expected 1 roster entry, got %d", len(roster))
	}
	if roster[0].Participant == nil || roster[0].Participant.Phone != "0900-000-000" {
		t.Fatalf("expected participant phone on roster, got %+v", roster[0].Participant)
	}
}

// Registrations whose event has been deleted still list, with a nil
// event summary.
func TestRegistrationService_List_ToleratesOrphanedEvent(t *testing.T) {
	f := newLedgerFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Register(ctx, f.alice, f.eventID, 0); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := f.db.Events().Delete(ctx, f.eventID); err != nil {
		t.Fatalf("delete event: %v", err)
	}

	details, err := f.svc.ListForCaller(ctx, f.alice)
	if err != nil {
		t.Fatalf("ListForCaller: %v", err)
	}
	if len(details) != 1 {
		t.Fatalf("expected the orphaned registration to list, got %d rows", len(details))
	}
	if details[0].Event != nil {
		t.Fatalf("expected nil event summary for orphan, got %+v", details[0].Event)
	}
}
