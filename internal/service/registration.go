package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/msomdec/event-registry/internal/domain"
)

// RegistrationService is the event/registration ledger. Every mutation is
// ownership-gated: regular callers act only on their own rows, admins on
// any.
type RegistrationService struct {
	regs   domain.RegistrationRepository
	events domain.EventRepository
	users  domain.UserRepository
}

// NewRegistrationService creates a new RegistrationService.
func NewRegistrationService(regs domain.RegistrationRepository, events domain.EventRepository, users domain.UserRepository) *RegistrationService {
	return &RegistrationService{regs: regs, events: events, users: users}
}

// Register creates a registration for participantID on eventID. A regular
// caller registers themselves no matter which participant id was
// submitted; only admins may register someone else. Both ids must
// reference existing rows. The duplicate-pair check is the insert itself:
// the storage unique index decides races, this method never pre-reads.
//
// Event quota is recorded but not checked against the registration count,
// matching the observed upstream behavior.
func (s *RegistrationService) Register(ctx context.Context, caller domain.Caller, eventID, participantID int64) (*domain.Registration, error) {
	if !caller.IsAdmin() {
		participantID = caller.UserID
	}

	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("event %d: %w", eventID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if _, err := s.users.GetByID(ctx, participantID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("participant %d: %w", participantID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get participant: %w", err)
	}

	reg := &domain.Registration{EventID: eventID, ParticipantID: participantID}
	if err := s.regs.Create(ctx, reg); err != nil {
		if errors.Is(err, domain.ErrAlreadyRegistered) {
			return nil, domain.ErrAlreadyRegistered
		}
		return nil, fmt.Errorf("create registration: %w", err)
	}
	return reg, nil
}

// CheckIn marks the registration as attended. It is idempotent: checking
// in an already-checked-in registration succeeds without touching the
// recorded check-in time.
func (s *RegistrationService) CheckIn(ctx context.Context, caller domain.Caller, id int64) error {
	reg, err := s.regs.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !caller.CanAccess(reg.ParticipantID) {
		return domain.ErrForbidden
	}
	if reg.CheckedIn {
		return nil
	}

	// A concurrent check-in may land between the read and this update;
	// the guarded UPDATE makes that a no-op, which is still success.
	if _, err := s.regs.MarkCheckedIn(ctx, id, time.Now()); err != nil {
		return err
	}
	return nil
}

// Cancel hard-deletes the registration. Cancellation is terminal: a
// second cancel of the same id reports ErrNotFound, and a later register
// call creates a brand-new row.
func (s *RegistrationService) Cancel(ctx context.Context, caller domain.Caller, id int64) error {
	reg, err := s.regs.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !caller.CanAccess(reg.ParticipantID) {
		return domain.ErrForbidden
	}
	return s.regs.Delete(ctx, id)
}

// ListForCaller returns registrations visible to the caller, newest
// first. Admins see every row with event and participant summaries;
// regular callers see only their own rows with event summaries.
func (s *RegistrationService) ListForCaller(ctx context.Context, caller domain.Caller) ([]domain.RegistrationDetail, error) {
	if caller.IsAdmin() {
		regs, err := s.regs.ListAll(ctx)
		if err != nil {
			return nil, err
		}
		return s.merge(ctx, regs, true, false)
	}

	regs, err := s.regs.ListByParticipant(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	return s.merge(ctx, regs, false, false)
}

// ListForEvent returns the roster of one event with participant contact
// detail, newest first. Admin only.
func (s *RegistrationService) ListForEvent(ctx context.Context, caller domain.Caller, eventID int64) ([]domain.RegistrationDetail, error) {
	if !caller.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	regs, err := s.regs.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	return s.merge(ctx, regs, true, true)
}

// merge attaches event and user summaries to the raw rows in a second
// fetch step. A registration whose event has been deleted keeps a nil
// event summary rather than being dropped.
func (s *RegistrationService) merge(ctx context.Context, regs []domain.Registration, withParticipant, withPhone bool) ([]domain.RegistrationDetail, error) {
	eventCache := make(map[int64]*domain.EventSummary)
	userCache := make(map[int64]*domain.ParticipantSummary)

	details := make([]domain.RegistrationDetail, 0, len(regs))
	for _, reg := range regs {
		detail := domain.RegistrationDetail{Registration: reg}

		summary, ok := eventCache[reg.EventID]
		if !ok {
			event, err := s.events.GetByID(ctx, reg.EventID)
			switch {
			case err == nil:
				summary = &domain.EventSummary{ID: event.ID, Title: event.Title, Date: event.Date, Location: event.Location}
			case errors.Is(err, domain.ErrNotFound):
				summary = nil
			default:
				return nil, fmt.Errorf("get event %d: %w", reg.EventID, err)
			}
			eventCache[reg.EventID] = summary
		}
		detail.Event = summary

		if withParticipant {
			participant, ok := userCache[reg.ParticipantID]
			if !ok {
				user, err := s.users.GetByID(ctx, reg.ParticipantID)
				switch {
				case err == nil:
					participant = &domain.ParticipantSummary{ID: user.ID, Name: user.Name, Email: user.Email}
					if withPhone {
						participant.Phone = user.Phone
					}
				case errors.Is(err, domain.ErrNotFound):
					participant = nil
				default:
					return nil, fmt.Errorf("get participant %d: %w", reg.ParticipantID, err)
				}
				userCache[reg.ParticipantID] = participant
			}
			detail.Participant = participant
		}

		details = append(details, detail)
	}
	return details, nil
}
