package handler

import (
	"time"

	"github.com/msomdec/event-registry/internal/domain"
)

// UserDTO is the JSON representation of a user. The password hash has no
// field here and can never be serialized.
type UserDTO struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func toUserDTO(u *domain.User) UserDTO {
	return UserDTO{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      u.Role.String(),
		CreatedAt: u.CreatedAt,
	}
}

// EventDTO is the JSON representation of an event.
type EventDTO struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Date        time.Time `json:"date"`
	Location    string    `json:"location"`
	Quota       int       `json:"quota"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toEventDTO(e *domain.Event) EventDTO {
	return EventDTO{
		ID:          e.ID,
		Title:       e.Title,
		Date:        e.Date,
		Location:    e.Location,
		Quota:       e.Quota,
		Description: e.Description,
		CreatedAt:   e.CreatedAt,
	}
}

// EventSummaryDTO is the event slice attached to listed registrations.
type EventSummaryDTO struct {
	ID       int64     `json:"id"`
	Title    string    `json:"title"`
	Date     time.Time `json:"date"`
	Location string    `json:"location,omitempty"`
}

// ParticipantSummaryDTO is the user slice attached to listed
// registrations.
type ParticipantSummaryDTO struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// RegistrationDTO is the JSON representation of a registration, with
// optional merged summaries.
type RegistrationDTO struct {
	ID            int64                  `json:"id"`
	EventID       int64                  `json:"eventId"`
	ParticipantID int64                  `json:"participantId"`
	CheckedIn     bool                   `json:"checkedIn"`
	RegisteredAt  time.Time              `json:"registeredAt"`
	CheckedInAt   *time.Time             `json:"checkedInAt"`
	Event         *EventSummaryDTO       `json:"event,omitempty"`
	Participant   *ParticipantSummaryDTO `json:"participant,omitempty"`
}

func toRegistrationDTO(r *domain.Registration) RegistrationDTO {
	return RegistrationDTO{
		ID:            r.ID,
		EventID:       r.EventID,
		ParticipantID: r.ParticipantID,
		CheckedIn:     r.CheckedIn,
		RegisteredAt:  r.RegisteredAt,
		CheckedInAt:   r.CheckedInAt,
	}
}

func toRegistrationDetailDTO(d domain.RegistrationDetail) RegistrationDTO {
	dto := toRegistrationDTO(&d.Registration)
	if d.Event != nil {
		dto.Event = &EventSummaryDTO{
			ID:       d.Event.ID,
			Title:    d.Event.Title,
			Date:     d.Event.Date,
			Location: d.Event.Location,
		}
	}
	if d.Participant != nil {
		dto.Participant = &ParticipantSummaryDTO{
			ID:    d.Participant.ID,
			Name:  d.Participant.Name,
			Email: d.Participant.Email,
			Phone: d.Participant.Phone,
		}
	}
	return dto
}
