package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/msomdec/event-registry/internal/domain"
	"github.com/msomdec/event-registry/internal/service"
)

// EventHandler handles event management and roster requests.
type EventHandler struct {
	events *service.EventService
	regs   *service.RegistrationService
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(events *service.EventService, regs *service.RegistrationService) *EventHandler {
	return &EventHandler{events: events, regs: regs}
}

type eventRequest struct {
	Title       string `json:"title"`
	Date        string `json:"date"`
	Location    string `json:"location"`
	Quota       int    `json:"quota"`
	Description string `json:"description"`
}

func (req eventRequest) params() (service.EventParams, error) {
	date, err := parseDate(req.Date)
	if err != nil {
		return service.EventParams{}, err
	}
	return service.EventParams{
		Title:       req.Title,
		Date:        date,
		Location:    req.Location,
		Quota:       req.Quota,
		Description: req.Description,
	}, nil
}

// parseDate accepts RFC 3339 timestamps or plain dates.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// HandleCreate creates an event. Admin only.
// POST /events
func (h *EventHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	params, err := req.params()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid event date.")
		return
	}

	event, err := h.events.Create(r.Context(), params)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("create event", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"event": toEventDTO(event)})
}

// HandleList returns all events, soonest first. Public.
// GET /events
func (h *EventHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	events, err := h.events.List(r.Context())
	if err != nil {
		slog.Error("list events", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	dtos := make([]EventDTO, 0, len(events))
	for i := range events {
		dtos = append(dtos, toEventDTO(&events[i]))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// HandleGet returns one event. Public.
// GET /events/{id}
func (h *EventHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	event, err := h.events.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Event not found.")
			return
		}
		slog.Error("get event", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"event": toEventDTO(event)})
}

// HandleUpdate replaces an event's fields. Admin only.
// PUT /events/{id}
func (h *EventHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req eventRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	params, err := req.params()
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid event date.")
		return
	}

	if err := h.events.Update(r.Context(), id, params); err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "Event not found.")
		default:
			slog.Error("update event", "error", err)
			writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// HandleDelete deletes an event. Its registrations are left in place.
// Admin only.
// DELETE /events/{id}
func (h *EventHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.events.Delete(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Event not found.")
			return
		}
		slog.Error("delete event", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// HandleRoster returns the registrations of one event with participant
// contact detail. Admin only.
// GET /events/{id}/registrations
func (h *EventHandler) HandleRoster(w http.ResponseWriter, r *http.Request) {
	caller, ok := CallerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized.")
		return
	}
	eventID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	details, err := h.regs.ListForEvent(r.Context(), caller, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			writeError(w, http.StatusForbidden, "Admins only.")
			return
		}
		slog.Error("list event registrations", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	dtos := make([]RegistrationDTO, 0, len(details))
	for _, d := range details {
		dtos = append(dtos, toRegistrationDetailDTO(d))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// pathID parses the named numeric path segment, writing a 400 and
// reporting false when it is malformed.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id < 1 {
		writeError(w, http.StatusBadRequest, "Invalid "+name+".")
		return 0, false
	}
	return id, true
}
