package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/msomdec/event-registry/internal/domain"
	"github.com/msomdec/event-registry/internal/service"
)

// RegistrationHandler handles the registration ledger surface.
type RegistrationHandler struct {
	regs *service.RegistrationService
}

// NewRegistrationHandler creates a new RegistrationHandler.
func NewRegistrationHandler(regs *service.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{regs: regs}
}

// HandleCreate registers a participant for an event. Regular callers are
// registered themselves regardless of the submitted participantId.
// POST /registrations
// Request:  {"eventId": 1, "participantId": 2}
// Response: {"registration": {...}}
func (h *RegistrationHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	caller, ok := CallerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized.")
		return
	}

	var req struct {
		EventID       int64 `json:"eventId"`
		ParticipantID int64 `json:"participantId"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if req.EventID < 1 {
		writeError(w, http.StatusBadRequest, "Invalid eventId.")
		return
	}
	if caller.IsAdmin() && req.ParticipantID < 1 {
		writeError(w, http.StatusBadRequest, "Invalid participantId.")
		return
	}

	reg, err := h.regs.Register(r.Context(), caller, req.EventID, req.ParticipantID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, domain.ErrAlreadyRegistered):
			writeError(w, http.StatusConflict, "Already registered.")
		default:
			slog.Error("create registration", "error", err)
			writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"registration": toRegistrationDTO(reg)})
}

// HandleList returns registrations scoped by role: admins get every row
// with event and participant summaries, regular callers only their own
// rows with event summaries.
// GET /registrations
func (h *RegistrationHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	caller, ok := CallerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized.")
		return
	}

	details, err := h.regs.ListForCaller(r.Context(), caller)
	if err != nil {
		slog.Error("list registrations", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	dtos := make([]RegistrationDTO, 0, len(details))
	for _, d := range details {
		dtos = append(dtos, toRegistrationDetailDTO(d))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// HandleCheckIn marks a registration as attended. Repeating the call is a
// successful no-op.
// PATCH /registrations/{id}/checkin
func (h *RegistrationHandler) HandleCheckIn(w http.ResponseWriter, r *http.Request) {
	caller, ok := CallerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized.")
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.regs.CheckIn(r.Context(), caller, id); err != nil {
		h.writeMutationError(w, "check in registration", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// HandleCancel removes a registration for good. Cancelling the same id
// again returns 404.
// DELETE /registrations/{id}
func (h *RegistrationHandler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	caller, ok := CallerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized.")
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.regs.Cancel(r.Context(), caller, id); err != nil {
		h.writeMutationError(w, "cancel registration", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (h *RegistrationHandler) writeMutationError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "Registration not found.")
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "Forbidden.")
	default:
		slog.Error(op, "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
	}
}
