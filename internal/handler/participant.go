package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/msomdec/event-registry/internal/domain"
	"github.com/msomdec/event-registry/internal/service"
)

// ParticipantHandler handles admin-side account management.
type ParticipantHandler struct {
	auth *service.AuthService
}

// NewParticipantHandler creates a new ParticipantHandler.
func NewParticipantHandler(auth *service.AuthService) *ParticipantHandler {
	return &ParticipantHandler{auth: auth}
}

// HandleList returns every account. Admin only.
// GET /participants
func (h *ParticipantHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	caller, ok := CallerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized.")
		return
	}

	users, err := h.auth.ListUsers(r.Context(), caller)
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			writeError(w, http.StatusForbidden, "Admins only.")
			return
		}
		slog.Error("list participants", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	dtos := make([]UserDTO, 0, len(users))
	for i := range users {
		dtos = append(dtos, toUserDTO(&users[i]))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// HandleUpdate updates an account's profile, role, or password. Admin
// only. Absent fields are left unchanged.
// PUT /participants/{id}
// Request: {"name":"...","phone":"...","role":"admin","password":"..."}
func (h *ParticipantHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	caller, ok := CallerFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized.")
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req struct {
		Name     *string `json:"name"`
		Phone    *string `json:"phone"`
		Role     *string `json:"role"`
		Password *string `json:"password"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	var role *domain.Role
	if req.Role != nil {
		parsed, err := domain.ParseRole(*req.Role)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid role.")
			return
		}
		role = &parsed
	}

	if err := h.auth.UpdateUser(r.Context(), caller, id, req.Name, req.Phone, role, req.Password); err != nil {
		switch {
		case errors.Is(err, domain.ErrForbidden):
			writeError(w, http.StatusForbidden, "Admins only.")
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "Participant not found.")
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			slog.Error("update participant", "error", err)
			writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
