package handler

import (
	"net/http"

	"github.com/msomdec/event-registry/internal/service"
)

// RegisterRoutes sets up all HTTP routes on the given mux.
func RegisterRoutes(
	mux *http.ServeMux,
	auth *service.AuthService,
	events *service.EventService,
	regs *service.RegistrationService,
	limiter *service.LoginLimiter,
) {
	authH := NewAuthHandler(auth, limiter)
	eventH := NewEventHandler(events, regs)
	regH := NewRegistrationHandler(regs)
	partH := NewParticipantHandler(auth)

	authed := func(h http.HandlerFunc) http.Handler {
		return RequireAuth(auth, h)
	}
	admin := func(h http.HandlerFunc) http.Handler {
		return RequireAuth(auth, RequireAdmin(h))
	}

	mux.HandleFunc("GET /healthz", HandleHealthz)

	mux.HandleFunc("POST /auth/register", authH.HandleRegister)
	mux.HandleFunc("POST /auth/login", authH.HandleLogin)

	mux.HandleFunc("GET /events", eventH.HandleList)
	mux.HandleFunc("GET /events/{id}", eventH.HandleGet)
	mux.Handle("POST /events", admin(eventH.HandleCreate))
	mux.Handle("PUT /events/{id}", admin(eventH.HandleUpdate))
	mux.Handle("DELETE /events/{id}", admin(eventH.HandleDelete))
	mux.Handle("GET /events/{id}/registrations", authed(eventH.HandleRoster))

	mux.Handle("POST /registrations", authed(regH.HandleCreate))
	mux.Handle("GET /registrations", authed(regH.HandleList))
	mux.Handle("PATCH /registrations/{id}/checkin", authed(regH.HandleCheckIn))
	mux.Handle("DELETE /registrations/{id}", authed(regH.HandleCancel))

	mux.Handle("GET /participants", admin(partH.HandleList))
	mux.Handle("PUT /participants/{id}", admin(partH.HandleUpdate))
}
