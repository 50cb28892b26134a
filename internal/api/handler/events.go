package handler

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"roomd/internal/api/middleware"
	"roomd/internal/dispatch"
	"roomd/internal/model"
	"roomd/internal/services/room"
	"roomd/internal/sse"
)

// EventsHandler serves the per-room event stream
type EventsHandler struct {
	rooms      *room.Controller
	hubs       *sse.HubManager
	dispatcher *dispatch.Dispatcher
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(rooms *room.Controller, hubs *sse.HubManager, dispatcher *dispatch.Dispatcher) *EventsHandler {
	return &EventsHandler{
		rooms:      rooms,
		hubs:       hubs,
		dispatcher: dispatcher,
	}
}

// Stream handles GET /api/v1/rooms/{code}/events. The stream stays open
// until the client disconnects; the disconnect counts as leaving the room.
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	ident := middleware.MustGetIdentity(r.Context())
	code := model.RoomCode(mux.Vars(r)["code"])

	current, err := h.rooms.Get(r.Context(), code)
	if err != nil {
		WriteError(w, err)
		return
	}
	if current.Member(ident.ID) == nil {
		WriteError(w, model.ErrNotAMember)
		return
	}

	hub := h.hubs.GetOrCreateHub(code)
	client := sse.NewClient(hub, ident.ID)
	connID := h.dispatcher.Connect(ident.ID, code)

	// Serve blocks until the connection drops. The request context is dead
	// by then, so the implicit leave runs on a fresh one.
	client.Serve(w, r)
	h.dispatcher.Disconnect(context.Background(), connID)
}
