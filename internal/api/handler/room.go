package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"roomd/internal/api/middleware"
	"roomd/internal/api/request"
	"roomd/internal/api/response"
	"roomd/internal/model"
	"roomd/internal/services/room"
)

// RoomHandler handles room-related endpoints
type RoomHandler struct {
	rooms *room.Controller
}

// NewRoomHandler creates a new room handler
func NewRoomHandler(rooms *room.Controller) *RoomHandler {
	return &RoomHandler{
		rooms: rooms,
	}
}

// Create handles POST /api/v1/rooms
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	ident := middleware.MustGetIdentity(r.Context())

	var req request.CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Name == "" {
		WriteError(w, NewInvalidRequestError("name is required"))
		return
	}

	created, err := h.rooms.Create(r.Context(), req.Name, ident)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, created.Snapshot())
}

// List handles GET /api/v1/rooms
func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.rooms.ListPublic(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, summaries)
}

// Get handles GET /api/v1/rooms/{code}
func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := model.RoomCode(mux.Vars(r)["code"])

	found, err := h.rooms.Get(r.Context(), code)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, found.Snapshot())
}

// Join handles POST /api/v1/rooms/{code}/join
func (h *RoomHandler) Join(w http.ResponseWriter, r *http.Request) {
	ident := middleware.MustGetIdentity(r.Context())
	code := model.RoomCode(mux.Vars(r)["code"])

	joined, err := h.rooms.Join(r.Context(), code, ident)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, joined.Snapshot())
}

// Leave handles POST /api/v1/rooms/{code}/leave
func (h *RoomHandler) Leave(w http.ResponseWriter, r *http.Request) {
	ident := middleware.MustGetIdentity(r.Context())
	code := model.RoomCode(mux.Vars(r)["code"])

	if _, err := h.rooms.Leave(r.Context(), code, ident.ID); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// SetReady handles POST /api/v1/rooms/{code}/ready
func (h *RoomHandler) SetReady(w http.ResponseWriter, r *http.Request) {
	ident := middleware.MustGetIdentity(r.Context())
	code := model.RoomCode(mux.Vars(r)["code"])

	var req request.SetReadyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	updated, err := h.rooms.SetReady(r.Context(), code, ident.ID, req.Ready)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, updated.Snapshot())
}

// Start handles POST /api/v1/rooms/{code}/start
func (h *RoomHandler) Start(w http.ResponseWriter, r *http.Request) {
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

	started, err := h.rooms.Start(r.Context(), code)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, started.Snapshot())
}
