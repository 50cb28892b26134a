package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"roomd/internal/api/request"
	"roomd/internal/api/response"
	"roomd/internal/model"
	"roomd/internal/services/identity"
)

// IdentityHandler handles identity-related endpoints
type IdentityHandler struct {
	identityService *identity.Service
}

// NewIdentityHandler creates a new identity handler
func NewIdentityHandler(identityService *identity.Service) *IdentityHandler {
	return &IdentityHandler{
		identityService: identityService,
	}
}

// Claim handles POST /api/v1/identities/claim
func (h *IdentityHandler) Claim(w http.ResponseWriter, r *http.Request) {
	var req request.ClaimIdentityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Name == "" {
		WriteError(w, NewInvalidRequestError("name is required"))
		return
	}
	if req.SessionToken == "" {
		WriteError(w, NewInvalidRequestError("session_token is required"))
		return
	}

	id, err := h.identityService.Claim(r.Context(), req.Name, req.SessionToken)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ClaimIdentityResponse{IdentityID: id})
}

// Release handles POST /api/v1/identities/{id}/release
func (h *IdentityHandler) Release(w http.ResponseWriter, r *http.Request) {
	id := model.IdentityID(mux.Vars(r)["id"])

	var req request.SessionTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.SessionToken == "" {
		WriteError(w, NewInvalidRequestError("session_token is required"))
		return
	}

	if err := h.identityService.Release(r.Context(), id, req.SessionToken); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Heartbeat handles POST /api/v1/identities/{id}/heartbeat
func (h *IdentityHandler) Heartbeat(w http.ResponseWriter, r *http.Request) {
	id := model.IdentityID(mux.Vars(r)["id"])

	var req request.SessionTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}
	if req.SessionToken == "" {
		WriteError(w, NewInvalidRequestError("session_token is required"))
		return
	}

	if err := h.identityService.Heartbeat(r.Context(), id, req.SessionToken); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// List handles GET /api/v1/identities
func (h *IdentityHandler) List(w http.ResponseWriter, r *http.Request) {
	identities, err := h.identityService.List(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	out := make([]response.IdentityResponse, 0, len(identities))
	for _, ident := range identities {
		out = append(out, response.IdentityResponse{
			ID:     ident.ID,
			Name:   ident.DisplayName,
			Online: h.identityService.Online(ident),
		})
	}

	response.JSON(w, http.StatusOK, out)
}
