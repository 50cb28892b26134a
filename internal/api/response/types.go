package response

import "roomd/internal/model"

// ClaimIdentityResponse is returned from a successful claim
type ClaimIdentityResponse struct {
	IdentityID model.IdentityID `json:"identity_id"`
}

// IdentityResponse is the listing view of an identity
type IdentityResponse struct {
	ID     model.IdentityID `json:"id"`
	Name   string           `json:"name"`
	Online bool             `json:"online"`
}

// HealthResponse is returned from the health endpoint
type HealthResponse struct {
	Status string `json:"status"`
}
