package request

// ClaimIdentityRequest is the request body for claiming an identity
type ClaimIdentityRequest struct {
	Name         string `json:"name"`
	SessionToken string `json:"session_token"`
}

// SessionTokenRequest is the request body for release and heartbeat calls
type SessionTokenRequest struct {
	SessionToken string `json:"session_token"`
}

// CreateRoomRequest is the request body for creating a room
type CreateRoomRequest struct {
	Name string `json:"name"`
}

// SetReadyRequest is the request body for setting readiness
type SetReadyRequest struct {
	Ready bool `json:"ready"`
}
