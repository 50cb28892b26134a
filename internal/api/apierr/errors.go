package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"roomd/internal/model"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest    = "INVALID_REQUEST"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeIdentityNotFound  = "IDENTITY_NOT_FOUND"
	CodeIdentityInUse     = "IDENTITY_IN_USE"
	CodeRoomNotFound      = "ROOM_NOT_FOUND"
	CodeDuplicateRoomName = "DUPLICATE_ROOM_NAME"
	CodeRoomFull          = "ROOM_FULL"
	CodeAlreadyStarted    = "ALREADY_STARTED"
	CodeAlreadyMember     = "ALREADY_MEMBER"
	CodeNotAMember        = "NOT_A_MEMBER"
	CodeNoPlayers         = "NO_PLAYERS"
	CodeNotAllReady       = "NOT_ALL_READY"
	CodeInternalError     = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	// Not found
	case errors.Is(err, model.ErrIdentityNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeIdentityNotFound, "Identity not found"}}
	case errors.Is(err, model.ErrRoomNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeRoomNotFound, "Room not found"}}

	// Conflicts
	case errors.Is(err, model.ErrIdentityInUse):
		return &httpError{http.StatusConflict, APIError{CodeIdentityInUse, "This identity is already in use by another client"}}
	case errors.Is(err, model.ErrDuplicateRoomName):
		return &httpError{http.StatusConflict, APIError{CodeDuplicateRoomName, "A room with this name already exists"}}
	case errors.Is(err, model.ErrAlreadyMember):
		return &httpError{http.StatusConflict, APIError{CodeAlreadyMember, "Already in this room"}}

	// Failed preconditions
	case errors.Is(err, model.ErrRoomFull):
		return &httpError{http.StatusConflict, APIError{CodeRoomFull, "Room is full"}}
	case errors.Is(err, model.ErrAlreadyStarted):
		return &httpError{http.StatusConflict, APIError{CodeAlreadyStarted, "Game has already started"}}
	case errors.Is(err, model.ErrNotAMember):
		return &httpError{http.StatusNotFound, APIError{CodeNotAMember, "Not in this room"}}
	case errors.Is(err, model.ErrNoPlayers):
		return &httpError{http.StatusConflict, APIError{CodeNoPlayers, "Room has no members"}}
	case errors.Is(err, model.ErrNotAllReady):
		return &httpError{http.StatusConflict, APIError{CodeNotAllReady, "Not all members are ready"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "A claimed identity session is required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
