package model

import "errors"

// Common errors used across the application
var (
	// Identity errors
	ErrIdentityNotFound = errors.New("identity not found")
	ErrIdentityInUse    = errors.New("identity is claimed by another session")

	// Room errors
	ErrRoomNotFound      = errors.New("room not found")
	ErrDuplicateRoomName = errors.New("a room with this name already exists")
	ErrRoomFull          = errors.New("room is full")
	ErrAlreadyStarted    = errors.New("game has already started")
	ErrAlreadyMember     = errors.New("identity is already in this room")
	ErrNotAMember        = errors.New("identity is not in this room")
	ErrNoPlayers         = errors.New("room has no members")
	ErrNotAllReady       = errors.New("not all members are ready")
)
