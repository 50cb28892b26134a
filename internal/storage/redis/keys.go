package redis

import (
	"fmt"

	"roomd/internal/model"
)

// Key prefix for all coordinator data
const keyPrefix = "roomd"

// identityKey returns the Redis key for an Identity
func identityKey(id model.IdentityID) string {
	return fmt.Sprintf("%s:identity:%s", keyPrefix, id)
}

// identityNameIndexKey returns the Redis key for the name -> identity_id index
func identityNameIndexKey(name string) string {
	return fmt.Sprintf("%s:idx:identity_name:%s", keyPrefix, name)
}

// identitySessionIndexKey returns the Redis key for the session token -> identity_id index
func identitySessionIndexKey(token string) string {
	return fmt.Sprintf("%s:idx:identity_session:%s", keyPrefix, token)
}

// identitySetKey returns the Redis key for the SET of all identity ids
func identitySetKey() string {
	return fmt.Sprintf("%s:identities", keyPrefix)
}

// roomKey returns the Redis key for a Room
func roomKey(code model.RoomCode) string {
	return fmt.Sprintf("%s:room:%s", keyPrefix, code)
}

// roomNameIndexKey returns the Redis key for the room name -> code index
func roomNameIndexKey(name string) string {
	return fmt.Sprintf("%s:idx:room_name:%s", keyPrefix, name)
}

// roomSetKey returns the Redis key for the SET of all live room codes
func roomSetKey() string {
	return fmt.Sprintf("%s:rooms", keyPrefix)
}
