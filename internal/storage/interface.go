package storage

import (
	"context"

	"roomd/internal/model"
)

// Storage defines the interface for data persistence.
//
// Implementations return copies of stored objects; callers mutate a copy and
// persist it back via the Save methods. Serialization of concurrent mutations
// is the room service's job, not the store's.
type Storage interface {
	// Identity operations
	SaveIdentity(ctx context.Context, identity *model.Identity) error
	GetIdentity(ctx context.Context, id model.IdentityID) (*model.Identity, error)
	GetIdentityByName(ctx context.Context, name string) (*model.Identity, error)
	GetIdentityBySession(ctx context.Context, token string) (*model.Identity, error)
	ListIdentities(ctx context.Context) ([]*model.Identity, error)

	// Room operations
	SaveRoom(ctx context.Context, room *model.Room) error
	GetRoom(ctx context.Context, code model.RoomCode) (*model.Room, error)
	GetRoomByName(ctx context.Context, name string) (*model.Room, error)
	DeleteRoom(ctx context.Context, code model.RoomCode) error
	RoomExists(ctx context.Context, code model.RoomCode) (bool, error)
	ListRooms(ctx context.Context) ([]*model.Room, error)
}
