package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"roomd/internal/model"
	"roomd/internal/storage"
)

// sessionIndexTTL bounds how long a session token index entry lives. Lookups
// verify the token against the identity record, so a stale entry is harmless
// until it expires.
const sessionIndexTTL = 24 * time.Hour

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Identity operations

func (s *Storage) SaveIdentity(ctx context.Context, identity *model.Identity) error {
	data, err := json.Marshal(identity)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, identityKey(identity.ID), data, s.cfg.IdentityTTL)
	pipe.Set(ctx, identityNameIndexKey(identity.DisplayName), string(identity.ID), s.cfg.IdentityTTL)
	pipe.SAdd(ctx, identitySetKey(), string(identity.ID))
	if identity.SessionToken != "" {
		pipe.Set(ctx, identitySessionIndexKey(identity.SessionToken), string(identity.ID), sessionIndexTTL)
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetIdentity(ctx context.Context, id model.IdentityID) (*model.Identity, error) {
	data, err := s.client.Get(ctx, identityKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrIdentityNotFound
		}
		return nil, err
	}

	var identity model.Identity
	if err := json.Unmarshal(data, &identity); err != nil {
		return nil, err
	}
	return &identity, nil
}

func (s *Storage) GetIdentityByName(ctx context.Context, name string) (*model.Identity, error) {
	idStr, err := s.client.Get(ctx, identityNameIndexKey(name)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrIdentityNotFound
		}
		return nil, err
	}

	return s.GetIdentity(ctx, model.IdentityID(idStr))
}

func (s *Storage) GetIdentityBySession(ctx context.Context, token string) (*model.Identity, error) {
	idStr, err := s.client.Get(ctx, identitySessionIndexKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrIdentityNotFound
		}
		return nil, err
	}

	identity, err := s.GetIdentity(ctx, model.IdentityID(idStr))
	if err != nil {
		return nil, err
	}

	// The index is written without removing entries for superseded tokens;
	// the identity record is the source of truth.
	if identity.SessionToken != token {
		return nil, model.ErrIdentityNotFound
	}
	return identity, nil
}

func (s *Storage) ListIdentities(ctx context.Context) ([]*model.Identity, error) {
	ids, err := s.client.SMembers(ctx, identitySetKey()).Result()
	if err != nil {
		return nil, err
	}

	result := make([]*model.Identity, 0, len(ids))
	for _, id := range ids {
		identity, err := s.GetIdentity(ctx, model.IdentityID(id))
		if errors.Is(err, model.ErrIdentityNotFound) {
			// Expired record still referenced by the set
			continue
		}
		if err != nil {
			return nil, err
		}
		result = append(result, identity)
	}
	return result, nil
}

// Room operations

func (s *Storage) SaveRoom(ctx context.Context, room *model.Room) error {
	data, err := json.Marshal(room)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, roomKey(room.Code), data, s.cfg.RoomTTL)
	pipe.Set(ctx, roomNameIndexKey(room.Name), string(room.Code), s.cfg.RoomTTL)
	pipe.SAdd(ctx, roomSetKey(), string(room.Code))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetRoom(ctx context.Context, code model.RoomCode) (*model.Room, error) {
	data, err := s.client.Get(ctx, roomKey(code)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrRoomNotFound
		}
		return nil, err
	}

	var room model.Room
	if err := json.Unmarshal(data, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

func (s *Storage) GetRoomByName(ctx context.Context, name string) (*model.Room, error) {
	codeStr, err := s.client.Get(ctx, roomNameIndexKey(name)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrRoomNotFound
		}
		return nil, err
	}

	return s.GetRoom(ctx, model.RoomCode(codeStr))
}

func (s *Storage) DeleteRoom(ctx context.Context, code model.RoomCode) error {
	room, err := s.GetRoom(ctx, code)
	if errors.Is(err, model.ErrRoomNotFound) {
		// Still clear the set entry in case the value expired underneath us
		return s.client.SRem(ctx, roomSetKey(), string(code)).Err()
	}
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, roomKey(code))
	pipe.Del(ctx, roomNameIndexKey(room.Name))
	pipe.SRem(ctx, roomSetKey(), string(code))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) RoomExists(ctx context.Context, code model.RoomCode) (bool, error) {
	exists, err := s.client.Exists(ctx, roomKey(code)).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

func (s *Storage) ListRooms(ctx context.Context) ([]*model.Room, error) {
	codes, err := s.client.SMembers(ctx, roomSetKey()).Result()
	if err != nil {
		return nil, err
	}

	result := make([]*model.Room, 0, len(codes))
	for _, code := range codes {
		room, err := s.GetRoom(ctx, model.RoomCode(code))
		if errors.Is(err, model.ErrRoomNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		result = append(result, room)
	}
	return result, nil
}
