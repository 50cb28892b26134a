package memory

import (
	"context"
	"sync"

	"roomd/internal/model"
	"roomd/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	identities   map[model.IdentityID]*model.Identity
	nameIndex    map[string]model.IdentityID
	sessionIndex map[string]model.IdentityID
	rooms        map[model.RoomCode]*model.Room
	roomNames    map[string]model.RoomCode
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		identities:   make(map[model.IdentityID]*model.Identity),
		nameIndex:    make(map[string]model.IdentityID),
		sessionIndex: make(map[string]model.IdentityID),
		rooms:        make(map[model.RoomCode]*model.Room),
		roomNames:    make(map[string]model.RoomCode),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Identity operations

func (s *Storage) SaveIdentity(ctx context.Context, identity *model.Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.identities[identity.ID]; ok && prev.SessionToken != "" {
		delete(s.sessionIndex, prev.SessionToken)
	}

	stored := *identity
	s.identities[identity.ID] = &stored
	s.nameIndex[identity.DisplayName] = identity.ID
	if identity.SessionToken != "" {
		s.sessionIndex[identity.SessionToken] = identity.ID
	}
	return nil
}

func (s *Storage) GetIdentity(ctx context.Context, id model.IdentityID) (*model.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	identity, ok := s.identities[id]
	if !ok {
		return nil, model.ErrIdentityNotFound
	}
	copied := *identity
	return &copied, nil
}

func (s *Storage) GetIdentityByName(ctx context.Context, name string) (*model.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.nameIndex[name]
	if !ok {
		return nil, model.ErrIdentityNotFound
	}
	identity, ok := s.identities[id]
	if !ok {
		return nil, model.ErrIdentityNotFound
	}
	copied := *identity
	return &copied, nil
}

func (s *Storage) GetIdentityBySession(ctx context.Context, token string) (*model.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.sessionIndex[token]
	if !ok {
		return nil, model.ErrIdentityNotFound
	}
	identity, ok := s.identities[id]
	if !ok {
		return nil, model.ErrIdentityNotFound
	}
	copied := *identity
	return &copied, nil
}

func (s *Storage) ListIdentities(ctx context.Context) ([]*model.Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*model.Identity, 0, len(s.identities))
	for _, identity := range s.identities {
		copied := *identity
		result = append(result, &copied)
	}
	return result, nil
}

// Room operations

func (s *Storage) SaveRoom(ctx context.Context, room *model.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[room.Code] = room.Clone()
	s.roomNames[room.Name] = room.Code
	return nil
}

func (s *Storage) GetRoom(ctx context.Context, code model.RoomCode) (*model.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[code]
	if !ok {
		return nil, model.ErrRoomNotFound
	}
	return room.Clone(), nil
}

func (s *Storage) GetRoomByName(ctx context.Context, name string) (*model.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	code, ok := s.roomNames[name]
	if !ok {
		return nil, model.ErrRoomNotFound
	}
	room, ok := s.rooms[code]
	if !ok {
		return nil, model.ErrRoomNotFound
	}
	return room.Clone(), nil
}

func (s *Storage) DeleteRoom(ctx context.Context, code model.RoomCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if room, ok := s.rooms[code]; ok {
		delete(s.roomNames, room.Name)
		delete(s.rooms, code)
	}
	return nil
}

func (s *Storage) RoomExists(ctx context.Context, code model.RoomCode) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.rooms[code]
	return ok, nil
}

func (s *Storage) ListRooms(ctx context.Context) ([]*model.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]*model.Room, 0, len(s.rooms))
	for _, room := range s.rooms {
		result = append(result, room.Clone())
	}
	return result, nil
}
