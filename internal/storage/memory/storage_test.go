package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"roomd/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

func (s *StorageSuite) identity(id, name, token string) *model.Identity {
	return &model.Identity{
		ID:           model.IdentityID(id),
		DisplayName:  name,
		SessionToken: token,
	}
}

func (s *StorageSuite) room(code, name string) *model.Room {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	return &model.Room{
		Code:     model.RoomCode(code),
		Name:     name,
		HostID:   "pl_host",
		Capacity: 8,
		Members: []model.RoomMembership{
			{IdentityID: "pl_host", DisplayName: "Host", JoinedAt: now},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Identity tests

func (s *StorageSuite) TestSaveAndGetIdentity() {
	_ = s.storage.SaveIdentity(s.ctx, s.identity("pl_1", "Alice", "sess_1"))

	retrieved, err := s.storage.GetIdentity(s.ctx, "pl_1")
	s.Require().NoError(err)
	s.Equal("Alice", retrieved.DisplayName)
}

func (s *StorageSuite) TestGetIdentityNotFound() {
	_, err := s.storage.GetIdentity(s.ctx, "pl_missing")
	s.ErrorIs(err, model.ErrIdentityNotFound)
}

func (s *StorageSuite) TestGetIdentityByNameAndSession() {
	_ = s.storage.SaveIdentity(s.ctx, s.identity("pl_1", "Alice", "sess_1"))

	byName, err := s.storage.GetIdentityByName(s.ctx, "Alice")
	s.Require().NoError(err)
	s.Equal(model.IdentityID("pl_1"), byName.ID)

	bySession, err := s.storage.GetIdentityBySession(s.ctx, "sess_1")
	s.Require().NoError(err)
	s.Equal(model.IdentityID("pl_1"), bySession.ID)
}

func (s *StorageSuite) TestSupersededSessionTokenIsUnindexed() {
	_ = s.storage.SaveIdentity(s.ctx, s.identity("pl_1", "Alice", "sess_1"))
	_ = s.storage.SaveIdentity(s.ctx, s.identity("pl_1", "Alice", "sess_2"))

	_, err := s.storage.GetIdentityBySession(s.ctx, "sess_1")
	s.ErrorIs(err, model.ErrIdentityNotFound)

	retrieved, err := s.storage.GetIdentityBySession(s.ctx, "sess_2")
	s.Require().NoError(err)
	s.Equal(model.IdentityID("pl_1"), retrieved.ID)
}

func (s *StorageSuite) TestReleasedTokenIsUnindexed() {
	_ = s.storage.SaveIdentity(s.ctx, s.identity("pl_1", "Alice", "sess_1"))
	_ = s.storage.SaveIdentity(s.ctx, s.identity("pl_1", "Alice", ""))

	_, err := s.storage.GetIdentityBySession(s.ctx, "sess_1")
	s.ErrorIs(err, model.ErrIdentityNotFound)
}

func (s *StorageSuite) TestGetIdentityReturnsCopy() {
	_ = s.storage.SaveIdentity(s.ctx, s.identity("pl_1", "Alice", "sess_1"))

	first, _ := s.storage.GetIdentity(s.ctx, "pl_1")
	first.DisplayName = "Mutated"

	second, _ := s.storage.GetIdentity(s.ctx, "pl_1")
	s.Equal("Alice", second.DisplayName)
}

func (s *StorageSuite) TestListIdentities() {
	_ = s.storage.SaveIdentity(s.ctx, s.identity("pl_1", "Alice", "sess_1"))
	_ = s.storage.SaveIdentity(s.ctx, s.identity("pl_2", "Bob", "sess_2"))

	identities, err := s.storage.ListIdentities(s.ctx)
	s.Require().NoError(err)
	s.Len(identities, 2)
}

// Room tests

func (s *StorageSuite) TestSaveAndGetRoom() {
	_ = s.storage.SaveRoom(s.ctx, s.room("ABCD", "Friday Night"))

	retrieved, err := s.storage.GetRoom(s.ctx, "ABCD")
	s.Require().NoError(err)
	s.Equal("Friday Night", retrieved.Name)
	s.Len(retrieved.Members, 1)
}

func (s *StorageSuite) TestGetRoomNotFound() {
	_, err := s.storage.GetRoom(s.ctx, "ZZZZ")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *StorageSuite) TestGetRoomReturnsDeepCopy() {
	_ = s.storage.SaveRoom(s.ctx, s.room("ABCD", "Friday Night"))

	first, _ := s.storage.GetRoom(s.ctx, "ABCD")
	first.Members[0].Ready = true
	first.Name = "Mutated"

	second, _ := s.storage.GetRoom(s.ctx, "ABCD")
	s.Equal("Friday Night", second.Name)
	s.False(second.Members[0].Ready)
}

func (s *StorageSuite) TestSaveRoomDetachesFromCaller() {
	room := s.room("ABCD", "Friday Night")
	_ = s.storage.SaveRoom(s.ctx, room)

	room.Members[0].Ready = true

	retrieved, _ := s.storage.GetRoom(s.ctx, "ABCD")
	s.False(retrieved.Members[0].Ready)
}

func (s *StorageSuite) TestGetRoomByName() {
	_ = s.storage.SaveRoom(s.ctx, s.room("ABCD", "Friday Night"))

	retrieved, err := s.storage.GetRoomByName(s.ctx, "Friday Night")
	s.Require().NoError(err)
	s.Equal(model.RoomCode("ABCD"), retrieved.Code)
}

func (s *StorageSuite) TestRoomExists() {
	exists, _ := s.storage.RoomExists(s.ctx, "ABCD")
	s.False(exists)

	_ = s.storage.SaveRoom(s.ctx, s.room("ABCD", "Friday Night"))

	exists, _ = s.storage.RoomExists(s.ctx, "ABCD")
	s.True(exists)
}

func (s *StorageSuite) TestDeleteRoomClearsNameIndex() {
	_ = s.storage.SaveRoom(s.ctx, s.room("ABCD", "Friday Night"))
	_ = s.storage.DeleteRoom(s.ctx, "ABCD")

	_, err := s.storage.GetRoom(s.ctx, "ABCD")
	s.ErrorIs(err, model.ErrRoomNotFound)

	_, err = s.storage.GetRoomByName(s.ctx, "Friday Night")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *StorageSuite) TestDeleteUnknownRoomIsNoOp() {
	s.NoError(s.storage.DeleteRoom(s.ctx, "ZZZZ"))
}

func (s *StorageSuite) TestListRooms() {
	_ = s.storage.SaveRoom(s.ctx, s.room("ABCD", "First"))
	_ = s.storage.SaveRoom(s.ctx, s.room("EFGH", "Second"))

	rooms, err := s.storage.ListRooms(s.ctx)
	s.Require().NoError(err)
	s.Len(rooms, 2)
}
