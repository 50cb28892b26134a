package model

import "time"

// RoomCode is a short human-typable identifier for joining rooms
type RoomCode string

// RoomMembership records that an identity has joined a room, and its
// readiness state. A membership is removed on leave; rejoining creates a
// fresh membership with Ready reset to false.
type RoomMembership struct {
	IdentityID  IdentityID
	DisplayName string
	Ready       bool
	JoinedAt    time.Time
}

// Room is a group of identities waiting to start a game together.
// Members is kept in join order, oldest first.
type Room struct {
	Code     RoomCode
	Name     string
	HostID   IdentityID
	Members  []RoomMembership
	Started  bool
	Capacity int
	// PendingExpiryAt is set while the room sits empty awaiting reaping;
	// cleared when a member joins before the deadline.
	PendingExpiryAt *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Member returns the membership for the given identity, or nil if not present
func (r *Room) Member(id IdentityID) *RoomMembership {
	for i := range r.Members {
		if r.Members[i].IdentityID == id {
			return &r.Members[i]
		}
	}
	return nil
}

// RemoveMember deletes the membership for the given identity, preserving
// join order of the remaining members. Returns false if not present.
func (r *Room) RemoveMember(id IdentityID) bool {
	for i := range r.Members {
		if r.Members[i].IdentityID == id {
			r.Members = append(r.Members[:i], r.Members[i+1:]...)
			return true
		}
	}
	return false
}

// IsFull reports whether the room has reached capacity
func (r *Room) IsFull() bool {
	return len(r.Members) >= r.Capacity
}

// AllReady reports whether every member has flagged ready.
// Vacuously true for an empty room; callers gate on member count separately.
func (r *Room) AllReady() bool {
	for i := range r.Members {
		if !r.Members[i].Ready {
			return false
		}
	}
	return true
}

// OldestMember returns the member with the earliest JoinedAt, breaking
// timestamp ties by identity id. Returns nil for an empty room.
func (r *Room) OldestMember() *RoomMembership {
	var oldest *RoomMembership
	for i := range r.Members {
		m := &r.Members[i]
		if oldest == nil {
			oldest = m
			continue
		}
		if m.JoinedAt.Before(oldest.JoinedAt) ||
			(m.JoinedAt.Equal(oldest.JoinedAt) && m.IdentityID < oldest.IdentityID) {
			oldest = m
		}
	}
	return oldest
}

// MemberIDs returns the identity ids of all current members in join order
func (r *Room) MemberIDs() []IdentityID {
	ids := make([]IdentityID, len(r.Members))
	for i := range r.Members {
		ids[i] = r.Members[i].IdentityID
	}
	return ids
}

// Clone returns a deep copy of the room. Storage implementations hand out
// clones so callers never alias registry-owned state.
func (r *Room) Clone() *Room {
	c := *r
	c.Members = make([]RoomMembership, len(r.Members))
	copy(c.Members, r.Members)
	if r.PendingExpiryAt != nil {
		at := *r.PendingExpiryAt
		c.PendingExpiryAt = &at
	}
	return &c
}
