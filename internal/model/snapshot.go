package model

// MemberSnapshot is the broadcast-safe view of a single membership
type MemberSnapshot struct {
	ID    IdentityID `json:"id"`
	Name  string     `json:"name"`
	Ready bool       `json:"ready"`
}

// RoomSnapshot is the public projection of a room's current state. It is
// what gets pushed to members after every accepted mutation and returned
// from room endpoints.
type RoomSnapshot struct {
	Code     RoomCode         `json:"code"`
	Name     string           `json:"name"`
	HostID   IdentityID       `json:"host_id"`
	Started  bool             `json:"started"`
	Capacity int              `json:"capacity"`
	Members  []MemberSnapshot `json:"members"`
}

// RoomSummary is the read-only listing projection. It never exposes
// membership order or readiness.
type RoomSummary struct {
	Code        RoomCode `json:"code"`
	Name        string   `json:"name"`
	HostName    string   `json:"host_name"`
	MemberCount int      `json:"member_count"`
	Started     bool     `json:"started"`
}

// Snapshot builds the public projection of the room
func (r *Room) Snapshot() *RoomSnapshot {
	members := make([]MemberSnapshot, len(r.Members))
	for i, m := range r.Members {
		members[i] = MemberSnapshot{
			ID:    m.IdentityID,
			Name:  m.DisplayName,
			Ready: m.Ready,
		}
	}
	return &RoomSnapshot{
		Code:     r.Code,
		Name:     r.Name,
		HostID:   r.HostID,
		Started:  r.Started,
		Capacity: r.Capacity,
		Members:  members,
	}
}

// Summary builds the listing projection of the room
func (r *Room) Summary() RoomSummary {
	hostName := ""
	if host := r.Member(r.HostID); host != nil {
		hostName = host.DisplayName
	}
	return RoomSummary{
		Code:        r.Code,
		Name:        r.Name,
		HostName:    hostName,
		MemberCount: len(r.Members),
		Started:     r.Started,
	}
}
