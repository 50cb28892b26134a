package model

import (
	"testing"
	"time"
)

func member(id string, joined time.Time) RoomMembership {
	return RoomMembership{IdentityID: IdentityID(id), DisplayName: id, JoinedAt: joined}
}

func TestOldestMemberPrefersEarliestJoin(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	r := &Room{Members: []RoomMembership{
		member("pl_c", t0.Add(2*time.Second)),
		member("pl_a", t0),
		member("pl_b", t0.Add(time.Second)),
	}}

	if got := r.OldestMember().IdentityID; got != "pl_a" {
		t.Errorf("OldestMember = %s, want pl_a", got)
	}
}

func TestOldestMemberBreaksTiesByIdentityID(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	r := &Room{Members: []RoomMembership{
		member("pl_z", t0),
		member("pl_b", t0),
		member("pl_m", t0),
	}}

	if got := r.OldestMember().IdentityID; got != "pl_b" {
		t.Errorf("OldestMember = %s, want pl_b", got)
	}
}

func TestOldestMemberOfEmptyRoomIsNil(t *testing.T) {
	r := &Room{}
	if r.OldestMember() != nil {
		t.Error("expected nil for empty room")
	}
}

func TestRemoveMemberPreservesJoinOrder(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	r := &Room{Members: []RoomMembership{
		member("pl_a", t0),
		member("pl_b", t0.Add(time.Second)),
		member("pl_c", t0.Add(2*time.Second)),
	}}

	if !r.RemoveMember("pl_b") {
		t.Fatal("expected removal to succeed")
	}
	if r.RemoveMember("pl_b") {
		t.Error("expected second removal to report absence")
	}

	want := []IdentityID{"pl_a", "pl_c"}
	got := r.MemberIDs()
	if len(got) != len(want) {
		t.Fatalf("MemberIDs = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("MemberIDs[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestAllReadyIsVacuouslyTrueWhenEmpty(t *testing.T) {
	r := &Room{}
	if !r.AllReady() {
		t.Error("expected AllReady for empty room")
	}
}

func TestCloneIsDeep(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	at := t0.Add(5 * time.Minute)
	r := &Room{
		Code:            "ABCD",
		Members:         []RoomMembership{member("pl_a", t0)},
		PendingExpiryAt: &at,
	}

	c := r.Clone()
	c.Members[0].Ready = true
	*c.PendingExpiryAt = t0

	if r.Members[0].Ready {
		t.Error("clone shares member slice with original")
	}
	if !r.PendingExpiryAt.Equal(at) {
		t.Error("clone shares expiry pointer with original")
	}
}

func TestSummaryUsesHostDisplayName(t *testing.T) {
	t0 := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	r := &Room{
		Code:   "ABCD",
		Name:   "Game",
		HostID: "pl_a",
		Members: []RoomMembership{
			{IdentityID: "pl_a", DisplayName: "Alice", JoinedAt: t0},
			{IdentityID: "pl_b", DisplayName: "Bob", JoinedAt: t0},
		},
	}

	summary := r.Summary()
	if summary.HostName != "Alice" {
		t.Errorf("HostName = %s, want Alice", summary.HostName)
	}
	if summary.MemberCount != 2 {
		t.Errorf("MemberCount = %d, want 2", summary.MemberCount)
	}
}

func TestIdentityLiveness(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	timeout := 30 * time.Second

	claimed := &Identity{SessionToken: "sess_1", LastSeenAt: now}
	if !claimed.Live(now.Add(30*time.Second), timeout) {
		t.Error("claim at exactly the timeout should still be live")
	}
	if claimed.Live(now.Add(31*time.Second), timeout) {
		t.Error("claim past the timeout should be stale")
	}

	unclaimed := &Identity{LastSeenAt: now}
	if unclaimed.Live(now, timeout) {
		t.Error("unclaimed identity is never live")
	}
}
