package model

import "time"

// IdentityID uniquely identifies a player identity across the system
type IdentityID string

// Identity is a durable player record independent of any single connection.
// The display name doubles as the lookup key: selecting a name either creates
// a fresh identity or re-claims an existing one.
type Identity struct {
	ID          IdentityID
	DisplayName string
	// SessionToken is the opaque token of the connection currently claiming
	// this identity. Empty when unclaimed.
	SessionToken string
	// LastSeenAt is refreshed by heartbeats while a claim is held.
	LastSeenAt time.Time
	CreatedAt  time.Time
}

// ClaimedBy reports whether the given token holds the current claim
func (i *Identity) ClaimedBy(token string) bool {
	return i.SessionToken != "" && i.SessionToken == token
}

// Live reports whether the current claim has heartbeated within the timeout.
// An unclaimed identity is never live.
func (i *Identity) Live(now time.Time, timeout time.Duration) bool {
	if i.SessionToken == "" {
		return false
	}
	return now.Sub(i.LastSeenAt) <= timeout
}
