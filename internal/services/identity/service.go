package identity

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log/slog"
	"sync"
	"time"

	"roomd/internal/dependencies/clock"
	"roomd/internal/model"
	"roomd/internal/storage"
)

// Config holds configuration for the identity service
type Config struct {
	// LivenessTimeout is how long a claim stays live without a heartbeat.
	// A claim older than this can be taken over by another session.
	LivenessTimeout time.Duration
}

// DefaultConfig returns default identity configuration
func DefaultConfig() Config {
	return Config{
		LivenessTimeout: 30 * time.Second,
	}
}

// Service maps durable player identities to at most one active session each
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
	cfg     Config

	// claimMu serializes liveness checks against claim writes
	claimMu sync.Mutex
}

// New creates a new identity service
func New(store storage.Storage, clk clock.Clock, cfg Config, logger *slog.Logger) *Service {
	if cfg.LivenessTimeout == 0 {
		cfg.LivenessTimeout = DefaultConfig().LivenessTimeout
	}
	return &Service{
		storage: store,
		clock:   clk,
		logger:  logger.With(slog.String("component", "identity")),
		cfg:     cfg,
	}
}

// Claim selects the identity named name for the given session token,
// creating it on first use. Fails with ErrIdentityInUse if another session
// holds a live claim on it. Re-claiming with the same token is a no-op
// refresh, and a stale claim (no recent heartbeat) can be taken over.
func (s *Service) Claim(ctx context.Context, name, sessionToken string) (model.IdentityID, error) {
	s.claimMu.Lock()
	defer s.claimMu.Unlock()

	now := s.clock.Now()

	existing, err := s.storage.GetIdentityByName(ctx, name)
	if err != nil && !errors.Is(err, model.ErrIdentityNotFound) {
		return "", err
	}

	if existing != nil {
		if existing.SessionToken != "" && existing.SessionToken != sessionToken &&
			existing.Live(now, s.cfg.LivenessTimeout) {
			return "", model.ErrIdentityInUse
		}

		existing.SessionToken = sessionToken
		existing.LastSeenAt = now
		if err := s.storage.SaveIdentity(ctx, existing); err != nil {
			return "", err
		}
		s.logger.Info("identity re-claimed", slog.String("identity_id", string(existing.ID)))
		return existing.ID, nil
	}

	created := &model.Identity{
		ID:           model.IdentityID(generateID("pl_")),
		DisplayName:  name,
		SessionToken: sessionToken,
		LastSeenAt:   now,
		CreatedAt:    now,
	}
	if err := s.storage.SaveIdentity(ctx, created); err != nil {
		return "", err
	}

	s.logger.Info("identity created",
		slog.String("identity_id", string(created.ID)),
		slog.String("name", name))
	return created.ID, nil
}

// Release clears the claim if the token matches the current claim. A stale
// or duplicate release never clobbers a newer claim; mismatches are a
// silent no-op.
func (s *Service) Release(ctx context.Context, id model.IdentityID, sessionToken string) error {
	identity, err := s.storage.GetIdentity(ctx, id)
	if errors.Is(err, model.ErrIdentityNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if !identity.ClaimedBy(sessionToken) {
		return nil
	}

	identity.SessionToken = ""
	identity.LastSeenAt = s.clock.Now()
	return s.storage.SaveIdentity(ctx, identity)
}

// Heartbeat refreshes the claim's last-seen time if the token matches.
// Mismatches are a silent no-op.
func (s *Service) Heartbeat(ctx context.Context, id model.IdentityID, sessionToken string) error {
	identity, err := s.storage.GetIdentity(ctx, id)
	if errors.Is(err, model.ErrIdentityNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if !identity.ClaimedBy(sessionToken) {
		return nil
	}

	identity.LastSeenAt = s.clock.Now()
	return s.storage.SaveIdentity(ctx, identity)
}

// Get retrieves an identity by id
func (s *Service) Get(ctx context.Context, id model.IdentityID) (*model.Identity, error) {
	return s.storage.GetIdentity(ctx, id)
}

// ResolveSession returns the identity currently claimed by the given
// session token, or ErrIdentityNotFound
func (s *Service) ResolveSession(ctx context.Context, sessionToken string) (*model.Identity, error) {
	if sessionToken == "" {
		return nil, model.ErrIdentityNotFound
	}
	return s.storage.GetIdentityBySession(ctx, sessionToken)
}

// Online reports whether the identity holds a live claim right now
func (s *Service) Online(identity *model.Identity) bool {
	return identity.Live(s.clock.Now(), s.cfg.LivenessTimeout)
}

// List returns all known identities
func (s *Service) List(ctx context.Context) ([]*model.Identity, error) {
	return s.storage.ListIdentities(ctx)
}

// SweepStaleClaims clears claims whose sessions stopped heartbeating, so
// abandoned names become claimable without waiting for a conflicting claim.
// Call periodically.
func (s *Service) SweepStaleClaims(ctx context.Context) error {
	identities, err := s.storage.ListIdentities(ctx)
	if err != nil {
		return err
	}

	now := s.clock.Now()
	for _, identity := range identities {
		if identity.SessionToken == "" || identity.Live(now, s.cfg.LivenessTimeout) {
			continue
		}
		identity.SessionToken = ""
		if err := s.storage.SaveIdentity(ctx, identity); err != nil {
			return err
		}
		s.logger.Info("stale identity claim released",
			slog.String("identity_id", string(identity.ID)))
	}
	return nil
}

// generateID generates a random ID with a prefix
func generateID(prefix string) string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return prefix + base64.RawURLEncoding.EncodeToString(b)
}
