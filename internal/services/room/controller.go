package room

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"roomd/internal/dependencies/clock"
	"roomd/internal/dependencies/random"
	"roomd/internal/model"
	"roomd/internal/services/expiry"
	"roomd/internal/storage"
)

const (
	// RoomCodeLength is the length of generated room codes
	RoomCodeLength = 4
	// RoomCodeAlphabet is the characters used in room codes (avoid confusing chars)
	RoomCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

// Config holds configurable settings for the room controller
type Config struct {
	// Capacity is the fixed member limit per room
	Capacity int
	// AbandonedTTL is how long an empty room survives before being reaped
	AbandonedTTL time.Duration
}

// DefaultConfig returns the default room configuration
func DefaultConfig() Config {
	return Config{
		Capacity:     8,
		AbandonedTTL: 5 * time.Minute,
	}
}

// Notifier receives the room's new state after every accepted mutation.
// It is invoked while the room's lock is held, so notifications are
// observed in exactly the order mutations were applied.
type Notifier interface {
	RoomUpdated(room *model.Room)
}

// Controller owns the set of live rooms and their membership state machine.
// All mutations on one room are serialized through a per-room lock;
// operations on different rooms proceed concurrently.
type Controller struct {
	storage  storage.Storage
	expiry   *expiry.Scheduler
	clock    clock.Clock
	random   random.Random
	logger   *slog.Logger
	cfg      Config
	locks    *lockTable
	notifier Notifier

	// createMu serializes name-uniqueness checks against inserts
	createMu sync.Mutex
}

// NewController creates a new room controller
func NewController(
	store storage.Storage,
	scheduler *expiry.Scheduler,
	clk clock.Clock,
	rnd random.Random,
	cfg Config,
	logger *slog.Logger,
) *Controller {
	if cfg.Capacity == 0 {
		cfg.Capacity = DefaultConfig().Capacity
	}
	if cfg.AbandonedTTL == 0 {
		cfg.AbandonedTTL = DefaultConfig().AbandonedTTL
	}
	return &Controller{
		storage: store,
		expiry:  scheduler,
		clock:   clk,
		random:  rnd,
		logger:  logger.With(slog.String("component", "room")),
		cfg:     cfg,
		locks:   newLockTable(),
	}
}

// SetNotifier registers the post-mutation notifier. Must be called before
// the controller starts receiving traffic.
func (c *Controller) SetNotifier(n Notifier) {
	c.notifier = n
}

// Create allocates a new room with the creator as its first member and
// host. Room names are unique among live rooms.
func (c *Controller) Create(ctx context.Context, name string, creator *model.Identity) (*model.Room, error) {
	c.createMu.Lock()
	defer c.createMu.Unlock()

	_, err := c.storage.GetRoomByName(ctx, name)
	if err == nil {
		return nil, model.ErrDuplicateRoomName
	}
	if !errors.Is(err, model.ErrRoomNotFound) {
		return nil, err
	}

	// Generate unique room code
	var code model.RoomCode
	for {
		code = model.RoomCode(c.random.String(RoomCodeLength, RoomCodeAlphabet))
		exists, err := c.storage.RoomExists(ctx, code)
		if err != nil {
			return nil, err
		}
		if !exists {
			break
		}
	}

	now := c.clock.Now()
	room := &model.Room{
		Code:     code,
		Name:     name,
		HostID:   creator.ID,
		Started:  false,
		Capacity: c.cfg.Capacity,
		Members: []model.RoomMembership{
			{
				IdentityID:  creator.ID,
				DisplayName: creator.DisplayName,
				Ready:       false,
				JoinedAt:    now,
			},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}

	c.logger.Info("room created",
		slog.String("room", string(code)),
		slog.String("name", name),
		slog.String("host", string(creator.ID)))
	c.notify(room)
	return room, nil
}

// Get retrieves a room snapshot by code
func (c *Controller) Get(ctx context.Context, code model.RoomCode) (*model.Room, error) {
	return c.storage.GetRoom(ctx, code)
}

// Join adds an identity to a room. Cancels any pending expiry on the room.
func (c *Controller) Join(ctx context.Context, code model.RoomCode, joiner *model.Identity) (*model.Room, error) {
	unlock := c.locks.lock(code)
	defer unlock()

	room, err := c.storage.GetRoom(ctx, code)
	if err != nil {
		return nil, err
	}

	if room.Started {
		return nil, model.ErrAlreadyStarted
	}
	if room.Member(joiner.ID) != nil {
		return nil, model.ErrAlreadyMember
	}
	if room.IsFull() {
		return nil, model.ErrRoomFull
	}

	now := c.clock.Now()
	room.Members = append(room.Members, model.RoomMembership{
		IdentityID:  joiner.ID,
		DisplayName: joiner.DisplayName,
		Ready:       false,
		JoinedAt:    now,
	})
	room.UpdatedAt = now

	// The room may have sat empty with a departed host on record
	if room.Member(room.HostID) == nil {
		room.HostID = joiner.ID
	}

	if room.PendingExpiryAt != nil {
		room.PendingExpiryAt = nil
		c.expiry.Cancel(string(code))
	}

	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}

	c.notify(room)
	return room, nil
}

// Leave removes an identity from a room. Idempotent: leaving a room you are
// not in, or one that no longer exists, is a no-op. When the departing
// member was host, the oldest surviving member becomes host. When the room
// empties, reaping is armed rather than deleting immediately.
func (c *Controller) Leave(ctx context.Context, code model.RoomCode, id model.IdentityID) (*model.Room, error) {
	unlock := c.locks.lock(code)
	defer unlock()

	room, err := c.storage.GetRoom(ctx, code)
	if errors.Is(err, model.ErrRoomNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if !room.RemoveMember(id) {
		return room, nil
	}

	now := c.clock.Now()
	room.UpdatedAt = now

	if len(room.Members) == 0 {
		at := now.Add(c.cfg.AbandonedTTL)
		room.PendingExpiryAt = &at
		c.expiry.Schedule(string(code), c.cfg.AbandonedTTL, func() {
			if err := c.Reap(context.Background(), code); err != nil {
				c.logger.Error("room reap failed",
					slog.String("room", string(code)),
					slog.Any("error", err))
			}
		})
	} else if room.HostID == id {
		newHost := room.OldestMember()
		room.HostID = newHost.IdentityID
		c.logger.Info("host re-elected",
			slog.String("room", string(code)),
			slog.String("host", string(newHost.IdentityID)))
	}

	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}

	c.notify(room)
	return room, nil
}

// SetReady sets a member's readiness flag. Readiness is frozen once the
// game has started.
func (c *Controller) SetReady(ctx context.Context, code model.RoomCode, id model.IdentityID, ready bool) (*model.Room, error) {
	unlock := c.locks.lock(code)
	defer unlock()

	room, err := c.storage.GetRoom(ctx, code)
	if err != nil {
		return nil, err
	}

	member := room.Member(id)
	if member == nil {
		return nil, model.ErrNotAMember
	}
	if room.Started {
		return nil, model.ErrAlreadyStarted
	}

	member.Ready = ready
	room.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}

	c.notify(room)
	return room, nil
}

// Start transitions the room to started, irreversibly. The all-ready
// precondition is evaluated against current membership under the room lock,
// never against a stale read.
func (c *Controller) Start(ctx context.Context, code model.RoomCode) (*model.Room, error) {
	unlock := c.locks.lock(code)
	defer unlock()

	room, err := c.storage.GetRoom(ctx, code)
	if err != nil {
		return nil, err
	}

	if room.Started {
		return nil, model.ErrAlreadyStarted
	}
	if len(room.Members) == 0 {
		return nil, model.ErrNoPlayers
	}
	if !room.AllReady() {
		return nil, model.ErrNotAllReady
	}

	room.Started = true
	room.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return nil, err
	}

	c.logger.Info("game started",
		slog.String("room", string(code)),
		slog.Int("members", len(room.Members)))
	c.notify(room)
	return room, nil
}

// ListPublic returns the listing projection for every live room
func (c *Controller) ListPublic(ctx context.Context) ([]model.RoomSummary, error) {
	rooms, err := c.storage.ListRooms(ctx)
	if err != nil {
		return nil, err
	}

	summaries := make([]model.RoomSummary, 0, len(rooms))
	for _, room := range rooms {
		summaries = append(summaries, room.Summary())
	}
	return summaries, nil
}

// Reap deletes the room if it is still empty. Invoked by the expiry
// scheduler; the emptiness re-check under the room lock guards against a
// join that landed after the timer was armed but before it could be
// cancelled.
func (c *Controller) Reap(ctx context.Context, code model.RoomCode) error {
	unlock := c.locks.lock(code)
	defer unlock()

	room, err := c.storage.GetRoom(ctx, code)
	if errors.Is(err, model.ErrRoomNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if len(room.Members) > 0 {
		return nil
	}

	if err := c.storage.DeleteRoom(ctx, code); err != nil {
		return err
	}
	c.locks.forget(code)

	c.logger.Info("abandoned room reaped", slog.String("room", string(code)))
	return nil
}

func (c *Controller) notify(room *model.Room) {
	if c.notifier != nil {
		c.notifier.RoomUpdated(room.Clone())
	}
}
