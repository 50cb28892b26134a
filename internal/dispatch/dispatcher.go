package dispatch

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"roomd/internal/model"
	"roomd/internal/services/room"
	"roomd/internal/sse"
)

// connection tracks one live event stream: which identity it speaks for and
// which room it is watching
type connection struct {
	id         uuid.UUID
	identityID model.IdentityID
	roomCode   model.RoomCode
}

// Dispatcher fans room state changes out to connected members and turns
// transport-level disconnects into leave events. It implements
// room.Notifier, so snapshots are enqueued inside the per-room
// serialization boundary: members observe snapshots in mutation order and
// never see one older than the last they received.
type Dispatcher struct {
	rooms  *room.Controller
	hubs   *sse.HubManager
	logger *slog.Logger

	mu    sync.Mutex
	conns map[uuid.UUID]*connection
}

// Ensure Dispatcher implements the room notifier
var _ room.Notifier = (*Dispatcher)(nil)

// New creates a new Dispatcher and registers it as the room controller's
// notifier
func New(rooms *room.Controller, hubs *sse.HubManager, logger *slog.Logger) *Dispatcher {
	d := &Dispatcher{
		rooms:  rooms,
		hubs:   hubs,
		logger: logger.With(slog.String("component", "dispatch")),
		conns:  make(map[uuid.UUID]*connection),
	}
	rooms.SetNotifier(d)
	return d
}

// Connect registers a live event stream for an identity watching a room
// and returns its connection id
func (d *Dispatcher) Connect(identityID model.IdentityID, roomCode model.RoomCode) uuid.UUID {
	conn := &connection{
		id:         uuid.New(),
		identityID: identityID,
		roomCode:   roomCode,
	}

	d.mu.Lock()
	d.conns[conn.id] = conn
	d.mu.Unlock()

	d.logger.Info("connection opened",
		slog.String("connection_id", conn.id.String()),
		slog.String("identity_id", string(identityID)),
		slog.String("room", string(roomCode)))
	return conn.id
}

// Disconnect removes a connection and treats the drop as an implicit leave
// of whatever room it was watching
func (d *Dispatcher) Disconnect(ctx context.Context, connID uuid.UUID) {
	d.mu.Lock()
	conn, ok := d.conns[connID]
	if ok {
		delete(d.conns, connID)
	}
	d.mu.Unlock()

	if !ok {
		return
	}

	d.logger.Info("connection closed",
		slog.String("connection_id", connID.String()),
		slog.String("identity_id", string(conn.identityID)))

	if _, err := d.rooms.Leave(ctx, conn.roomCode, conn.identityID); err != nil {
		d.logger.Error("implicit leave on disconnect failed",
			slog.String("room", string(conn.roomCode)),
			slog.Any("error", err))
	}
}

// RoomUpdated pushes the room's public snapshot to exactly its current
// members. Called by the room controller under the room's lock.
func (d *Dispatcher) RoomUpdated(r *model.Room) {
	hub := d.hubs.GetHub(r.Code)
	if hub == nil {
		return
	}

	data, err := json.Marshal(r.Snapshot())
	if err != nil {
		d.logger.Error("failed to marshal room snapshot",
			slog.String("room", string(r.Code)),
			slog.Any("error", err))
		return
	}

	hub.BroadcastTo(r.MemberIDs(), "snapshot", string(data))
}
