package room

import (
	"sync"

	"roomd/internal/model"
)

// lockTable hands out one mutex per room code so mutations on a room are
// serialized without stalling other rooms. Entries are dropped when the
// room is deleted; a handful of live locks is all this ever holds.
type lockTable struct {
	mu    sync.Mutex
	locks map[model.RoomCode]*sync.Mutex
}

func newLockTable() *lockTable {
	return &lockTable{locks: make(map[model.RoomCode]*sync.Mutex)}
}

// lock acquires the room's mutex and returns its unlock func. A waiter can
// win a mutex whose entry was forgotten while it slept; holding that stale
// mutex guards nothing once a fresh entry exists for the code, so the
// acquisition is re-checked against the table and retried.
func (t *lockTable) lock(code model.RoomCode) func() {
	for {
		t.mu.Lock()
		l, ok := t.locks[code]
		if !ok {
			l = &sync.Mutex{}
			t.locks[code] = l
		}
		t.mu.Unlock()

		l.Lock()

		t.mu.Lock()
		current := t.locks[code]
		t.mu.Unlock()
		if current == l {
			return l.Unlock
		}
		l.Unlock()
	}
}

// forget drops the lock entry for a deleted room. Safe to call while the
// lock is held; holders keep their reference.
func (t *lockTable) forget(code model.RoomCode) {
	t.mu.Lock()
	delete(t.locks, code)
	t.mu.Unlock()
}
