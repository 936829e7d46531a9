package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/kinolink/server/internal/core"
	"github.com/kinolink/server/internal/domain"
)

type connEntry struct {
	Session core.SignalConnection
	Cancel  context.CancelFunc
	Rooms   map[domain.RoomName]struct{}
}

// Registry tracks live connections and which rooms each one is in.
// It owns no room state; ownership lives in the RoomStore.
type Registry struct {
	mu    sync.RWMutex
	conns map[domain.ConnID]*connEntry
}

func NewRegistry() *Registry {
	return &Registry{conns: make(map[domain.ConnID]*connEntry)}
}

func (r *Registry) Bind(conn domain.ConnID, sess core.SignalConnection, cancel context.CancelFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[conn] = &connEntry{
		Session: sess,
		Cancel:  cancel,
		Rooms:   make(map[domain.RoomName]struct{}),
	}
	log.Info().Str("module", "app.registry").Str("conn", string(conn)).Msg("bound connection")
}

func (r *Registry) Unbind(conn domain.ConnID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.conns, conn)
	log.Info().Str("module", "app.registry").Str("conn", string(conn)).Msg("unbound connection")
}

func (r *Registry) Session(conn domain.ConnID) (core.SignalConnection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.conns[conn]; ok {
		return e.Session, true
	}
	return nil, false
}

// MembershipCount is the gate behind the one-room-per-connection rule.
func (r *Registry) MembershipCount(conn domain.ConnID) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.conns[conn]; ok {
		return len(e.Rooms)
	}
	return 0
}

func (r *Registry) IsMember(conn domain.ConnID, room domain.RoomName) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.conns[conn]
	if !ok {
		return false
	}
	_, ok = e.Rooms[room]
	return ok
}

func (r *Registry) AddMembership(conn domain.ConnID, room domain.RoomName) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.conns[conn]
	if !ok {
		return false
	}
	e.Rooms[room] = struct{}{}
	log.Info().Str("module", "app.registry").Str("conn", string(conn)).Str("room", string(room)).Msg("joined room")
	return true
}

func (r *Registry) RemoveMembership(conn domain.ConnID, room domain.RoomName) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.conns[conn]
	if !ok {
		return false
	}
	if _, member := e.Rooms[room]; !member {
		return false
	}
	delete(e.Rooms, room)
	log.Info().Str("module", "app.registry").Str("conn", string(conn)).Str("room", string(room)).Msg("left room")
	return true
}

type memberSnap struct {
	Conn    domain.ConnID
	Session core.SignalConnection
}

// MembersOf snapshots the connections currently joined to the room.
func (r *Registry) MembersOf(room domain.RoomName) []memberSnap {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]memberSnap, 0, len(r.conns))
	for conn, e := range r.conns {
		if _, ok := e.Rooms[room]; ok {
			out = append(out, memberSnap{Conn: conn, Session: e.Session})
		}
	}
	return out
}

func (r *Registry) Cancel(conn domain.ConnID) bool {
	r.mu.RLock()
	e, ok := r.conns[conn]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	if e.Cancel != nil {
		e.Cancel()
	}
	log.Info().Str("module", "app.registry").Str("conn", string(conn)).Msg("canceled connection")
	return true
}
