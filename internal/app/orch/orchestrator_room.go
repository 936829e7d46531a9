package orch

import (
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/kinolink/server/internal/core"
	"github.com/kinolink/server/internal/domain"
)

// CreateRoom registers a new room with the caller as owner and returns
// the freshly minted owner token to the caller only. Names are exact,
// case-sensitive keys; an orphaned room still blocks its name, reclaim
// has to go through JoinRoom.
func (o *Orchestrator) CreateRoom(conn domain.ConnID, name domain.RoomName) Result {
	if o.Registry.MembershipCount(conn) >= 1 {
		return fail(msgLeaveCurrentRoom)
	}

	room, err := domain.NewRoom(name, conn, newOwnerToken())
	if errors.Is(err, domain.ErrRoomNameTooLong) {
		return fail(msgRoomNameTooLong)
	}
	if err != nil {
		return fail(msgRoomNameTooShort)
	}
	if err := o.Store.Create(room); errors.Is(err, core.ErrRoomExists) {
		return fail(msgRoomExists)
	}
	o.Registry.AddMembership(conn, name)
	log.Info().Str("module", "orch").Str("conn", string(conn)).Str("room", string(name)).Msg("room created")

	// Participants may still hold a membership for this name if the
	// previous room with it was reaped under them. Tell them the room
	// is live again so they can ask the new owner for a resync.
	o.relayRoomAvailable(name, conn)

	return Result{OK: true, Message: msgRoomCreated, OwnerToken: room.OwnerToken}
}

// JoinRoom adds the caller to the room. A caller presenting the room's
// owner token becomes the owner no matter the room's current state;
// the token, not online presence, is authoritative.
func (o *Orchestrator) JoinRoom(conn domain.ConnID, name domain.RoomName, ownerToken string) Result {
	if o.Registry.MembershipCount(conn) >= 1 && !o.Registry.IsMember(conn, name) {
		return fail(msgLeaveCurrentRoom)
	}
	room, ok := o.Store.Get(name)
	if !ok {
		return fail(msgRoomNotFound)
	}
	if o.Registry.IsMember(conn, name) {
		return fail(msgAlreadyConnected)
	}

	if ownerToken != "" && ownerToken == room.OwnerToken {
		// The reaper may have taken the room between the read and here.
		if !o.Store.Update(name, func(r *domain.Room) { r.Claim(conn) }) {
			return fail(msgRoomNotFound)
		}
		o.Registry.AddMembership(conn, name)
		log.Info().Str("module", "orch").Str("conn", string(conn)).Str("room", string(name)).Msg("ownership reclaimed")
		o.relayRoomAvailable(name, conn)
		return Result{OK: true, Message: msgRoomJoined, IsOwner: true}
	}

	o.Registry.AddMembership(conn, name)
	if !room.Orphaned() {
		// Nudge the owner to re-emit its current media state so the
		// joiner catches up.
		o.requestResync(name, room.OwnerConn)
	}
	return Result{OK: true, Message: msgRoomJoined, IsOwner: room.OwnerConn == conn}
}

// LeaveRoom drops the caller's membership only. An explicit leave is a
// deliberate, reversible step: even when the owner leaves, the room is
// neither orphaned nor reassigned. Only a real disconnect orphans.
func (o *Orchestrator) LeaveRoom(conn domain.ConnID, name domain.RoomName) Result {
	room, ok := o.Store.Get(name)
	if !ok {
		return fail(msgRoomNotFound)
	}
	if !o.Registry.RemoveMembership(conn, name) {
		return fail(msgNotConnected)
	}
	return Result{OK: true, Message: msgRoomLeft, IsOwner: room.OwnerConn == conn}
}

// Disconnect orphans every room this connection owns, then discards the
// connection record. No early exit: correctness does not depend on the
// one-room gate having held.
func (o *Orchestrator) Disconnect(conn domain.ConnID) {
	now := time.Now()
	for _, name := range o.Store.OwnedBy(conn) {
		o.Store.Update(name, func(r *domain.Room) { r.Orphan(now) })
		log.Info().Str("module", "orch").Str("conn", string(conn)).Str("room", string(name)).Msg("room orphaned")
	}
	o.Registry.Unbind(conn)
}

// ListRooms snapshots all room names, active or orphaned.
func (o *Orchestrator) ListRooms() []domain.RoomName {
	return o.Store.Names()
}
