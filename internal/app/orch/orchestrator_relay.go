package orch

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/kinolink/server/internal/core"
	"github.com/kinolink/server/internal/domain"
)

// MediaEvent forwards an opaque playback-state payload from the room's
// owner to every other member. Senders that are not the current owner
// are dropped without an error; failures here must not leak who owns
// the room.
func (o *Orchestrator) MediaEvent(conn domain.ConnID, name domain.RoomName, payload json.RawMessage) core.RelayResult {
	return o.relayFromOwner("media_event", conn, name, payload)
}

// StreamChange carries playback-position and seek updates. Same
// authorization and fan-out rule as MediaEvent, distinct event name.
func (o *Orchestrator) StreamChange(conn domain.ConnID, name domain.RoomName, payload json.RawMessage) core.RelayResult {
	return o.relayFromOwner("stream_change", conn, name, payload)
}

func (o *Orchestrator) relayFromOwner(typ string, conn domain.ConnID, name domain.RoomName, payload json.RawMessage) core.RelayResult {
	room, ok := o.Store.Get(name)
	if !ok || room.OwnerConn != conn {
		log.Debug().Str("module", "orch").Str("conn", string(conn)).Str("room", string(name)).Str("event", typ).Msg("relay dropped, sender is not owner")
		return core.RelayResult{}
	}
	frame, ok := encodeEvent(typ, name, payload)
	if !ok {
		return core.RelayResult{}
	}
	return o.relay(name, conn, frame)
}

// SyncRoomData asks the room's owner to re-emit its current media
// state. Any member may request one; with no live owner it is a no-op.
func (o *Orchestrator) SyncRoomData(conn domain.ConnID, name domain.RoomName) {
	room, ok := o.Store.Get(name)
	if !ok || room.Orphaned() {
		log.Info().Str("module", "orch").Str("conn", string(conn)).Str("room", string(name)).Msg("resync request with no live owner")
		return
	}
	o.requestResync(name, room.OwnerConn)
}

// requestResync sends the owner a directed frame; the owner's client
// answers by issuing its own media_event.
func (o *Orchestrator) requestResync(name domain.RoomName, owner domain.ConnID) {
	sess, ok := o.Registry.Session(owner)
	if !ok {
		log.Warn().Str("module", "orch").Str("room", string(name)).Str("conn", string(owner)).Msg("owner has no live session")
		return
	}
	frame, ok := encodeEvent("sync_room_data", name, nil)
	if !ok {
		return
	}
	if err := sess.TrySend(frame); err != nil {
		log.Warn().Err(err).Str("module", "orch").Str("room", string(name)).Msg("resync request dropped")
	}
}

// relayRoomAvailable tells every other member the room has a live owner
// again (fresh create over a reaped name, or a reclaim).
func (o *Orchestrator) relayRoomAvailable(name domain.RoomName, from domain.ConnID) {
	frame, ok := encodeEvent("room_available", name, nil)
	if !ok {
		return
	}
	o.relay(name, from, frame)
}

// relay fans the frame out to the room's membership minus the sender.
// Sends are fire-and-forget; a full send buffer just drops the frame
// for that member.
func (o *Orchestrator) relay(name domain.RoomName, from domain.ConnID, frame core.Frame) core.RelayResult {
	res := core.RelayResult{}
	for _, m := range o.Registry.MembersOf(name) {
		if m.Conn == from {
			continue
		}
		if err := m.Session.TrySend(frame); err != nil {
			res.Dropped++
			continue
		}
		res.SentTo++
	}
	log.Debug().Str("module", "orch").Str("room", string(name)).Str("from", string(from)).Int("sent_to", res.SentTo).Int("dropped", res.Dropped).Msg("relay result")
	return res
}
