// Package orch coordinates room lifecycle and event relay between the
// connection registry and the room store.
package orch

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/kinolink/server/internal/app"
	"github.com/kinolink/server/internal/core"
	"github.com/kinolink/server/internal/domain"
)

type Orchestrator struct {
	Registry *app.Registry
	Store    *core.RoomStore
}

// Result is the acknowledgment every lifecycle operation resolves to.
// Failures travel on the same channel as successes, never as relay events.
type Result struct {
	OK         bool
	Message    string
	OwnerToken string
	IsOwner    bool
}

const (
	msgLeaveCurrentRoom = "Leave current room first."
	msgRoomNameTooShort = "Room name must at least be 1 characters long."
	msgRoomNameTooLong  = "Room name too long."
	msgRoomExists       = "Room already exists."
	msgRoomNotFound     = "Room does not exist."
	msgAlreadyConnected = "Room already connected."
	msgNotConnected     = "Room not connected."

	msgRoomCreated = "Room created."
	msgRoomJoined  = "Room joined."
	msgRoomLeft    = "Room left."
)

func fail(msg string) Result {
	return Result{OK: false, Message: msg}
}

// newOwnerToken mints the secret returned to a room creator. Possession
// of this value is the sole authorization for reclaiming ownership.
func newOwnerToken() string {
	return uuid.NewString()
}

// event is the envelope for server-initiated relay frames.
type event struct {
	Type     string          `json:"type"`
	RoomName domain.RoomName `json:"roomName"`
	Data     json.RawMessage `json:"data,omitempty"`
}

func encodeEvent(typ string, room domain.RoomName, data json.RawMessage) (core.Frame, bool) {
	b, err := json.Marshal(event{Type: typ, RoomName: room, Data: data})
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Str("room", string(room)).Msg("encode event")
		return nil, false
	}
	return b, true
}
