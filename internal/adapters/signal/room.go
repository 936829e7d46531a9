package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/kinolink/server/internal/domain"
)

// tokenData is the optional request payload carrying an owner token.
// create_room ignores it; join_room uses it for the reclaim path.
type tokenData struct {
	OwnerToken string `json:"ownerToken"`
}

func unpackToken(data json.RawMessage) string {
	if len(data) == 0 {
		return ""
	}
	var d tokenData
	if err := json.Unmarshal(data, &d); err != nil {
		log.Warn().Err(err).Str("module", "signal").Msg("bad token payload")
		return ""
	}
	return d.OwnerToken
}

func (ctl *SignalWSController) handleCreateRoom(conn domain.ConnID, c *wsSignalConn, req request) {
	res := ctl.Orch.CreateRoom(conn, domain.RoomName(req.RoomName))

	out := ack{Type: "create_room", Success: res.OK, Message: res.Message}
	if res.OK {
		out.Data = struct {
			OwnerToken string `json:"ownerToken"`
		}{res.OwnerToken}
	}
	ctl.sendJSON(c, out)
}

func (ctl *SignalWSController) handleJoinRoom(conn domain.ConnID, c *wsSignalConn, req request) {
	res := ctl.Orch.JoinRoom(conn, domain.RoomName(req.RoomName), unpackToken(req.Data))

	out := ack{Type: "join_room", Success: res.OK, Message: res.Message}
	if res.OK {
		out.Data = struct {
			IsOwner bool `json:"isOwner"`
		}{res.IsOwner}
	}
	ctl.sendJSON(c, out)
}

func (ctl *SignalWSController) handleLeaveRoom(conn domain.ConnID, c *wsSignalConn, req request) {
	res := ctl.Orch.LeaveRoom(conn, domain.RoomName(req.RoomName))

	out := ack{Type: "leave_room", Success: res.OK, Message: res.Message}
	if res.OK {
		out.Data = struct {
			IsOwner bool `json:"isOwner"`
		}{res.IsOwner}
	}
	ctl.sendJSON(c, out)
}

func (ctl *SignalWSController) handleListRooms(c *wsSignalConn) {
	names := ctl.Orch.ListRooms()
	rooms := make([]string, 0, len(names))
	for _, n := range names {
		rooms = append(rooms, string(n))
	}

	ctl.sendJSON(c, ack{
		Type:    "list_rooms",
		Success: true,
		Data: struct {
			Rooms []string `json:"rooms"`
		}{rooms},
	})
}
