package signal

import (
	"github.com/kinolink/server/internal/domain"
)

// Relay requests carry no ack: delivery is fire-and-forget and an
// unauthorized sender learns nothing from the silence.

func (ctl *SignalWSController) handleMediaEvent(conn domain.ConnID, req request) {
	ctl.Orch.MediaEvent(conn, domain.RoomName(req.RoomName), req.Data)
}

func (ctl *SignalWSController) handleStreamChange(conn domain.ConnID, req request) {
	ctl.Orch.StreamChange(conn, domain.RoomName(req.RoomName), req.Data)
}

func (ctl *SignalWSController) handleSyncRoomData(conn domain.ConnID, req request) {
	ctl.Orch.SyncRoomData(conn, domain.RoomName(req.RoomName))
}
