package signal

import "time"

func (ctl *SignalWSController) handleTimeSync(c *wsSignalConn) {
	ctl.sendJSON(c, ack{
		Type:    "time_sync",
		Success: true,
		Data: struct {
			ServerTime int64 `json:"serverTime"`
		}{time.Now().UnixMilli()},
	})
}

func (ctl *SignalWSController) handlePing(c *wsSignalConn) {
	resp := struct {
		Type string `json:"type"`
	}{
		Type: "pong",
	}
	ctl.sendJSON(c, resp)
}
