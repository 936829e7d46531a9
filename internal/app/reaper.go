package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/kinolink/server/internal/core"
)

// Reaper periodically deletes rooms that have been ownerless for longer
// than the retention window. This is the only path that permanently
// destroys a room and its owner token.
type Reaper struct {
	Store     *core.RoomStore
	Interval  time.Duration
	Retention time.Duration
}

func (r *Reaper) Run(ctx context.Context) {
	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()
	log.Info().Str("module", "app.reaper").Dur("interval", r.Interval).Dur("retention", r.Retention).Msg("reaper started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "app.reaper").Msg("reaper stopped")
			return
		case <-ticker.C:
			r.Sweep(time.Now())
		}
	}
}

// Sweep runs one pass against the store and returns how many rooms it
// removed. Split out from Run so the clock can be driven directly.
func (r *Reaper) Sweep(now time.Time) int {
	reaped := r.Store.DeleteExpired(now, r.Retention)
	for _, name := range reaped {
		log.Info().Str("module", "app.reaper").Str("room", string(name)).Msg("expired room deleted")
	}
	return len(reaped)
}
