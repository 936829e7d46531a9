package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinolink/server/internal/core"
	"github.com/kinolink/server/internal/domain"
)

func TestSweepRespectsRetentionWindow(t *testing.T) {
	store := core.NewRoomStore()
	room, err := domain.NewRoom("movie-night", "a", "tok")
	require.NoError(t, err)
	require.NoError(t, store.Create(room))

	retention := 72 * time.Hour
	reaper := &Reaper{Store: store, Interval: time.Hour, Retention: retention}

	orphanedAt := time.Now()
	store.Update("movie-night", func(r *domain.Room) { r.Orphan(orphanedAt) })

	// Any sweep before the window elapses must keep the room.
	assert.Equal(t, 0, reaper.Sweep(orphanedAt.Add(retention-time.Second)))
	_, ok := store.Get("movie-night")
	assert.True(t, ok)

	assert.Equal(t, 1, reaper.Sweep(orphanedAt.Add(retention)))
	_, ok = store.Get("movie-night")
	assert.False(t, ok)
}

func TestSweepIgnoresOwnedRooms(t *testing.T) {
	store := core.NewRoomStore()
	room, err := domain.NewRoom("movie-night", "a", "tok")
	require.NoError(t, err)
	require.NoError(t, store.Create(room))

	reaper := &Reaper{Store: store, Interval: time.Hour, Retention: 72 * time.Hour}

	assert.Equal(t, 0, reaper.Sweep(time.Now().Add(1000*time.Hour)))
	_, ok := store.Get("movie-night")
	assert.True(t, ok)
}
