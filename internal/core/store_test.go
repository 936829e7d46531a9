package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinolink/server/internal/domain"
)

func mustRoom(t *testing.T, name domain.RoomName, owner domain.ConnID) *domain.Room {
	t.Helper()
	room, err := domain.NewRoom(name, owner, "tok-"+string(name))
	require.NoError(t, err)
	return room
}

func TestCreateRejectsDuplicates(t *testing.T) {
	s := NewRoomStore()
	require.NoError(t, s.Create(mustRoom(t, "movie-night", "a")))

	err := s.Create(mustRoom(t, "movie-night", "b"))
	assert.ErrorIs(t, err, ErrRoomExists)

	// An orphaned room still blocks its name.
	ok := s.Update("movie-night", func(r *domain.Room) { r.Orphan(time.Now()) })
	require.True(t, ok)
	err = s.Create(mustRoom(t, "movie-night", "b"))
	assert.ErrorIs(t, err, ErrRoomExists)
}

func TestGetReturnsSnapshot(t *testing.T) {
	s := NewRoomStore()
	require.NoError(t, s.Create(mustRoom(t, "movie-night", "a")))

	snap, ok := s.Get("movie-night")
	require.True(t, ok)
	snap.OwnerConn = "intruder"

	stored, ok := s.Get("movie-night")
	require.True(t, ok)
	assert.Equal(t, domain.ConnID("a"), stored.OwnerConn)

	_, ok = s.Get("nope")
	assert.False(t, ok)
}

func TestUpdateMutatesInPlace(t *testing.T) {
	s := NewRoomStore()
	require.NoError(t, s.Create(mustRoom(t, "movie-night", "a")))

	assert.True(t, s.Update("movie-night", func(r *domain.Room) { r.Claim("b") }))
	room, _ := s.Get("movie-night")
	assert.Equal(t, domain.ConnID("b"), room.OwnerConn)

	assert.False(t, s.Update("nope", func(r *domain.Room) {}))
}

func TestOwnedBy(t *testing.T) {
	s := NewRoomStore()
	require.NoError(t, s.Create(mustRoom(t, "one", "a")))
	require.NoError(t, s.Create(mustRoom(t, "two", "a")))
	require.NoError(t, s.Create(mustRoom(t, "three", "b")))

	owned := s.OwnedBy("a")
	assert.ElementsMatch(t, []domain.RoomName{"one", "two"}, owned)
	assert.Empty(t, s.OwnedBy("nobody"))
}

func TestDeleteExpired(t *testing.T) {
	s := NewRoomStore()
	require.NoError(t, s.Create(mustRoom(t, "fresh", "a")))
	require.NoError(t, s.Create(mustRoom(t, "stale", "b")))

	retention := 72 * time.Hour
	orphanedAt := time.Now().Add(-retention - time.Minute)
	s.Update("stale", func(r *domain.Room) { r.Orphan(orphanedAt) })

	reaped := s.DeleteExpired(time.Now(), retention)
	assert.Equal(t, []domain.RoomName{"stale"}, reaped)
	assert.Equal(t, 1, s.Len())

	_, ok := s.Get("stale")
	assert.False(t, ok)
	_, ok = s.Get("fresh")
	assert.True(t, ok)
}
