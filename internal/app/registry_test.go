package app

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kinolink/server/internal/core"
)

type nopConn struct{}

func (nopConn) TrySend(core.Frame) error { return nil }
func (nopConn) Close()                   {}

func TestMembershipLifecycle(t *testing.T) {
	r := NewRegistry()
	r.Bind("a", nopConn{}, nil)

	assert.Equal(t, 0, r.MembershipCount("a"))
	assert.False(t, r.IsMember("a", "movie-night"))

	assert.True(t, r.AddMembership("a", "movie-night"))
	assert.Equal(t, 1, r.MembershipCount("a"))
	assert.True(t, r.IsMember("a", "movie-night"))

	assert.True(t, r.RemoveMembership("a", "movie-night"))
	assert.Equal(t, 0, r.MembershipCount("a"))

	// Removing twice reports false, used for "Room not connected."
	assert.False(t, r.RemoveMembership("a", "movie-night"))
}

func TestUnknownConnection(t *testing.T) {
	r := NewRegistry()

	assert.Equal(t, 0, r.MembershipCount("ghost"))
	assert.False(t, r.AddMembership("ghost", "movie-night"))
	assert.False(t, r.RemoveMembership("ghost", "movie-night"))
	_, ok := r.Session("ghost")
	assert.False(t, ok)
	assert.False(t, r.Cancel("ghost"))
}

func TestMembersOf(t *testing.T) {
	r := NewRegistry()
	r.Bind("a", nopConn{}, nil)
	r.Bind("b", nopConn{}, nil)
	r.Bind("c", nopConn{}, nil)
	r.AddMembership("a", "movie-night")
	r.AddMembership("b", "movie-night")
	r.AddMembership("c", "other")

	members := r.MembersOf("movie-night")
	conns := make([]string, 0, len(members))
	for _, m := range members {
		conns = append(conns, string(m.Conn))
	}
	assert.ElementsMatch(t, []string{"a", "b"}, conns)
}

func TestUnbindDropsMemberships(t *testing.T) {
	r := NewRegistry()
	r.Bind("a", nopConn{}, nil)
	r.AddMembership("a", "movie-night")

	r.Unbind("a")
	assert.Equal(t, 0, r.MembershipCount("a"))
	assert.Empty(t, r.MembersOf("movie-night"))
}
