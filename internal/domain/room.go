// Package domain contains entities without logic, just meta-data.
package domain

import (
	"errors"
	"time"
)

type (
	RoomName string
	ConnID   string
)

const MaxRoomNameLen = 64

var (
	ErrRoomNameEmpty   = errors.New("room name empty")
	ErrRoomNameTooLong = errors.New("room name too long")
)

// Room is the authoritative record for one watch-party room.
// Owner is the only connection allowed to broadcast playback state.
// While the owner is disconnected the record is kept around (orphaned)
// so the token holder can reclaim it.
type Room struct {
	Name       RoomName
	OwnerConn  ConnID
	OwnerToken string
	OrphanedAt time.Time
}

// NewRoom validates the name and avoids ad-hoc struct literals in adapters.
func NewRoom(name RoomName, owner ConnID, token string) (*Room, error) {
	if len(name) == 0 {
		return nil, ErrRoomNameEmpty
	}
	if len(name) > MaxRoomNameLen {
		return nil, ErrRoomNameTooLong
	}
	return &Room{Name: name, OwnerConn: owner, OwnerToken: token}, nil
}

// Orphaned reports whether the room currently has no live owner.
func (r *Room) Orphaned() bool {
	return r.OwnerConn == ""
}

// Orphan drops the owner binding and stamps the moment it happened.
func (r *Room) Orphan(now time.Time) {
	r.OwnerConn = ""
	r.OrphanedAt = now
}

// Claim binds a new owner and clears the orphan stamp.
func (r *Room) Claim(owner ConnID) {
	r.OwnerConn = owner
	r.OrphanedAt = time.Time{}
}

// Expired reports whether an orphaned room has outlived the retention window.
func (r *Room) Expired(now time.Time, retention time.Duration) bool {
	if !r.Orphaned() || r.OrphanedAt.IsZero() {
		return false
	}
	return now.Sub(r.OrphanedAt) >= retention
}
