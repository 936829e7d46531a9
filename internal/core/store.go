package core

import (
	"errors"
	"sync"
	"time"

	"github.com/kinolink/server/internal/domain"
)

var ErrRoomExists = errors.New("room exists")

// RoomStore is the threadsafe in-memory registry of rooms.
// A single write lock serializes every mutation, so request handlers
// and the reaper never observe a half-updated room.
type RoomStore struct {
	mu    sync.RWMutex
	rooms map[domain.RoomName]*domain.Room
}

func NewRoomStore() *RoomStore {
	return &RoomStore{rooms: make(map[domain.RoomName]*domain.Room)}
}

// Create inserts the room, failing if the name is already taken.
// Orphaned rooms count as taken: reclaim goes through join, not create.
func (s *RoomStore) Create(room *domain.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[room.Name]; ok {
		return ErrRoomExists
	}
	s.rooms[room.Name] = room
	return nil
}

// Get returns a snapshot copy of the room, so readers never share
// mutable state with the write path.
func (s *RoomStore) Get(name domain.RoomName) (domain.Room, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	room, ok := s.rooms[name]
	if !ok {
		return domain.Room{}, false
	}
	return *room, true
}

// Update mutates the room in place under the write lock.
// Reports false if the room is gone.
func (s *RoomStore) Update(name domain.RoomName, fn func(*domain.Room)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[name]
	if !ok {
		return false
	}
	fn(room)
	return true
}

func (s *RoomStore) Delete(name domain.RoomName) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, name)
}

func (s *RoomStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rooms)
}

// Names returns a snapshot of all room names, active or orphaned.
func (s *RoomStore) Names() []domain.RoomName {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.RoomName, 0, len(s.rooms))
	for name := range s.rooms {
		out = append(out, name)
	}
	return out
}

// OwnedBy returns every room currently owned by the connection.
// The membership gate keeps this at most one in practice, but the
// disconnect path stays correct even if that were ever violated.
func (s *RoomStore) OwnedBy(conn domain.ConnID) []domain.RoomName {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.RoomName, 0, 1)
	for name, room := range s.rooms {
		if room.OwnerConn == conn {
			out = append(out, name)
		}
	}
	return out
}

// DeleteExpired removes, in one critical section, every orphaned room
// whose retention window has elapsed, and returns their names.
func (s *RoomStore) DeleteExpired(now time.Time, retention time.Duration) []domain.RoomName {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.RoomName
	for name, room := range s.rooms {
		if room.Expired(now, retention) {
			delete(s.rooms, name)
			out = append(out, name)
		}
	}
	return out
}
