/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package session

import (
	"slices"
	"sync"
	"time"

	"github.com/Seednode/happyhour/games"
)

// Conn is the outbound half of a client connection. Send must not block; it
// returns an error when the connection is closed or its buffer is full.
type Conn interface {
	ID() string
	Send(msg []byte) error
}

// Member is a seated player.
type Member struct {
	Slot int
	Name string
	Conn Conn
}

// Room holds one game instance and its members. Fields are guarded by mu;
// anything ending in Locked must be called from inside Do.
type Room struct {
	id       string
	variant  games.Variant
	capacity int
	created  time.Time

	mu      sync.Mutex
	members map[int]*Member
	engine  games.Engine
}

func newRoom(id string, variant games.Variant, capacity int) *Room {
	return &Room{
		id:       id,
		variant:  variant,
		capacity: capacity,
		created:  time.Now(),
		members:  make(map[int]*Member, capacity),
	}
}

func (r *Room) ID() string {
	return r.id
}

func (r *Room) Variant() games.Variant {
	return r.variant
}

func (r *Room) Capacity() int {
	return r.capacity
}

func (r *Room) Created() time.Time {
	return r.created
}

// Do runs fn while holding the room lock.
func (r *Room) Do(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	fn()
}

// EngineLocked returns the room's engine, or nil before the room has filled.
func (r *Room) EngineLocked() games.Engine {
	return r.engine
}

func (r *Room) StartedLocked() bool {
	return r.engine != nil
}

func (r *Room) LenLocked() int {
	return len(r.members)
}

// MembersLocked returns members ordered by slot.
func (r *Room) MembersLocked() []*Member {
	out := make([]*Member, 0, len(r.members))
	for _, m := range r.members {
		out = append(out, m)
	}
	slices.SortFunc(out, func(a, b *Member) int {
		return a.Slot - b.Slot
	})

	return out
}

func (r *Room) MemberLocked(connID string) (*Member, bool) {
	for _, m := range r.members {
		if m.Conn.ID() == connID {
			return m, true
		}
	}

	return nil, false
}

// NamesLocked maps every occupied slot to its player name.
func (r *Room) NamesLocked() map[int]string {
	out := make(map[int]string, len(r.members))
	for slot, m := range r.members {
		out[slot] = m.Name
	}

	return out
}

// seatLocked places a new member in the lowest free slot.
func (r *Room) seatLocked(name string, c Conn) *Member {
	slot := 0
	for {
		if _, taken := r.members[slot]; !taken {
			break
		}
		slot++
	}

	m := &Member{Slot: slot, Name: name, Conn: c}
	r.members[slot] = m

	return m
}

func (r *Room) removeLocked(connID string) (*Member, bool) {
	m, ok := r.MemberLocked(connID)
	if !ok {
		return nil, false
	}

	delete(r.members, m.Slot)

	return m, true
}
