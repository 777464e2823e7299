/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package session tracks rooms, their members, and which room each
// connection belongs to.
package session

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/Seednode/happyhour/games"
)

var (
	ErrBlankRoomID        = errors.New("room id is required")
	ErrRoomExists         = errors.New("room already exists")
	ErrInvalidPlayerCount = errors.New("invalid player count")
	ErrUnknownGameType    = errors.New("unknown game type")
	ErrRoomNotFound       = errors.New("room not found")
	ErrRoomFull           = errors.New("room is full")
	ErrGameInProgress     = errors.New("game already in progress")
	ErrAlreadyInRoom      = errors.New("already in a room")
	ErrNotInRoom          = errors.New("not in a room")
)

// JoinFunc runs under the room lock right after a member is seated. start is
// non-nil when that member filled the room and the engine's first round has
// just been started.
type JoinFunc func(r *Room, m *Member, start *games.Result)

// LeaveFunc runs under the room lock right after a member is removed.
type LeaveFunc func(r *Room, m *Member)

// Summary describes a room for listings.
type Summary struct {
	ID         string        `json:"room_id"`
	GameType   games.Variant `json:"game_type"`
	Players    int           `json:"current_players"`
	Capacity   int           `json:"num_players"`
	InProgress bool          `json:"in_progress"`
}

// Registry owns every room. mu guards both maps, which are always updated
// together. Lock order is registry, then room.
type Registry struct {
	factory games.Factory
	logf    func(format string, args ...any)

	mu    sync.Mutex
	rooms map[string]*Room
	conns map[string]*Room
}

// NewRegistry returns an empty registry. logf may be nil.
func NewRegistry(factory games.Factory, logf func(format string, args ...any)) *Registry {
	if logf == nil {
		logf = func(string, ...any) {}
	}

	return &Registry{
		factory: factory,
		logf:    logf,
		rooms:   make(map[string]*Room),
		conns:   make(map[string]*Room),
	}
}

// Create makes a new room and seats c in it.
func (reg *Registry) Create(id string, variant games.Variant, capacity int, name string, c Conn, fn JoinFunc) (*Room, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrBlankRoomID
	}

	if _, _, ok := games.Bounds(variant); !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownGameType, variant)
	}

	if err := games.ValidPlayers(variant, capacity); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPlayerCount, err)
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()

	if _, ok := reg.conns[c.ID()]; ok {
		return nil, ErrAlreadyInRoom
	}

	if _, ok := reg.rooms[id]; ok {
		return nil, fmt.Errorf("%w: %s", ErrRoomExists, id)
	}

	r := newRoom(id, variant, capacity)

	var err error
	r.Do(func() {
		err = reg.seatLocked(r, name, c, fn)
	})
	if err != nil {
		return nil, err
	}

	reg.rooms[id] = r

	reg.logf("ROOMS: Created room %s (%s, %d players)", id, variant, capacity)

	return r, nil
}

// Join seats c in an existing room that has not started yet.
func (reg *Registry) Join(id, name string, c Conn, fn JoinFunc) (*Room, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrBlankRoomID
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()

	if _, ok := reg.conns[c.ID()]; ok {
		return nil, ErrAlreadyInRoom
	}

	r, ok := reg.rooms[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRoomNotFound, id)
	}

	var err error
	r.Do(func() {
		switch {
		case r.StartedLocked():
			err = ErrGameInProgress
		case r.LenLocked() >= r.capacity:
			err = ErrRoomFull
		default:
			err = reg.seatLocked(r, name, c, fn)
		}
	})
	if err != nil {
		return nil, err
	}

	return r, nil
}

// seatLocked seats c, starts the engine if the room is now full, and runs fn.
// Both the registry and the room must be locked.
func (reg *Registry) seatLocked(r *Room, name string, c Conn, fn JoinFunc) error {
	m := r.seatLocked(name, c)

	var start *games.Result

	if r.LenLocked() == r.capacity {
		engine, err := reg.factory(r.variant, r.capacity)
		if err != nil {
			r.removeLocked(c.ID())

			return fmt.Errorf("could not create %s game: %w", r.variant, err)
		}

		r.engine = engine

		res := engine.StartRound()
		start = &res

		reg.logf("ROOMS: Started %s in room %s", r.variant, r.id)
	}

	reg.conns[c.ID()] = r

	if fn != nil {
		fn(r, m, start)
	}

	return nil
}

// Lookup returns the room connID is seated in.
func (reg *Registry) Lookup(connID string) (*Room, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	r, ok := reg.conns[connID]

	return r, ok
}

// Get returns the room with the given id.
func (reg *Registry) Get(id string) (*Room, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	r, ok := reg.rooms[id]

	return r, ok
}

// Leave removes connID from its room, deleting the room once it is empty.
// fn runs under the room lock after removal, even when the room is now empty.
func (reg *Registry) Leave(connID string, fn LeaveFunc) error {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	r, ok := reg.conns[connID]
	if !ok {
		return ErrNotInRoom
	}
	delete(reg.conns, connID)

	r.Do(func() {
		m, ok := r.removeLocked(connID)
		if !ok {
			return
		}

		reg.logf("ROOMS: %s left room %s", m.Name, r.id)

		if r.LenLocked() == 0 {
			delete(reg.rooms, r.id)

			reg.logf("ROOMS: Removed empty room %s", r.id)
		}

		if fn != nil {
			fn(r, m)
		}
	})

	return nil
}

// List summarizes every room, ordered by id.
func (reg *Registry) List() []Summary {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	out := make([]Summary, 0, len(reg.rooms))
	for _, r := range reg.rooms {
		r.Do(func() {
			out = append(out, Summary{
				ID:         r.id,
				GameType:   r.variant,
				Players:    r.LenLocked(),
				Capacity:   r.capacity,
				InProgress: r.StartedLocked(),
			})
		})
	}

	slices.SortFunc(out, func(a, b Summary) int {
		return strings.Compare(a.ID, b.ID)
	})

	return out
}

// Len returns the number of live rooms.
func (reg *Registry) Len() int {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	return len(reg.rooms)
}
