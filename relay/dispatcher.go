/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package relay turns client frames into room operations and engine actions,
// and fans the results back out to every member of the room.
package relay

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cast"

	"github.com/Seednode/happyhour/games"
	"github.com/Seednode/happyhour/session"
)

const (
	defaultName       = "Player"
	defaultGameType   = games.TheMind
	defaultNumPlayers = 2
)

type field int

const (
	noField field = iota
	cardField
	amountField
	targetField
	wordField
)

// route maps a gameplay action to an engine call. An empty kind means
// StartRound.
type route struct {
	variant games.Variant
	kind    string
	field   field
}

var routes = map[string]route{
	"play_card":  {games.TheMind, "play_card", cardField},
	"use_star":   {games.TheMind, "use_star", noField},
	"next_level": {games.TheMind, "", noField},

	"invest_people":      {games.AzroksRepublic, "invest_people", amountField},
	"invest_improvement": {games.AzroksRepublic, "invest_improvement", noField},
	"use_tax":            {games.AzroksRepublic, "use_tax", targetField},
	"buy_powder_charge":  {games.AzroksRepublic, "buy_powder_charge", noField},
	"buy_azroks_dagger":  {games.AzroksRepublic, "buy_azroks_dagger", noField},
	"end_turn":           {games.AzroksRepublic, "end_turn", noField},
	"resolve_round":      {games.AzroksRepublic, "resolve_round", noField},
	"start_round":        {games.AzroksRepublic, "", noField},
	"next_round":         {games.AzroksRepublic, "", noField},

	"scribbles_start_round": {games.Scribbles, "", noField},
	"scribbles_guess":       {games.Scribbles, "guess", wordField},
	"scribbles_end_drawing": {games.Scribbles, "end_drawing", noField},
}

// Dispatcher handles decoded client frames. It is safe for concurrent use.
type Dispatcher struct {
	rooms *session.Registry
	logf  func(format string, args ...any)
}

// NewDispatcher returns a dispatcher backed by rooms. logf may be nil.
func NewDispatcher(rooms *session.Registry, logf func(format string, args ...any)) *Dispatcher {
	if logf == nil {
		logf = func(string, ...any) {}
	}

	return &Dispatcher{
		rooms: rooms,
		logf:  logf,
	}
}

// Handle processes one frame received from c.
func (d *Dispatcher) Handle(c session.Conn, data []byte) {
	in, err := decode(data)
	if err != nil {
		d.reply(c, "Invalid JSON")

		return
	}

	switch in.Action {
	case "create_room":
		d.createRoom(c, in)
	case "join_room":
		d.joinRoom(c, in)
	case "list_rooms":
		d.send(c, roomListMessage{Type: "room_list", Rooms: d.rooms.List()})
	case "scribbles_draw":
		if in.Stroke == nil {
			return
		}
		d.relayCanvas(c, drawMessage{Type: "scribbles_draw", Stroke: in.Stroke})
	case "scribbles_clear":
		d.relayCanvas(c, clearMessage{Type: "scribbles_clear"})
	default:
		rt, ok := routes[in.Action]
		if !ok {
			d.reply(c, fmt.Sprintf("Unknown action: %s", in.Action))

			return
		}
		d.play(c, in, rt)
	}
}

// Disconnect removes c from its room, if any.
func (d *Dispatcher) Disconnect(c session.Conn) {
	d.drop(c.ID())
}

func (d *Dispatcher) createRoom(c session.Conn, in *inbound) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = defaultName
	}

	variant := games.Variant(strings.TrimSpace(in.GameType))
	if variant == "" {
		variant = defaultGameType
	}

	capacity := defaultNumPlayers
	if in.NumPlayers != nil {
		n, err := cast.ToIntE(in.NumPlayers)
		if err != nil {
			d.reply(c, "Number of players must be a number")

			return
		}
		capacity = n
	}

	var failed []string
	_, err := d.rooms.Create(in.RoomID, variant, capacity, name, c, func(r *session.Room, m *session.Member, start *games.Result) {
		failed = d.announceJoinLocked(r, m, start)
	})
	if err != nil {
		d.reply(c, errorText(err, in.RoomID))

		return
	}

	d.drop(failed...)
}

func (d *Dispatcher) joinRoom(c session.Conn, in *inbound) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = defaultName
	}

	var failed []string
	_, err := d.rooms.Join(in.RoomID, name, c, func(r *session.Room, m *session.Member, start *games.Result) {
		failed = d.announceJoinLocked(r, m, start)
	})
	if err != nil {
		d.reply(c, errorText(err, in.RoomID))

		return
	}

	d.drop(failed...)
}

// announceJoinLocked tells the new member where they sit, tells everyone else
// who arrived, and if the room just filled, starts the game for all of them.
func (d *Dispatcher) announceJoinLocked(r *session.Room, m *session.Member, start *games.Result) []string {
	var failed []string

	count := r.LenLocked()

	if err := m.Conn.Send(encode(roomJoinedMessage{
		Type:           "room_joined",
		RoomID:         r.ID(),
		PlayerID:       m.Slot,
		PlayerName:     m.Name,
		NumPlayers:     r.Capacity(),
		CurrentPlayers: count,
		GameType:       r.Variant(),
	})); err != nil {
		failed = append(failed, m.Conn.ID())
	}

	joined := encode(playerJoinedMessage{
		Type:           "player_joined",
		PlayerID:       m.Slot,
		PlayerName:     m.Name,
		CurrentPlayers: count,
		NumPlayers:     r.Capacity(),
	})
	for _, other := range r.MembersLocked() {
		if other.Slot == m.Slot {
			continue
		}
		if err := other.Conn.Send(joined); err != nil {
			failed = append(failed, other.Conn.ID())
		}
	}

	if start == nil {
		return failed
	}

	failed = append(failed, d.broadcastLocked(r, gameStartedMessage{
		Type:     "game_started",
		GameType: r.Variant(),
		Message:  start.Message(),
		Details:  start.Details(),
	})...)

	return append(failed, d.sendStateLocked(r)...)
}

// play runs one gameplay action and reports it to the whole room.
func (d *Dispatcher) play(c session.Conn, in *inbound, rt route) {
	r, ok := d.rooms.Lookup(c.ID())
	if !ok {
		d.reply(c, "Not in a room")

		return
	}

	a, problem := rt.action(in)
	if problem != "" {
		d.reply(c, problem)

		return
	}

	var failed []string
	r.Do(func() {
		engine := r.EngineLocked()
		if engine == nil {
			problem = "Game not started"

			return
		}
		if r.Variant() != rt.variant {
			problem = fmt.Sprintf("Action %s is not available in %s", in.Action, r.Variant())

			return
		}

		m, ok := r.MemberLocked(c.ID())
		if !ok {
			problem = "Player not found"

			return
		}

		var res games.Result
		if rt.kind == "" {
			res = engine.StartRound()
		} else {
			res = engine.Apply(m.Slot, a)
		}

		d.logf("GAMES: %s sent %s in room %s: %s", m.Name, in.Action, r.ID(), res.Message())

		failed = d.broadcastLocked(r, actionResultMessage{
			Type:       "action_result",
			Action:     in.Action,
			PlayerID:   m.Slot,
			PlayerName: m.Name,
			Success:    res.OK(),
			Message:    res.Message(),
			Details:    res.Details(),
		})
		failed = append(failed, d.sendStateLocked(r)...)
	})

	if problem != "" {
		d.reply(c, problem)

		return
	}

	d.drop(failed...)
}

// action builds the engine action for rt, or returns why it cannot.
func (rt route) action(in *inbound) (games.Action, string) {
	a := games.Action{Kind: rt.kind}

	var err error

	switch rt.field {
	case cardField:
		if a.Card, err = requireInt(in.Card); err != nil {
			return a, fieldProblem("Card value", err)
		}
	case amountField:
		if a.Amount, err = requireInt(in.Amount); err != nil {
			return a, fieldProblem("Amount", err)
		}
	case targetField:
		if a.Target, err = requireInt(in.TargetID); err != nil {
			return a, fieldProblem("Target ID", err)
		}
	case wordField:
		if strings.TrimSpace(in.Word) == "" {
			return a, "Word is required"
		}
		a.Word = in.Word
	}

	return a, ""
}

func requireInt(v any) (int, error) {
	if v == nil {
		return 0, errMissingField
	}

	return cast.ToIntE(v)
}

func fieldProblem(label string, err error) string {
	if errors.Is(err, errMissingField) {
		return label + " required"
	}

	return label + " must be a number"
}

// relayCanvas forwards a transient canvas event from the current drawer to
// every other member. Events from anyone else are dropped.
func (d *Dispatcher) relayCanvas(c session.Conn, msg any) {
	r, ok := d.rooms.Lookup(c.ID())
	if !ok {
		d.reply(c, "Not in a room")

		return
	}

	var failed []string
	r.Do(func() {
		drawer, ok := r.EngineLocked().(games.Drawer)
		if !ok {
			return
		}

		slot, drawing := drawer.Drawer()
		if !drawing {
			return
		}

		m, ok := r.MemberLocked(c.ID())
		if !ok || m.Slot != slot {
			return
		}

		b := encode(msg)
		for _, other := range r.MembersLocked() {
			if other.Slot == slot {
				continue
			}
			if err := other.Conn.Send(b); err != nil {
				failed = append(failed, other.Conn.ID())
			}
		}
	})

	d.drop(failed...)
}

// broadcastLocked sends msg to every member and returns the ids whose
// connection refused it.
func (d *Dispatcher) broadcastLocked(r *session.Room, msg any) []string {
	var failed []string

	b := encode(msg)
	for _, m := range r.MembersLocked() {
		if err := m.Conn.Send(b); err != nil {
			failed = append(failed, m.Conn.ID())
		}
	}

	return failed
}

// sendStateLocked sends each member its own game_state.
func (d *Dispatcher) sendStateLocked(r *session.Room) []string {
	views, err := projectLocked(r)
	if err != nil {
		d.logf("ERROR: Could not render state for room %s: %v", r.ID(), err)

		return nil
	}

	var failed []string
	for _, m := range r.MembersLocked() {
		if err := m.Conn.Send(views[m.Slot]); err != nil {
			failed = append(failed, m.Conn.ID())
		}
	}

	return failed
}

// drop removes each connection from its room as if it had disconnected.
// Must not be called while holding a room lock.
func (d *Dispatcher) drop(connIDs ...string) {
	for _, id := range connIDs {
		var failed []string

		err := d.rooms.Leave(id, func(r *session.Room, m *session.Member) {
			if r.LenLocked() == 0 {
				return
			}

			failed = d.broadcastLocked(r, playerLeftMessage{
				Type:           "player_left",
				PlayerID:       m.Slot,
				PlayerName:     m.Name,
				CurrentPlayers: r.LenLocked(),
			})
			if r.StartedLocked() {
				failed = append(failed, d.sendStateLocked(r)...)
			}
		})
		if err != nil {
			continue
		}

		d.drop(failed...)
	}
}

func (d *Dispatcher) send(c session.Conn, msg any) {
	if err := c.Send(encode(msg)); err != nil {
		d.drop(c.ID())
	}
}

func (d *Dispatcher) reply(c session.Conn, text string) {
	d.send(c, errorMessage{Type: "error", Message: text})
}

// errorText turns registry errors into the messages clients display.
func errorText(err error, roomID string) string {
	roomID = strings.TrimSpace(roomID)

	switch {
	case errors.Is(err, session.ErrBlankRoomID):
		return "Room ID is required"
	case errors.Is(err, session.ErrRoomExists):
		return fmt.Sprintf("Room '%s' already exists", roomID)
	case errors.Is(err, session.ErrRoomNotFound):
		return fmt.Sprintf("Room '%s' not found", roomID)
	case errors.Is(err, session.ErrRoomFull):
		return "Room is full"
	case errors.Is(err, session.ErrGameInProgress):
		return "Game already in progress"
	case errors.Is(err, session.ErrAlreadyInRoom):
		return "Already in a room"
	case errors.Is(err, session.ErrUnknownGameType):
		return "Unknown game type: " + strings.TrimPrefix(err.Error(), session.ErrUnknownGameType.Error()+": ")
	case errors.Is(err, session.ErrInvalidPlayerCount):
		return "Invalid number of players: " + strings.TrimPrefix(err.Error(), session.ErrInvalidPlayerCount.Error()+": ")
	}

	return err.Error()
}
