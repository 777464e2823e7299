/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package relay

import (
	"encoding/json"
	"errors"

	"github.com/spf13/cast"

	"github.com/Seednode/happyhour/games"
	"github.com/Seednode/happyhour/session"
)

// frame is a client message as it arrives. Every scalar is loosely typed so
// that well-formed JSON carrying a number where text is expected still decodes.
type frame struct {
	Action     any             `json:"action"`
	RoomID     any             `json:"room_id"`
	Name       any             `json:"name"`
	GameType   any             `json:"game_type"`
	NumPlayers any             `json:"num_players"`
	Card       any             `json:"card"`
	Amount     any             `json:"amount"`
	TargetID   any             `json:"target_id"`
	Word       any             `json:"word"`
	Stroke     json.RawMessage `json:"stroke"`
}

// inbound is a decoded client message. Numeric fields are converted where
// they are used, since each action reports its own missing or bad values.
type inbound struct {
	Action     string
	RoomID     string
	Name       string
	GameType   string
	NumPlayers any
	Card       any
	Amount     any
	TargetID   any
	Word       string
	Stroke     json.RawMessage
}

// decode fails only on malformed JSON or a frame that is not an object.
func decode(data []byte) (*inbound, error) {
	var f frame
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}

	in := &inbound{
		Action:     text(f.Action),
		RoomID:     text(f.RoomID),
		Name:       text(f.Name),
		GameType:   text(f.GameType),
		NumPlayers: f.NumPlayers,
		Card:       f.Card,
		Amount:     f.Amount,
		TargetID:   f.TargetID,
		Word:       text(f.Word),
	}
	if string(f.Stroke) != "null" {
		in.Stroke = f.Stroke
	}

	return in, nil
}

// text renders a scalar as a string. Objects and arrays read as empty.
func text(v any) string {
	s, err := cast.ToStringE(v)
	if err != nil {
		return ""
	}

	return s
}

// Messages sent to clients
type errorMessage struct {
	Type    string `json:"type"` // "error"
	Message string `json:"message"`
}

type roomJoinedMessage struct {
	Type           string        `json:"type"` // "room_joined"
	RoomID         string        `json:"room_id"`
	PlayerID       int           `json:"player_id"`
	PlayerName     string        `json:"player_name"`
	NumPlayers     int           `json:"num_players"`
	CurrentPlayers int           `json:"current_players"`
	GameType       games.Variant `json:"game_type"`
}

type playerJoinedMessage struct {
	Type           string `json:"type"` // "player_joined"
	PlayerID       int    `json:"player_id"`
	PlayerName     string `json:"player_name"`
	CurrentPlayers int    `json:"current_players"`
	NumPlayers     int    `json:"num_players"`
}

type playerLeftMessage struct {
	Type           string `json:"type"` // "player_left"
	PlayerID       int    `json:"player_id"`
	PlayerName     string `json:"player_name"`
	CurrentPlayers int    `json:"current_players"`
}

type gameStartedMessage struct {
	Type     string        `json:"type"` // "game_started"
	GameType games.Variant `json:"game_type"`
	Message  string        `json:"message,omitempty"`
	Details  any           `json:"details,omitempty"`
}

type actionResultMessage struct {
	Type       string `json:"type"` // "action_result"
	Action     string `json:"action"`
	PlayerID   int    `json:"player_id"`
	PlayerName string `json:"player_name"`
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	Details    any    `json:"details,omitempty"`
}

type roomListMessage struct {
	Type  string            `json:"type"` // "room_list"
	Rooms []session.Summary `json:"rooms"`
}

type drawMessage struct {
	Type   string          `json:"type"` // "scribbles_draw"
	Stroke json.RawMessage `json:"stroke"`
}

type clearMessage struct {
	Type string `json:"type"` // "scribbles_clear"
}

var errMissingField = errors.New("missing field")

func encode(msg any) []byte {
	b, err := json.Marshal(msg)
	if err != nil {
		b, _ = json.Marshal(errorMessage{Type: "error", Message: "Internal error"})
	}

	return b
}
