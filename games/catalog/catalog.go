/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package catalog maps variant tags to engine constructors.
package catalog

import (
	"fmt"

	"github.com/Seednode/happyhour/games"
	"github.com/Seednode/happyhour/games/republic"
	"github.com/Seednode/happyhour/games/scribbles"
	"github.com/Seednode/happyhour/games/themind"
)

// New builds an engine with default settings.
func New(v games.Variant, players int) (games.Engine, error) {
	return Factory(scribbles.DefaultRounds)(v, players)
}

// Factory returns a games.Factory bound to the configured scribbles round count.
func Factory(scribblesRounds int) games.Factory {
	return func(v games.Variant, players int) (games.Engine, error) {
		if err := games.ValidPlayers(v, players); err != nil {
			return nil, err
		}

		switch v {
		case games.TheMind:
			return themind.New(players, nil)
		case games.AzroksRepublic:
			return republic.New(players, nil)
		case games.Scribbles:
			return scribbles.New(players, scribblesRounds, nil)
		}

		return nil, fmt.Errorf("unknown game type %q", v)
	}
}
