/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package games

import (
	"fmt"
)

// Variant identifies which rule engine a room runs.
type Variant string

const (
	TheMind        Variant = "the_mind"
	AzroksRepublic Variant = "azroks_republic"
	Scribbles      Variant = "team_supreme_scribbles"
)

// ReasonGameOver is reported by every mutating call once an engine is terminal.
const ReasonGameOver = "Game over"

// Bounds returns the inclusive player count range for a variant.
// A max of 0 means there is no upper bound.
func Bounds(v Variant) (min, max int, ok bool) {
	switch v {
	case TheMind:
		return 2, 4, true
	case AzroksRepublic:
		return 4, 4, true
	case Scribbles:
		return 1, 0, true
	}

	return 0, 0, false
}

// ValidPlayers reports whether n players may play v.
func ValidPlayers(v Variant, n int) error {
	min, max, ok := Bounds(v)
	if !ok {
		return fmt.Errorf("unknown game type %q", v)
	}

	switch {
	case min == max && n != min:
		return fmt.Errorf("%s requires exactly %d players, got %d", v, min, n)
	case n < min:
		return fmt.Errorf("%s requires at least %d players, got %d", v, min, n)
	case max > 0 && n > max:
		return fmt.Errorf("%s allows at most %d players, got %d", v, max, n)
	}

	return nil
}

// Action is a player action forwarded by the relay. Each variant reads only
// the fields its Kind needs.
type Action struct {
	Kind   string
	Card   int
	Amount int
	Target int
	Word   string
}

// Engine is the contract every game variant satisfies. Engines are
// synchronous, perform no I/O, and are not safe for concurrent use; the
// owning room serializes access.
type Engine interface {
	// StartRound begins the next round or level. It fails while a round is
	// active or once the game is over.
	StartRound() Result

	// Apply performs a variant-specific action for the given player slot.
	Apply(slot int, a Action) Result

	// PublicView is safe to send to every member of the room.
	PublicView() any

	// PrivateView holds what only the given slot may additionally see.
	PrivateView(slot int) any

	// Over reports whether the engine has reached a terminal state.
	Over() bool
}

// Drawer is implemented by engines with a single player allowed to emit
// canvas events.
type Drawer interface {
	Drawer() (slot int, ok bool)
}

// Factory builds a fresh engine for a room that has just filled.
type Factory func(v Variant, players int) (Engine, error)
