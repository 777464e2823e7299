/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package themind implements a cooperative game where players empty their
// hands onto a single pile in ascending order without talking.
package themind

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/Seednode/happyhour/games"
)

type State string

const (
	Setup         State = "setup"
	InProgress    State = "in_progress"
	LevelComplete State = "level_complete"
	GameWon       State = "game_won"
	GameLost      State = "game_lost"
)

const (
	MaxLevels = 12
	CardMin   = 1
	CardMax   = 100
)

// lives and throwing stars per player count
var playerConfig = map[int]struct{ lives, stars int }{
	2: {2, 1},
	3: {3, 1},
	4: {4, 1},
}

type Game struct {
	rng *rand.Rand

	players  int
	level    int
	state    State
	lives    int
	maxLives int
	stars    int
	maxStars int

	hands     [][]int
	pile      []int
	discarded []int
}

// New returns a game in the setup state. A nil rng is replaced with one
// seeded from crypto/rand.
func New(players int, rng *rand.Rand) (*Game, error) {
	cfg, ok := playerConfig[players]
	if !ok {
		return nil, fmt.Errorf("invalid number of players: must be 2-4, got %d", players)
	}

	if rng == nil {
		rng = games.NewRand()
	}

	return &Game{
		rng:      rng,
		players:  players,
		state:    Setup,
		lives:    cfg.lives,
		maxLives: cfg.lives,
		stars:    cfg.stars,
		maxStars: cfg.stars,
		hands:    make([][]int, players),
	}, nil
}

func (g *Game) State() State {
	return g.state
}

func (g *Game) Level() int {
	return g.level
}

func (g *Game) Lives() int {
	return g.lives
}

func (g *Game) Over() bool {
	return g.state == GameWon || g.state == GameLost
}

// Hand returns a copy of the slot's hand in ascending order.
func (g *Game) Hand(slot int) []int {
	if slot < 0 || slot >= g.players {
		return nil
	}

	return slices.Clone(g.hands[slot])
}

// StartRound advances to the next level and deals it.
func (g *Game) StartRound() games.Result {
	switch g.state {
	case GameWon, GameLost:
		return games.Fail(games.ReasonGameOver)
	case InProgress:
		return games.Fail("Level %d is already in progress", g.level)
	}

	g.level++
	g.deal()

	return games.Succeed(fmt.Sprintf("Level %d started!", g.level), LevelStart{Level: g.level})
}

func (g *Game) deal() {
	deck := make([]int, 0, CardMax-CardMin+1)
	for c := CardMin; c <= CardMax; c++ {
		deck = append(deck, c)
	}
	g.rng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})

	g.pile = nil
	g.discarded = nil

	for slot := range g.hands {
		hand := slices.Clone(deck[:g.level])
		deck = deck[g.level:]
		slices.Sort(hand)
		g.hands[slot] = hand
	}

	g.state = InProgress
}

func (g *Game) Apply(slot int, a games.Action) games.Result {
	switch a.Kind {
	case "play_card":
		return g.PlayCard(slot, a.Card)
	case "use_star":
		return g.UseStar()
	}

	return games.Fail("Unknown action: %s", a.Kind)
}

// PlayCard plays card from the slot's hand. A card below the pile top is an
// out-of-order failure. A legal card that jumps over cards still held by
// anyone discards them and also costs a life.
func (g *Game) PlayCard(slot, card int) games.Result {
	if g.Over() {
		return games.Fail(games.ReasonGameOver)
	}
	if g.state != InProgress {
		return games.Fail("Game is not in progress")
	}
	if slot < 0 || slot >= g.players {
		return games.Fail("Invalid player ID")
	}
	if !slices.Contains(g.hands[slot], card) {
		return games.Fail("Player %d does not have card %d", slot, card)
	}

	top := g.top()

	// The failed card stays in hand; only the cards it jumped are lost.
	if card < top {
		skipped := g.discardBetween(card, top)
		g.loseLife()

		if g.state == GameLost {
			return games.Fail("Card %d played out of order! Lost the last life.", card)
		}
		g.checkLevel()

		return games.Fail("Card %d played out of order! Lost a life, %d card(s) discarded.", card, len(skipped))
	}

	g.remove(slot, card)
	g.pile = append(g.pile, card)

	out := CardPlay{Card: card, Skipped: g.discardBetween(top, card)}
	if len(out.Skipped) > 0 {
		out.LifeLost = true
		g.loseLife()
	}
	out.Lives = g.lives

	if g.state == GameLost {
		return games.Succeed(fmt.Sprintf("Card %d played, but %v were skipped! No lives left.", card, out.Skipped), out)
	}

	out.LevelComplete = g.checkLevel()

	msg := fmt.Sprintf("Card %d played successfully!", card)
	if out.LifeLost {
		msg = fmt.Sprintf("Card %d played, but %v were skipped! Lost a life.", card, out.Skipped)
	}
	switch g.state {
	case GameWon:
		msg += " All levels complete!"
	case LevelComplete:
		msg += fmt.Sprintf(" Level %d complete!", g.level)
	}

	return games.Succeed(msg, out)
}

// UseStar spends a throwing star: every player discards their lowest card.
func (g *Game) UseStar() games.Result {
	if g.Over() {
		return games.Fail(games.ReasonGameOver)
	}
	if g.state != InProgress {
		return games.Fail("Game is not in progress")
	}
	if g.stars <= 0 {
		return games.Fail("No throwing stars left")
	}

	g.stars--

	out := StarUse{Discarded: make(map[int]int)}
	for slot, hand := range g.hands {
		if len(hand) == 0 {
			continue
		}
		lowest := hand[0]
		g.hands[slot] = hand[1:]
		g.discarded = append(g.discarded, lowest)
		out.Discarded[slot] = lowest
	}
	out.LevelComplete = g.checkLevel()

	return games.Succeed(fmt.Sprintf("Throwing star used! %d card(s) discarded.", len(out.Discarded)), out)
}

func (g *Game) top() int {
	if len(g.pile) == 0 {
		return 0
	}

	return g.pile[len(g.pile)-1]
}

func (g *Game) remove(slot, card int) {
	if i := slices.Index(g.hands[slot], card); i >= 0 {
		g.hands[slot] = slices.Delete(g.hands[slot], i, i+1)
	}
}

// discardBetween discards every held card strictly between lo and hi.
func (g *Game) discardBetween(lo, hi int) []int {
	var out []int
	for slot, hand := range g.hands {
		kept := hand[:0]
		for _, c := range hand {
			if c > lo && c < hi {
				out = append(out, c)
				continue
			}
			kept = append(kept, c)
		}
		g.hands[slot] = kept
	}
	slices.Sort(out)
	g.discarded = append(g.discarded, out...)

	return out
}

func (g *Game) loseLife() {
	g.lives--
	if g.lives <= 0 {
		g.lives = 0
		g.state = GameLost
	}
}

func (g *Game) checkLevel() bool {
	for _, hand := range g.hands {
		if len(hand) > 0 {
			return false
		}
	}

	if g.level >= MaxLevels {
		g.state = GameWon
	} else {
		g.state = LevelComplete
	}

	return true
}
