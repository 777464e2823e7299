/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package scribbles implements a drawing and guessing game. One player at a
// time draws a secret word while everyone else guesses.
package scribbles

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/Seednode/happyhour/games"
)

type State string

const (
	Waiting  State = "waiting"
	Drawing  State = "drawing"
	RoundEnd State = "round_end"
	GameOver State = "game_over"
)

const DefaultRounds = 3

type Game struct {
	rng  *rand.Rand
	fold cases.Caser

	players int
	rounds  int

	state  State
	round  int
	drawer int
	word   string
	scores []int

	words []string
	used  map[string]bool
}

// New returns a game in the waiting state. A rounds value below one falls
// back to DefaultRounds. A nil rng is replaced with one seeded from
// crypto/rand.
func New(players, rounds int, rng *rand.Rand) (*Game, error) {
	if players < 1 {
		return nil, fmt.Errorf("team supreme scribbles requires at least 1 player, got %d", players)
	}

	if rounds < 1 {
		rounds = DefaultRounds
	}

	if rng == nil {
		rng = games.NewRand()
	}

	return &Game{
		rng:     rng,
		fold:    cases.Fold(),
		players: players,
		rounds:  rounds,
		state:   Waiting,
		scores:  make([]int, players),
		words:   slices.Clone(Words),
		used:    make(map[string]bool),
	}, nil
}

func (g *Game) State() State {
	return g.state
}

func (g *Game) Round() int {
	return g.round
}

func (g *Game) Word() string {
	return g.word
}

func (g *Game) Scores() []int {
	return slices.Clone(g.scores)
}

func (g *Game) Over() bool {
	return g.state == GameOver
}

// Drawer returns the current drawer while a round is being drawn.
func (g *Game) Drawer() (int, bool) {
	if g.state != Drawing {
		return 0, false
	}

	return g.drawer, true
}

// StartRound hands the pen to the next player and picks a word. Wrapping back
// to the first player begins a new round; running past the last round ends
// the game.
func (g *Game) StartRound() games.Result {
	switch g.state {
	case GameOver:
		return games.Fail(games.ReasonGameOver)
	case Drawing:
		return games.Fail("A round is already in progress")
	case Waiting:
		g.drawer = 0
		g.round = 1
	default:
		g.drawer = (g.drawer + 1) % g.players
		if g.drawer == 0 {
			g.round++
		}
	}

	if g.round > g.rounds {
		g.state = GameOver
		g.word = ""

		return games.Succeed("Game over!", Final{GameOver: true, Scores: g.Scores()})
	}

	g.word = g.pickWord()
	g.state = Drawing

	return games.Succeed(fmt.Sprintf("Round %d started. Player %d is drawing.", g.round, g.drawer),
		DrawStart{Round: g.round, Drawer: g.drawer, Hint: hint(g.word)})
}

func (g *Game) Apply(slot int, a games.Action) games.Result {
	switch a.Kind {
	case "guess":
		return g.Guess(slot, a.Word)
	case "end_drawing":
		return g.EndDrawing()
	}

	return games.Fail("Unknown action: %s", a.Kind)
}

// Guess compares word against the secret word after trimming and case
// folding. A match scores for both the guesser and the drawer.
func (g *Game) Guess(slot int, word string) games.Result {
	if g.Over() {
		return games.Fail(games.ReasonGameOver)
	}
	if g.state != Drawing {
		return games.Fail("No round in progress")
	}
	if slot == g.drawer {
		return games.Fail("The drawer cannot guess")
	}
	if slot < 0 || slot >= g.players {
		return games.Fail("Invalid player ID")
	}

	if g.fold.String(strings.TrimSpace(word)) != g.fold.String(g.word) {
		return games.Fail("Incorrect guess")
	}

	g.scores[slot]++
	g.scores[g.drawer]++
	g.state = RoundEnd

	return games.Succeed(fmt.Sprintf("Correct! The word was '%s'", g.word),
		RoundOver{Word: g.word, Guesser: &slot, Drawer: g.drawer, Scores: g.Scores()})
}

// EndDrawing closes the round without a winner.
func (g *Game) EndDrawing() games.Result {
	if g.Over() {
		return games.Fail(games.ReasonGameOver)
	}
	if g.state != Drawing {
		return games.Fail("No round in progress")
	}

	g.state = RoundEnd

	return games.Succeed(fmt.Sprintf("Round ended. The word was '%s'", g.word),
		RoundOver{Word: g.word, Drawer: g.drawer, Scores: g.Scores()})
}

// pickWord avoids repeats until every word has been used once.
func (g *Game) pickWord() string {
	available := make([]string, 0, len(g.words))
	for _, w := range g.words {
		if !g.used[w] {
			available = append(available, w)
		}
	}

	if len(available) == 0 {
		clear(g.used)
		available = slices.Clone(g.words)
	}

	w := available[g.rng.IntN(len(available))]
	g.used[w] = true

	return w
}

// hint masks every letter, keeping spaces and hyphens.
func hint(word string) string {
	var b strings.Builder
	for i, r := range word {
		if i > 0 {
			b.WriteByte(' ')
		}
		switch {
		case r == ' ':
			b.WriteByte(' ')
		case r == '-':
			b.WriteByte('-')
		default:
			b.WriteByte('_')
		}
	}

	return b.String()
}
