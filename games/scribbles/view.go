/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package scribbles

type DrawStart struct {
	Round  int    `json:"round"`
	Drawer int    `json:"drawer"`
	Hint   string `json:"hint"`
}

type RoundOver struct {
	Word    string `json:"word"`
	Guesser *int   `json:"guesser,omitempty"`
	Drawer  int    `json:"drawer"`
	Scores  []int  `json:"scores"`
}

type Final struct {
	GameOver bool  `json:"game_over"`
	Scores   []int `json:"final_scores"`
}

type PublicState struct {
	NumPlayers    int    `json:"num_players"`
	NumRounds     int    `json:"num_rounds"`
	CurrentRound  int    `json:"current_round"`
	State         State  `json:"state"`
	CurrentDrawer *int   `json:"current_drawer"`
	WordHint      string `json:"word_hint,omitempty"`
	Scores        []int  `json:"scores"`
}

type PrivateState struct {
	YourID   int    `json:"your_id"`
	YourWord string `json:"your_word,omitempty"`
}

func (g *Game) PublicView() any {
	view := PublicState{
		NumPlayers:   g.players,
		NumRounds:    g.rounds,
		CurrentRound: g.round,
		State:        g.state,
		Scores:       g.Scores(),
	}

	if drawer, ok := g.Drawer(); ok {
		view.CurrentDrawer = &drawer
		view.WordHint = hint(g.word)
	}

	return view
}

// PrivateView carries the secret word for the drawer only.
func (g *Game) PrivateView(slot int) any {
	view := PrivateState{YourID: slot}

	if drawer, ok := g.Drawer(); ok && drawer == slot {
		view.YourWord = g.word
	}

	return view
}
